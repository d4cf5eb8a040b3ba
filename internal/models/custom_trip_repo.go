package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomTripRepo interface {
	Create(ctx context.Context, req *CustomTripRequest) (*CustomTripRequest, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]*CustomTripRequest, int64, error)
}

type mongoCustomTripRepo struct {
	crud *Crud[CustomTripRequest]
}

func NewCustomTripRepo(mdb *MongodbRepo) CustomTripRepo {
	return &mongoCustomTripRepo{crud: NewCrud[CustomTripRequest](mdb, CustomTripsCol)}
}

func (r *mongoCustomTripRepo) Create(ctx context.Context, req *CustomTripRequest) (*CustomTripRequest, error) {
	return r.crud.InsertOne(ctx, req)
}

func (r *mongoCustomTripRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]*CustomTripRequest, int64, error) {
	return r.crud.Find(ctx, bson.M{"user": userID}, opts)
}
