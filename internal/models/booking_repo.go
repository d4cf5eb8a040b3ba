package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type BookingRepo interface {
	Create(ctx context.Context, booking *Booking) (*Booking, error)
	FindOne(ctx context.Context, filter bson.M) (*Booking, error)
	List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Booking, int64, error)
	Update(ctx context.Context, filter bson.M, update bson.M) (*Booking, error)
	Delete(ctx context.Context, filter bson.M) (bool, error)
}

type mongoBookingRepo struct {
	crud *Crud[Booking]
}

func NewBookingRepo(mdb *MongodbRepo) BookingRepo {
	return &mongoBookingRepo{crud: NewCrud[Booking](mdb, BookingsCol)}
}

func (r *mongoBookingRepo) Create(ctx context.Context, booking *Booking) (*Booking, error) {
	return r.crud.InsertOne(ctx, booking)
}

func (r *mongoBookingRepo) FindOne(ctx context.Context, filter bson.M) (*Booking, error) {
	return r.crud.FindOne(ctx, filter)
}

func (r *mongoBookingRepo) List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Booking, int64, error) {
	return r.crud.Find(ctx, filter, opts)
}

func (r *mongoBookingRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*Booking, error) {
	return r.crud.UpdateOne(ctx, filter, update)
}

func (r *mongoBookingRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return r.crud.DeleteOne(ctx, filter)
}
