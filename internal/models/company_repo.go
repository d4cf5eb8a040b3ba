package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type CompanyRepo interface {
	Create(ctx context.Context, company *Company) (*Company, error)
	FindOne(ctx context.Context, filter bson.M) (*Company, error)
	List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Company, int64, error)
	Update(ctx context.Context, filter bson.M, update bson.M) (*Company, error)
	Delete(ctx context.Context, filter bson.M) (bool, error)
}

type mongoCompanyRepo struct {
	crud *Crud[Company]
}

func NewCompanyRepo(mdb *MongodbRepo) CompanyRepo {
	return &mongoCompanyRepo{crud: NewCrud[Company](mdb, CompaniesCol)}
}

func (r *mongoCompanyRepo) Create(ctx context.Context, company *Company) (*Company, error) {
	return r.crud.InsertOne(ctx, company)
}

func (r *mongoCompanyRepo) FindOne(ctx context.Context, filter bson.M) (*Company, error) {
	return r.crud.FindOne(ctx, filter)
}

func (r *mongoCompanyRepo) List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Company, int64, error) {
	return r.crud.Find(ctx, filter, opts)
}

func (r *mongoCompanyRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*Company, error) {
	return r.crud.UpdateOne(ctx, filter, update)
}

func (r *mongoCompanyRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return r.crud.DeleteOne(ctx, filter)
}
