package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type CategoryRepo interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	FindOne(ctx context.Context, filter bson.M) (*Category, error)
	List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Category, int64, error)
	Update(ctx context.Context, filter bson.M, update bson.M) (*Category, error)
	Delete(ctx context.Context, filter bson.M) (bool, error)
}

type mongoCategoryRepo struct {
	crud *Crud[Category]
}

func NewCategoryRepo(mdb *MongodbRepo) CategoryRepo {
	return &mongoCategoryRepo{crud: NewCrud[Category](mdb, CategoriesCol)}
}

func (r *mongoCategoryRepo) Create(ctx context.Context, category *Category) (*Category, error) {
	return r.crud.InsertOne(ctx, category)
}

func (r *mongoCategoryRepo) FindOne(ctx context.Context, filter bson.M) (*Category, error) {
	return r.crud.FindOne(ctx, filter)
}

func (r *mongoCategoryRepo) List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Category, int64, error) {
	return r.crud.Find(ctx, filter, opts)
}

func (r *mongoCategoryRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*Category, error) {
	return r.crud.UpdateOne(ctx, filter, update)
}

func (r *mongoCategoryRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return r.crud.DeleteOne(ctx, filter)
}
