package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindOne(ctx context.Context, filter bson.M) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter bson.M, opts ListOptions) ([]*User, int64, error)
	Update(ctx context.Context, filter bson.M, update bson.M) (*User, error)
	Delete(ctx context.Context, filter bson.M) (bool, error)
	AddToWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*User, error)
	RemoveFromWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*User, error)
}

type mongoUserRepo struct {
	crud *Crud[User]
}

func NewUserRepo(mdb *MongodbRepo) UserRepo {
	return &mongoUserRepo{crud: NewCrud[User](mdb, UsersCol)}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *User) (*User, error) {
	return r.crud.InsertOne(ctx, user)
}

func (r *mongoUserRepo) FindOne(ctx context.Context, filter bson.M) (*User, error) {
	return r.crud.FindOne(ctx, filter)
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.crud.FindOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) List(ctx context.Context, filter bson.M, opts ListOptions) ([]*User, int64, error) {
	return r.crud.Find(ctx, filter, opts)
}

func (r *mongoUserRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*User, error) {
	return r.crud.UpdateOne(ctx, filter, update)
}

func (r *mongoUserRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return r.crud.DeleteOne(ctx, filter)
}

func (r *mongoUserRepo) AddToWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*User, error) {
	return r.crud.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"wishlist": tripID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

func (r *mongoUserRepo) RemoveFromWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*User, error) {
	return r.crud.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"wishlist": tripID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}
