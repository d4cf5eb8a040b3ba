package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Crud is the shared find/create/update/delete surface every entity repo is
// built on. Filters are composed by the caller, which is how tenant scoping
// reaches every query: the services pass the already-scoped filter down.
type Crud[T any] struct {
	col *mongo.Collection
}

func NewCrud[T any](mdb *MongodbRepo, colName string) *Crud[T] {
	return &Crud[T]{col: mdb.Collection(colName)}
}

func (c *Crud[T]) InsertOne(ctx context.Context, doc *T) (*T, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Crud[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := c.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding document: %v", err)
	}
	return &doc, nil
}

func (c *Crud[T]) Find(ctx context.Context, filter bson.M, opts ListOptions) ([]*T, int64, error) {
	total, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting documents: %v", err)
	}

	cursor, err := c.col.Find(ctx, filter, opts.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("error finding documents: %v", err)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("error decoding document: %v", err)
		}
		docs = append(docs, &doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return docs, total, nil
}

// UpdateOne applies update to the first document matching filter and returns
// the post-update document, or nil when nothing matched.
func (c *Crud[T]) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := c.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error updating document: %v", err)
	}
	return &doc, nil
}

// DeleteOne removes the first document matching filter and reports whether a
// document was removed.
func (c *Crud[T]) DeleteOne(ctx context.Context, filter bson.M) (bool, error) {
	res, err := c.col.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error deleting document: %v", err)
	}
	return res.DeletedCount > 0, nil
}

func (c *Crud[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	return c.col.CountDocuments(ctx, filter)
}
