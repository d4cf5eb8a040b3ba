package models

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const (
	UsersCol         = "users"
	CompaniesCol     = "companies"
	CategoriesCol    = "categories"
	TripsCol         = "trips"
	BookingsCol      = "bookings"
	PaymentEventsCol = "payment_events"
	CustomTripsCol   = "custom_trip_requests"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) Collection(name string) *mongo.Collection {
	return mdb.mongodbClient.Database(mdb.dbName).Collection(name)
}

// EnsureIndexes creates the unique indexes the services rely on: user emails,
// company slugs and the payment event ledger that deduplicates webhook
// deliveries.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		UsersCol:         {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		CompaniesCol:     {Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		PaymentEventsCol: {Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
	}

	for col, model := range indexes {
		if _, err := mdb.Collection(col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %v", col, err)
		}
	}
	return nil
}
