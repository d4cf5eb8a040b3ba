package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrEventAlreadyProcessed signals a duplicate webhook delivery.
var ErrEventAlreadyProcessed = errors.New("payment event already processed")

type PaymentEventRepo interface {
	// Record durably stores the gateway event before any processing. A second
	// delivery of the same event id returns ErrEventAlreadyProcessed.
	Record(ctx context.Context, eventID, eventType string) (*PaymentEvent, error)
	AttachBooking(ctx context.Context, eventID string, bookingID primitive.ObjectID) error
}

type mongoPaymentEventRepo struct {
	crud *Crud[PaymentEvent]
}

func NewPaymentEventRepo(mdb *MongodbRepo) PaymentEventRepo {
	return &mongoPaymentEventRepo{crud: NewCrud[PaymentEvent](mdb, PaymentEventsCol)}
}

func (r *mongoPaymentEventRepo) Record(ctx context.Context, eventID, eventType string) (*PaymentEvent, error) {
	event := &PaymentEvent{
		EventID:    eventID,
		Type:       eventType,
		ReceivedAt: time.Now(),
	}
	created, err := r.crud.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEventAlreadyProcessed
		}
		return nil, err
	}
	return created, nil
}

func (r *mongoPaymentEventRepo) AttachBooking(ctx context.Context, eventID string, bookingID primitive.ObjectID) error {
	_, err := r.crud.UpdateOne(ctx, bson.M{"event_id": eventID}, bson.M{
		"$set": bson.M{"booking": bookingID},
	})
	return err
}
