package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentEvent is the webhook idempotency ledger. EventID carries the gateway
// event id and is unique-indexed; a duplicate delivery fails the insert and is
// acknowledged without reprocessing.
type PaymentEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    string             `bson:"event_id" json:"event_id"`
	Type       string             `bson:"type" json:"type"`
	Booking    primitive.ObjectID `bson:"booking,omitempty" json:"booking,omitempty"`
	ReceivedAt time.Time          `bson:"received_at" json:"received_at"`
}
