package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomTripRequest is a traveler-submitted request for a tailor-made trip.
type CustomTripRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Destination string             `bson:"destination" json:"destination" validate:"required"`
	StartDate   time.Time          `bson:"start_date" json:"start_date" validate:"required"`
	EndDate     time.Time          `bson:"end_date" json:"end_date" validate:"required"`
	People      int                `bson:"people" json:"people" validate:"required,min=1"`
	Budget      int64              `bson:"budget" json:"budget" validate:"required,min=0"`
	Style       string             `bson:"style,omitempty" json:"style,omitempty"`
	MustHaves   []string           `bson:"must_haves,omitempty" json:"must_haves,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
