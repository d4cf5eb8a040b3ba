package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripType string

const (
	TripAdventure  TripType = "adventure"
	TripCultural   TripType = "cultural"
	TripRelaxation TripType = "relaxation"
	TripFamily     TripType = "family"
	TripLuxury     TripType = "luxury"
)

// AvailabilitySlot is a single departure date with finite capacity.
// Invariant: 0 <= AvailableSpots <= SpotsNumber at all times observable
// between updates; the counter is mutated only through the conditional
// reserve/release updates in the trip repo.
type AvailabilitySlot struct {
	Date           time.Time `bson:"date" json:"date" validate:"required"`
	AvailableSpots int       `bson:"available_spots" json:"available_spots"`
	SpotsNumber    int       `bson:"spots_number" json:"spots_number" validate:"required,min=1"`
}

type TripRouteStop struct {
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Duration string `bson:"duration,omitempty" json:"duration,omitempty"`
	Activity string `bson:"activity,omitempty" json:"activity,omitempty"`
	Icon     string `bson:"icon,omitempty" json:"icon,omitempty"`
}

type ItineraryDay struct {
	Day         string `bson:"day" json:"day"`
	Description string `bson:"description" json:"description"`
}

type Review struct {
	User    string    `bson:"user" json:"user"`
	Rating  float64   `bson:"rating" json:"rating" validate:"min=1,max=5"`
	Comment string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Date    time.Time `bson:"date" json:"date"`
	Country string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Trip prices are integer minor units (cents) to keep totals exact.
type Trip struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title" validate:"required,min=3,max=100"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description" validate:"required,min=20"`
	Duration      int                `bson:"duration" json:"duration" validate:"required,min=1"`
	Price         int64              `bson:"price" json:"price" validate:"min=0"`
	PriceDiscount int64              `bson:"price_discount,omitempty" json:"price_discount,omitempty"`
	ImageCover    string             `bson:"image_cover" json:"image_cover"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
	Video         string             `bson:"video,omitempty" json:"video,omitempty"`
	Destination   string             `bson:"destination" json:"destination" validate:"required"`
	Type          TripType           `bson:"type" json:"type"`
	TripLanguage  string             `bson:"trip_language" json:"trip_language"`

	RatingsAverage float64 `bson:"ratings_average" json:"ratings_average"`
	RatingQuantity int     `bson:"rating_quantity" json:"rating_quantity"`

	Category     primitive.ObjectID `bson:"category" json:"category"`
	Availability []AvailabilitySlot `bson:"availability" json:"availability" validate:"dive"`

	TripRoute  []TripRouteStop `bson:"trip_route,omitempty" json:"trip_route,omitempty"`
	Itinerary  []ItineraryDay  `bson:"itinerary,omitempty" json:"itinerary,omitempty"`
	Inclusions []string        `bson:"inclusions,omitempty" json:"inclusions,omitempty"`
	Exclusions []string        `bson:"exclusions,omitempty" json:"exclusions,omitempty"`
	Reviews    []Review        `bson:"reviews,omitempty" json:"reviews,omitempty"`

	// Tenant owner; immutable after creation.
	Company primitive.ObjectID `bson:"company" json:"company"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NormalizeDate truncates a timestamp to midnight UTC so slot dates compare
// by calendar day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Slot returns the availability slot for the given date, or nil.
func (t *Trip) Slot(date time.Time) *AvailabilitySlot {
	date = NormalizeDate(date)
	for i := range t.Availability {
		if NormalizeDate(t.Availability[i].Date).Equal(date) {
			return &t.Availability[i]
		}
	}
	return nil
}

// UnitPrice is the effective per-spot price, discount applied when set.
func (t *Trip) UnitPrice() int64 {
	if t.PriceDiscount > 0 && t.PriceDiscount < t.Price {
		return t.PriceDiscount
	}
	return t.Price
}

func TotalPrice(unitPrice int64, spots int) int64 {
	return unitPrice * int64(spots)
}
