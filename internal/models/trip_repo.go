package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrSlotNotFound      = errors.New("availability slot not found")
	ErrInsufficientSpots = errors.New("not enough available spots")
)

type TripRepo interface {
	Create(ctx context.Context, trip *Trip) (*Trip, error)
	FindOne(ctx context.Context, filter bson.M) (*Trip, error)
	List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Trip, int64, error)
	Update(ctx context.Context, filter bson.M, update bson.M) (*Trip, error)
	Delete(ctx context.Context, filter bson.M) (bool, error)
	ReserveSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error
	ReleaseSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error
	AddReview(ctx context.Context, tripID primitive.ObjectID, review Review) (*Trip, error)
}

type mongoTripRepo struct {
	crud *Crud[Trip]
}

func NewTripRepo(mdb *MongodbRepo) TripRepo {
	return &mongoTripRepo{crud: NewCrud[Trip](mdb, TripsCol)}
}

func (r *mongoTripRepo) Create(ctx context.Context, trip *Trip) (*Trip, error) {
	return r.crud.InsertOne(ctx, trip)
}

func (r *mongoTripRepo) FindOne(ctx context.Context, filter bson.M) (*Trip, error) {
	return r.crud.FindOne(ctx, filter)
}

func (r *mongoTripRepo) List(ctx context.Context, filter bson.M, opts ListOptions) ([]*Trip, int64, error) {
	return r.crud.Find(ctx, filter, opts)
}

func (r *mongoTripRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*Trip, error) {
	return r.crud.UpdateOne(ctx, filter, update)
}

func (r *mongoTripRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return r.crud.DeleteOne(ctx, filter)
}

// ReserveSlot decrements a slot's remaining capacity by spots in one
// conditional update: the filter only matches while the slot still holds at
// least that many spots, so concurrent reservations can never drive the
// counter negative.
func (r *mongoTripRepo) ReserveSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error {
	date = NormalizeDate(date)

	filter := bson.M{
		"_id": tripID,
		"availability": bson.M{"$elemMatch": bson.M{
			"date":            date,
			"available_spots": bson.M{"$gte": spots},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"availability.$.available_spots": -spots},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := r.crud.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error reserving spots: %v", err)
	}
	if res.ModifiedCount > 0 {
		return nil
	}

	// Nothing matched; figure out which precondition failed.
	trip, err := r.crud.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		return err
	}
	if trip == nil {
		return ErrTripNotFound
	}
	if trip.Slot(date) == nil {
		return ErrSlotNotFound
	}
	return ErrInsufficientSpots
}

// ReleaseSlot gives spots back to the slot located by trip + date, capped at
// the slot's total. The slot is matched by its stored date rather than a slot
// identity so it survives re-ordering of the availability array.
func (r *mongoTripRepo) ReleaseSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error {
	date = NormalizeDate(date)

	filter := bson.M{
		"_id":          tripID,
		"availability": bson.M{"$elemMatch": bson.M{"date": date}},
	}
	// Pipeline update so the increment can clamp against spots_number.
	update := bson.A{bson.M{"$set": bson.M{
		"availability": bson.M{"$map": bson.M{
			"input": "$availability",
			"as":    "slot",
			"in": bson.M{"$cond": bson.M{
				"if": bson.M{"$eq": bson.A{"$$slot.date", date}},
				"then": bson.M{"$mergeObjects": bson.A{"$$slot", bson.M{
					"available_spots": bson.M{"$min": bson.A{
						bson.M{"$add": bson.A{"$$slot.available_spots", spots}},
						"$$slot.spots_number",
					}},
				}}},
				"else": "$$slot",
			}},
		}},
		"updated_at": time.Now(),
	}}}

	res, err := r.crud.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error releasing spots: %v", err)
	}
	if res.MatchedCount == 0 {
		trip, err := r.crud.FindOne(ctx, bson.M{"_id": tripID})
		if err != nil {
			return err
		}
		if trip == nil {
			return ErrTripNotFound
		}
		return ErrSlotNotFound
	}
	return nil
}

func (r *mongoTripRepo) AddReview(ctx context.Context, tripID primitive.ObjectID, review Review) (*Trip, error) {
	trip, err := r.crud.UpdateOne(ctx, bson.M{"_id": tripID}, bson.M{
		"$push": bson.M{"reviews": review},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil || trip == nil {
		return trip, err
	}

	// Recompute the rating summary from the stored reviews.
	var sum float64
	for _, rv := range trip.Reviews {
		sum += rv.Rating
	}
	avg := sum / float64(len(trip.Reviews))

	return r.crud.UpdateOne(ctx, bson.M{"_id": tripID}, bson.M{
		"$set": bson.M{
			"ratings_average": float64(int(avg*10+0.5)) / 10,
			"rating_quantity": len(trip.Reviews),
		},
	})
}
