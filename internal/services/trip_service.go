package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripService struct {
	trips      models.TripRepo
	categories models.CategoryRepo
	cld        *cloudinary.Cloudinary
	logger     *slog.Logger
}

func NewTripService(trips models.TripRepo, categories models.CategoryRepo, cld *cloudinary.Cloudinary, logger *slog.Logger) *TripService {
	return &TripService{
		trips:      trips,
		categories: categories,
		cld:        cld,
		logger:     logger,
	}
}

func (ts *TripService) List(ctx context.Context, opts models.ListOptions) ([]*models.Trip, models.Pagination, error) {
	filter := opts.Filter(bson.M{}, "title", "description", "destination")
	trips, total, err := ts.trips.List(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list trips", err)
	}
	return trips, opts.Paginate(total), nil
}

func (ts *TripService) Get(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	trip, err := ts.trips.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", id.Hex()))
	}
	return trip, nil
}

// Search matches a keyword against title/description/destination and
// optionally requires a departure on or after the given date.
func (ts *TripService) Search(ctx context.Context, keyword string, date *time.Time, opts models.ListOptions) ([]*models.Trip, models.Pagination, error) {
	opts.Keyword = keyword
	filter := opts.Filter(bson.M{}, "title", "description", "destination")
	if date != nil {
		filter["availability.date"] = bson.M{"$gte": models.NormalizeDate(*date)}
	}

	trips, total, err := ts.trips.List(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to search trips", err)
	}
	return trips, opts.Paginate(total), nil
}

type AvailabilityCheck struct {
	Available bool                     `json:"available"`
	Trip      *models.Trip             `json:"trip"`
	Slot      *models.AvailabilitySlot `json:"slot"`
}

// CheckAvailability is advisory only: the authoritative check happens inside
// the reservation's conditional update.
func (ts *TripService) CheckAvailability(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) (*AvailabilityCheck, error) {
	if spots < 1 {
		return nil, apperr.Validation("spots must be at least 1")
	}

	trip, err := ts.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	slot := trip.Slot(date)
	if slot == nil {
		return nil, apperr.NotFound(fmt.Sprintf("trip has no departure on %s", models.NormalizeDate(date).Format("2006-01-02")))
	}

	return &AvailabilityCheck{
		Available: slot.AvailableSpots >= spots,
		Trip:      trip,
		Slot:      slot,
	}, nil
}

func (ts *TripService) Create(ctx context.Context, actor scope.Actor, trip *models.Trip) (*models.Trip, error) {
	if err := models.Validate.Struct(trip); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if trip.PriceDiscount > 0 && trip.PriceDiscount >= trip.Price {
		return nil, apperr.Validation("discount price must be below regular price")
	}

	// Company ownership is fixed at creation: company admins always create
	// under their own company; a super-admin must name one.
	switch {
	case actor.IsCompanyAdmin():
		trip.Company = actor.Company
	case actor.IsSuperAdmin():
		if trip.Company.IsZero() {
			return nil, apperr.Validation("trip must belong to a company")
		}
	default:
		return nil, apperr.Authorization("only company admins can create trips")
	}

	category, err := ts.categories.FindOne(ctx, bson.M{"_id": trip.Category})
	if err != nil {
		return nil, apperr.Internal("failed to load category", err)
	}
	if category == nil {
		return nil, apperr.Validation("trip must belong to an existing category")
	}

	if err := normalizeSlots(trip.Availability); err != nil {
		return nil, err
	}

	if trip.Type == "" {
		trip.Type = models.TripCultural
	}
	if trip.TripLanguage == "" {
		trip.TripLanguage = "English"
	}
	trip.Slug = helpers.GenerateSlug(trip.Title)
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	created, err := ts.trips.Create(ctx, trip)
	if err != nil {
		return nil, apperr.Internal("failed to create trip", err)
	}
	return created, nil
}

// normalizeSlots collapses slot dates to midnight UTC and enforces the slot
// counter invariant. Every availability write, create or update, goes through
// it; a zero counter means a fresh slot and defaults to the total.
func normalizeSlots(slots []models.AvailabilitySlot) error {
	for i := range slots {
		slot := &slots[i]
		if slot.SpotsNumber < 1 {
			return apperr.Validation("slot total must be at least 1")
		}
		slot.Date = models.NormalizeDate(slot.Date)
		if slot.AvailableSpots == 0 {
			slot.AvailableSpots = slot.SpotsNumber
		}
		if slot.AvailableSpots < 0 || slot.AvailableSpots > slot.SpotsNumber {
			return apperr.Validation("available spots must be between 0 and the slot total")
		}
	}
	return nil
}

// decodeSlots turns the raw availability value of a partial update back into
// typed slots so they pass through the same checks Create applies.
func decodeSlots(raw any) ([]models.AvailabilitySlot, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, apperr.Validation("invalid availability payload")
	}
	var slots []models.AvailabilitySlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, apperr.Validation("invalid availability payload")
	}
	return slots, nil
}

// tripUpdatableFields whitelists the partial-update keys; company is absent on
// purpose, tenant ownership never changes.
var tripUpdatableFields = map[string]bool{
	"title": true, "description": true, "duration": true, "price": true,
	"price_discount": true, "image_cover": true, "images": true, "video": true,
	"destination": true, "type": true, "trip_language": true, "category": true,
	"availability": true, "trip_route": true, "itinerary": true,
	"inclusions": true, "exclusions": true,
}

func (ts *TripService) Update(ctx context.Context, actor scope.Actor, id primitive.ObjectID, fields map[string]any) (*models.Trip, error) {
	filter, err := scope.CompanyResources(actor, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for key, value := range fields {
		if !tripUpdatableFields[key] {
			return nil, apperr.Validation(fmt.Sprintf("field %q cannot be updated", key))
		}
		set[key] = value
	}
	if len(set) == 0 {
		return nil, apperr.Validation("no updatable fields provided")
	}
	if title, ok := set["title"].(string); ok {
		set["slug"] = helpers.GenerateSlug(title)
	}
	if raw, ok := set["availability"]; ok {
		slots, err := decodeSlots(raw)
		if err != nil {
			return nil, err
		}
		if err := normalizeSlots(slots); err != nil {
			return nil, err
		}
		set["availability"] = slots
	}
	set["updated_at"] = time.Now()

	trip, err := ts.trips.Update(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return nil, apperr.Internal("failed to update trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", id.Hex()))
	}
	return trip, nil
}

func (ts *TripService) Delete(ctx context.Context, actor scope.Actor, id primitive.ObjectID) error {
	filter, err := scope.CompanyResources(actor, bson.M{"_id": id})
	if err != nil {
		return err
	}

	deleted, err := ts.trips.Delete(ctx, filter)
	if err != nil {
		return apperr.Internal("failed to delete trip", err)
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("no trip with id %s", id.Hex()))
	}
	return nil
}

func (ts *TripService) AddReview(ctx context.Context, userName string, tripID primitive.ObjectID, rating float64, comment, country string) (*models.Trip, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	trip, err := ts.trips.AddReview(ctx, tripID, models.Review{
		User:    userName,
		Rating:  rating,
		Comment: comment,
		Country: country,
		Date:    time.Now(),
	})
	if err != nil {
		return nil, apperr.Internal("failed to add review", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", tripID.Hex()))
	}
	return trip, nil
}

// UploadImages pushes trip images to Cloudinary; the first becomes the cover
// when none is set yet.
func (ts *TripService) UploadImages(ctx context.Context, actor scope.Actor, id primitive.ObjectID, files []multipart.File) (*models.Trip, error) {
	filter, err := scope.CompanyResources(actor, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	trip, err := ts.trips.FindOne(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", id.Hex()))
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := helpers.UploadImage(ctx, ts.cld, file, helpers.TripsFolder)
		if err != nil {
			return nil, apperr.Upstream("image upload failed", err)
		}
		urls = append(urls, url)
	}

	update := bson.M{
		"$push": bson.M{"images": bson.M{"$each": urls}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if trip.ImageCover == "" && len(urls) > 0 {
		update["$set"].(bson.M)["image_cover"] = urls[0]
	}

	updated, err := ts.trips.Update(ctx, filter, update)
	if err != nil {
		return nil, apperr.Internal("failed to store image urls", err)
	}
	return updated, nil
}
