package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomTripService struct {
	requests models.CustomTripRepo
	logger   *slog.Logger
}

func NewCustomTripService(requests models.CustomTripRepo, logger *slog.Logger) *CustomTripService {
	return &CustomTripService{requests: requests, logger: logger}
}

type CustomTripInput struct {
	Destination string    `json:"destination" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	People      int       `json:"people" validate:"required,min=1"`
	Budget      int64     `json:"budget" validate:"required,min=0"`
	Style       string    `json:"style"`
	MustHaves   []string  `json:"must_haves"`
}

func (cs *CustomTripService) Create(ctx context.Context, userID primitive.ObjectID, input CustomTripInput) (*models.CustomTripRequest, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperr.Validation("end_date must be after start_date")
	}

	req := &models.CustomTripRequest{
		User:        userID,
		Destination: input.Destination,
		StartDate:   models.NormalizeDate(input.StartDate),
		EndDate:     models.NormalizeDate(input.EndDate),
		People:      input.People,
		Budget:      input.Budget,
		Style:       input.Style,
		MustHaves:   input.MustHaves,
		CreatedAt:   time.Now(),
	}
	created, err := cs.requests.Create(ctx, req)
	if err != nil {
		return nil, apperr.Internal("failed to record custom trip request", err)
	}
	return created, nil
}

func (cs *CustomTripService) ListMine(ctx context.Context, userID primitive.ObjectID, opts models.ListOptions) ([]*models.CustomTripRequest, models.Pagination, error) {
	requests, total, err := cs.requests.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list custom trip requests", err)
	}
	return requests, opts.Paginate(total), nil
}
