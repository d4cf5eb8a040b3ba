package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/helpers"
	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// OrderService runs the payment path: checkout session creation before the
// redirect, and webhook reconciliation after the gateway confirms payment.
type OrderService struct {
	gateway  PaymentGateway
	bookings *BookingService
	trips    models.TripRepo
	users    models.UserRepo
	events   models.PaymentEventRepo
	logger   *slog.Logger
}

func NewOrderService(gateway PaymentGateway, bookings *BookingService, trips models.TripRepo, users models.UserRepo, events models.PaymentEventRepo, logger *slog.Logger) *OrderService {
	return &OrderService{
		gateway:  gateway,
		bookings: bookings,
		trips:    trips,
		users:    users,
		events:   events,
		logger:   logger,
	}
}

type CheckoutInput struct {
	TripID   string    `json:"trip_id" validate:"required"`
	TripDate time.Time `json:"trip_date" validate:"required"`
	Spots    int       `json:"spots" validate:"required,min=1"`
}

// Checkout prices the requested slot and opens a gateway session. The
// availability check here is advisory only; the spots are taken when the
// payment confirmation comes back through the webhook.
func (os *OrderService) Checkout(ctx context.Context, user *models.User, input CheckoutInput) (*CheckoutSession, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	tripID, err := primitive.ObjectIDFromHex(input.TripID)
	if err != nil {
		return nil, apperr.Validation("invalid trip id")
	}

	trip, err := os.trips.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", input.TripID))
	}

	date := models.NormalizeDate(input.TripDate)
	slot := trip.Slot(date)
	if slot == nil {
		return nil, apperr.NotFound(fmt.Sprintf("trip has no departure on %s", date.Format("2006-01-02")))
	}
	if slot.AvailableSpots < input.Spots {
		return nil, apperr.InsufficientCapacity(fmt.Sprintf("only %d spots left on %s", slot.AvailableSpots, date.Format("2006-01-02")))
	}

	session, err := os.gateway.CreateCheckoutSession(ctx, CheckoutIntent{
		TripID:        trip.ID.Hex(),
		TripTitle:     trip.Title,
		TripDate:      date,
		Spots:         input.Spots,
		Amount:        models.TotalPrice(trip.UnitPrice(), input.Spots),
		Currency:      "usd",
		CustomerEmail: user.Email,
	})
	if err != nil {
		return nil, apperr.Upstream("payment gateway rejected the checkout session", err)
	}
	return session, nil
}

// Reconcile turns a verified payment notice into a confirmed booking. The
// event is recorded first so a redelivered notice is acknowledged without
// booking twice. Once the event is durably recorded every later failure is
// logged and swallowed: the gateway gets its ack, operators get the log line.
func (os *OrderService) Reconcile(ctx context.Context, notice *PaymentNotice) error {
	if !notice.Completed {
		return nil
	}

	if _, err := os.events.Record(ctx, notice.EventID, notice.Type); err != nil {
		if errors.Is(err, models.ErrEventAlreadyProcessed) {
			os.logger.Info("payment event already processed", "event_id", notice.EventID)
			return nil
		}
		return apperr.Internal("failed to record payment event", err)
	}

	user, err := os.resolvePayer(ctx, notice)
	if err != nil {
		os.logger.Error("failed to resolve payer for paid booking",
			"event_id", notice.EventID, "email", notice.PayerEmail, "error", err)
		return nil
	}

	tripID, err := primitive.ObjectIDFromHex(notice.TripID)
	if err != nil {
		os.logger.Error("payment event carries an invalid trip id",
			"event_id", notice.EventID, "trip_id", notice.TripID)
		return nil
	}
	trip, err := os.trips.FindOne(ctx, bson.M{"_id": tripID})
	if err != nil || trip == nil {
		os.logger.Error("paid trip no longer loadable, flagging booking for review",
			"event_id", notice.EventID, "trip_id", notice.TripID, "error", err)
		os.recordReviewBooking(ctx, notice, nil, tripID, user)
		return nil
	}

	// Corrupt or missing spots metadata must never turn into a zero-spot
	// confirmed booking; an operator sorts it out instead.
	if notice.Spots < 1 {
		os.logger.Error("payment event carries an invalid spot count",
			"event_id", notice.EventID, "trip_id", notice.TripID, "spots", notice.Spots)
		os.recordReviewBooking(ctx, notice, trip, tripID, user)
		return nil
	}

	booking, err := os.bookings.reserve(ctx, trip, notice.TripDate, notice.Spots, user,
		models.PaymentGateway, models.BookingConfirmed, notice.AmountPaid)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInsufficientCapacity || apperr.KindOf(err) == apperr.KindNotFound {
			// The customer has paid; the spots just are not there anymore.
			// Record the booking flagged for review instead of dropping it.
			os.recordReviewBooking(ctx, notice, trip, tripID, user)
			return nil
		}
		os.logger.Error("failed to record paid booking",
			"event_id", notice.EventID, "trip_id", notice.TripID, "error", err)
		return nil
	}

	if err := os.events.AttachBooking(ctx, notice.EventID, booking.ID); err != nil {
		os.logger.Error("failed to link booking to payment event",
			"event_id", notice.EventID, "booking_id", booking.ID.Hex(), "error", err)
	}
	return nil
}

// resolvePayer finds the account behind the payer email, creating one with a
// random password when the payment came from a guest checkout.
func (os *OrderService) resolvePayer(ctx context.Context, notice *PaymentNotice) (*models.User, error) {
	if notice.PayerEmail == "" {
		return nil, fmt.Errorf("payment event %s carries no payer email", notice.EventID)
	}
	user, err := os.users.FindByEmail(ctx, notice.PayerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payer: %v", err)
	}
	if user != nil {
		return user, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(helpers.RandomPassword(16)), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash generated password: %v", err)
	}
	name := notice.PayerName
	if name == "" {
		name = notice.PayerEmail
	}
	now := time.Now()
	return os.users.Create(ctx, &models.User{
		Name:      name,
		Email:     notice.PayerEmail,
		Password:  string(hashed),
		Role:      models.RoleUser,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// recordReviewBooking stores a paid booking that could not take its spots.
// Review bookings hold no capacity; an admin confirms them once spots free up.
func (os *OrderService) recordReviewBooking(ctx context.Context, notice *PaymentNotice, trip *models.Trip, tripID primitive.ObjectID, user *models.User) {
	now := time.Now()
	booking := &models.Booking{
		Trip:       tripID,
		User:       user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserPhone:  user.Phone,
		TripDate:   models.NormalizeDate(notice.TripDate),
		Spots:      notice.Spots,
		AmountPaid: notice.AmountPaid,
		TotalPrice: notice.AmountPaid,
		Method:     models.PaymentGateway,
		Status:     models.BookingReview,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if trip != nil {
		booking.TripName = trip.Title
		booking.Company = trip.Company
		booking.Price = trip.UnitPrice()
	}

	created, err := os.bookings.bookings.Create(ctx, booking)
	if err != nil {
		os.logger.Error("failed to record review booking",
			"event_id", notice.EventID, "trip_id", notice.TripID, "error", err)
		return
	}
	os.logger.Warn("paid booking flagged for manual review",
		"event_id", notice.EventID, "booking_id", created.ID.Hex(), "trip_id", notice.TripID)
	if err := os.events.AttachBooking(ctx, notice.EventID, created.ID); err != nil {
		os.logger.Error("failed to link booking to payment event",
			"event_id", notice.EventID, "booking_id", created.ID.Hex(), "error", err)
	}
}
