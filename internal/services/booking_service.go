package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService owns the reservation lifecycle: it is the only code that
// decrements or restores slot capacity, always through the trip repo's
// conditional updates.
type BookingService struct {
	bookings models.BookingRepo
	trips    models.TripRepo
	mailer   Mailer
	logger   *slog.Logger
}

func NewBookingService(bookings models.BookingRepo, trips models.TripRepo, mailer Mailer, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		trips:    trips,
		mailer:   mailer,
		logger:   logger,
	}
}

type CreateBookingInput struct {
	TripID   string               `json:"trip_id" validate:"required"`
	TripDate time.Time            `json:"trip_date" validate:"required"`
	Spots    int                  `json:"spots" validate:"required,min=1"`
	Method   models.PaymentMethod `json:"payment_method"`
	Notes    string               `json:"notes"`
}

func (bs *BookingService) Create(ctx context.Context, actor scope.Actor, input CreateBookingInput, user *models.User) (*models.Booking, error) {
	if err := models.Validate.Struct(input); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if input.Method == "" {
		input.Method = models.PaymentCreditCard
	}
	if !input.Method.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unsupported payment method %q", input.Method))
	}

	tripID, err := primitive.ObjectIDFromHex(input.TripID)
	if err != nil {
		return nil, apperr.Validation("invalid trip id")
	}

	// The catalog is public for end-users; company-scoped callers only see
	// their own trips.
	tripFilter := bson.M{"_id": tripID}
	if actor.Role.IsCompanyScoped() {
		tripFilter, err = scope.CompanyResources(actor, tripFilter)
		if err != nil {
			return nil, err
		}
	}

	trip, err := bs.trips.FindOne(ctx, tripFilter)
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if trip == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", input.TripID))
	}

	booking, err := bs.reserve(ctx, trip, input.TripDate, input.Spots, user, input.Method, models.BookingPending, 0)
	if err != nil {
		return nil, err
	}
	booking.Notes = input.Notes
	if input.Notes != "" {
		if _, err := bs.bookings.Update(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": bson.M{"notes": input.Notes}}); err != nil {
			bs.logger.Error("failed to store booking notes", "booking_id", booking.ID.Hex(), "error", err)
		}
	}

	return booking, nil
}

// reserve atomically takes spots from the trip's slot and records the booking
// against a snapshot of the slot (date, unit price). On a storage failure
// after the decrement the spots are handed back so capacity is never leaked.
func (bs *BookingService) reserve(ctx context.Context, trip *models.Trip, date time.Time, spots int, user *models.User, method models.PaymentMethod, status models.BookingStatus, amountPaid int64) (*models.Booking, error) {
	date = models.NormalizeDate(date)

	if err := bs.trips.ReserveSlot(ctx, trip.ID, date, spots); err != nil {
		switch {
		case errors.Is(err, models.ErrTripNotFound):
			return nil, apperr.NotFound(fmt.Sprintf("no trip with id %s", trip.ID.Hex()))
		case errors.Is(err, models.ErrSlotNotFound):
			return nil, apperr.NotFound(fmt.Sprintf("trip has no departure on %s", date.Format("2006-01-02")))
		case errors.Is(err, models.ErrInsufficientSpots):
			return nil, apperr.InsufficientCapacity(fmt.Sprintf("not enough spots for %d travelers", spots))
		default:
			return nil, apperr.Internal("failed to reserve spots", err)
		}
	}

	unitPrice := trip.UnitPrice()
	now := time.Now()
	booking := &models.Booking{
		Trip:       trip.ID,
		TripName:   trip.Title,
		User:       user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserPhone:  user.Phone,
		Company:    trip.Company,
		TripDate:   date,
		Spots:      spots,
		Price:      unitPrice,
		TotalPrice: models.TotalPrice(unitPrice, spots),
		AmountPaid: amountPaid,
		Method:     method,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := bs.bookings.Create(ctx, booking)
	if err != nil {
		bs.release(ctx, trip.ID, date, spots)
		return nil, apperr.Internal("failed to record booking", err)
	}
	return created, nil
}

// release gives reserved spots back. A trip or slot that has since been
// deleted is logged and otherwise ignored; the booking removal still proceeds.
func (bs *BookingService) release(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) {
	err := bs.trips.ReleaseSlot(ctx, tripID, date, spots)
	if err == nil {
		return
	}
	if errors.Is(err, models.ErrTripNotFound) || errors.Is(err, models.ErrSlotNotFound) {
		bs.logger.Warn("slot gone while releasing spots",
			"trip_id", tripID.Hex(),
			"date", date.Format("2006-01-02"),
			"spots", spots,
		)
		return
	}
	bs.logger.Error("failed to release spots",
		"trip_id", tripID.Hex(),
		"date", date.Format("2006-01-02"),
		"spots", spots,
		"error", err,
	)
}

func (bs *BookingService) Get(ctx context.Context, actor scope.Actor, id primitive.ObjectID) (*models.Booking, error) {
	filter, err := scope.Bookings(actor, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}

	booking, err := bs.bookings.FindOne(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, bs.notFoundOrForbidden(ctx, actor, id)
	}
	return booking, nil
}

// notFoundOrForbidden distinguishes a booking that does not exist from one the
// caller is not allowed to see: an end-user probing another user's booking id
// gets 403, not the data and not a misleading 404.
func (bs *BookingService) notFoundOrForbidden(ctx context.Context, actor scope.Actor, id primitive.ObjectID) error {
	if actor.IsSuperAdmin() {
		return apperr.NotFound(fmt.Sprintf("no booking with id %s", id.Hex()))
	}
	exists, err := bs.bookings.FindOne(ctx, bson.M{"_id": id})
	if err == nil && exists != nil {
		return apperr.Authorization("you are not allowed to access this booking")
	}
	return apperr.NotFound(fmt.Sprintf("no booking with id %s", id.Hex()))
}

func (bs *BookingService) List(ctx context.Context, actor scope.Actor, opts models.ListOptions) ([]*models.Booking, models.Pagination, error) {
	filter, err := scope.Bookings(actor, opts.Filter(bson.M{}, "trip_name", "user_email"))
	if err != nil {
		return nil, models.Pagination{}, err
	}

	bookings, total, err := bs.bookings.List(ctx, filter, opts)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal("failed to list bookings", err)
	}
	return bookings, opts.Paginate(total), nil
}

// Confirm moves a pending (or flagged-for-review) booking to confirmed.
// Review bookings hold no spots yet, so confirming one reserves them first.
func (bs *BookingService) Confirm(ctx context.Context, actor scope.Actor, id primitive.ObjectID) (*models.Booking, error) {
	if !actor.IsSuperAdmin() && !actor.IsCompanyAdmin() {
		return nil, apperr.Authorization("only admins can confirm bookings")
	}

	filter, err := scope.Bookings(actor, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	booking, err := bs.bookings.FindOne(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, bs.notFoundOrForbidden(ctx, actor, id)
	}

	if !booking.Status.CanTransitionTo(models.BookingConfirmed) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot confirm a %s booking", booking.Status))
	}

	reserved := false
	if booking.Status == models.BookingReview {
		if err := bs.trips.ReserveSlot(ctx, booking.Trip, booking.TripDate, booking.Spots); err != nil {
			if errors.Is(err, models.ErrInsufficientSpots) {
				return nil, apperr.InsufficientCapacity("still not enough spots to confirm this booking")
			}
			return nil, apperr.Internal("failed to reserve spots", err)
		}
		reserved = true
	}

	// Flip the status conditionally, like Cancel does: a racing confirm that
	// loses the flip hands its just-reserved spots straight back, so one
	// review booking can never take its capacity twice.
	updated, err := bs.bookings.Update(ctx,
		bson.M{"_id": booking.ID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": models.BookingConfirmed, "updated_at": time.Now()}},
	)
	if err != nil {
		if reserved {
			bs.release(ctx, booking.Trip, booking.TripDate, booking.Spots)
		}
		return nil, apperr.Internal("failed to confirm booking", err)
	}
	if updated == nil {
		if reserved {
			bs.release(ctx, booking.Trip, booking.TripDate, booking.Spots)
		}
		return nil, apperr.Conflict("booking was modified concurrently")
	}

	go bs.notifyStatus(updated)
	return updated, nil
}

// Cancel releases the booking's capacity exactly once and marks it canceled.
// End-users may cancel their own pending bookings; company admins and
// super-admins may cancel any booking they can see.
func (bs *BookingService) Cancel(ctx context.Context, actor scope.Actor, id primitive.ObjectID) (*models.Booking, error) {
	filter, err := scope.Bookings(actor, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	booking, err := bs.bookings.FindOne(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to load booking", err)
	}
	if booking == nil {
		return nil, bs.notFoundOrForbidden(ctx, actor, id)
	}

	if actor.Role == models.RoleUser && booking.Status != models.BookingPending {
		return nil, apperr.Authorization("only pending bookings can be self-canceled")
	}
	if !booking.Status.CanTransitionTo(models.BookingCanceled) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot cancel a %s booking", booking.Status))
	}

	// Guard the release with a conditional status flip so a racing second
	// cancel cannot give the spots back twice.
	updated, err := bs.bookings.Update(ctx,
		bson.M{"_id": booking.ID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": models.BookingCanceled, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, apperr.Internal("failed to cancel booking", err)
	}
	if updated == nil {
		return nil, apperr.Conflict("booking was modified concurrently")
	}

	if booking.HoldsCapacity() {
		bs.release(ctx, booking.Trip, booking.TripDate, booking.Spots)
	}

	go bs.notifyStatus(updated)
	return updated, nil
}

func (bs *BookingService) notifyStatus(booking *models.Booking) {
	if booking == nil || booking.UserEmail == "" {
		return
	}
	subject := fmt.Sprintf("Your booking for %s is %s", booking.TripName, booking.Status)
	body := fmt.Sprintf("Hi %s,\n\nYour booking for %s on %s (%d spots) is now %s.",
		booking.UserName, booking.TripName, booking.TripDate.Format("2006-01-02"), booking.Spots, booking.Status)
	if err := bs.mailer.Send(booking.UserEmail, subject, body); err != nil {
		bs.logger.Error("booking status email failed", "booking_id", booking.ID.Hex(), "error", err)
	}
}
