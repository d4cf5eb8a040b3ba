package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/tripta-app/server/internal/apperr"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/scope"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTripRepo mirrors the conditional-update semantics of the mongo repo:
// a reservation only succeeds while the slot still holds enough spots, and a
// release never pushes remaining capacity past the slot total.
type fakeTripRepo struct {
	mu    sync.Mutex
	trips map[primitive.ObjectID]*models.Trip
}

func newFakeTripRepo(trips ...*models.Trip) *fakeTripRepo {
	r := &fakeTripRepo{trips: map[primitive.ObjectID]*models.Trip{}}
	for _, trip := range trips {
		r.trips[trip.ID] = trip
	}
	return r
}

func (r *fakeTripRepo) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *fakeTripRepo) FindOne(ctx context.Context, filter bson.M) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, _ := filter["_id"].(primitive.ObjectID)
	trip, ok := r.trips[id]
	if !ok {
		return nil, nil
	}
	if company, ok := filter["company"].(primitive.ObjectID); ok && trip.Company != company {
		return nil, nil
	}
	return trip, nil
}

func (r *fakeTripRepo) List(ctx context.Context, filter bson.M, opts models.ListOptions) ([]*models.Trip, int64, error) {
	return nil, 0, nil
}

func (r *fakeTripRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, _ := filter["_id"].(primitive.ObjectID)
	trip, ok := r.trips[id]
	if !ok {
		return nil, nil
	}
	if company, ok := filter["company"].(primitive.ObjectID); ok && trip.Company != company {
		return nil, nil
	}
	if set, ok := update["$set"].(bson.M); ok {
		if slots, ok := set["availability"].([]models.AvailabilitySlot); ok {
			trip.Availability = slots
		}
	}
	copied := *trip
	return &copied, nil
}

func (r *fakeTripRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return false, nil
}

func (r *fakeTripRepo) ReserveSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[tripID]
	if !ok {
		return models.ErrTripNotFound
	}
	slot := trip.Slot(date)
	if slot == nil {
		return models.ErrSlotNotFound
	}
	if slot.AvailableSpots < spots {
		return models.ErrInsufficientSpots
	}
	slot.AvailableSpots -= spots
	return nil
}

func (r *fakeTripRepo) ReleaseSlot(ctx context.Context, tripID primitive.ObjectID, date time.Time, spots int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[tripID]
	if !ok {
		return models.ErrTripNotFound
	}
	slot := trip.Slot(date)
	if slot == nil {
		return models.ErrSlotNotFound
	}
	slot.AvailableSpots += spots
	if slot.AvailableSpots > slot.SpotsNumber {
		slot.AvailableSpots = slot.SpotsNumber
	}
	return nil
}

func (r *fakeTripRepo) AddReview(ctx context.Context, tripID primitive.ObjectID, review models.Review) (*models.Trip, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	mu         sync.Mutex
	bookings   map[primitive.ObjectID]*models.Booking
	failCreate bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[primitive.ObjectID]*models.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, errors.New("write failed")
	}
	booking.ID = primitive.NewObjectID()
	stored := *booking
	r.bookings[booking.ID] = &stored
	return booking, nil
}

func (r *fakeBookingRepo) matches(b *models.Booking, filter bson.M) bool {
	if id, ok := filter["_id"].(primitive.ObjectID); ok && b.ID != id {
		return false
	}
	if user, ok := filter["user"].(primitive.ObjectID); ok && b.User != user {
		return false
	}
	if company, ok := filter["company"].(primitive.ObjectID); ok && b.Company != company {
		return false
	}
	if status, ok := filter["status"].(models.BookingStatus); ok && b.Status != status {
		return false
	}
	return true
}

func (r *fakeBookingRepo) FindOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if r.matches(b, filter) {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter bson.M, opts models.ListOptions) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if r.matches(b, filter) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if !r.matches(b, filter) {
			continue
		}
		if set, ok := update["$set"].(bson.M); ok {
			if status, ok := set["status"].(models.BookingStatus); ok {
				b.Status = status
			}
			if notes, ok := set["notes"].(string); ok {
				b.Notes = notes
			}
		}
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return false, nil
}

type noopMailer struct{}

func (noopMailer) Send(to, subject, body string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testTrip(spots int) *models.Trip {
	return &models.Trip{
		ID:      primitive.NewObjectID(),
		Title:   "Sahara Expedition",
		Company: primitive.NewObjectID(),
		Price:   150000,
		Availability: []models.AvailabilitySlot{{
			Date:           time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			AvailableSpots: spots,
			SpotsNumber:    spots,
		}},
	}
}

func testUser() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  models.RoleUser,
	}
}

func endUserActor(u *models.User) scope.Actor {
	return scope.Actor{ID: u.ID, Role: models.RoleUser}
}

func TestCreateBookingReservesSpots(t *testing.T) {
	trip := testTrip(10)
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	user := testUser()

	booking, err := bs.Create(context.Background(), endUserActor(user), CreateBookingInput{
		TripID:   trip.ID.Hex(),
		TripDate: trip.Availability[0].Date,
		Spots:    4,
	}, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != models.BookingPending {
		t.Errorf("expected pending booking, got %s", booking.Status)
	}
	if booking.TotalPrice != 600000 {
		t.Errorf("expected total 600000, got %d", booking.TotalPrice)
	}
	if got := trip.Availability[0].AvailableSpots; got != 6 {
		t.Errorf("expected 6 spots left, got %d", got)
	}
}

func TestCreateBookingInsufficientSpots(t *testing.T) {
	trip := testTrip(3)
	bs := NewBookingService(newFakeBookingRepo(), newFakeTripRepo(trip), noopMailer{}, testLogger())
	user := testUser()

	_, err := bs.Create(context.Background(), endUserActor(user), CreateBookingInput{
		TripID:   trip.ID.Hex(),
		TripDate: trip.Availability[0].Date,
		Spots:    5,
	}, user)
	if err == nil {
		t.Fatal("expected insufficient capacity error")
	}
	if apperr.KindOf(err) != apperr.KindInsufficientCapacity {
		t.Errorf("expected insufficient capacity kind, got %v", apperr.KindOf(err))
	}
	if got := trip.Availability[0].AvailableSpots; got != 3 {
		t.Errorf("failed reservation changed capacity: %d", got)
	}
}

func TestCreateBookingRestoresSpotsWhenWriteFails(t *testing.T) {
	trip := testTrip(10)
	bookings := newFakeBookingRepo()
	bookings.failCreate = true
	bs := NewBookingService(bookings, newFakeTripRepo(trip), noopMailer{}, testLogger())
	user := testUser()

	_, err := bs.Create(context.Background(), endUserActor(user), CreateBookingInput{
		TripID:   trip.ID.Hex(),
		TripDate: trip.Availability[0].Date,
		Spots:    4,
	}, user)
	if err == nil {
		t.Fatal("expected error from failed booking write")
	}
	if got := trip.Availability[0].AvailableSpots; got != 10 {
		t.Errorf("spots were leaked after failed write: %d left", got)
	}
}

func TestConcurrentBookingsNeverOversell(t *testing.T) {
	const capacity = 10
	trip := testTrip(capacity)
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := &models.User{
				ID:    primitive.NewObjectID(),
				Name:  fmt.Sprintf("user-%d", i),
				Email: fmt.Sprintf("user-%d@example.com", i),
				Role:  models.RoleUser,
			}
			_, err := bs.Create(context.Background(), endUserActor(user), CreateBookingInput{
				TripID:   trip.ID.Hex(),
				TripDate: trip.Availability[0].Date,
				Spots:    1,
			}, user)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if succeeded != capacity {
		t.Errorf("expected exactly %d successful bookings, got %d", capacity, succeeded)
	}
	if got := trip.Availability[0].AvailableSpots; got != 0 {
		t.Errorf("expected 0 spots left, got %d", got)
	}
}

func TestCancelReleasesSpotsOnce(t *testing.T) {
	trip := testTrip(10)
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	user := testUser()
	actor := endUserActor(user)

	booking, err := bs.Create(context.Background(), actor, CreateBookingInput{
		TripID:   trip.ID.Hex(),
		TripDate: trip.Availability[0].Date,
		Spots:    4,
	}, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	canceled, err := bs.Cancel(context.Background(), actor, booking.ID)
	if err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if canceled.Status != models.BookingCanceled {
		t.Errorf("expected canceled status, got %s", canceled.Status)
	}
	if got := trip.Availability[0].AvailableSpots; got != 10 {
		t.Errorf("expected spots restored to 10, got %d", got)
	}

	// A second cancel must not hand the spots back again.
	if _, err := bs.Cancel(context.Background(), actor, booking.ID); err == nil {
		t.Fatal("expected second cancel to fail")
	}
	if got := trip.Availability[0].AvailableSpots; got != 10 {
		t.Errorf("double cancel released spots twice: %d", got)
	}
}

func TestGetBookingOfAnotherUserIsForbidden(t *testing.T) {
	trip := testTrip(10)
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	owner := testUser()

	booking, err := bs.Create(context.Background(), endUserActor(owner), CreateBookingInput{
		TripID:   trip.ID.Hex(),
		TripDate: trip.Availability[0].Date,
		Spots:    1,
	}, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stranger := testUser()
	_, err = bs.Get(context.Background(), endUserActor(stranger), booking.ID)
	if err == nil {
		t.Fatal("expected error for foreign booking")
	}
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("expected authorization kind for existing foreign booking, got %v", apperr.KindOf(err))
	}

	// A booking that genuinely does not exist is a plain not-found.
	_, err = bs.Get(context.Background(), endUserActor(stranger), primitive.NewObjectID())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not-found kind for missing booking, got %v", apperr.KindOf(err))
	}
}

func TestConfirmReviewBookingReservesSpots(t *testing.T) {
	trip := testTrip(10)
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	user := testUser()

	review := &models.Booking{
		Trip:     trip.ID,
		TripName: trip.Title,
		User:     user.ID,
		Company:  trip.Company,
		TripDate: trip.Availability[0].Date,
		Spots:    3,
		Status:   models.BookingReview,
	}
	review, err := bookings.Create(context.Background(), review)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := scope.Actor{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}
	confirmed, err := bs.Confirm(context.Background(), admin, review.ID)
	if err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Errorf("expected confirmed status, got %s", confirmed.Status)
	}
	// Review bookings hold no spots until confirmation takes them.
	if got := trip.Availability[0].AvailableSpots; got != 7 {
		t.Errorf("expected 7 spots left after confirming review booking, got %d", got)
	}
}

// staleBookingRepo serves reads from a fixed snapshot while writes hit the
// real store, mimicking a booking that changed between load and update.
type staleBookingRepo struct {
	*fakeBookingRepo
	stale models.Booking
}

func (r *staleBookingRepo) FindOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	copied := r.stale
	return &copied, nil
}

func TestConfirmLostRaceDoesNotDoubleReserve(t *testing.T) {
	trip := testTrip(10)
	trip.Availability[0].AvailableSpots = 7 // the winning confirm already took its 3
	trips := newFakeTripRepo(trip)
	user := testUser()

	store := newFakeBookingRepo()
	booking, err := store.Create(context.Background(), &models.Booking{
		Trip:     trip.ID,
		TripName: trip.Title,
		User:     user.ID,
		Company:  trip.Company,
		TripDate: trip.Availability[0].Date,
		Spots:    3,
		Status:   models.BookingConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The losing confirm still sees the booking as review.
	stale := *booking
	stale.Status = models.BookingReview
	bookings := &staleBookingRepo{fakeBookingRepo: store, stale: stale}

	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	admin := scope.Actor{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}

	_, err = bs.Confirm(context.Background(), admin, booking.ID)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for a concurrently confirmed booking, got %v", err)
	}
	if got := trip.Availability[0].AvailableSpots; got != 7 {
		t.Errorf("losing confirm kept its spots: %d left, want 7", got)
	}
	stored, _ := store.FindOne(context.Background(), bson.M{"_id": booking.ID})
	if stored.Status != models.BookingConfirmed {
		t.Errorf("stored booking status changed to %s", stored.Status)
	}
}

func TestConfirmRequiresAdmin(t *testing.T) {
	bs := NewBookingService(newFakeBookingRepo(), newFakeTripRepo(), noopMailer{}, testLogger())
	user := testUser()

	_, err := bs.Confirm(context.Background(), endUserActor(user), primitive.NewObjectID())
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("expected authorization error, got %v", err)
	}
}
