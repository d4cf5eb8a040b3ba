package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tripta-app/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.Email] = user
	return user, nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, filter bson.M) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, _ := filter["_id"].(primitive.ObjectID)
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[email], nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter bson.M, opts models.ListOptions) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, filter bson.M, update bson.M) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, filter bson.M) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) AddToWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) RemoveFromWishlist(ctx context.Context, userID, tripID primitive.ObjectID) (*models.User, error) {
	return nil, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*models.PaymentEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*models.PaymentEvent{}}
}

func (r *fakeEventRepo) Record(ctx context.Context, eventID, eventType string) (*models.PaymentEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventID]; ok {
		return nil, models.ErrEventAlreadyProcessed
	}
	event := &models.PaymentEvent{EventID: eventID, Type: eventType, ReceivedAt: time.Now()}
	r.events[eventID] = event
	return event, nil
}

func (r *fakeEventRepo) AttachBooking(ctx context.Context, eventID string, bookingID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event, ok := r.events[eventID]; ok {
		event.Booking = bookingID
	}
	return nil
}

func newOrderFixture(trip *models.Trip, users *fakeUserRepo) (*OrderService, *fakeBookingRepo, *fakeEventRepo) {
	trips := newFakeTripRepo(trip)
	bookings := newFakeBookingRepo()
	events := newFakeEventRepo()
	bs := NewBookingService(bookings, trips, noopMailer{}, testLogger())
	os := NewOrderService(nil, bs, trips, users, events, testLogger())
	return os, bookings, events
}

func completedNotice(trip *models.Trip, email string) *PaymentNotice {
	return &PaymentNotice{
		EventID:    "evt_1",
		Type:       "checkout.session.completed",
		Completed:  true,
		TripID:     trip.ID.Hex(),
		TripDate:   trip.Availability[0].Date,
		Spots:      2,
		PayerEmail: email,
		PayerName:  "Ada",
		AmountPaid: 300000,
	}
}

func TestReconcileCreatesConfirmedBooking(t *testing.T) {
	trip := testTrip(10)
	user := testUser()
	users := newFakeUserRepo(user)
	os, bookings, events := newOrderFixture(trip, users)

	notice := completedNotice(trip, user.Email)
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking, err := bookings.FindOne(context.Background(), bson.M{"user": user.ID})
	if err != nil || booking == nil {
		t.Fatal("expected a booking for the payer")
	}
	if booking.Status != models.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %s", booking.Status)
	}
	if booking.AmountPaid != 300000 {
		t.Errorf("expected amount paid 300000, got %d", booking.AmountPaid)
	}
	if got := trip.Availability[0].AvailableSpots; got != 8 {
		t.Errorf("expected 8 spots left, got %d", got)
	}
	if events.events["evt_1"].Booking != booking.ID {
		t.Error("event was not linked to the booking")
	}
}

func TestReconcileDuplicateEventBooksOnce(t *testing.T) {
	trip := testTrip(10)
	user := testUser()
	os, bookings, _ := newOrderFixture(trip, newFakeUserRepo(user))

	notice := completedNotice(trip, user.Email)
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("redelivery must be acknowledged, got %v", err)
	}

	all, _, _ := bookings.List(context.Background(), bson.M{}, models.ListOptions{})
	if len(all) != 1 {
		t.Errorf("expected exactly one booking after redelivery, got %d", len(all))
	}
	if got := trip.Availability[0].AvailableSpots; got != 8 {
		t.Errorf("redelivery changed capacity: %d spots left", got)
	}
}

func TestReconcileInsufficientCapacityFlagsForReview(t *testing.T) {
	trip := testTrip(1)
	user := testUser()
	os, bookings, _ := newOrderFixture(trip, newFakeUserRepo(user))

	notice := completedNotice(trip, user.Email) // wants 2 spots, only 1 left
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("paid events must be acknowledged, got %v", err)
	}

	booking, _ := bookings.FindOne(context.Background(), bson.M{"user": user.ID})
	if booking == nil {
		t.Fatal("paid booking was dropped instead of flagged")
	}
	if booking.Status != models.BookingReview {
		t.Errorf("expected review status, got %s", booking.Status)
	}
	// Review bookings hold no capacity.
	if got := trip.Availability[0].AvailableSpots; got != 1 {
		t.Errorf("review booking took spots: %d left", got)
	}
}

func TestReconcileCreatesGuestAccount(t *testing.T) {
	trip := testTrip(10)
	users := newFakeUserRepo()
	os, bookings, _ := newOrderFixture(trip, users)

	notice := completedNotice(trip, "guest@example.com")
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	guest, _ := users.FindByEmail(context.Background(), "guest@example.com")
	if guest == nil {
		t.Fatal("expected an account for the guest payer")
	}
	if guest.Role != models.RoleUser {
		t.Errorf("expected end-user role, got %s", guest.Role)
	}
	booking, _ := bookings.FindOne(context.Background(), bson.M{"user": guest.ID})
	if booking == nil {
		t.Error("expected the booking to belong to the created account")
	}
}

func TestReconcileIgnoresOtherEventTypes(t *testing.T) {
	trip := testTrip(10)
	os, bookings, events := newOrderFixture(trip, newFakeUserRepo())

	notice := &PaymentNotice{EventID: "evt_other", Type: "invoice.paid"}
	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _, _ := bookings.List(context.Background(), bson.M{}, models.ListOptions{})
	if len(all) != 0 {
		t.Errorf("expected no bookings, got %d", len(all))
	}
	if len(events.events) != 0 {
		t.Error("ignored events should not be recorded")
	}
}

func TestReconcileZeroSpotsFlagsForReview(t *testing.T) {
	trip := testTrip(10)
	user := testUser()
	os, bookings, _ := newOrderFixture(trip, newFakeUserRepo(user))

	notice := completedNotice(trip, user.Email)
	notice.Spots = 0 // missing or corrupt metadata

	if err := os.Reconcile(context.Background(), notice); err != nil {
		t.Fatalf("paid events must be acknowledged, got %v", err)
	}

	booking, _ := bookings.FindOne(context.Background(), bson.M{"user": user.ID})
	if booking == nil {
		t.Fatal("paid booking was dropped instead of flagged")
	}
	if booking.Status != models.BookingReview {
		t.Errorf("expected review status, got %s", booking.Status)
	}
	if got := trip.Availability[0].AvailableSpots; got != 10 {
		t.Errorf("zero-spot booking took capacity: %d left", got)
	}
}
