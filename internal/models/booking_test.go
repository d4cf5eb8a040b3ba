package models

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCanceled, true},
		{BookingConfirmed, BookingCanceled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingReview, BookingConfirmed, true},
		{BookingReview, BookingCanceled, true},
		{BookingCanceled, BookingPending, false},
		{BookingCanceled, BookingConfirmed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestHoldsCapacity(t *testing.T) {
	holds := map[BookingStatus]bool{
		BookingPending:   true,
		BookingConfirmed: true,
		BookingReview:    false,
		BookingCanceled:  false,
	}
	for status, want := range holds {
		b := Booking{Status: status}
		if got := b.HoldsCapacity(); got != want {
			t.Errorf("%s: expected HoldsCapacity %v, got %v", status, want, got)
		}
	}
}
