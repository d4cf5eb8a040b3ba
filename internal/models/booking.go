package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCanceled  BookingStatus = "canceled"
	// BookingReview marks a paid booking that could not reserve capacity and
	// needs manual handling; it holds no spots.
	BookingReview BookingStatus = "review"
)

// CanTransitionTo encodes the booking lifecycle. Canceled is terminal; review
// bookings are resolved manually (confirm once capacity is freed, or cancel).
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCanceled
	case BookingConfirmed:
		return next == BookingCanceled
	case BookingReview:
		return next == BookingConfirmed || next == BookingCanceled
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentUSDT       PaymentMethod = "usdt"
	PaymentGateway    PaymentMethod = "gateway"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentUSDT, PaymentGateway:
		return true
	}
	return false
}

// Booking references one trip and one availability slot by date. Trip name and
// unit price are snapshotted at reservation time so later trip edits do not
// change what was sold. Amounts are integer minor units.
type Booking struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Trip     primitive.ObjectID `bson:"trip" json:"trip"`
	TripName string             `bson:"trip_name" json:"trip_name"`

	User      primitive.ObjectID `bson:"user" json:"user"`
	UserName  string             `bson:"user_name" json:"user_name"`
	UserEmail string             `bson:"user_email" json:"user_email"`
	UserPhone string             `bson:"user_phone,omitempty" json:"user_phone,omitempty"`

	Company primitive.ObjectID `bson:"company" json:"company"`

	TripDate   time.Time     `bson:"trip_date" json:"trip_date"`
	Spots      int           `bson:"spots" json:"spots" validate:"required,min=1"`
	Price      int64         `bson:"price" json:"price"`
	TotalPrice int64         `bson:"total_price" json:"total_price"`
	AmountPaid int64         `bson:"amount_paid" json:"amount_paid"`
	Method     PaymentMethod `bson:"payment_method" json:"payment_method"`
	Status     BookingStatus `bson:"status" json:"status"`
	Notes      string        `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HoldsCapacity reports whether the booking currently holds reserved spots
// that a cancellation must give back.
func (b *Booking) HoldsCapacity() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
