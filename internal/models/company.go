package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CompanyStatus string

const (
	CompanyPending CompanyStatus = "pending"
	CompanyActive  CompanyStatus = "active"
	CompanyBlocked CompanyStatus = "blocked"
)

type CompanyContact struct {
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

type NotificationChannel struct {
	Email bool `bson:"email" json:"email"`
	SMS   bool `bson:"sms" json:"sms"`
}

type NotificationPrefs struct {
	NewBooking      NotificationChannel `bson:"new_booking" json:"new_booking"`
	LowAvailability NotificationChannel `bson:"low_availability" json:"low_availability"`
	PayoutReceipt   NotificationChannel `bson:"payout_receipt" json:"payout_receipt"`
}

type Company struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Slug            string             `bson:"slug" json:"slug"`
	LogoURL         string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	About           string             `bson:"about,omitempty" json:"about,omitempty"`
	DefaultCurrency string             `bson:"default_currency" json:"default_currency"`
	Contact         CompanyContact     `bson:"contact,omitempty" json:"contact,omitempty"`
	Prefs           NotificationPrefs  `bson:"notification_prefs" json:"notification_prefs"`
	Status          CompanyStatus      `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		NewBooking:      NotificationChannel{Email: true},
		LowAvailability: NotificationChannel{Email: true},
		PayoutReceipt:   NotificationChannel{Email: true},
	}
}
