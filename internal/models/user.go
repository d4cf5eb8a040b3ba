package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser         Role = "user"
	RoleSuperAdmin   Role = "super-admin"
	RoleCompanyAdmin Role = "company-admin"
	RoleCompanyUser  Role = "company-user"
)

// IsCompanyScoped reports whether the role only sees resources of its own
// company.
func (r Role) IsCompanyScoped() bool {
	return r == RoleCompanyAdmin || r == RoleCompanyUser
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSuperAdmin, RoleCompanyAdmin, RoleCompanyUser:
		return true
	}
	return false
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Password string             `bson:"password" json:"-"`

	PasswordChangedAt     *time.Time `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetCode     string     `bson:"password_reset_code,omitempty" json:"-"`
	PasswordResetExpires  *time.Time `bson:"password_reset_expires,omitempty" json:"-"`
	PasswordResetVerified bool       `bson:"password_reset_verified,omitempty" json:"-"`

	Role    Role               `bson:"role" json:"role"`
	Company primitive.ObjectID `bson:"company,omitempty" json:"company,omitempty"`
	Active  bool               `bson:"active" json:"active"`

	Wishlist   []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	TotalTrips int                  `bson:"total_trips" json:"total_trips"`
	Points     int                  `bson:"points" json:"points"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TokenInvalidatedAt reports whether a token issued at iat predates the last
// password change.
func (u *User) TokenInvalidatedAt(iat time.Time) bool {
	return u.PasswordChangedAt != nil && iat.Before(*u.PasswordChangedAt)
}
