package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role    string `json:"role"`
	Company string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// Helper methods for role checking
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == "super-admin"
}

func (c *Claims) IsCompanyAdmin() bool {
	return c.Role == "company-admin"
}

func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}

func (c *Claims) IsOwner(userID string) bool {
	return c.Subject == userID
}
