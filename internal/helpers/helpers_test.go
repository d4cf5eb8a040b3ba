package helpers

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken("user-1", "company-admin", "company-1", "secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if !claims.IsCompanyAdmin() {
		t.Errorf("expected company-admin role, got %s", claims.Role)
	}
	if claims.Company != "company-1" {
		t.Errorf("expected company claim, got %s", claims.Company)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("user-1", "user", "", "secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := SignToken("user-1", "user", "", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}

func TestIsPasswordStrong(t *testing.T) {
	tests := []struct {
		password string
		strong   bool
	}{
		{"Short1a", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"GoodPass1", true},
	}
	for _, tt := range tests {
		if got := IsPasswordStrong(tt.password); got != tt.strong {
			t.Errorf("%q: expected %v, got %v", tt.password, tt.strong, got)
		}
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"Sahara Expedition"}, "sahara-expedition"},
		{[]string{"Atlas Tours", "Marrakech"}, "atlas-tours-marrakech"},
		{[]string{"  Weird--Chars!!  "}, "weird-chars"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.parts...); got != tt.want {
			t.Errorf("GenerateSlug(%v): expected %q, got %q", tt.parts, tt.want, got)
		}
	}
}

func TestRandomPassword(t *testing.T) {
	a := RandomPassword(16)
	b := RandomPassword(16)
	if len(a) != 16 || len(b) != 16 {
		t.Errorf("expected length 16, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Error("two random passwords should not collide")
	}
}

func TestResetCode(t *testing.T) {
	code := ResetCode()
	if len(code) != 6 {
		t.Errorf("expected 6-digit code, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("expected digits only, got %q", code)
		}
	}
}
