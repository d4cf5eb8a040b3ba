package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Authentication("who are you"), http.StatusUnauthorized},
		{Authorization("not yours"), http.StatusForbidden},
		{InsufficientCapacity("sold out"), http.StatusConflict},
		{Conflict("already changed"), http.StatusConflict},
		{Upstream("gateway down", errors.New("connection refused")), http.StatusBadGateway},
		{Internal("boom", nil), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("%v: expected status %d, got %d", tt.err, tt.want, got)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	inner := NotFound("missing trip")
	wrapped := fmt.Errorf("loading booking: %w", inner)

	if KindOf(wrapped) != KindNotFound {
		t.Errorf("expected wrapped error to keep its kind, got %v", KindOf(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Error("Is should see through wrapping")
	}
	if CodeOf(wrapped) != "not_found" {
		t.Errorf("expected code not_found, got %s", CodeOf(wrapped))
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Internal("failed to load trip", errors.New("context deadline exceeded"))
	want := "failed to load trip: context deadline exceeded"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
