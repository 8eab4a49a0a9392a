package shared

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Run("field-scoped rendering", func(t *testing.T) {
		err := NewValidationError("duration", "must be non-negative")

		if err.Error() != "duration: must be non-negative" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("expected to match ErrInvalidInput")
		}
	})

	t.Run("element-scoped rendering includes the index", func(t *testing.T) {
		err := NewElementValidationError("soundIntervals", 2, "soundType must not be empty")

		if err.Error() != "soundIntervals[2]: soundType must not be empty" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if err.Index != 2 {
			t.Errorf("expected index 2, got %d", err.Index)
		}
	})

	t.Run("field-scoped errors carry index -1", func(t *testing.T) {
		err := NewValidationError("limit", "must be between 1 and 100")
		if err.Index != -1 {
			t.Errorf("expected index -1, got %d", err.Index)
		}
	})
}

func TestAuthError(t *testing.T) {
	t.Run("wraps its sentinel", func(t *testing.T) {
		err := NewAuthError(ErrNotLoggedIn, "")

		if !errors.Is(err, ErrNotLoggedIn) {
			t.Error("expected to match ErrNotLoggedIn")
		}
		if err.Error() != ErrNotLoggedIn.Error() {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("appends the reason when present", func(t *testing.T) {
		err := NewAuthError(ErrAuthFailed, "handle must not be empty")

		if err.Error() != "authentication failed: handle must not be empty" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestAPIError(t *testing.T) {
	t.Run("renders the server error name when present", func(t *testing.T) {
		err := &APIError{StatusCode: 400, Code: "InvalidRequest", Message: "bad record"}

		if err.Error() != "API error 400 (InvalidRequest): bad record" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, ErrAPIRequest) {
			t.Error("expected to match ErrAPIRequest")
		}
	})

	t.Run("renders without a code", func(t *testing.T) {
		err := &APIError{StatusCode: 502, Message: "unrecognized error response"}

		if err.Error() != "API error 502: unrecognized error response" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
