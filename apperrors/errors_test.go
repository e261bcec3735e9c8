package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := New(NotFound, "group g1 not found")
	wrapped := fmt.Errorf("join: %w", err)

	if !IsKind(wrapped, NotFound) {
		t.Fatal("kind lost through fmt.Errorf wrapping")
	}
	if KindOf(wrapped) != NotFound {
		t.Fatalf("KindOf = %v, want NotFound", KindOf(wrapped))
	}
}

func TestKindOfDefaultsToTransient(t *testing.T) {
	if got := KindOf(errors.New("connection reset")); got != Transient {
		t.Fatalf("KindOf(untyped) = %v, want Transient", got)
	}
}

func TestWrapExposesCause(t *testing.T) {
	cause := errors.New("throttled")
	err := Wrap(RateLimited, "too many swipes", cause)

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if err.Error() != "too many swipes: throttled" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Authorization, http.StatusForbidden},
		{Expired, http.StatusGone},
		{Conflict, http.StatusConflict},
		{RateLimited, http.StatusTooManyRequests},
		{Transient, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := HTTPStatus(New(tc.kind, "x")); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.want)
		}
	}
	if got := HTTPStatus(errors.New("untyped")); got != http.StatusServiceUnavailable {
		t.Errorf("HTTPStatus(untyped) = %d, want 503", got)
	}
}
