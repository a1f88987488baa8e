package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := SlotUnavailable("15_6_2025", "10:00 AM")
	wrapped := fmt.Errorf("booking: %w", err)

	if !errors.Is(wrapped, ErrSlotUnavailable) {
		t.Error("expected wrapped error to match ErrSlotUnavailable")
	}
	if errors.Is(wrapped, ErrConflict) {
		t.Error("slot_unavailable must not match conflict")
	}
}

func TestFrom_ForeignErrorBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset")
	got := From(cause)
	if got.Kind != KindInternal {
		t.Fatalf("expected internal kind, got %s", got.Kind)
	}
	if got.Message != "internal server error" {
		t.Errorf("foreign error message leaked: %q", got.Message)
	}
	if !errors.Is(got, cause) {
		t.Error("expected cause to be preserved through Unwrap")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{SlotUnavailable("1_1_2025", "10:00 AM"), http.StatusConflict},
		{InvalidTransition("done"), http.StatusConflict},
		{New(KindLawyerNotApproved, "pending"), http.StatusForbidden},
		{New(KindUpstreamUnavailable, "twilio"), http.StatusBadGateway},
		{&Error{Kind: "unknown"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.Status(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.err.Kind, tt.want, got)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(Forbidden("x")) != KindForbidden {
		t.Error("expected forbidden")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("expected internal for foreign errors")
	}
}
