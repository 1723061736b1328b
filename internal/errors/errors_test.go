package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsType_Wrapped(t *testing.T) {
	base := NewInputUnreadableError("cannot open image", errors.New("no such file"))
	wrapped := fmt.Errorf("load: %w", base)

	if !IsType(wrapped, ErrorTypeInputUnreadable) {
		t.Error("Expected wrapped error to be classified as input_unreadable")
	}
	if IsType(wrapped, ErrorTypeMetricDegraded) {
		t.Error("Expected wrapped error not to be classified as metric_degraded")
	}
	if IsType(errors.New("plain"), ErrorTypeInternal) {
		t.Error("Expected plain error not to match any type")
	}
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest},
		{"not found", NewNotFoundError("missing", nil), http.StatusNotFound},
		{"wrapped network", fmt.Errorf("x: %w", NewNetworkError("down", nil)), http.StatusBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetStatusCode(tt.err); got != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestAppError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("decode failed")
	err := NewMetricDegradedError("sharpness", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
	want := "metric_degraded: sharpness degraded to default (caused by: decode failed)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if err.Details != "sharpness" {
		t.Errorf("Expected stage in details, got %q", err.Details)
	}
	if d := err.WithDetails("frame 3"); d.Details != "frame 3" || err.Details != "sharpness" {
		t.Error("Expected WithDetails to copy rather than mutate")
	}
}
