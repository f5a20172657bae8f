package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError_UnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("pass full_query: %w", NewUpstreamError(401, "Sorry, you cannot list resources."))

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatal("expected *UpstreamError in chain")
	}
	if ue.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", ue.StatusCode)
	}
}

func TestUpstreamError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"with message", NewUpstreamError(500, "boom"), "catalog unavailable: status 500: boom"},
		{"without message", NewUpstreamError(503, ""), "catalog unavailable: status 503"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}
