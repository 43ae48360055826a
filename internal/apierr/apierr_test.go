package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(http.StatusBadGateway, CodeProviderError, "generation provider error", cause)

	if got := err.Error(); got != "generation provider error: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause should survive errors.Is")
	}
}

func TestFromExtractsThroughWrapping(t *testing.T) {
	inner := New(http.StatusGatewayTimeout, CodeProviderTimeout, "generation timed out")
	wrapped := fmt.Errorf("pipeline: %w", inner)

	got, ok := From(wrapped)
	if !ok {
		t.Fatalf("From should find the typed error in the chain")
	}
	if got.Code != CodeProviderTimeout {
		t.Fatalf("code = %q, want %q", got.Code, CodeProviderTimeout)
	}
	if got.Status != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", got.Status)
	}
}

func TestFromRejectsPlainErrors(t *testing.T) {
	if _, ok := From(errors.New("plain")); ok {
		t.Fatalf("From must not match untyped errors")
	}
}
