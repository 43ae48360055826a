// Package provider invokes the external generative-text provider with a
// bounded deadline and classifies its failures.
package provider

import (
	"context"
	"errors"

	"updategen/internal/domain"
)

// Request is one generation call: fixed instructions, the user payload, and
// the sampling bounds computed by the pipeline.
type Request struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Result is what the provider returned. Usage is nil when the provider did
// not report token accounting.
type Result struct {
	Text  string
	Model string
	Usage *domain.TokenUsage
}

// TextGenerator produces text for a single request. Implementations must
// honor ctx cancellation and enforce their own hard deadline.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Supported reports whether name identifies a provider this build can reach.
func Supported(name string) bool {
	return name == "openai"
}

// IsTimeout reports whether err means the call exceeded its deadline, as
// opposed to the provider failing. Callers use this to pick retry policy.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
