package telemetry

import "updategen/internal/domain"

// Event names; the discriminator of the emitted record.
const (
	eventSuccess     = "generate.success"
	eventError       = "generate.error"
	eventRateLimited = "generate.rate_limited"
	eventInternal    = "telemetry.error"
)

// ErrorCategory buckets failures for aggregation, not the message itself.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategoryProvider   ErrorCategory = "provider"
	CategoryInternal   ErrorCategory = "internal"
)

// RequestMetrics is captured after input validation. Lengths and settings
// only, never the input text.
type RequestMetrics struct {
	InputLength         int             `json:"inputLength"`
	MeaningfulCharCount int             `json:"meaningfulCharCount"`
	Settings            domain.Settings `json:"settings"`
}

// PerformanceMetrics is captured after provider invocation.
type PerformanceMetrics struct {
	TokenBudget int64              `json:"tokenBudget"`
	TokenUsage  *domain.TokenUsage `json:"tokenUsage,omitempty"`
}

// ValidationMetrics is captured after structural checks. Warning counts
// only, never the warning text.
type ValidationMetrics struct {
	MetricsDetected        bool `json:"metricsDetected"`
	ValidationWarningCount int  `json:"validationWarningCount"`
}

// OutcomeMetrics is the terminal result of a successful request. Output
// length only, never the markdown.
type OutcomeMetrics struct {
	StatusCode   int `json:"statusCode"`
	OutputLength int `json:"outputLength"`
}

// RateLimitMetrics records what admission control decided.
type RateLimitMetrics struct {
	WasRateLimited    bool   `json:"wasRateLimited"`
	RemainingRequests int    `json:"remainingRequests,omitempty"`
	LimitType         string `json:"limitType,omitempty"`
	RetryAfterSeconds int    `json:"retryAfterSeconds,omitempty"`
}

// ProviderMetrics names the provider that produced a successful result.
type ProviderMetrics struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
}

type errorOutcome struct {
	StatusCode    int           `json:"statusCode"`
	ErrorCode     string        `json:"errorCode"`
	ErrorCategory ErrorCategory `json:"errorCategory"`
}
