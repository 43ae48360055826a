// Package telemetry accumulates per-request metrics and emits exactly one
// terminal event per request. Emitted payloads carry lengths, counts, and a
// hashed client identifier; raw input and generated output never appear.
package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Recorder is the per-request accumulator. Create one at the start of
// handling, feed it as the request progresses, and finish it with exactly
// one of EmitSuccess, EmitError, or EmitRateLimited.
type Recorder struct {
	enabled        bool
	log            *slog.Logger
	requestID      string
	hashedClientID string
	started        time.Time

	request     *RequestMetrics
	performance *PerformanceMetrics
	validation  *ValidationMetrics
	rateLimit   RateLimitMetrics

	emitted bool
}

func NewRecorder(enabled bool, salt, clientID string, log *slog.Logger) *Recorder {
	return &Recorder{
		enabled:        enabled,
		log:            log,
		requestID:      NewRequestID(),
		hashedClientID: HashClientID(salt, clientID),
		started:        time.Now(),
	}
}

func (r *Recorder) RequestID() string {
	return r.requestID
}

// SetRequest records request-shape metrics; call after input validation.
func (r *Recorder) SetRequest(m RequestMetrics) {
	r.request = &m
}

// SetPerformance records generation metrics; call after provider invocation.
func (r *Recorder) SetPerformance(m PerformanceMetrics) {
	r.performance = &m
}

// SetValidation records structural-check metrics; call after output validation.
func (r *Recorder) SetValidation(m ValidationMetrics) {
	r.validation = &m
}

// SetRateLimit records what admission control decided.
func (r *Recorder) SetRateLimit(m RateLimitMetrics) {
	r.rateLimit = m
}

// EmitSuccess flushes the accumulated metrics as a success event.
func (r *Recorder) EmitSuccess(ctx context.Context, outcome OutcomeMetrics, prov ProviderMetrics) {
	r.emit(ctx, eventSuccess, func() []any {
		attrs := []any{
			"durationMs", time.Since(r.started).Milliseconds(),
			"outcome", outcome,
			"provider", prov,
			"rateLimit", r.rateLimit,
		}
		if r.request != nil {
			attrs = append(attrs, "request", *r.request)
		}
		if r.performance != nil {
			attrs = append(attrs, "performance", *r.performance)
		}
		if r.validation != nil {
			attrs = append(attrs, "validation", *r.validation)
		}
		return attrs
	})
}

// EmitError flushes the accumulated metrics as an error event.
func (r *Recorder) EmitError(ctx context.Context, statusCode int, errorCode string, category ErrorCategory) {
	r.emit(ctx, eventError, func() []any {
		attrs := []any{
			"durationMs", time.Since(r.started).Milliseconds(),
			"outcome", errorOutcome{
				StatusCode:    statusCode,
				ErrorCode:     errorCode,
				ErrorCategory: category,
			},
			"rateLimit", r.rateLimit,
		}
		if r.request != nil {
			attrs = append(attrs, "request", *r.request)
		}
		if r.performance != nil {
			attrs = append(attrs, "performance", *r.performance)
		}
		return attrs
	})
}

// EmitRateLimited is the fast path for requests rejected by the gate.
func (r *Recorder) EmitRateLimited(ctx context.Context, limitType string, retryAfterSeconds int) {
	r.emit(ctx, eventRateLimited, func() []any {
		return []any{
			"rateLimit", RateLimitMetrics{
				WasRateLimited:    true,
				LimitType:         limitType,
				RetryAfterSeconds: retryAfterSeconds,
			},
		}
	})
}

// emit writes one terminal event. A second emission, or a panic while
// building the event, is downgraded to a telemetry-internal error record:
// telemetry must never affect the caller's response.
func (r *Recorder) emit(ctx context.Context, event string, build func() []any) {
	if !r.enabled {
		return
	}

	if r.emitted {
		r.log.ErrorContext(ctx, eventInternal,
			"context", "duplicate emission",
			"event", event,
			"requestId", r.requestID)
		return
	}
	r.emitted = true

	defer func() {
		if rec := recover(); rec != nil {
			r.log.ErrorContext(ctx, eventInternal,
				"context", "emit panic",
				"event", event,
				"requestId", r.requestID,
				"panic", rec)
		}
	}()

	attrs := append([]any{
		"requestId", r.requestID,
		"hashedClientId", r.hashedClientID,
	}, build()...)

	r.log.InfoContext(ctx, event, attrs...)
}
