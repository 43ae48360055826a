package telemetry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"updategen/internal/domain"
)

func TestHashClientIDIsStableAndTruncated(t *testing.T) {
	first := HashClientID("salt-v1", "203.0.113.7")
	second := HashClientID("salt-v1", "203.0.113.7")

	if first != second {
		t.Fatalf("same salt and client must hash identically")
	}
	if len(first) != 12 {
		t.Fatalf("hash length = %d, want 12", len(first))
	}
	if strings.Contains(first, "203.0.113.7") {
		t.Fatalf("hash must not contain the raw client identity")
	}
}

func TestHashClientIDVariesWithSaltAndClient(t *testing.T) {
	base := HashClientID("salt-v1", "203.0.113.7")

	if HashClientID("salt-v2", "203.0.113.7") == base {
		t.Fatalf("different salts must produce different hashes")
	}
	if HashClientID("salt-v1", "203.0.113.8") == base {
		t.Fatalf("different clients must produce different hashes")
	}
}

// captureHandler records every emitted slog record for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

type capturedRecord struct {
	message string
	attrs   map[string]slog.Value
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capturedRecord{message: r.Message, attrs: attrs})

	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) all() []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]capturedRecord(nil), h.records...)
}

func TestRecorderEmitSuccess(t *testing.T) {
	handler := &captureHandler{}
	rec := NewRecorder(true, "salt-v1", "203.0.113.7", slog.New(handler))

	rec.SetRequest(RequestMetrics{
		InputLength:         42,
		MeaningfulCharCount: 40,
		Settings: domain.Settings{
			Audience: domain.AudienceExec,
			Length:   domain.LengthShort,
			Tone:     domain.ToneNeutral,
		},
	})
	rec.EmitSuccess(context.Background(),
		OutcomeMetrics{StatusCode: 200, OutputLength: 512},
		ProviderMetrics{Name: "openai", Model: "gpt-5-mini-2025-08-07"})

	records := handler.all()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].message != "generate.success" {
		t.Fatalf("event = %q, want generate.success", records[0].message)
	}
	if _, ok := records[0].attrs["requestId"]; !ok {
		t.Fatalf("event must carry a request ID")
	}
	if got := records[0].attrs["hashedClientId"].String(); got != HashClientID("salt-v1", "203.0.113.7") {
		t.Fatalf("hashedClientId = %q", got)
	}
}

func TestRecorderEmitsAtMostOnce(t *testing.T) {
	handler := &captureHandler{}
	rec := NewRecorder(true, "salt-v1", "203.0.113.7", slog.New(handler))

	ctx := context.Background()
	rec.EmitError(ctx, 502, "provider_error", CategoryProvider)
	rec.EmitSuccess(ctx, OutcomeMetrics{StatusCode: 200}, ProviderMetrics{Name: "openai"})

	records := handler.all()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].message != "generate.error" {
		t.Fatalf("first event = %q, want generate.error", records[0].message)
	}
	if records[1].message != "telemetry.error" {
		t.Fatalf("second emission must degrade to telemetry.error, got %q", records[1].message)
	}
}

func TestRecorderDisabledEmitsNothing(t *testing.T) {
	handler := &captureHandler{}
	rec := NewRecorder(false, "salt-v1", "203.0.113.7", slog.New(handler))

	ctx := context.Background()
	rec.EmitSuccess(ctx, OutcomeMetrics{StatusCode: 200}, ProviderMetrics{Name: "openai"})
	rec.EmitRateLimited(ctx, "client", 30)

	if got := len(handler.all()); got != 0 {
		t.Fatalf("disabled recorder must not emit, got %d records", got)
	}
}

func TestRecorderEmitRateLimited(t *testing.T) {
	handler := &captureHandler{}
	rec := NewRecorder(true, "salt-v1", "203.0.113.7", slog.New(handler))

	rec.EmitRateLimited(context.Background(), "client", 42)

	records := handler.all()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].message != "generate.rate_limited" {
		t.Fatalf("event = %q, want generate.rate_limited", records[0].message)
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	if NewRequestID() == NewRequestID() {
		t.Fatalf("request IDs must be unique")
	}
}
