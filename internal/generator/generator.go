// Package generator orchestrates one generation request: derive signals,
// assemble the provider payload, invoke the provider, and normalize,
// cap, and validate whatever comes back. A provider that is not configured
// degrades to a deterministic stub document instead of failing.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"updategen/internal/apierr"
	"updategen/internal/domain"
	"updategen/internal/provider"
)

const defaultTemperature = 0.2

const stubModeWarning = "stub mode: set OPENAI_API_KEY to enable live generation"

// Outcome is the pipeline's result for one accepted request, plus the
// per-request facts telemetry wants.
type Outcome struct {
	Markdown        string
	Warnings        []string
	Meta            *domain.Meta
	Usage           *domain.TokenUsage
	TokenBudget     int64
	MetricsDetected bool
}

// Pipeline runs generation requests against a single provider. A nil
// generator means the provider is supported but unconfigured: every run
// takes the stub path.
type Pipeline struct {
	gen            provider.TextGenerator
	providerName   string
	temperature    float64
	maxOutputChars int
	log            *slog.Logger
}

func NewPipeline(
	gen provider.TextGenerator,
	providerName string,
	maxOutputChars int,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		gen:            gen,
		providerName:   providerName,
		temperature:    defaultTemperature,
		maxOutputChars: maxOutputChars,
		log:            log,
	}
}

// Run executes the pipeline. The returned error, when non-nil, is always an
// *apierr.Error tagged with a stable code; the outcome still carries the
// token budget and signal flag for telemetry.
func (p *Pipeline) Run(ctx context.Context, req domain.GenerateRequest) (Outcome, error) {
	metricsLikelyPresent := MetricsLikelyPresent(req.RawInput)

	outcome := Outcome{
		TokenBudget:     maxTokensForLength(req.Settings.Length),
		MetricsDetected: metricsLikelyPresent,
	}

	if !provider.Supported(p.providerName) {
		return outcome, apierr.New(
			http.StatusInternalServerError,
			apierr.CodeProviderNotSupported,
			fmt.Sprintf("unsupported llm provider: %s", p.providerName),
		)
	}

	if p.gen == nil {
		return p.runStub(ctx, req, outcome, metricsLikelyPresent)
	}

	started := time.Now()
	result, err := p.gen.Generate(ctx, provider.Request{
		System:      systemPrompt,
		User:        buildUserPrompt(req, metricsLikelyPresent),
		MaxTokens:   outcome.TokenBudget,
		Temperature: p.temperature,
	})
	durationMs := time.Since(started).Milliseconds()

	if err != nil {
		if provider.IsTimeout(err) {
			return outcome, apierr.Wrap(
				http.StatusGatewayTimeout,
				apierr.CodeProviderTimeout,
				"generation timed out, please try again",
				err,
			)
		}

		return outcome, apierr.Wrap(
			http.StatusBadGateway,
			apierr.CodeProviderError,
			"generation provider error, please try again",
			err,
		)
	}

	markdown, capWarnings, err := capOutput(result.Text, p.maxOutputChars)
	if err != nil {
		return outcome, apierr.Wrap(
			http.StatusBadGateway,
			apierr.CodeEmptyOutput,
			"generation failed",
			err,
		)
	}

	outcome.Markdown = markdown
	outcome.Warnings = append(capWarnings,
		validateStructure(markdown, req.Settings, metricsLikelyPresent)...)
	outcome.Usage = result.Usage
	outcome.Meta = &domain.Meta{
		Provider:   p.gen.Name(),
		Model:      result.Model,
		DurationMs: durationMs,
	}

	return outcome, nil
}

// runStub substitutes the deterministic document and pushes it through the
// same capping and structural validation as a live result. Never touches
// the network, never reports an error for the unconfigured-provider case.
func (p *Pipeline) runStub(
	ctx context.Context,
	req domain.GenerateRequest,
	outcome Outcome,
	metricsLikelyPresent bool,
) (Outcome, error) {
	markdown, capWarnings, err := capOutput(stubMarkdown(req), p.maxOutputChars)
	if err != nil {
		return outcome, apierr.Wrap(
			http.StatusBadGateway,
			apierr.CodeEmptyOutput,
			"generation failed",
			err,
		)
	}

	p.log.InfoContext(ctx, "Provider is not configured so stub document is used",
		"provider", p.providerName,
		"audience", req.Settings.Audience)

	warnings := []string{stubModeWarning}
	warnings = append(warnings,
		validateStructure(markdown, req.Settings, metricsLikelyPresent)...)
	warnings = append(warnings, capWarnings...)

	outcome.Markdown = markdown
	outcome.Warnings = warnings
	outcome.Meta = &domain.Meta{Provider: "stub", DurationMs: 0}

	return outcome, nil
}
