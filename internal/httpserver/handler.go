package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"updategen/internal/apierr"
	"updategen/internal/domain"
	"updategen/internal/generator"
	"updategen/internal/guardrails"
	"updategen/internal/telemetry"
)

const (
	minInputChars          = 10
	minMeaningfulCharCount = 8
)

// Issue is one schema-validation problem, surfaced alongside the first
// issue's message.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type GenerateHandler struct {
	gate             *guardrails.Gate
	pipeline         *generator.Pipeline
	maxInputChars    int
	telemetryEnabled bool
	telemetrySalt    string
	log              *slog.Logger
}

// Handle serves POST /generate. Admission control runs before the body is
// read: rejected requests never pay for parsing or generation.
func (h *GenerateHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.ClientIP()
	rec := telemetry.NewRecorder(h.telemetryEnabled, h.telemetrySalt, clientID, h.log)

	gateResult := h.gate.Check(ctx, clientID)
	if !gateResult.OK {
		if gateResult.RetryAfterSeconds > 0 {
			c.Header("Retry-After", strconv.Itoa(gateResult.RetryAfterSeconds))
		}

		rec.EmitRateLimited(ctx, gateResult.LimitType, gateResult.RetryAfterSeconds)
		c.JSON(gateResult.Status, errorBody(gateResult.Code, gateResult.Message, nil))

		return
	}

	rec.SetRateLimit(telemetry.RateLimitMetrics{
		RemainingRequests: gateResult.Remaining,
	})

	req, issues, err := h.readRequest(c)
	if err != nil {
		rec.EmitError(ctx, http.StatusBadRequest, apierr.CodeInvalidJSON, telemetry.CategoryValidation)
		c.JSON(http.StatusBadRequest, errorBody(apierr.CodeInvalidJSON, "invalid json", nil))

		return
	}
	if len(issues) > 0 {
		rec.EmitError(ctx, http.StatusBadRequest, apierr.CodeInvalidRequest, telemetry.CategoryValidation)
		c.JSON(http.StatusBadRequest, errorBody(apierr.CodeInvalidRequest, issues[0].Message, issues))

		return
	}

	meaningful := meaningfulCharCount(req.RawInput)
	rec.SetRequest(telemetry.RequestMetrics{
		InputLength:         len([]rune(req.RawInput)),
		MeaningfulCharCount: meaningful,
		Settings:            req.Settings,
	})

	if meaningful < minMeaningfulCharCount {
		rec.EmitError(ctx, http.StatusBadRequest, apierr.CodeInputTooShort, telemetry.CategoryValidation)
		c.JSON(http.StatusBadRequest, errorBody(apierr.CodeInputTooShort,
			"input needs at least 8 letters or digits", nil))

		return
	}

	outcome, err := h.pipeline.Run(ctx, req)

	rec.SetPerformance(telemetry.PerformanceMetrics{
		TokenBudget: outcome.TokenBudget,
		TokenUsage:  outcome.Usage,
	})

	if err != nil {
		h.respondError(c, rec, err)

		return
	}

	rec.SetValidation(telemetry.ValidationMetrics{
		MetricsDetected:        outcome.MetricsDetected,
		ValidationWarningCount: len(outcome.Warnings),
	})
	rec.EmitSuccess(ctx,
		telemetry.OutcomeMetrics{
			StatusCode:   http.StatusOK,
			OutputLength: len([]rune(outcome.Markdown)),
		},
		telemetry.ProviderMetrics{
			Name:  outcome.Meta.Provider,
			Model: outcome.Meta.Model,
		})

	c.JSON(http.StatusOK, domain.GenerateResponse{
		Markdown: outcome.Markdown,
		Warnings: outcome.Warnings,
		Meta:     outcome.Meta,
	})
}

// readRequest parses and schema-validates the body. A non-nil error means
// the body was not JSON; issues report contract violations. On success the
// returned request carries the trimmed input.
func (h *GenerateHandler) readRequest(c *gin.Context) (domain.GenerateRequest, []Issue, error) {
	var req domain.GenerateRequest

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return req, nil, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, nil, err
	}

	req.RawInput = strings.TrimSpace(req.RawInput)

	var issues []Issue
	if inputLen := len([]rune(req.RawInput)); inputLen < minInputChars {
		issues = append(issues, Issue{Path: "rawInput", Message: "rawInput is too short"})
	} else if inputLen > h.maxInputChars {
		issues = append(issues, Issue{Path: "rawInput", Message: "rawInput is too long"})
	}
	if !req.Settings.Audience.Valid() {
		issues = append(issues, Issue{
			Path:    "settings.audience",
			Message: "audience must be one of Exec, Cross-functional, Engineering",
		})
	}
	if !req.Settings.Length.Valid() {
		issues = append(issues, Issue{
			Path:    "settings.length",
			Message: "length must be one of Short, Standard, Detailed",
		})
	}
	if !req.Settings.Tone.Valid() {
		issues = append(issues, Issue{
			Path:    "settings.tone",
			Message: "tone must be one of Neutral, Crisp, Friendly",
		})
	}

	return req, issues, nil
}

// respondError translates a tagged pipeline failure into a wire response.
// Unclassified failures leak nothing: generic message, generic code.
func (h *GenerateHandler) respondError(c *gin.Context, rec *telemetry.Recorder, err error) {
	ctx := c.Request.Context()

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "generation failed"
	category := telemetry.CategoryInternal

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		code = apiErr.Code
		message = apiErr.Message
		category = telemetry.CategoryProvider
	}

	h.log.ErrorContext(ctx, "Generation failed",
		"error", err,
		"code", code,
		"status", status,
		"requestId", rec.RequestID())

	rec.EmitError(ctx, status, code, category)
	c.JSON(status, errorBody(code, message, nil))
}

func errorBody(code, message string, issues []Issue) gin.H {
	body := gin.H{
		"error": message,
		"code":  code,
	}
	if len(issues) > 0 {
		body["issues"] = issues
	}

	return body
}

func meaningfulCharCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}

	return count
}
