package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"updategen/internal/domain"
)

// OpenAIClient calls OpenAI's Responses API with a hard wall-clock deadline
// per call.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

func (c *OpenAIClient) Generate(
	ctx context.Context,
	req Request,
) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           shared.ResponsesModel(c.model),
		MaxOutputTokens: openai.Int(req.MaxTokens),
		Temperature:     openai.Float(req.Temperature),
		Instructions:    openai.String(req.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.User),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("do request: %w", ctx.Err())
		}
		return Result{}, fmt.Errorf("do request: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return Result{}, fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}

	result := Result{Text: text, Model: c.model}
	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		result.Usage = &domain.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		}
	}

	return result, nil
}
