package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/metrics"
)

const describeImagePrompt = "Describe what home maintenance or repair work is needed " +
	"based on this photo. Focus on the visible problem and the kind of service " +
	"required to fix it. Answer in two or three sentences of plain text."

// Generator runs generative-model calls via an OpenAI-compatible chat
// completions API. Extraction prompts are sent with JSON response format;
// image description uses the multimodal message content.
type Generator struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// GeneratorConfig holds the generative-model provider settings.
type GeneratorConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generative-model provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Generate implements domain.Generator. Temperature is pinned to zero and the
// response format forced to JSON so the extraction output stays parseable.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	return g.complete(ctx, req)
}

// DescribeImage implements domain.Generator. The image is inlined as a data
// URL; the model answers with a free-text description of the needed work.
func (g *Generator) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: describeImagePrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		Temperature: 0,
	}

	return g.complete(ctx, req)
}

func (g *Generator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", parseGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseGenerationError extracts a human-readable error from the API response.
// Rate limits keep their own sentinel so transport can answer 429; everything
// else maps to the generic provider failure.
func parseGenerationError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := domain.ErrGenerationProviderError
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			wrap = domain.ErrRateLimited
		}
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrap := domain.ErrGenerationProviderError
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			wrap = domain.ErrRateLimited
		}
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", domain.ErrGenerationProviderError)
}
