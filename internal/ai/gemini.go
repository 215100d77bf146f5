// Package ai turns search context into study plans and curated resources
// using a generative text model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindmentor/study-craft/internal/config"
	"mindmentor/study-craft/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// TextGenerator produces raw text for a prompt. One call, no retry.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements TextGenerator with Google's Gemini models.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	log    *logger.Logger
	tracer trace.Tracer
}

func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("missing gemini api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.ResponseMIMEType = "application/json"

	return &GeminiGenerator{
		client: client,
		model:  model,
		name:   cfg.Model,
		log:    log.With("service", "GeminiGenerator", "model", cfg.Model),
		tracer: otel.Tracer("study-craft/ai"),
	}, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "ai.Generate", trace.WithAttributes(
		attribute.String("ai.model", g.name),
		attribute.Int("ai.prompt_chars", len(prompt)),
	))
	defer span.End()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			g.log.Warn("gemini candidate did not stop cleanly", "candidate", i, "finishReason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	span.SetAttributes(attribute.Int("ai.response_chars", len(text)))
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
