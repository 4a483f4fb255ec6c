package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/job-matcher/internal/logger"
)

const (
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiEmbedModel = "text-embedding-004"

	maxEmbeddingInput = 40000
	maxOutputTokens   = 2048
)

var errEmptyGeneration = errors.New("no text content in response")

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	log        *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model, embedModel string, log *zap.Logger) (GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if embedModel == "" {
		embedModel = defaultGeminiEmbedModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  model,
		embedModel: embedModel,
		log:        logger.WithCommonFields(logger.OrNop(log), "gemini", model),
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateBytes(text, maxEmbeddingInput)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements GeminiService and matching.TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxOutputTokens,
	}

	g.log.Debug("gemini request", zap.String("prompt", logger.TruncateForLog(prompt, 300)))

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyGeneration
	}

	g.log.Debug("gemini response", zap.String("text", logger.TruncateForLog(text, 300)))
	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			g.log.Warn("gemini attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
