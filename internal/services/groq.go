package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

const (
	defaultGroqURL   = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions API. It is
// the secondary match delegate.
type GroqClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
	limiter    *HostLimiter
	log        *zap.Logger
}

func NewGroqClient(apiKey, model string, limiter *HostLimiter, log *zap.Logger) *GroqClient {
	if model == "" {
		model = defaultGroqModel
	}
	return &GroqClient{
		apiKey:     apiKey,
		model:      model,
		url:        defaultGroqURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		log:        logger.WithCommonFields(logger.OrNop(log), "groq", model),
	}
}

// WithURL points the client at another endpoint.
func (c *GroqClient) WithURL(url string) *GroqClient {
	c.url = url
	return c
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateText implements matching.TextGenerator.
func (c *GroqClient) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("groq api key is empty")
	}

	body, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    []groqMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal groq request: %w", err)
	}

	if err := c.limiter.WaitURL(ctx, c.url); err != nil {
		return "", fmt.Errorf("groq rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, logger.TruncateForLog(string(raw), 200))
	}

	var parsed groqResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("groq API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no choices returned from groq API")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyGeneration
	}

	c.log.Debug("groq response", zap.String("text", logger.TruncateForLog(text, 300)))
	return text, nil
}
