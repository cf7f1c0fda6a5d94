package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	DefaultModel       = "gemini-1.5-flash"
	defaultTemperature = 0.2
	maxPromptLength    = 30000
	maxRetries         = 3
	initialBackoff     = 1 * time.Second
)

// GeminiClient calls Gemini through the genai SDK with JSON responses.
type GeminiClient struct {
	client         *genai.Client
	model          string
	temperature    float32
	initialBackoff time.Duration
	logger         *zap.SugaredLogger
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithModel sets the Gemini model name.
func WithModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) GeminiOption {
	return func(g *GeminiClient) {
		g.temperature = t
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger *zap.SugaredLogger) GeminiOption {
	return func(g *GeminiClient) {
		g.logger = logger
	}
}

// NewGeminiClient connects to Gemini. An empty apiKey returns ErrLLMUnavailable.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrLLMUnavailable
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g := &GeminiClient{
		client:         client,
		model:          DefaultModel,
		temperature:    defaultTemperature,
		initialBackoff: initialBackoff,
		logger:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name identifies the client in analysis method labels.
func (g *GeminiClient) Name() string {
	return "Gemini"
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Complete sends the prompt, retrying with exponential backoff.
func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrLLMUnavailable
	}
	if len(user) > maxPromptLength {
		g.logger.Warnw("prompt too long, truncating", "length", len(user), "limit", maxPromptLength)
		user = user[:maxPromptLength] + "\n\n[Content truncated due to length...]"
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.ResponseMIMEType = "application/json"
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	var lastErr error
	backoff := g.initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, genai.Text(user))
		if err != nil {
			lastErr = err
			g.logger.Warnw("gemini call failed", "attempt", attempt+1, "error", err)
			continue
		}
		text := responseText(resp)
		if text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("%w: empty content", ErrInvalidLLMResponse)
	}
	return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, lastErr)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
