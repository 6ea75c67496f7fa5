package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const OpenAIName = "openai"

// OpenAIConfig holds configuration for an OpenAI-compatible generator.
// BaseURL allows pointing the SDK at any compatible endpoint.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	MaxRetries int           // SDK transport retries (default: 2)
	Timeout    time.Duration // HTTP timeout (default: 120s)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements Generator using the official OpenAI SDK.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Name returns the generator identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Generate sends a single-turn chat completion and returns the raw text.
func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("openai returned empty response")
	}
	return content, nil
}

// mapOpenAIError separates connectivity failures from API-level errors.
// Transport problems and timeouts wrap ErrUnavailable so the validation loop
// surfaces them instead of retrying with corrective prompting.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: openai status %d", ErrUnavailable, apiErr.StatusCode)
		}
		return fmt.Errorf("openai request failed (status %d): %w", apiErr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Anything that never produced an API response is a connectivity failure.
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Verify interface
var _ Generator = (*OpenAIClient)(nil)
