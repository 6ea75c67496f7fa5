package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	OllamaName    = "ollama"
	OllamaBaseURL = "http://localhost:11434"
)

// OllamaConfig holds configuration for the Ollama client.
type OllamaConfig struct {
	Endpoint           string
	Timeout            time.Duration // Generation timeout (default: 120s)
	HealthCheckTimeout time.Duration // Version endpoint timeout (default: 5s)
	Logger             *slog.Logger
}

// OllamaClient implements Generator against a local Ollama server.
type OllamaClient struct {
	endpoint      string
	client        *http.Client
	healthClient  *http.Client
	healthTimeout time.Duration
	logger        *slog.Logger
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = OllamaBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.HealthCheckTimeout == 0 {
		cfg.HealthCheckTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &OllamaClient{
		endpoint:      cfg.Endpoint,
		client:        &http.Client{Timeout: cfg.Timeout},
		healthClient:  &http.Client{Timeout: cfg.HealthCheckTimeout},
		healthTimeout: cfg.HealthCheckTimeout,
		logger:        cfg.Logger,
	}
}

// Name returns the generator identifier.
func (c *OllamaClient) Name() string {
	return OllamaName
}

// Healthy reports whether the Ollama server responds to a version probe.
func (c *OllamaClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/version", nil)
	if err != nil {
		return false
	}
	resp, err := c.healthClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// WaitReady polls the version endpoint until the server answers or the
// timeout elapses.
func (c *OllamaClient) WaitReady(ctx context.Context, timeout time.Duration) error {
	attempts := uint(timeout.Seconds())
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		func() error {
			if !c.Healthy(ctx) {
				return fmt.Errorf("%w: no response from %s", ErrUnavailable, c.endpoint)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(1*time.Second),
	)
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Generate sends a blocking generation request. Connectivity and timeout
// failures wrap ErrUnavailable; an in-flight call always completes or times
// out before cancellation takes effect upstream.
func (c *OllamaClient) Generate(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	requestID := uuid.New().String()
	start := time.Now()

	payload := ollamaGenerateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	c.logger.Debug("calling oracle",
		"provider", OllamaName,
		"request_id", requestID,
		"model", model,
		"prompt_chars", len(prompt),
		"temperature", temperature,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("ollama returned empty response")
	}

	c.logger.Debug("oracle call complete",
		"provider", OllamaName,
		"request_id", requestID,
		"output_chars", len(out.Response),
		"elapsed", time.Since(start),
	)

	return out.Response, nil
}

// ListModels returns the model names the server has pulled. Errors collapse
// to an empty list; this is a convenience probe, not a pipeline stage.
func (c *OllamaClient) ListModels(ctx context.Context) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return nil
	}
	resp, err := c.healthClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Verify interface
var _ Generator = (*OllamaClient)(nil)
