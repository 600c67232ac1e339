// internal/provider/cohere.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"browseragent/internal/config"
)

const defaultCohereEndpoint = "https://api.cohere.ai"

// cohereBackend talks to the Cohere chat API. Both tiers use the single
// configured model.
type cohereBackend struct {
	cfg        config.ProviderConfig
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

type cohereRequestPayload struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type cohereResponsePayload struct {
	Text string `json:"text"`
}

func newCohere(cfg config.ProviderConfig, logger *zap.Logger) *cohereBackend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultCohereEndpoint
	}
	return &cohereBackend{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: apiTimeout(cfg)},
		logger:     logger.Named("provider.cohere"),
	}
}

func (c *cohereBackend) generate(ctx context.Context, tier Tier, prompt string) (string, error) {
	payload := cohereRequestPayload{
		Model:       c.cfg.Model,
		Message:     prompt,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v1/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cohere API returned status %d: %s", resp.StatusCode, truncateForError(respBody))
	}

	var responsePayload cohereResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", fmt.Errorf("failed to decode response payload: %w", err)
	}
	if responsePayload.Text == "" {
		return "", fmt.Errorf("cohere API returned an empty response")
	}
	return responsePayload.Text, nil
}
