// internal/provider/openai.go
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

const defaultOpenAIEndpoint = "https://api.openai.com"

// openAIBackend talks to the OpenAI chat completions API. Both tiers use the
// single configured model.
type openAIBackend struct {
	cfg        config.ProviderConfig
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequestPayload struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIResponsePayload struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func newOpenAI(cfg config.ProviderConfig, logger *zap.Logger) *openAIBackend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}
	return &openAIBackend{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: apiTimeout(cfg)},
		logger:     logger.Named("provider.openai"),
	}
}

func (o *openAIBackend) generate(ctx context.Context, tier Tier, prompt string) (string, error) {
	payload := openAIRequestPayload{
		Model:       o.cfg.Model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.endpoint+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, truncateForError(respBody))
	}

	var responsePayload openAIResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", fmt.Errorf("failed to decode response payload: %w", err)
	}
	if len(responsePayload.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}
	return responsePayload.Choices[0].Message.Content, nil
}
