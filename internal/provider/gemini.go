// internal/provider/gemini.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"browseragent/internal/config"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// geminiBackend talks to the Google Gemini generateContent API.
type geminiBackend struct {
	cfg        config.ProviderConfig
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// -- Gemini API request/response structures (internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequestPayload struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func newGemini(cfg config.ProviderConfig, logger *zap.Logger) *geminiBackend {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	return &geminiBackend{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: apiTimeout(cfg)},
		logger:     logger.Named("provider.gemini"),
	}
}

// modelFor picks the model for a tier, falling back to the single Model field
// when the role-specific one is not configured.
func (g *geminiBackend) modelFor(tier Tier) string {
	switch tier {
	case TierPlanner:
		if g.cfg.PlannerModel != "" {
			return g.cfg.PlannerModel
		}
	case TierProcessor:
		if g.cfg.ProcessorModel != "" {
			return g.cfg.ProcessorModel
		}
	}
	return g.cfg.Model
}

func (g *geminiBackend) generate(ctx context.Context, tier Tier, prompt string) (string, error) {
	payload := geminiRequestPayload{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}, Role: "user"}},
		GenerationConfig: geminiGenerationConfig{Temperature: g.cfg.Temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	model := g.modelFor(tier)
	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, truncateForError(respBody))
	}

	var responsePayload geminiResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", fmt.Errorf("failed to decode response payload: %w", err)
	}
	if len(responsePayload.Candidates) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}
	candidate := responsePayload.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned empty content parts (reason: %s)", candidate.FinishReason)
	}

	g.logger.Debug("Generation complete",
		zap.String("model", model),
		zap.Duration("duration", time.Since(start)))
	return candidate.Content.Parts[0].Text, nil
}

// apiTimeout returns the configured request timeout with a safe default.
func apiTimeout(cfg config.ProviderConfig) time.Duration {
	if cfg.APITimeout > 0 {
		return cfg.APITimeout
	}
	return 60 * time.Second
}

// truncateForError keeps API error bodies short enough for a log line.
func truncateForError(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
