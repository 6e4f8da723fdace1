package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// anthropicProvider speaks the Anthropic messages API directly over
// net/http.
type anthropicProvider struct {
	opts       Options
	httpClient *http.Client
	endpoint   string
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newAnthropicProvider(opts Options) *anthropicProvider {
	base := anthropicBaseURL
	if opts.BaseURL != "" {
		base = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &anthropicProvider{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		endpoint:   base + "/v1/messages",
	}
}

func (p *anthropicProvider) Model() string {
	return p.opts.Model
}

func (p *anthropicProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return completeWithFallback(ctx, p.opts, func(ctx context.Context, model string) (string, error) {
		body, err := json.Marshal(anthropicRequest{
			Model:       model,
			MaxTokens:   p.opts.MaxTokens,
			Temperature: p.opts.Temperature,
			System:      system,
			Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		})
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.opts.APIKey)
		req.Header.Set("anthropic-version", anthropicVersion)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return "", err
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", err
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		var ar anthropicResponse
		if err := json.Unmarshal(respBody, &ar); err != nil {
			return "", fmt.Errorf("parse response: %w", err)
		}
		if ar.Error != nil {
			return "", fmt.Errorf("API error: %s", ar.Error.Message)
		}

		var sb strings.Builder
		for _, block := range ar.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", fmt.Errorf("no text content in response")
		}
		return sb.String(), nil
	})
}
