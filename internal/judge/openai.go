package judge

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider talks to any OpenAI-compatible chat completions
// endpoint. BaseURL reroutes it to self-hosted gateways.
type openAIProvider struct {
	client *openai.Client
	opts   Options
}

func newOpenAIProvider(opts Options) *openAIProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
	return &openAIProvider{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
	}
}

func (p *openAIProvider) Model() string {
	return p.opts.Model
}

func (p *openAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return completeWithFallback(ctx, p.opts, func(ctx context.Context, model string) (string, error) {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: float32(p.opts.Temperature),
			MaxTokens:   p.opts.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
