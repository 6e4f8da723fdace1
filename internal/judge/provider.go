package judge

import (
	"context"
	"fmt"
	"time"
)

// ProviderName identifies a supported model backend.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
)

// retryDelay spaces out retry attempts after a failed call.
const retryDelay = time.Second

// Options carries the request parameters shared by every backend.
type Options struct {
	Provider      ProviderName
	Model         string
	FallbackModel string
	APIKey        string
	BaseURL       string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	MaxRetries    int
}

// DefaultOptions returns the production request parameters.
func DefaultOptions() Options {
	return Options{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4",
		Temperature: 0.1,
		MaxTokens:   4000,
		Timeout:     60 * time.Second,
		MaxRetries:  3,
	}
}

// withDefaults fills unset fields from DefaultOptions. A zero
// temperature means "use the default"; none of the judgment prompts
// want fully greedy sampling anyway.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Provider == "" {
		o.Provider = d.Provider
	}
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.Temperature == 0 {
		o.Temperature = d.Temperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = d.MaxTokens
	}
	if o.Timeout == 0 {
		o.Timeout = d.Timeout
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = d.MaxRetries
	}
	return o
}

// Provider is the minimal completion surface the judge needs.
type Provider interface {
	// Complete sends a system prompt plus a user prompt and returns the
	// response text.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// Model returns the model identifier being used.
	Model() string
}

// NewProvider validates the backend name and builds the matching
// provider.
func NewProvider(opts Options) (Provider, error) {
	opts = opts.withDefaults()
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s: api key not set", opts.Provider)
	}
	switch opts.Provider {
	case ProviderOpenAI:
		return newOpenAIProvider(opts), nil
	case ProviderAnthropic:
		return newAnthropicProvider(opts), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: %s, %s)",
			opts.Provider, ProviderOpenAI, ProviderAnthropic)
	}
}

// completeWithFallback runs call against the primary model with
// retries, then against the fallback model when the primary exhausts
// its attempts. Context cancellation stops the loop immediately.
func completeWithFallback(ctx context.Context, opts Options, call func(ctx context.Context, model string) (string, error)) (string, error) {
	models := []string{opts.Model}
	if opts.FallbackModel != "" && opts.FallbackModel != opts.Model {
		models = append(models, opts.FallbackModel)
	}

	var lastErr error
	for _, model := range models {
		for attempt := 0; attempt < opts.MaxRetries; attempt++ {
			out, err := call(ctx, model)
			if err == nil {
				return out, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return "", fmt.Errorf("%s %s: %w", opts.Provider, model, lastErr)
			}
			time.Sleep(retryDelay)
		}
	}
	return "", fmt.Errorf("%s: max retries exceeded: %w", opts.Provider, lastErr)
}
