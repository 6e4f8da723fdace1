package judge

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client runs judgment calls against a Provider and parses the
// structured responses.
type Client struct {
	provider Provider
}

// New wraps a provider in a judgment client.
func New(provider Provider) *Client {
	return &Client{provider: provider}
}

// Model reports the underlying model identifier.
func (c *Client) Model() string {
	return c.provider.Model()
}

// HeadingQuery is one span to judge, with optional surrounding lines.
type HeadingQuery struct {
	Text    string
	Context string
}

// HeadingJudgment is the model's verdict on one span. It feeds the
// collector as a heuristic source; LevelGuess 0 means "heading, level
// unknown" and is resolved later by DetermineLevels.
type HeadingJudgment struct {
	IsHeading  bool    `json:"is_heading"`
	Confidence float64 `json:"confidence"`
	LevelGuess int     `json:"level_guess"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// IdentifyHeading judges a single text span.
func (c *Client) IdentifyHeading(ctx context.Context, q HeadingQuery) (HeadingJudgment, error) {
	raw, err := c.provider.Complete(ctx, systemPrompt, headingIdentificationPrompt(q.Text, q.Context))
	if err != nil {
		return HeadingJudgment{}, fmt.Errorf("identify heading: %w", err)
	}
	verdict, err := ExtractJSON[HeadingJudgment](raw)
	if err != nil {
		return HeadingJudgment{}, fmt.Errorf("identify heading: %w", err)
	}
	return verdict, nil
}

// LevelAnswer is one resolved heading level from a batch call.
type LevelAnswer struct {
	Text      string `json:"text"`
	Level     int    `json:"level"`
	Reasoning string `json:"reasoning,omitempty"`
}

type levelResponse struct {
	Headings []LevelAnswer `json:"headings"`
}

// DetermineLevels resolves levels for headings the heuristics could not
// place, in batches of batchSize. Answers correlate to the input by
// position; a short response leaves the tail unresolved rather than
// failing the whole batch.
func (c *Client) DetermineLevels(ctx context.Context, texts []string, batchSize int) ([]LevelAnswer, error) {
	if batchSize <= 0 {
		batchSize = 50
	}

	answers := make([]LevelAnswer, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		raw, err := c.provider.Complete(ctx, systemPrompt, levelDeterminationPrompt(batch))
		if err != nil {
			return answers, fmt.Errorf("determine levels (batch at %d): %w", start, err)
		}
		parsed, err := ExtractJSON[levelResponse](raw)
		if err != nil {
			return answers, fmt.Errorf("determine levels (batch at %d): %w", start, err)
		}

		n := len(parsed.Headings)
		if n > len(batch) {
			n = len(batch)
		}
		answers = append(answers, parsed.Headings[:n]...)
		if n < len(batch) {
			// Pad so positional correlation survives a short response.
			for i := n; i < len(batch); i++ {
				answers = append(answers, LevelAnswer{Text: batch[i]})
			}
		}
	}
	return answers, nil
}

// ReflectEntry is one outline line shown to the reflection prompt.
type ReflectEntry struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	Page  int    `json:"page"`
}

// Reflection is the model's audit of a finished outline. It is advisory:
// callers record it alongside the result and never mutate the outline
// from it.
type Reflection struct {
	IsComplete        bool     `json:"is_complete"`
	MissingHeadings   []string `json:"missing_headings"`
	IncorrectHeadings []string `json:"incorrect_headings"`
	Suggestions       string   `json:"suggestions"`
	Confidence        float64  `json:"confidence"`
}

// Reflect audits the extracted outline for completeness.
func (c *Client) Reflect(ctx context.Context, entries []ReflectEntry) (Reflection, error) {
	listing, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Reflection{}, fmt.Errorf("reflect: %w", err)
	}
	raw, err := c.provider.Complete(ctx, systemPrompt, fmt.Sprintf(reflectionTemplate, string(listing)))
	if err != nil {
		return Reflection{}, fmt.Errorf("reflect: %w", err)
	}
	reflection, err := ExtractJSON[Reflection](raw)
	if err != nil {
		return Reflection{}, fmt.Errorf("reflect: %w", err)
	}
	return reflection, nil
}

// AnalyzeDocument returns a free-text read of the document's type and
// heading conventions, given a deterministic structural summary.
func (c *Client) AnalyzeDocument(ctx context.Context, summary string) (string, error) {
	analysis, err := c.provider.Complete(ctx, systemPrompt, fmt.Sprintf(analysisTemplate, summary))
	if err != nil {
		return "", fmt.Errorf("analyze document: %w", err)
	}
	return analysis, nil
}
