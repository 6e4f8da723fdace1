package judge

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeProvider returns canned responses in call order and records every
// prompt it receives.
type fakeProvider struct {
	model     string
	responses []string
	err       error
	systems   []string
	prompts   []string
}

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	i := len(f.prompts) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *fakeProvider) Model() string { return f.model }

func TestIdentifyHeading(t *testing.T) {
	fake := &fakeProvider{
		model: "test-model",
		responses: []string{
			"```json\n{\"is_heading\": true, \"confidence\": 0.85, \"level_guess\": 2, \"reasoning\": \"numbered section\"}\n```",
		},
	}
	client := New(fake)

	got, err := client.IdentifyHeading(context.Background(), HeadingQuery{
		Text:    "2.1 Scope",
		Context: "previous line\n2.1 Scope\nnext line",
	})
	if err != nil {
		t.Fatalf("IdentifyHeading() unexpected error: %v", err)
	}
	if !got.IsHeading || got.Confidence != 0.85 || got.LevelGuess != 2 {
		t.Errorf("IdentifyHeading() = %+v, want heading with confidence 0.85 level 2", got)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("provider called %d times, want 1", len(fake.prompts))
	}
	prompt := fake.prompts[0]
	if !strings.Contains(prompt, `"2.1 Scope"`) {
		t.Errorf("prompt missing quoted text:\n%s", prompt)
	}
	if !strings.Contains(prompt, "previous line") {
		t.Errorf("prompt missing context:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"is_heading"`) {
		t.Errorf("prompt missing output format:\n%s", prompt)
	}
	if fake.systems[0] != systemPrompt {
		t.Error("system prompt not forwarded")
	}
}

func TestIdentifyHeadingBadResponse(t *testing.T) {
	fake := &fakeProvider{model: "test-model", responses: []string{"no json here"}}
	client := New(fake)

	_, err := client.IdentifyHeading(context.Background(), HeadingQuery{Text: "第一章"})
	if err == nil {
		t.Fatal("IdentifyHeading() expected error for unparseable response")
	}
	if !strings.Contains(err.Error(), "identify heading") {
		t.Errorf("error = %q, want operation named", err)
	}
}

func TestDetermineLevels(t *testing.T) {
	texts := []string{"第一章 总则", "1.1 范围", "1.2 定义", "第二章 要求", "2.1 总体"}

	// Batch size 2 gives three calls. The second response is short by
	// one answer; the tail of that batch must still hold its position.
	fake := &fakeProvider{
		model: "test-model",
		responses: []string{
			`{"headings": [{"text": "第一章 总则", "level": 1}, {"text": "1.1 范围", "level": 2}]}`,
			`{"headings": [{"text": "1.2 定义", "level": 2}]}`,
			`{"headings": [{"text": "2.1 总体", "level": 2}]}`,
		},
	}
	client := New(fake)

	got, err := client.DetermineLevels(context.Background(), texts, 2)
	if err != nil {
		t.Fatalf("DetermineLevels() unexpected error: %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("DetermineLevels() returned %d answers, want %d", len(got), len(texts))
	}
	if len(fake.prompts) != 3 {
		t.Fatalf("provider called %d times, want 3", len(fake.prompts))
	}

	wantLevels := []int{1, 2, 2, 0, 2}
	for i, answer := range got {
		if answer.Level != wantLevels[i] {
			t.Errorf("answer[%d].Level = %d, want %d", i, answer.Level, wantLevels[i])
		}
	}
	// The padded slot carries the input text so callers can correlate.
	if got[3].Text != "第二章 要求" {
		t.Errorf("padded answer text = %q, want input text", got[3].Text)
	}

	// Numbering restarts inside each batch prompt.
	if !strings.Contains(fake.prompts[1], "1. 1.2 定义") {
		t.Errorf("second batch prompt should renumber from 1:\n%s", fake.prompts[1])
	}
	if !strings.Contains(fake.prompts[2], "1. 2.1 总体") {
		t.Errorf("third batch prompt should renumber from 1:\n%s", fake.prompts[2])
	}
}

func TestDetermineLevelsDefaultBatchSize(t *testing.T) {
	fake := &fakeProvider{
		model:     "test-model",
		responses: []string{`{"headings": [{"text": "a", "level": 1}, {"text": "b", "level": 2}]}`},
	}
	client := New(fake)

	got, err := client.DetermineLevels(context.Background(), []string{"a", "b"}, 0)
	if err != nil {
		t.Fatalf("DetermineLevels() unexpected error: %v", err)
	}
	if len(fake.prompts) != 1 {
		t.Errorf("provider called %d times, want 1 (default batch holds both)", len(fake.prompts))
	}
	if len(got) != 2 {
		t.Errorf("DetermineLevels() returned %d answers, want 2", len(got))
	}
}

func TestDetermineLevelsTruncatesOverlongResponse(t *testing.T) {
	fake := &fakeProvider{
		model: "test-model",
		responses: []string{
			`{"headings": [{"text": "a", "level": 1}, {"text": "hallucinated", "level": 2}, {"text": "extra", "level": 3}]}`,
		},
	}
	client := New(fake)

	got, err := client.DetermineLevels(context.Background(), []string{"a", "b"}, 10)
	if err != nil {
		t.Fatalf("DetermineLevels() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("DetermineLevels() returned %d answers, want 2 (extra dropped)", len(got))
	}
}

func TestDetermineLevelsProviderError(t *testing.T) {
	fake := &fakeProvider{model: "test-model", err: errors.New("boom")}
	client := New(fake)

	_, err := client.DetermineLevels(context.Background(), []string{"a"}, 10)
	if err == nil {
		t.Fatal("DetermineLevels() expected error")
	}
	if !strings.Contains(err.Error(), "determine levels") {
		t.Errorf("error = %q, want operation named", err)
	}
}

func TestReflect(t *testing.T) {
	fake := &fakeProvider{
		model: "test-model",
		responses: []string{
			`{"is_complete": false, "missing_headings": ["附录A"], "incorrect_headings": [], "suggestions": "check appendix", "confidence": 0.7}`,
		},
	}
	client := New(fake)

	got, err := client.Reflect(context.Background(), []ReflectEntry{
		{Text: "第一章 总则", Level: 1, Page: 1},
		{Text: "1.1 范围", Level: 2, Page: 2},
	})
	if err != nil {
		t.Fatalf("Reflect() unexpected error: %v", err)
	}
	if got.IsComplete {
		t.Error("IsComplete = true, want false")
	}
	if len(got.MissingHeadings) != 1 || got.MissingHeadings[0] != "附录A" {
		t.Errorf("MissingHeadings = %v, want [附录A]", got.MissingHeadings)
	}
	if got.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", got.Confidence)
	}

	if !strings.Contains(fake.prompts[0], `"text": "第一章 总则"`) {
		t.Errorf("prompt missing outline listing:\n%s", fake.prompts[0])
	}
}

func TestAnalyzeDocument(t *testing.T) {
	fake := &fakeProvider{
		model:     "test-model",
		responses: []string{"This looks like an annual report with chapter-style headings."},
	}
	client := New(fake)

	got, err := client.AnalyzeDocument(context.Background(), "pages: 120, body size: 10.5")
	if err != nil {
		t.Fatalf("AnalyzeDocument() unexpected error: %v", err)
	}
	if !strings.Contains(got, "annual report") {
		t.Errorf("AnalyzeDocument() = %q, want provider text passed through", got)
	}
	if !strings.Contains(fake.prompts[0], "pages: 120") {
		t.Errorf("prompt missing summary:\n%s", fake.prompts[0])
	}

	if client.Model() != "test-model" {
		t.Errorf("Model() = %q, want test-model", client.Model())
	}
}
