package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/reader"
)

const (
	// maxJudgedUnits caps judge traffic per document.
	maxJudgedUnits = 50

	// Prefilter bounds for spans worth judging.
	minJudgeRunes    = 5
	maxJudgeRunes    = 100
	minJudgeFontSize = 10.0

	// analysisSampleTokens budgets the text sample shown to the
	// document analysis prompt.
	analysisSampleTokens = 2000
)

// scoreCandidates runs the deterministic scorer over every unit. The
// body size passed in is the median, which tracks running text better
// than the mode when a document mixes body faces.
func (p *Pipeline) scoreCandidates(units []outline.Unit, stats outline.FontStats) []outline.Candidate {
	scorer := outline.NewScorer(p.opts.Score, p.nc)
	var out []outline.Candidate
	for _, u := range units {
		if c, ok := scorer.Score(u, stats.MedianSize); ok {
			out = append(out, c)
		}
	}
	return out
}

// judgeCandidates prefilters plausible spans and judges them over a
// bounded worker pool. Output keeps unit order; failures on individual
// spans are logged and skipped. The returned count is the number of
// judge calls made.
func (p *Pipeline) judgeCandidates(ctx context.Context, units []outline.Unit, stats outline.FontStats) ([]outline.Candidate, int, error) {
	hasFont := stats.BodySize > 0

	var picked []outline.Unit
	for _, u := range units {
		n := utf8.RuneCountInString(strings.TrimSpace(u.Text))
		if n <= minJudgeRunes || n >= maxJudgeRunes {
			continue
		}
		if hasFont && u.FontSize <= minJudgeFontSize {
			continue
		}
		picked = append(picked, u)
		if len(picked) == maxJudgedUnits {
			break
		}
	}
	if len(picked) == 0 {
		return nil, 0, nil
	}

	judgments := make([]judge.HeadingJudgment, len(picked))
	errs := make([]error, len(picked))

	sem := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup
	for i := range picked {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			judgments[i], errs[i] = p.judge.IdentifyHeading(ctx, judge.HeadingQuery{
				Text:    picked[i].Text,
				Context: contextWindow(units, picked[i].Index, p.opts.ContextWindow),
			})
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, len(picked), err
	}

	var out []outline.Candidate
	for i, j := range judgments {
		if errs[i] != nil {
			p.log.Warn().Err(errs[i]).Str("text", picked[i].Text).Msg("judgment failed")
			continue
		}
		if !j.IsHeading || j.Confidence < p.opts.Score.MinConfidence {
			continue
		}
		c := outline.Candidate{
			Text:       strings.TrimSpace(picked[i].Text),
			Page:       picked[i].Page,
			Level:      j.LevelGuess,
			Confidence: j.Confidence,
			Source:     outline.SourceHeuristic,
			FontSize:   picked[i].FontSize,
			FontName:   picked[i].FontName,
		}
		if _, token, ok := p.nc.Match(c.Text); ok {
			c.Numbering = token
		}
		out = append(out, c)
	}
	return out, len(picked), nil
}

// contextWindow joins the unit texts around index, the span itself
// included.
func contextWindow(units []outline.Unit, index, window int) string {
	if window <= 0 || index < 0 || index >= len(units) {
		return ""
	}
	lo := index - window
	if lo < 0 {
		lo = 0
	}
	hi := index + window
	if hi > len(units)-1 {
		hi = len(units) - 1
	}

	lines := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		lines = append(lines, units[i].Text)
	}
	return strings.Join(lines, "\n")
}

// resolveLevels fills zero levels via the judge, batched. Answers map
// back by position; a zero answer leaves the candidate for the final
// level-1 fallback.
func (p *Pipeline) resolveLevels(ctx context.Context, cands []outline.Candidate) (int, error) {
	var texts []string
	var idx []int
	for i, c := range cands {
		if c.Level == 0 {
			texts = append(texts, c.Text)
			idx = append(idx, i)
		}
	}
	if len(texts) == 0 {
		return 0, nil
	}

	answers, err := p.judge.DetermineLevels(ctx, texts, p.opts.BatchSize)
	calls := (len(texts) + p.opts.BatchSize - 1) / p.opts.BatchSize
	if err != nil {
		return calls, fmt.Errorf("determine levels: %w", err)
	}
	for i, a := range answers {
		if i < len(idx) && a.Level > 0 {
			cands[idx[i]].Level = a.Level
		}
	}
	return calls, nil
}

// analyze builds the structural summary the judge reads: counts, font
// shape, numbering census and a bounded text sample.
func (p *Pipeline) analyze(ctx context.Context, doc *reader.Document, stats outline.FontStats) (string, error) {
	lines := make([]string, 0, len(doc.Units))
	for _, u := range doc.Units {
		lines = append(lines, u.Text)
	}
	sample := judge.SampleByTokens(lines, analysisSampleTokens)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %s\n", doc.Name)
	fmt.Fprintf(&sb, "Pages: %d\n", doc.TotalPages)
	fmt.Fprintf(&sb, "Text units: %d\n", len(doc.Units))
	if stats.BodySize > 0 {
		fmt.Fprintf(&sb, "Body font size: %.1f (median %.1f, max %.1f)\n",
			stats.BodySize, stats.MedianSize, stats.MaxSize)
	}
	if len(stats.NumberingCensus) > 0 {
		fmt.Fprintf(&sb, "Numbering seen: %s\n", censusSummary(stats.NumberingCensus))
	}
	sb.WriteString("\nSample:\n")
	sb.WriteString(sample)

	return p.judge.AnalyzeDocument(ctx, sb.String())
}

func censusSummary(census map[string]int) string {
	keys := make([]string, 0, len(census))
	for k := range census {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s x%d", k, census[k]))
	}
	return strings.Join(parts, ", ")
}

// reflect walks the finished forest into the audit prompt.
func (p *Pipeline) reflect(ctx context.Context, forest *outline.Forest) (judge.Reflection, error) {
	entries := make([]judge.ReflectEntry, 0, forest.Len())
	forest.Walk(func(n *outline.Node) bool {
		entries = append(entries, judge.ReflectEntry{Text: n.Text, Level: n.Level, Page: n.Page})
		return true
	})
	return p.judge.Reflect(ctx, entries)
}
