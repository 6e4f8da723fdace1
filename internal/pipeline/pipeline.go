package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tocsmith/tocsmith/internal/judge"
	"github.com/tocsmith/tocsmith/internal/outline"
	"github.com/tocsmith/tocsmith/internal/reader"
)

// Options tunes the pipeline.
type Options struct {
	// Score configures the deterministic heading scorer.
	Score outline.ScoreConfig

	// Patterns overrides the numbering regexes. Empty means defaults.
	Patterns []string

	// AuthoritativeSkip is the outline entry count above which heuristic
	// identification is skipped entirely.
	AuthoritativeSkip int

	// BatchSize bounds one DetermineLevels call.
	BatchSize int

	// ContextWindow is the number of neighbor units shown around a text
	// span when judging it.
	ContextWindow int

	// Workers bounds concurrent judge calls.
	Workers int

	// Reflect asks the judge to audit the finished outline. The audit is
	// recorded on the result, never applied to it.
	Reflect bool
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Score:             outline.DefaultScoreConfig(),
		AuthoritativeSkip: outline.DefaultAuthoritativeSkip,
		BatchSize:         50,
		ContextWindow:     2,
		Workers:           4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Score.MaxLen == 0 {
		o.Score = d.Score
	}
	if o.AuthoritativeSkip == 0 {
		o.AuthoritativeSkip = d.AuthoritativeSkip
	}
	if o.BatchSize < 1 {
		o.BatchSize = d.BatchSize
	}
	if o.ContextWindow < 0 {
		o.ContextWindow = d.ContextWindow
	}
	if o.Workers < 1 {
		o.Workers = d.Workers
	}
	return o
}

// Stats counts what the run saw and did.
type Stats struct {
	Units         int                      `json:"units"`
	Authoritative int                      `json:"authoritative"`
	Heuristic     int                      `json:"heuristic"`
	LLMCalls      int                      `json:"llm_calls"`
	Duration      time.Duration            `json:"duration"`
	Phases        map[string]time.Duration `json:"phases"`
}

// Result is a finished run.
type Result struct {
	Document   string
	TotalPages int

	// Summary is the judge's free-text read of the document, empty
	// without a judge.
	Summary string

	// Confidence is 1.0 when every candidate came from authoritative
	// structure, 0.8 when heuristics contributed, or the reflection's
	// own confidence when one ran.
	Confidence float64

	Forest *outline.Forest
	Stats  Stats

	// Reflection is the judge's audit, nil unless requested.
	Reflection *judge.Reflection
}

// Pipeline runs documents through detection.
type Pipeline struct {
	opts  Options
	judge *judge.Client
	nc    *outline.NumberingClassifier
	log   zerolog.Logger
}

// New builds a pipeline. judge may be nil for deterministic-only runs.
func New(opts Options, j *judge.Client, log zerolog.Logger) (*Pipeline, error) {
	opts = opts.withDefaults()
	nc, err := outline.NewNumberingClassifier(opts.Patterns)
	if err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts, judge: j, nc: nc, log: log}, nil
}

// Run takes a parsed document to a resolved heading forest.
func (p *Pipeline) Run(ctx context.Context, doc *reader.Document) (*Result, error) {
	start := time.Now()
	res := &Result{
		Document:   doc.Name,
		TotalPages: doc.TotalPages,
		Stats: Stats{
			Units:  len(doc.Units),
			Phases: make(map[string]time.Duration),
		},
	}

	// Analyze.
	phase := time.Now()
	stats := outline.Stats(doc.Units, p.nc)
	p.log.Debug().
		Float64("body_size", stats.BodySize).
		Float64("median_size", stats.MedianSize).
		Int("distinct_sizes", len(stats.Distribution)).
		Int("numbered_units", censusTotal(stats.NumberingCensus)).
		Msg("analyzed document")
	if p.judge != nil {
		summary, err := p.analyze(ctx, doc, stats)
		res.Stats.LLMCalls++
		if err != nil {
			// The summary is advisory; detection continues without it.
			p.log.Warn().Err(err).Msg("document analysis failed")
		} else {
			res.Summary = summary
		}
	}
	res.Stats.Phases["analyze"] = time.Since(phase)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Identify.
	phase = time.Now()
	auth := outline.FromEntries(doc.Outline)
	res.Stats.Authoritative = len(auth)

	var heur []outline.Candidate
	switch {
	case len(auth) > p.opts.AuthoritativeSkip:
		p.log.Info().Int("entries", len(auth)).Msg("authoritative outline found, skipping heuristics")
	case p.judge != nil:
		var calls int
		var err error
		heur, calls, err = p.judgeCandidates(ctx, doc.Units, stats)
		res.Stats.LLMCalls += calls
		if err != nil {
			return nil, err
		}
	default:
		heur = p.scoreCandidates(doc.Units, stats)
	}
	res.Stats.Heuristic = len(heur)
	res.Stats.Phases["identify"] = time.Since(phase)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Levels.
	phase = time.Now()
	if p.judge != nil && len(heur) > 0 {
		calls, err := p.resolveLevels(ctx, heur)
		res.Stats.LLMCalls += calls
		if err != nil {
			return nil, err
		}
	}
	for i := range heur {
		if heur[i].Level < 1 {
			p.log.Warn().Str("text", heur[i].Text).Msg("level unresolved, defaulting to 1")
			heur[i].Level = 1
		}
	}
	res.Stats.Phases["levels"] = time.Since(phase)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Assemble.
	phase = time.Now()
	candidates := outline.Collect(auth, heur)
	forest, err := outline.BuildForest(candidates)
	if err != nil {
		return nil, fmt.Errorf("build forest: %w", err)
	}
	outline.ResolveRanges(forest)
	res.Forest = forest
	res.Stats.Phases["assemble"] = time.Since(phase)
	p.log.Debug().Int("headings", forest.Len()).Msg("assembled outline")

	// Reflect.
	res.Confidence = 1.0
	if res.Stats.Heuristic > 0 {
		res.Confidence = 0.8
	}
	if p.opts.Reflect && p.judge != nil && forest.Len() > 0 {
		phase = time.Now()
		reflection, err := p.reflect(ctx, forest)
		res.Stats.LLMCalls++
		if err != nil {
			p.log.Warn().Err(err).Msg("reflection failed")
		} else {
			res.Reflection = &reflection
			res.Confidence = reflection.Confidence
		}
		res.Stats.Phases["reflect"] = time.Since(phase)
	}

	res.Stats.Duration = time.Since(start)
	p.log.Info().
		Str("document", res.Document).
		Int("headings", forest.Len()).
		Float64("confidence", res.Confidence).
		Dur("duration", res.Stats.Duration).
		Msg("pipeline finished")
	return res, nil
}

func censusTotal(census map[string]int) int {
	total := 0
	for _, n := range census {
		total += n
	}
	return total
}
