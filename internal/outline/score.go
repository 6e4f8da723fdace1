package outline

import (
	"strings"
	"unicode/utf8"
)

// Signal weights. Additive and independent; a candidate needs enough of
// them to clear the confidence floor.
const (
	weightNumbering = 0.5
	weightFontSize  = 0.3
	weightBold      = 0.2
	weightPosition  = 0.1

	// leftMargin is the x0 cutoff for the position signal: text starting
	// further right is usually indented body or table content.
	leftMargin = 100.0
)

// ScoreConfig carries the scorer thresholds. Zero values are not usable;
// start from DefaultScoreConfig.
type ScoreConfig struct {
	// MinLen and MaxLen bound the trimmed rune count; text with length
	// <= MinLen or > MaxLen is rejected before any signal runs.
	MinLen int
	MaxLen int
	// MinConfidence is the acceptance floor for the accumulated score.
	MinConfidence float64
	// SizeRatio scales the body size into the minimum heading size.
	SizeRatio float64
	// MaxLevel clamps inferred levels.
	MaxLevel int
}

// DefaultScoreConfig returns the thresholds used in production.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		MinLen:        0,
		MaxLen:        200,
		MinConfidence: 0.6,
		SizeRatio:     1.15,
		MaxLevel:      6,
	}
}

// Scorer promotes content units to heading candidates from deterministic
// signals. It is a pure function of its inputs: the same unit, body size,
// and config always produce the same result.
type Scorer struct {
	cfg ScoreConfig
	nc  *NumberingClassifier
}

// NewScorer builds a scorer around a numbering classifier.
func NewScorer(cfg ScoreConfig, nc *NumberingClassifier) *Scorer {
	return &Scorer{cfg: cfg, nc: nc}
}

// Score evaluates one unit against the document's body font size.
// bodySize 0 means "no font data" and disables the size signal. The
// returned candidate has Source set to SourceHeuristic and no ID yet;
// ids are assigned by Collect.
func (s *Scorer) Score(u Unit, bodySize float64) (Candidate, bool) {
	text := strings.TrimSpace(u.Text)
	n := utf8.RuneCountInString(text)
	if n <= s.cfg.MinLen || n > s.cfg.MaxLen {
		return Candidate{}, false
	}

	confidence := 0.0
	level := 0

	token, numberingLevel := s.nc.Classify(text)
	if token != "" {
		confidence += weightNumbering
		level = numberingLevel
	}

	if bodySize > 0 && u.FontSize >= bodySize*s.cfg.SizeRatio {
		confidence += weightFontSize
		if level == 0 {
			switch ratio := u.FontSize / bodySize; {
			case ratio >= 1.8:
				level = 1
			case ratio >= 1.5:
				level = 2
			case ratio >= 1.2:
				level = 3
			default:
				level = 4
			}
		}
	}

	if u.Bold {
		confidence += weightBold
	}
	if u.X0 < leftMargin {
		confidence += weightPosition
	}

	if confidence < s.cfg.MinConfidence || level == 0 {
		return Candidate{}, false
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	if level > s.cfg.MaxLevel {
		level = s.cfg.MaxLevel
	}

	return Candidate{
		Text:       text,
		Page:       u.Page,
		Level:      level,
		Confidence: confidence,
		Numbering:  token,
		Source:     SourceHeuristic,
		FontSize:   u.FontSize,
		FontName:   u.FontName,
	}, true
}
