package outline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultPatterns is ordered most-specific first: classification is
// first-match-wins and performs no conflict resolution of its own.
var defaultPatterns = []string{
	`^\d+\.\d+\.\d+`,                  // 1.2.3
	`^\d+\.\d+`,                       // 1.2
	`^\d+\.`,                          // 1.
	`^第[一二三四五六七八九十百千零\d]+章`, // 第三章, 第12章
	`^[(（][一二三四五六七八九十]+[)）]`,  // (一), （三）
	`^[A-Z]\.`,                        // A.
}

// DefaultPatterns returns the built-in numbering pattern set, ordered
// most-specific first.
func DefaultPatterns() []string {
	out := make([]string, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

type numberingPattern struct {
	src string
	re  *regexp.Regexp
}

// NumberingClassifier maps the start of a text label to a numbering
// token and a heading level using an ordered pattern list.
type NumberingClassifier struct {
	patterns []numberingPattern
}

// NewNumberingClassifier compiles the given pattern sources in order.
// Patterns are anchored at the start of the text; a missing leading ^
// is added. An empty list falls back to DefaultPatterns.
func NewNumberingClassifier(patterns []string) (*NumberingClassifier, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	nc := &NumberingClassifier{patterns: make([]numberingPattern, 0, len(patterns))}
	for _, src := range patterns {
		anchored := src
		if !strings.HasPrefix(anchored, "^") {
			anchored = "^" + anchored
		}
		re, err := regexp.Compile(anchored)
		if err != nil {
			return nil, fmt.Errorf("compile numbering pattern %q: %w", src, err)
		}
		nc.patterns = append(nc.patterns, numberingPattern{src: src, re: re})
	}
	return nc, nil
}

// Classify returns the numbering token found at the start of text and
// the level inferred from it. No pattern match yields ("", 0); this is
// a valid "not numbered" result, never an error.
func (nc *NumberingClassifier) Classify(text string) (string, int) {
	_, token, ok := nc.Match(text)
	if !ok {
		return "", 0
	}
	return token, levelFromToken(token)
}

// Match reports the first pattern matching the start of the trimmed
// text, together with the matched token. Used by Classify and by the
// numbering census in fontstats.
func (nc *NumberingClassifier) Match(text string) (pattern, token string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}
	for _, p := range nc.patterns {
		if m := p.re.FindString(text); m != "" {
			return p.src, m, true
		}
	}
	return "", "", false
}

// levelFromToken infers a level from a numbering token. The rules are
// checked in order, first match wins:
//
//  1. token contains dot separators → level = number of dots
//     ("1.2.3" has two dots and yields level 2; the dot count is the
//     contract, not the segment count)
//  2. chapter-style token (contains 章) → level 1
//  3. parenthesized style (contains "(" or "）") → level 2
//  4. exactly two runes starting with an uppercase letter → level 2
//  5. fallback → level 1
func levelFromToken(token string) int {
	if dots := strings.Count(token, "."); dots > 0 {
		return dots
	}
	if strings.Contains(token, "章") {
		return 1
	}
	if strings.ContainsAny(token, "(）") {
		return 2
	}
	if utf8.RuneCountInString(token) == 2 {
		r, _ := utf8.DecodeRuneInString(token)
		if unicode.IsUpper(r) {
			return 2
		}
	}
	return 1
}
