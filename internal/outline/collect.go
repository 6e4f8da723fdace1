package outline

import (
	"sort"
	"strings"
)

// DefaultAuthoritativeSkip is the candidate count above which an
// authoritative outline is trusted as complete and heuristic scoring is
// skipped by the calling phase. Collect itself merges whatever it is
// handed; the skip decision happens before heuristics are generated.
const DefaultAuthoritativeSkip = 10

// FromEntries converts authoritative outline entries into candidates
// with confidence fixed at 1.0. Entries with empty text or a level
// below 1 are dropped.
func FromEntries(entries []Entry) []Candidate {
	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" || e.Level < 1 {
			continue
		}
		page := e.Page
		if page < 1 {
			page = 1
		}
		out = append(out, Candidate{
			Text:       text,
			Page:       page,
			Level:      e.Level,
			Confidence: 1.0,
			Source:     SourceAuthoritative,
		})
	}
	return out
}

// Collect merges authoritative and heuristic candidates into the single
// ordered sequence the tree builder consumes. Exact duplicate text
// (after trimming) is kept once, preferring the authoritative entry.
// The output is ordered by page with ties broken by appearance order,
// and ids 0..N-1 are assigned in that order. Ids are positional and are
// never renumbered by later stages.
func Collect(authoritative, heuristic []Candidate) []Candidate {
	authText := make(map[string]bool, len(authoritative))
	for _, c := range authoritative {
		authText[strings.TrimSpace(c.Text)] = true
	}

	merged := make([]Candidate, 0, len(authoritative)+len(heuristic))
	merged = append(merged, authoritative...)
	merged = append(merged, heuristic...)

	seen := make(map[string]bool, len(merged))
	out := make([]Candidate, 0, len(merged))
	for _, c := range merged {
		key := strings.TrimSpace(c.Text)
		if key == "" || seen[key] {
			continue
		}
		// A heuristic twin of an authoritative entry yields to it even
		// when the heuristic one appears first in document order.
		if c.Source == SourceHeuristic && authText[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	for i := range out {
		out[i].ID = i
	}
	return out
}
