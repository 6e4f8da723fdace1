// Package outline implements the heading-structure inference engine:
// promoting extracted text units to heading candidates, arranging the
// candidates into a forest, and deriving page ranges and keyword-scoped
// subtrees from that forest.
//
// # Overview
//
// A document arrives as an ordered sequence of content units (text plus
// font and position metadata) and, when the source carries one, an
// authoritative outline of (level, text, page) entries. The engine scores
// units against deterministic signals (numbering tokens, font size
// relative to the body text, weight, left position), merges the survivors
// with the authoritative entries, and builds the heading tree.
//
// # Key Concepts
//
//   - Candidate: a unit or outline entry promoted to "probably a heading"
//     with a confidence in [0,1] and a level (1 = shallowest).
//
//   - Forest: a dense arena of nodes indexed by candidate id, with
//     parent/child edges stored as integer ids. Ids are assigned once by
//     Collect and never renumbered.
//
//   - Page range: the inclusive page span a heading governs, derived from
//     the position of its next sibling. Sections without a next sibling
//     keep an unknown end.
//
// # Usage
//
//	sc := outline.NewScorer(outline.DefaultScoreConfig(), classifier)
//	var heur []outline.Candidate
//	for _, u := range units {
//		if c, ok := sc.Score(u, stats.MedianSize); ok {
//			heur = append(heur, c)
//		}
//	}
//	cands := outline.Collect(auth, heur)
//	forest, err := outline.BuildForest(cands)
//	outline.ResolveRanges(forest)
//
// # Architecture
//
//   - types.go: Unit, Entry, Candidate, Node, Forest
//   - numbering.go: ordered-pattern numbering classification
//   - score.go: per-unit heuristic scoring
//   - fontstats.go: body-size and numbering statistics over a document
//   - collect.go: source merging, dedup, id assignment
//   - tree.go: level-aware stack construction of the forest
//   - ranges.go: next-sibling scan and page-range derivation
//   - filter.go: keyword-scoped subtree views
//
// Everything in this package is pure: no I/O, no goroutines, no clocks.
// Extraction, model judgment, and rendering live in sibling packages and
// communicate with the engine through the value types defined here.
package outline
