package outline

import (
	"math"
	"sort"
)

// FontStats summarizes the font landscape of a document plus a census of
// numbering patterns seen at unit starts. BodySize is the most common
// size (the body text); MedianSize is the midpoint size the scorer uses
// as its reference. Both are zero when no unit carries font data, which
// disables the size signal downstream.
type FontStats struct {
	BodySize        float64         `json:"body_size"`
	MedianSize      float64         `json:"median_size"`
	MinSize         float64         `json:"min_size"`
	MaxSize         float64         `json:"max_size"`
	AvgSize         float64         `json:"avg_size"`
	Distribution    map[float64]int `json:"distribution"`
	NumberingCensus map[string]int  `json:"numbering_census"`
}

// Stats computes font statistics over all sized units and, when a
// classifier is given, counts how many units open with each numbering
// pattern. Units with no font data (markdown, plain-text fallbacks)
// contribute to the census only.
func Stats(units []Unit, nc *NumberingClassifier) FontStats {
	st := FontStats{
		Distribution:    make(map[float64]int),
		NumberingCensus: make(map[string]int),
	}

	var sizes []float64
	for _, u := range units {
		if u.FontSize > 0 {
			sizes = append(sizes, u.FontSize)
			st.Distribution[roundSize(u.FontSize)]++
		}
		if nc != nil {
			if pattern, _, ok := nc.Match(u.Text); ok {
				st.NumberingCensus[pattern]++
			}
		}
	}
	if len(sizes) == 0 {
		return st
	}

	sort.Float64s(sizes)
	st.MinSize = sizes[0]
	st.MaxSize = sizes[len(sizes)-1]
	st.MedianSize = sizes[len(sizes)/2]

	var sum float64
	for _, s := range sizes {
		sum += s
	}
	st.AvgSize = sum / float64(len(sizes))

	// Mode of the rounded distribution; ties resolve to the larger size
	// so the result is deterministic.
	var bestCount int
	for size, count := range st.Distribution {
		if count > bestCount || (count == bestCount && size > st.BodySize) {
			st.BodySize = size
			bestCount = count
		}
	}
	return st
}

func roundSize(s float64) float64 {
	return math.Round(s*10) / 10
}
