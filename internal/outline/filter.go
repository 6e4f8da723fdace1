package outline

import "strings"

// FinancialKeywords is the section vocabulary of Chinese financial
// reports this engine was first built for: consolidated statements and
// their notes. Pass it to FilterSubtrees to reduce an annual report
// outline to the statement sections.
var FinancialKeywords = []string{
	"合并资产负债表",
	"合并利润表",
	"合并现金流量表",
	"合并财务报表项目注释",
	"财务报表附注",
	"报表附注",
	"附注",
}

// FilterSubtrees returns the ids of every node whose text contains any
// keyword (case-sensitive substring, OR across the set) together with
// all of its descendants. The result preserves original id order; node
// content, ids, and children lists are untouched, so children ids may
// reference nodes outside the returned set but remain valid lookups
// against the forest. An empty keyword set keeps everything.
func FilterSubtrees(f *Forest, keywords []string) []int {
	if len(keywords) == 0 {
		all := make([]int, len(f.Nodes))
		for i := range all {
			all[i] = i
		}
		return all
	}

	keep := make([]bool, len(f.Nodes))
	var mark func(id int)
	mark = func(id int) {
		if keep[id] {
			return
		}
		keep[id] = true
		for _, c := range f.Nodes[id].Children {
			mark(c)
		}
	}

	for i := range f.Nodes {
		if keep[i] {
			continue
		}
		for _, kw := range keywords {
			if kw != "" && strings.Contains(f.Nodes[i].Text, kw) {
				mark(i)
				break
			}
		}
	}

	out := make([]int, 0, len(f.Nodes))
	for i, kept := range keep {
		if kept {
			out = append(out, i)
		}
	}
	return out
}
