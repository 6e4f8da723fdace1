package outline

import "encoding/json"

// Unit is one span of text extracted from a document page, carrying the
// font and position metadata the scorer feeds on. Units are immutable
// once produced by a reader.
type Unit struct {
	Text     string  `json:"text"`
	Page     int     `json:"page"`
	Index    int     `json:"index"`
	FontSize float64 `json:"font_size,omitempty"`
	FontName string  `json:"font_name,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	X0       float64 `json:"x0,omitempty"`
}

// Entry is one authoritative outline item (a PDF bookmark, an ATX
// heading, an <h1>..<h6> tag) with its pre-assigned level.
type Entry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Source states which signal path produced a candidate.
type Source string

const (
	// SourceAuthoritative marks candidates taken from an embedded
	// outline; they carry confidence 1.0 and win text-duplicate merges.
	SourceAuthoritative Source = "authoritative"
	// SourceHeuristic marks candidates produced by the scorer or by a
	// semantic judgment pass.
	SourceHeuristic Source = "heuristic"
)

// Candidate is a unit or entry promoted to "probably a heading".
// ID is dense and order-stable, assigned by Collect; level 1 is the
// shallowest. Confidence stays in [0,1].
type Candidate struct {
	ID         int     `json:"id"`
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
	Numbering  string  `json:"numbering,omitempty"`
	Source     Source  `json:"source"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontName   string  `json:"font_name,omitempty"`
}

// PageRange is the inclusive page span a heading governs. End is nil
// while unknown (no next sibling was found).
type PageRange struct {
	Start int  `json:"start"`
	End   *int `json:"end"`
}

// Node is a candidate placed in the forest. Parent is -1 for top-level
// nodes. Children holds ids in document order.
type Node struct {
	Candidate
	Parent          int       `json:"parent"`
	Children        []int     `json:"children,omitempty"`
	Range           PageRange `json:"page_range"`
	NextSiblingPage *int      `json:"next_sibling_page,omitempty"`
}

// Forest is a dense arena of nodes indexed by candidate id plus the list
// of top-level ids. Edges are integer ids into Nodes, never pointers.
type Forest struct {
	Nodes []Node `json:"nodes"`
	Roots []int  `json:"roots"`
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int { return len(f.Nodes) }

// Node returns the node with the given id, or nil when out of range.
func (f *Forest) Node(id int) *Node {
	if id < 0 || id >= len(f.Nodes) {
		return nil
	}
	return &f.Nodes[id]
}

// Walk visits every node in pre-order, roots in document order. The walk
// stops when fn returns false.
func (f *Forest) Walk(fn func(n *Node) bool) {
	var visit func(id int) bool
	visit = func(id int) bool {
		if !fn(&f.Nodes[id]) {
			return false
		}
		for _, c := range f.Nodes[id].Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, r := range f.Roots {
		if !visit(r) {
			return
		}
	}
}

// String renders the forest as indented JSON, for logs and debugging.
func (f *Forest) String() string {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "Forest{<unmarshalable>}"
	}
	return string(data)
}
