package outline

import "fmt"

type stackEntry struct {
	id    int
	level int
}

// BuildForest converts candidates, already in the (page, appearance)
// order established by Collect, into a forest. Parent links follow from
// a level-aware ancestor stack: a node attaches to the nearest preceding
// node of shallower level, or becomes a root when none is on the stack.
//
// Level jumps are accepted as-is (a level 4 right after a level 1
// becomes its direct child); consecutive equal levels become siblings.
// A candidate with level < 1 is a precondition violation from the
// calling phase and returns an error. The builder never drops or
// duplicates nodes: len(forest.Nodes) == len(cands).
func BuildForest(cands []Candidate) (*Forest, error) {
	f := &Forest{Nodes: make([]Node, len(cands))}
	for i, c := range cands {
		if c.Level < 1 {
			return nil, fmt.Errorf("candidate %d %q: level %d, want >= 1", i, c.Text, c.Level)
		}
		f.Nodes[i] = Node{
			Candidate: c,
			Parent:    -1,
			Range:     PageRange{Start: c.Page},
		}
	}

	var stack []stackEntry
	for i := range f.Nodes {
		level := f.Nodes[i].Level

		// A same-or-shallower node cannot be an ancestor.
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			f.Roots = append(f.Roots, i)
		} else {
			parent := stack[len(stack)-1].id
			f.Nodes[i].Parent = parent
			f.Nodes[parent].Children = append(f.Nodes[parent].Children, i)
		}
		stack = append(stack, stackEntry{id: i, level: level})
	}
	return f, nil
}
