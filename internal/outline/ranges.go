package outline

// sharedPageGap is the sibling page distance up to which the closing
// section is credited with the page the next sibling starts on: a
// heading occupying the lower half of a page can share that page with
// its successor's opening.
const sharedPageGap = 2

// ResolveRanges derives the inclusive page range of every node from the
// position of its next sibling: the first following node with the same
// level and the same parent. The scan stops early when a shallower node
// appears, which closes the sibling group. Nodes without a next sibling
// keep End nil: the section runs to the end of the document or of its
// parent, which is left unresolved rather than guessed.
//
// The resolver must run over the complete, unfiltered forest so ranges
// reflect true document structure even for nodes a later filter drops.
// It is idempotent: every field it writes is recomputed from scratch.
func ResolveRanges(f *Forest) {
	for i := range f.Nodes {
		n := &f.Nodes[i]
		n.Range = PageRange{Start: n.Page}
		n.NextSiblingPage = nil

		for j := i + 1; j < len(f.Nodes); j++ {
			next := &f.Nodes[j]
			if next.Level < n.Level {
				break
			}
			if next.Level != n.Level || next.Parent != n.Parent {
				continue
			}

			siblingPage := next.Page
			n.NextSiblingPage = &siblingPage

			end := siblingPage
			if siblingPage-n.Page > sharedPageGap {
				end = siblingPage - 1
			}
			if end < n.Range.Start {
				end = n.Range.Start
			}
			n.Range.End = &end
			break
		}
	}
}
