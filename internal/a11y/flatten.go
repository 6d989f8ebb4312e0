// File: internal/a11y/flatten.go
package a11y

import (
	"github.com/earshot-dev/earshot/internal/aria"
)

// Flatten converts the hierarchical tree into the ordered sequence the
// cursor walks. Strict document order; no reordering, no deduplication.
//
// Exclusion rules: presentational and inert nodes are not independent stops,
// but their subtrees keep being walked so text content survives. Nodes that
// absorb their content (children-presentational roles and name-from-content
// roles) are emitted once with no separate descendant entries. Containers
// that announce a role close with a synthetic "end of X" boundary.
func Flatten(root *Node) []FlatNode {
	if root == nil {
		return nil
	}
	var out []FlatNode
	flattenInto(root, &out)
	return out
}

func flattenInto(n *Node, out *[]FlatNode) {
	if n == nil {
		return
	}

	if !isStop(n) {
		// Not a stop itself; its children may still be.
		for _, c := range n.Children {
			flattenInto(c, out)
		}
		return
	}

	*out = append(*out, FlatNode{Node: n})

	if absorbsChildren(n) {
		// Descendants' roles are never separate entries; their text reaches
		// the output through this node's item text.
		return
	}

	for _, c := range n.Children {
		flattenInto(c, out)
	}

	if n.SpokenRole != "" {
		*out = append(*out, FlatNode{Node: n, Boundary: true})
	}
}

// isStop reports whether the node is an independent traversal stop: it must
// be exposed (not presentational, not inert) and have something to announce.
func isStop(n *Node) bool {
	if n.IsPresentational() || n.Inert {
		return false
	}
	if n.IsText() {
		return n.Name != ""
	}
	return n.SpokenRole != "" || n.Name != ""
}

// absorbsChildren reports whether the node's descendants fold into it rather
// than appearing as their own entries. Rows name themselves from content but
// still expose their cells as stops.
func absorbsChildren(n *Node) bool {
	if n.ChildrenPresentational {
		return true
	}
	return aria.NameFromContent(n.Role) && n.Role != "row"
}
