// File: internal/a11y/node.go

// Package a11y synthesizes the accessibility tree: it walks the host
// document, classifies each node's role and state, propagates
// presentational/inert/modal semantics, flattens the result into an ordered
// traversal sequence, and renders nodes into spoken phrases.
package a11y

import (
	"golang.org/x/net/html"
)

// RoleText tags plain text nodes in the accessibility tree.
const RoleText = "text"

// Node is one entry in the synthesized accessibility tree.
type Node struct {
	// DOM points at the underlying document node. It is a non-owning
	// reference used for identity comparison only.
	DOM *html.Node

	// Role is the resolved semantic role from the role-data vocabulary.
	Role string
	// SpokenRole is the role text actually announced: empty for
	// presentational and generic roles, overridden by aria-roledescription.
	SpokenRole string

	Name        string
	Description string
	Value       string

	// ExplicitPresentational marks an explicit presentation/none role.
	ExplicitPresentational bool
	// Inert excludes the node from interaction and exposure.
	Inert bool
	// ChildrenPresentational folds all descendants into this node; their
	// text reaches the output only through this node's item text.
	ChildrenPresentational bool
	// AllowedChildRoles is the set of roles a child is exempt from
	// presentational inheritance under (the implicit role's required
	// owned-element roles).
	AllowedChildRoles []string

	// ParentDialog is a non-owning reference to the nearest open modal
	// ancestor dialog, or nil.
	ParentDialog *html.Node

	// Children are the node's tree edges, in document order.
	Children []*Node
}

// IsPresentational reports whether the resolved role removes the node from
// announcement.
func (n *Node) IsPresentational() bool {
	return n.Role == "presentation" || n.Role == "none"
}

// IsText reports whether the node wraps a document text node.
func (n *Node) IsText() bool { return n.Role == RoleText }

// FlatNode is one entry of the flattened traversal sequence. A boundary
// entry is a synthetic "end of X" marker carrying the same role and name as
// its opening node; boundaries have no children and are never classified
// independently.
type FlatNode struct {
	*Node
	Boundary bool
}

// Matches reports whether two flattened entries denote the same traversal
// stop. The tree is resynthesized on every access, so position is recovered
// by the underlying document node's identity plus the announced fields, not
// by array offset.
func (f FlatNode) Matches(other FlatNode) bool {
	return f.DOM == other.DOM &&
		f.Boundary == other.Boundary &&
		f.Role == other.Role &&
		f.SpokenRole == other.SpokenRole &&
		f.Name == other.Name &&
		f.Description == other.Description &&
		f.Value == other.Value
}
