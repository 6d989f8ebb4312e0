// File: internal/a11y/phrase.go
package a11y

import (
	"strings"

	"github.com/earshot-dev/earshot/internal/aria"
	"github.com/earshot-dev/earshot/internal/dom"
)

// Phrase renders one flattened entry into its spoken phrase: the ordered,
// comma-joined composition of spoken role, accessible name, accessible
// value, and accessible description. Boundary entries render as
// "end of <role>". Deterministic given the node's fields.
func Phrase(f FlatNode) string {
	if f.Node == nil {
		return ""
	}
	if f.Boundary {
		return "end of " + f.SpokenRole
	}

	var parts []string
	if f.SpokenRole != "" {
		parts = append(parts, f.SpokenRole)
	}
	// The document role is purely structural; its subtree text is not a name.
	if f.Name != "" && f.Role != aria.RoleDocument {
		parts = append(parts, f.Name)
	}
	if f.Value != "" {
		parts = append(parts, f.Value)
	}
	if f.Description != "" && f.Description != f.Name {
		parts = append(parts, f.Description)
	}
	return strings.Join(parts, ", ")
}

// ItemText renders the entry's item text: the node's own accessible name
// when present, else its concatenated visible text content. Boundary entries
// render empty.
func ItemText(f FlatNode) string {
	if f.Node == nil || f.Boundary {
		return ""
	}
	if f.Name != "" {
		return f.Name
	}
	if f.DOM != nil {
		return dom.TextContent(f.DOM)
	}
	return ""
}
