// File: internal/a11y/classifier.go
package a11y

import (
	"strings"

	"github.com/earshot-dev/earshot/internal/aria"
	"github.com/earshot-dev/earshot/internal/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Inherited carries the context threaded down the document tree during
// synthesis.
type Inherited struct {
	// Presentational is set below a node that forces its children
	// presentational.
	Presentational bool
	// AllowedRoles exempts child roles from presentational inheritance.
	AllowedRoles []string
	// Inert is set below an inert ancestor.
	Inert bool
	// Dialog is the nearest open modal ancestor dialog.
	Dialog *html.Node
}

// Classifier computes the per-node accessibility fields. All lookups degrade
// to empty defaults; classification never fails, whatever the markup.
type Classifier struct {
	oracle *aria.Oracle
	logger *zap.Logger
}

// NewClassifier builds a classifier over the given naming oracle.
func NewClassifier(oracle *aria.Oracle, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{oracle: oracle, logger: logger.Named("classifier")}
}

// Classify resolves one element's accessibility fields under the inherited
// context. Tree-level fields (ParentDialog, Children) are the synthesizer's
// responsibility.
func (c *Classifier) Classify(n *html.Node, inh Inherited) *Node {
	node := &Node{DOM: n}

	// Name first, then description, suppressed when it only repeats the name.
	node.Name = c.oracle.Name(n)
	node.Description = c.oracle.Description(n)
	if node.Description == node.Name {
		node.Description = ""
	}

	res := aria.ResolveRole(n, inh.AllowedRoles, inh.Presentational)
	node.Role = res.Role
	node.ExplicitPresentational = aria.IsPresentationalRole(res.ExplicitRole)

	node.Value = c.oracle.Value(n, node.Role)
	node.SpokenRole = spokenRole(n, node.Role)

	// A node forces its children presentational when its role always does
	// (button, img, ...), or when it is itself presentational, explicitly or
	// by inheritance, and its implicit role names required owned elements.
	implicitData := aria.Lookup(res.ImplicitRole)
	node.ChildrenPresentational = aria.Lookup(node.Role).ChildrenPresentational ||
		((node.ExplicitPresentational || inh.Presentational) && len(implicitData.AllowedChildRoles) > 0)
	node.AllowedChildRoles = implicitData.AllowedChildRoles

	node.Inert = dom.HasAttribute(n, "inert") || (inh.Inert && !IsModalDialog(n))

	return node
}

// spokenRole derives the announced role text: nothing for presentational and
// generic roles, the author's aria-roledescription when present, else the
// resolved role name.
func spokenRole(n *html.Node, role string) string {
	if aria.IsPresentationalRole(role) || role == aria.RoleGeneric || role == "" {
		return ""
	}
	if desc, ok := dom.GetAttribute(n, "aria-roledescription"); ok {
		if desc = dom.CollapseWhitespace(desc); desc != "" {
			return desc
		}
	}
	return role
}

// IsModalDialog reports whether n currently restricts navigation to its own
// subtree: a native dialog element that is open, or an element carrying a
// dialog role together with aria-modal.
func IsModalDialog(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if dom.TagName(n) == "dialog" {
		return dom.HasAttribute(n, "open")
	}
	if role, ok := dom.GetAttribute(n, "role"); ok {
		for _, token := range strings.Fields(strings.ToLower(role)) {
			if token == aria.RoleDialog || token == aria.RoleAlertDialog {
				modal, _ := dom.GetAttribute(n, "aria-modal")
				return strings.EqualFold(strings.TrimSpace(modal), "true")
			}
		}
	}
	return false
}

// IsAriaModal reports whether the dialog node is currently marked
// aria-modal, which is what scopes cursor navigation. Native dialogs opened
// with showModal always scope; the in-process host models that with the
// aria-modal attribute as well.
func IsAriaModal(dialog *html.Node) bool {
	if dialog == nil {
		return false
	}
	modal, _ := dom.GetAttribute(dialog, "aria-modal")
	return strings.EqualFold(strings.TrimSpace(modal), "true")
}
