// File: internal/a11y/synthesize.go
package a11y

import (
	"github.com/earshot-dev/earshot/internal/aria"
	"github.com/earshot-dev/earshot/internal/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Synthesizer derives the hierarchical accessibility tree from the live
// document. Trees are pure derived state: synthesize, use, discard.
type Synthesizer struct {
	doc        *dom.Document
	classifier *Classifier
	logger     *zap.Logger
}

// NewSynthesizer wires a synthesizer over one document.
func NewSynthesizer(doc *dom.Document, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		doc:        doc,
		classifier: NewClassifier(aria.NewOracle(doc, logger), logger),
		logger:     logger.Named("synthesizer"),
	}
}

// Synthesize builds the accessibility tree rooted at container. It returns
// nil when the container itself is excluded from the tree, in which case the
// tree is empty.
func (s *Synthesizer) Synthesize(container *html.Node) *Node {
	if container == nil {
		return nil
	}
	root := s.walk(container, Inherited{}, true)
	if root == nil {
		return nil
	}
	// The synthesis container reads as the document itself when its own role
	// carries no announcement of its own.
	if root.Role == aria.RoleGeneric || root.Role == "" || root.Role == aria.RoleDocument {
		root.Role = aria.RoleDocument
		root.SpokenRole = aria.RoleDocument
	}
	return root
}

func (s *Synthesizer) walk(n *html.Node, inh Inherited, isContainer bool) *Node {
	if !dom.IsRenderedElement(n) {
		return nil
	}

	if n.Type == html.TextNode {
		text := dom.CollapseWhitespace(n.Data)
		if text == "" {
			return nil
		}
		return &Node{
			DOM:          n,
			Role:         RoleText,
			Name:         text,
			Inert:        inh.Inert,
			ParentDialog: inh.Dialog,
		}
	}

	// Genuinely hidden subtrees are pruned outright. Presentational nodes
	// are not hidden; they keep walking so their text survives.
	if s.hiddenFromTree(n) {
		return nil
	}

	node := s.classifier.Classify(n, inh)
	node.ParentDialog = inh.Dialog

	childInh := Inherited{
		Presentational: node.ChildrenPresentational,
		AllowedRoles:   node.AllowedChildRoles,
		Inert:          node.Inert,
		Dialog:         inh.Dialog,
	}
	// parentDialog is re-evaluated at dialog nodes and inherited unchanged
	// everywhere else.
	if IsModalDialog(n) {
		childInh.Dialog = n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := s.walk(c, childInh, false); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// hiddenFromTree applies the host environment's hidden semantics plus
// aria-hidden. aria-hidden is honored only when the subtree holds no
// focusable element; hiding a focus target would strand keyboard users.
func (s *Synthesizer) hiddenFromTree(n *html.Node) bool {
	if s.doc.IsHidden(n) {
		return true
	}
	if v, ok := dom.GetAttribute(n, "aria-hidden"); ok && v == "true" {
		return len(s.doc.Focusables(n)) == 0
	}
	return false
}
