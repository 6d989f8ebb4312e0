// File: internal/dom/dom.go

// Package dom provides the in-process host document tree the screen reader
// engine runs against. It wraps golang.org/x/net/html nodes with attribute
// and text mutation primitives, a computed style/visibility query, focus
// tracking, and a mutation/focus notification subscription. Every mutation
// performed through a Document is recorded and delivered to observers on the
// next Settle, mirroring how a browser batches MutationObserver callbacks.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns one parsed HTML tree and its notification queues.
type Document struct {
	root   *html.Node
	logger *zap.Logger

	mu               sync.Mutex
	pendingMutations []MutationRecord
	pendingFocus     []FocusEvent
	mutationObs      map[int]func([]MutationRecord)
	focusObs         map[int]func(FocusEvent)
	nextObsID        int

	focused   *html.Node
	listeners map[*html.Node]map[string][]EventHandler
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, logger *zap.Logger) (*Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: failed to parse document: %w", err)
	}
	return &Document{
		root:        root,
		logger:      logger.Named("dom"),
		mutationObs: map[int]func([]MutationRecord){},
		focusObs:    map[int]func(FocusEvent){},
		listeners:   map[*html.Node]map[string][]EventHandler{},
	}, nil
}

// ParseString is a convenience wrapper around Parse for tests and the CLI.
func ParseString(markup string, logger *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(markup), logger)
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the document's body element, or nil if the tree has none.
func (d *Document) Body() *html.Node {
	return htmlquery.FindOne(d.root, "//body")
}

// GetElementByID finds an element by its id attribute.
func (d *Document) GetElementByID(id string) *html.Node {
	if id == "" || strings.Contains(id, "'") {
		return nil
	}
	return htmlquery.FindOne(d.root, fmt.Sprintf("//*[@id='%s']", id))
}

// --- Read-only node helpers ---

// TagName returns the lowercase tag name of an element node, or "" otherwise.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// GetAttribute returns the value of the named attribute and whether it exists.
func GetAttribute(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, name) {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func HasAttribute(n *html.Node, name string) bool {
	_, ok := GetAttribute(n, name)
	return ok
}

// TextContent returns the concatenated text of the subtree rooted at n,
// skipping script and style content, with whitespace collapsed.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return CollapseWhitespace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template, atom.Noscript:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
		// Element boundaries separate words even without literal whitespace.
		if c.Type == html.ElementNode {
			sb.WriteByte(' ')
		}
	}
}

// CollapseWhitespace trims and collapses runs of whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// --- Mutating operations ---

// SetAttribute sets an attribute and records an attribute mutation.
func (d *Document) SetAttribute(n *html.Node, name, value string) {
	if n == nil {
		return
	}
	name = strings.ToLower(name)
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, name) {
			n.Attr[i].Val = value
			d.recordMutation(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: name})
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
	d.recordMutation(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: name})
}

// RemoveAttribute removes an attribute and records an attribute mutation.
func (d *Document) RemoveAttribute(n *html.Node, name string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, name) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.recordMutation(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: strings.ToLower(name)})
			return
		}
	}
}

// AppendChild attaches child as the last child of parent and records a
// childList mutation.
func (d *Document) AppendChild(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	parent.AppendChild(child)
	d.recordMutation(MutationRecord{Type: MutationChildList, Target: parent, AddedNodes: []*html.Node{child}})
}

// RemoveChild detaches child from parent and records a childList mutation.
func (d *Document) RemoveChild(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	parent.RemoveChild(child)
	d.recordMutation(MutationRecord{Type: MutationChildList, Target: parent, RemovedNodes: []*html.Node{child}})
}

// AppendText appends a new text node under parent and records a childList
// mutation carrying the added node.
func (d *Document) AppendText(parent *html.Node, text string) *html.Node {
	if parent == nil {
		return nil
	}
	tn := &html.Node{Type: html.TextNode, Data: text}
	parent.AppendChild(tn)
	d.recordMutation(MutationRecord{Type: MutationChildList, Target: parent, AddedNodes: []*html.Node{tn}})
	return tn
}

// SetTextContent replaces the subtree of n with a single text node and
// records a characterData mutation against n.
func (d *Document) SetTextContent(n *html.Node, text string) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	d.recordMutation(MutationRecord{Type: MutationCharacterData, Target: n})
}

// --- Focus ---

// Focus moves document focus to n and queues a focus event. Unfocusable
// targets are ignored.
func (d *Document) Focus(n *html.Node) {
	if n == nil || !IsFocusable(n) {
		d.logger.Debug("ignoring focus request on unfocusable node", zap.String("tag", TagName(n)))
		return
	}
	d.mu.Lock()
	d.focused = n
	d.pendingFocus = append(d.pendingFocus, FocusEvent{Target: n})
	d.mu.Unlock()
}

// ActiveElement returns the currently focused node, or nil.
func (d *Document) ActiveElement() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// IsFocusable reports whether a node can receive document focus: natively
// focusable tags, or any element with a tabindex, excluding disabled and
// inert elements.
func IsFocusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if HasAttribute(n, "disabled") || HasAttribute(n, "inert") {
		return false
	}
	if HasAttribute(n, "tabindex") {
		return true
	}
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea, atom.Summary:
		return true
	case atom.A, atom.Area:
		return HasAttribute(n, "href")
	}
	return false
}

// Focusables returns all focusable elements in document order under root.
func (d *Document) Focusables(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if IsFocusable(n) && !d.IsHidden(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
