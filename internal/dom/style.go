// File: internal/dom/style.go
package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The host exposes already-computed style to the accessibility layer. There
// is no cascade here: computed values come from inline style declarations
// with standard inheritance for inheritable properties (visibility).

// ParseInlineStyle splits a style attribute into property/value pairs.
// Malformed declarations are dropped.
func ParseInlineStyle(style string) map[string]string {
	decls := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
		if prop == "" || val == "" {
			continue
		}
		decls[prop] = strings.ToLower(val)
	}
	return decls
}

// ComputedStyle returns the computed value of one property for n.
// "display" is non-inherited; "visibility" inherits from the nearest ancestor
// that declares it. Unknown properties resolve to the nearest declaration up
// the tree only when the property is inheritable, else to the node's own.
func (d *Document) ComputedStyle(n *html.Node, property string) string {
	property = strings.ToLower(property)
	inherited := property == "visibility"
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if style, ok := GetAttribute(cur, "style"); ok {
			if val, ok := ParseInlineStyle(style)[property]; ok {
				return val
			}
		}
		if !inherited {
			return ""
		}
	}
	return ""
}

// IsHidden reports whether n is hidden from rendering: display:none on itself
// or an ancestor, computed visibility:hidden/collapse, or the hidden
// attribute on itself or an ancestor.
func (d *Document) IsHidden(n *html.Node) bool {
	if n == nil {
		return true
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if HasAttribute(cur, "hidden") {
			return true
		}
		if style, ok := GetAttribute(cur, "style"); ok {
			if ParseInlineStyle(style)["display"] == "none" {
				return true
			}
		}
	}
	switch d.ComputedStyle(n, "visibility") {
	case "hidden", "collapse":
		return true
	}
	return false
}

// Rect is an element's bounding box in CSS pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// BoundingRect reports declared geometry for n. There is no layout engine;
// width/height come from inline styles, defaulting to zero. Hidden nodes
// report an empty rect the way a browser does for display:none.
func (d *Document) BoundingRect(n *html.Node) Rect {
	if n == nil || d.IsHidden(n) {
		return Rect{}
	}
	return Rect{
		Width:  parsePx(d.ComputedStyle(n, "width")),
		Height: parsePx(d.ComputedStyle(n, "height")),
	}
}

func parsePx(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// IsRenderedElement reports whether the node type participates in the
// accessibility tree at all. Metadata, scripting, and non-element/non-text
// nodes never do.
func IsRenderedElement(n *html.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template, atom.Noscript,
			atom.Head, atom.Meta, atom.Link, atom.Title, atom.Base:
			return false
		}
		return true
	default:
		return false
	}
}
