// File: internal/aria/naming.go
package aria

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/earshot-dev/earshot/internal/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Oracle computes accessible names, descriptions, and values for nodes of
// one document, following the accname precedence rules: aria-labelledby,
// aria-label, native markup, title.
type Oracle struct {
	doc    *dom.Document
	logger *zap.Logger
}

// NewOracle binds a naming oracle to a document.
func NewOracle(doc *dom.Document, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{doc: doc, logger: logger.Named("accname")}
}

// Name computes the accessible name of n.
func (o *Oracle) Name(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return dom.CollapseWhitespace(n.Data)
	}

	if ids, ok := dom.GetAttribute(n, "aria-labelledby"); ok {
		if name := o.textFromIDRefs(ids); name != "" {
			return name
		}
	}
	if label, ok := dom.GetAttribute(n, "aria-label"); ok {
		if label = dom.CollapseWhitespace(label); label != "" {
			return label
		}
	}
	if name := o.nativeName(n); name != "" {
		return name
	}
	if title, ok := dom.GetAttribute(n, "title"); ok {
		return dom.CollapseWhitespace(title)
	}
	return ""
}

// Description computes the accessible description of n. Callers suppress it
// when it duplicates the name.
func (o *Oracle) Description(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if ids, ok := dom.GetAttribute(n, "aria-describedby"); ok {
		if desc := o.textFromIDRefs(ids); desc != "" {
			return desc
		}
	}
	if desc, ok := dom.GetAttribute(n, "aria-description"); ok {
		return dom.CollapseWhitespace(desc)
	}
	// title doubles as description only when it did not already supply the name
	if title, ok := dom.GetAttribute(n, "title"); ok {
		if o.Name(n) != dom.CollapseWhitespace(title) {
			return dom.CollapseWhitespace(title)
		}
	}
	return ""
}

// Value computes the accessible value of n for the given effective role.
// Boolean widget states render as fixed lexical tokens ("pressed",
// "not checked", ...); range widgets render numerically.
func (o *Oracle) Value(n *html.Node, role string) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	switch role {
	case RoleHeading:
		return fmt.Sprintf("level %d", HeadingLevel(n))
	case "button":
		if pressed, ok := dom.GetAttribute(n, "aria-pressed"); ok {
			return tristate(pressed, "pressed", "not pressed")
		}
		return ""
	case "checkbox", "radio", "switch", "menuitemcheckbox", "menuitemradio":
		if checked, ok := dom.GetAttribute(n, "aria-checked"); ok {
			return tristate(checked, "checked", "not checked")
		}
		if n.DataAtom == atom.Input {
			if dom.HasAttribute(n, "checked") {
				return "checked"
			}
			return "not checked"
		}
		return ""
	case "slider", "spinbutton", "progressbar", "meter":
		if text, ok := dom.GetAttribute(n, "aria-valuetext"); ok && text != "" {
			return dom.CollapseWhitespace(text)
		}
		if now, ok := dom.GetAttribute(n, "aria-valuenow"); ok {
			return dom.CollapseWhitespace(now)
		}
		if v, ok := dom.GetAttribute(n, "value"); ok {
			return dom.CollapseWhitespace(v)
		}
		return ""
	case "textbox", "searchbox":
		if n.DataAtom == atom.Textarea {
			return dom.TextContent(n)
		}
		if v, ok := dom.GetAttribute(n, "value"); ok {
			return dom.CollapseWhitespace(v)
		}
		return ""
	case "combobox", "listbox":
		if v, ok := dom.GetAttribute(n, "value"); ok {
			return dom.CollapseWhitespace(v)
		}
		if n.DataAtom == atom.Select {
			if opt := htmlquery.FindOne(n, ".//option[@selected]"); opt != nil {
				return dom.TextContent(opt)
			}
			if opt := htmlquery.FindOne(n, ".//option"); opt != nil {
				return dom.TextContent(opt)
			}
		}
		return ""
	}
	return ""
}

// HeadingLevel returns the level of a heading node: aria-level when valid,
// else the native h1-h6 level, else 2 (the ARIA default).
func HeadingLevel(n *html.Node) int {
	if lvl, ok := dom.GetAttribute(n, "aria-level"); ok {
		var level int
		if _, err := fmt.Sscanf(strings.TrimSpace(lvl), "%d", &level); err == nil && level > 0 {
			return level
		}
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 2
}

// tristate maps an aria boolean attribute value onto its spoken tokens.
func tristate(v, whenTrue, whenFalse string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return whenTrue
	case "mixed":
		return "mixed"
	default:
		return whenFalse
	}
}

// textFromIDRefs joins the text content of the elements referenced by a
// space-separated id list. Dangling references are skipped.
func (o *Oracle) textFromIDRefs(ids string) string {
	var parts []string
	for _, id := range strings.Fields(ids) {
		ref := o.doc.GetElementByID(id)
		if ref == nil {
			o.logger.Debug("dangling id reference in accname computation", zap.String("id", id))
			continue
		}
		if text := dom.TextContent(ref); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// nativeName applies the host-language naming rules for n's markup.
func (o *Oracle) nativeName(n *html.Node) string {
	switch n.DataAtom {
	case atom.Img, atom.Area:
		alt, _ := dom.GetAttribute(n, "alt")
		return dom.CollapseWhitespace(alt)
	case atom.Input:
		typ, _ := dom.GetAttribute(n, "type")
		switch strings.ToLower(typ) {
		case "button", "submit", "reset":
			if v, ok := dom.GetAttribute(n, "value"); ok {
				return dom.CollapseWhitespace(v)
			}
		case "image":
			alt, _ := dom.GetAttribute(n, "alt")
			return dom.CollapseWhitespace(alt)
		}
		return o.labelFor(n)
	case atom.Select, atom.Textarea:
		return o.labelFor(n)
	case atom.Fieldset:
		if legend := htmlquery.FindOne(n, "./legend"); legend != nil {
			return dom.TextContent(legend)
		}
	case atom.Figure:
		if caption := htmlquery.FindOne(n, "./figcaption"); caption != nil {
			return dom.TextContent(caption)
		}
	case atom.Table:
		if caption := htmlquery.FindOne(n, "./caption"); caption != nil {
			return dom.TextContent(caption)
		}
	}

	role := ResolveRole(n, nil, false).Role
	if NameFromContent(role) {
		return dom.TextContent(n)
	}
	return ""
}

// labelFor finds the name a form control derives from <label> markup: an
// ancestor label, or a label whose for attribute references the control.
func (o *Oracle) labelFor(n *html.Node) string {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.DataAtom == atom.Label {
			return dom.TextContent(cur)
		}
	}
	if id, ok := dom.GetAttribute(n, "id"); ok && id != "" && !strings.Contains(id, "'") {
		if label := htmlquery.FindOne(o.doc.Root(), fmt.Sprintf("//label[@for='%s']", id)); label != nil {
			return dom.TextContent(label)
		}
	}
	return ""
}
