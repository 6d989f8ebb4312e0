// File: internal/aria/roles.go

// Package aria holds the static role-definition data and the accessible
// name/description/value computation the accessibility tree is built from.
// It implements the subset of WAI-ARIA and accname semantics the virtual
// screen reader needs, degrading to safe defaults for anything unknown.
package aria

import (
	"strings"

	"github.com/earshot-dev/earshot/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Well-known role names referenced throughout the engine.
const (
	RoleGeneric      = "generic"
	RoleDocument     = "document"
	RolePresentation = "presentation"
	RoleNone         = "none"
	RoleDialog       = "dialog"
	RoleAlertDialog  = "alertdialog"
	RoleHeading      = "heading"
	RoleLink         = "link"
)

// RoleData describes the static properties of one role.
type RoleData struct {
	// AllowedChildRoles lists the required owned element roles; children
	// carrying one of these are exempt from presentational inheritance.
	AllowedChildRoles []string
	// ChildrenPresentational marks roles whose descendants are never exposed
	// as independent accessibility nodes (their text folds into the node).
	ChildrenPresentational bool
	// Landmark marks major page regions used by landmark navigation.
	Landmark bool
	// NameFromContent allows the accessible name to come from descendants.
	NameFromContent bool
	// LivePoliteness is the implicit live-region politeness ("" if none).
	LivePoliteness string
}

// roleTable is the closed role vocabulary. Roles absent from this table are
// treated as unknown and ignored during role resolution.
var roleTable = map[string]RoleData{
	"alert":            {LivePoliteness: "assertive"},
	"alertdialog":      {},
	"application":      {},
	"article":          {},
	"banner":           {Landmark: true},
	"blockquote":       {},
	"button":           {ChildrenPresentational: true, NameFromContent: true},
	"caption":          {NameFromContent: true},
	"cell":             {NameFromContent: true},
	"checkbox":         {ChildrenPresentational: true, NameFromContent: true},
	"code":             {},
	"columnheader":     {NameFromContent: true},
	"combobox":         {},
	"complementary":    {Landmark: true},
	"contentinfo":      {Landmark: true},
	"definition":       {},
	"deletion":         {},
	"dialog":           {},
	"document":         {},
	"emphasis":         {},
	"feed":             {AllowedChildRoles: []string{"article"}},
	"figure":           {},
	"form":             {Landmark: true},
	"generic":          {},
	"group":            {},
	"heading":          {NameFromContent: true},
	"img":              {ChildrenPresentational: true},
	"insertion":        {},
	"link":             {NameFromContent: true},
	"list":             {AllowedChildRoles: []string{"listitem"}},
	"listbox":          {AllowedChildRoles: []string{"option", "group"}},
	"listitem":         {},
	"log":              {LivePoliteness: "polite"},
	"main":             {Landmark: true},
	"marquee":          {LivePoliteness: "off"},
	"math":             {ChildrenPresentational: true},
	"menu":             {AllowedChildRoles: []string{"menuitem", "menuitemcheckbox", "menuitemradio", "group"}},
	"menubar":          {AllowedChildRoles: []string{"menuitem", "menuitemcheckbox", "menuitemradio", "group"}},
	"menuitem":         {NameFromContent: true},
	"menuitemcheckbox": {ChildrenPresentational: true, NameFromContent: true},
	"menuitemradio":    {ChildrenPresentational: true, NameFromContent: true},
	"meter":            {ChildrenPresentational: true},
	"navigation":       {Landmark: true},
	"none":             {},
	"note":             {},
	"option":           {ChildrenPresentational: true, NameFromContent: true},
	"paragraph":        {},
	"presentation":     {},
	"progressbar":      {ChildrenPresentational: true},
	"radio":            {ChildrenPresentational: true, NameFromContent: true},
	"radiogroup":       {AllowedChildRoles: []string{"radio"}},
	"region":           {Landmark: true},
	"row":              {AllowedChildRoles: []string{"cell", "columnheader", "rowheader"}, NameFromContent: true},
	"rowgroup":         {AllowedChildRoles: []string{"row"}},
	"rowheader":        {NameFromContent: true},
	"scrollbar":        {ChildrenPresentational: true},
	"search":           {Landmark: true},
	"searchbox":        {},
	"separator":        {ChildrenPresentational: true},
	"slider":           {ChildrenPresentational: true},
	"spinbutton":       {},
	"status":           {LivePoliteness: "polite"},
	"strong":           {},
	"subscript":        {},
	"superscript":      {},
	"switch":           {ChildrenPresentational: true, NameFromContent: true},
	"tab":              {ChildrenPresentational: true, NameFromContent: true},
	"table":            {AllowedChildRoles: []string{"row", "rowgroup", "caption"}},
	"tablist":          {AllowedChildRoles: []string{"tab"}},
	"tabpanel":         {},
	"term":             {},
	"textbox":          {},
	"time":             {},
	"timer":            {LivePoliteness: "off"},
	"toolbar":          {},
	"tooltip":          {NameFromContent: true},
	"tree":             {AllowedChildRoles: []string{"treeitem", "group"}},
	"treegrid":         {AllowedChildRoles: []string{"row", "rowgroup"}},
	"treeitem":         {NameFromContent: true},
}

// IsValidRole reports whether role is part of the vocabulary.
func IsValidRole(role string) bool {
	_, ok := roleTable[role]
	return ok
}

// Lookup returns the static data for a role. Unknown roles degrade to the
// zero RoleData so synthesis stays total over arbitrary markup.
func Lookup(role string) RoleData {
	return roleTable[role]
}

// AllowedChildRoles returns the presentational-inheritance exemption set for
// a role; empty for unknown roles.
func AllowedChildRoles(role string) []string {
	return roleTable[role].AllowedChildRoles
}

// IsPresentationalRole reports whether the role removes the node from the
// accessibility tree.
func IsPresentationalRole(role string) bool {
	return role == RolePresentation || role == RoleNone
}

// IsLandmark reports whether the role marks a navigable page region.
func IsLandmark(role string) bool {
	return roleTable[role].Landmark
}

// NameFromContent reports whether the role names itself from its subtree.
func NameFromContent(role string) bool {
	return roleTable[role].NameFromContent
}

// ImplicitRole maps a node's tag and attributes to its implicit ARIA role.
// Nodes with no mapping resolve to the generic container role; text nodes
// and unknown elements resolve to "".
func ImplicitRole(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	switch n.DataAtom {
	case atom.A, atom.Area:
		if dom.HasAttribute(n, "href") {
			return "link"
		}
		return RoleGeneric
	case atom.Article:
		return "article"
	case atom.Aside:
		return "complementary"
	case atom.Blockquote:
		return "blockquote"
	case atom.Body, atom.Html:
		return RoleDocument
	case atom.Button:
		return "button"
	case atom.Caption:
		return "caption"
	case atom.Code:
		return "code"
	case atom.Datalist:
		return "listbox"
	case atom.Dd:
		return "definition"
	case atom.Del:
		return "deletion"
	case atom.Details, atom.Fieldset, atom.Optgroup:
		return "group"
	case atom.Dfn, atom.Dt:
		return "term"
	case atom.Dialog:
		return RoleDialog
	case atom.Em:
		return "emphasis"
	case atom.Figure:
		return "figure"
	case atom.Footer:
		return "contentinfo"
	case atom.Form:
		return "form"
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return RoleHeading
	case atom.Header:
		return "banner"
	case atom.Hr:
		return "separator"
	case atom.Img:
		// An explicitly empty alt marks a purely decorative image.
		if alt, ok := dom.GetAttribute(n, "alt"); ok && alt == "" {
			return RolePresentation
		}
		return "img"
	case atom.Input:
		return implicitInputRole(n)
	case atom.Ins:
		return "insertion"
	case atom.Li:
		return "listitem"
	case atom.Main:
		return "main"
	case atom.Menu, atom.Ol, atom.Ul:
		return "list"
	case atom.Meter:
		return "meter"
	case atom.Nav:
		return "navigation"
	case atom.Option:
		return "option"
	case atom.Output:
		return "status"
	case atom.P:
		return "paragraph"
	case atom.Progress:
		return "progressbar"
	case atom.Section:
		// A section is only a region landmark when it has an accessible name.
		if dom.HasAttribute(n, "aria-label") || dom.HasAttribute(n, "aria-labelledby") {
			return "region"
		}
		return RoleGeneric
	case atom.Select:
		if dom.HasAttribute(n, "multiple") {
			return "listbox"
		}
		return "combobox"
	case atom.Strong:
		return "strong"
	case atom.Sub:
		return "subscript"
	case atom.Sup:
		return "superscript"
	case atom.Table:
		return "table"
	case atom.Tbody, atom.Tfoot, atom.Thead:
		return "rowgroup"
	case atom.Td:
		return "cell"
	case atom.Textarea:
		return "textbox"
	case atom.Th:
		return "columnheader"
	case atom.Time:
		return "time"
	case atom.Tr:
		return "row"
	case atom.Div, atom.Span, atom.B, atom.I, atom.U, atom.Small, atom.Pre,
		atom.Address, atom.Data, atom.Summary:
		return RoleGeneric
	}
	return RoleGeneric
}

func implicitInputRole(n *html.Node) string {
	typ, _ := dom.GetAttribute(n, "type")
	switch strings.ToLower(typ) {
	case "checkbox":
		return "checkbox"
	case "radio":
		return "radio"
	case "button", "submit", "reset", "image":
		return "button"
	case "range":
		return "slider"
	case "number":
		return "spinbutton"
	case "search":
		return "searchbox"
	case "hidden":
		return RoleNone
	default:
		return "textbox"
	}
}

// LandmarkRoles returns the landmark role set in a stable order.
func LandmarkRoles() []string {
	return []string{"banner", "complementary", "contentinfo", "form", "main", "navigation", "region", "search"}
}
