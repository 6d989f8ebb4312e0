// File: internal/aria/resolve.go
package aria

import (
	"strings"

	"github.com/earshot-dev/earshot/internal/dom"
	"golang.org/x/net/html"
)

// RoleResolution is the outcome of resolving one node's role.
type RoleResolution struct {
	// ExplicitRole is the first valid token of the role attribute, if any.
	ExplicitRole string
	// ImplicitRole comes from the tag/attribute mapping.
	ImplicitRole string
	// Role is the effective role after presentational inheritance.
	Role string
}

// ResolveRole computes a node's effective role. allowedRoles is the
// presentational-inheritance exemption set inherited from the nearest
// ancestor that forces its children presentational; a node whose role is in
// that set keeps it, any other role collapses to presentation when
// inheritedPresentational is set.
func ResolveRole(n *html.Node, allowedRoles []string, inheritedPresentational bool) RoleResolution {
	res := RoleResolution{ImplicitRole: ImplicitRole(n)}

	if attr, ok := dom.GetAttribute(n, "role"); ok {
		for _, token := range strings.Fields(attr) {
			token = strings.ToLower(token)
			if !IsValidRole(token) {
				continue
			}
			// An explicit presentational role is a no-op on focusable
			// elements; assistive technology must still reach them.
			if IsPresentationalRole(token) && dom.IsFocusable(n) {
				break
			}
			res.ExplicitRole = token
			break
		}
	}

	role := res.ExplicitRole
	if role == "" {
		role = res.ImplicitRole
	}

	if inheritedPresentational && !containsRole(allowedRoles, role) {
		role = RolePresentation
	}

	res.Role = role
	return res
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Politeness resolves a node's own live-region politeness: the aria-live
// attribute when present, else the implicit politeness of its effective
// role. Returns "" when the node declares no live semantics.
func Politeness(n *html.Node) string {
	if v, ok := dom.GetAttribute(n, "aria-live"); ok {
		switch v = strings.ToLower(strings.TrimSpace(v)); v {
		case "polite", "assertive", "off":
			return v
		}
	}
	return Lookup(ResolveRole(n, nil, false).Role).LivePoliteness
}
