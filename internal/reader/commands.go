// File: internal/reader/commands.go
package reader

import (
	"github.com/earshot-dev/earshot/internal/a11y"
	"github.com/earshot-dev/earshot/internal/aria"
)

// PerformOptions parameterizes a navigation command. Role is consulted by
// the generic by-role commands and ignored by the rest.
type PerformOptions struct {
	Role string
}

// commandFn scans the navigable view from the current index and returns the
// target index, or found=false when no stop qualifies.
type commandFn func(view []a11y.FlatNode, cur int, opts PerformOptions) (idx int, found bool)

// commands is the navigation command registry. Forward commands wrap past
// the end of the sequence; backward commands stop at the beginning.
var commands = map[string]commandFn{
	"moveToNextLandmark":     forward(isLandmark),
	"moveToPreviousLandmark": backward(isLandmark),
	"moveToNextHeading":      forward(hasRole(aria.RoleHeading)),
	"moveToPreviousHeading":  backward(hasRole(aria.RoleHeading)),
	"moveToNextLink":         forward(hasRole(aria.RoleLink)),
	"moveToPreviousLink":     backward(hasRole(aria.RoleLink)),
	"moveToNextByRole": func(view []a11y.FlatNode, cur int, opts PerformOptions) (int, bool) {
		return forward(hasRole(opts.Role))(view, cur, opts)
	},
	"moveToPreviousByRole": func(view []a11y.FlatNode, cur int, opts PerformOptions) (int, bool) {
		return backward(hasRole(opts.Role))(view, cur, opts)
	},
}

type stopPredicate func(a11y.FlatNode) bool

// forward scans ahead of cur, wrapping around once, and stops at the first
// opening entry the predicate accepts.
func forward(match stopPredicate) commandFn {
	return func(view []a11y.FlatNode, cur int, _ PerformOptions) (int, bool) {
		n := len(view)
		for step := 1; step <= n; step++ {
			idx := (cur + step) % n
			if idx < 0 {
				idx += n
			}
			if !view[idx].Boundary && match(view[idx]) {
				return idx, true
			}
		}
		return 0, false
	}
}

// backward scans toward the start without wrapping.
func backward(match stopPredicate) commandFn {
	return func(view []a11y.FlatNode, cur int, _ PerformOptions) (int, bool) {
		if cur < 0 {
			cur = len(view)
		}
		for idx := cur - 1; idx >= 0; idx-- {
			if !view[idx].Boundary && match(view[idx]) {
				return idx, true
			}
		}
		return 0, false
	}
}

func isLandmark(f a11y.FlatNode) bool {
	return aria.IsLandmark(f.Role)
}

func hasRole(role string) stopPredicate {
	return func(f a11y.FlatNode) bool {
		return role != "" && f.Role == role
	}
}
