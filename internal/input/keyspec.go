// File: internal/input/keyspec.go

// Package input simulates keyboard, pointer, and typing interactions against
// the in-process document, settling the host notification queue before
// returning so callers observe every consequence of the interaction.
package input

import (
	"fmt"
	"strings"
)

// KeyChord is one parsed key specification, e.g. "Enter" or "Shift+Tab".
type KeyChord struct {
	Modifiers []string // normalized: "Shift", "Control", "Alt", "Meta"
	Key       string   // the non-modifier key, e.g. "Tab", "Enter", "a"
}

var modifierNames = map[string]string{
	"shift":   "Shift",
	"control": "Control",
	"ctrl":    "Control",
	"alt":     "Alt",
	"option":  "Alt",
	"meta":    "Meta",
	"command": "Meta",
	"cmd":     "Meta",
}

// ParseKeySpec parses a "+"-joined key specification into a chord. The final
// token is the key; everything before it must be a modifier.
func ParseKeySpec(spec string) (KeyChord, error) {
	tokens := strings.Split(spec, "+")
	chord := KeyChord{}
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return KeyChord{}, fmt.Errorf("input: empty token in key spec %q", spec)
		}
		if mod, ok := modifierNames[strings.ToLower(token)]; ok && i < len(tokens)-1 {
			chord.Modifiers = append(chord.Modifiers, mod)
			continue
		}
		if i != len(tokens)-1 {
			return KeyChord{}, fmt.Errorf("input: unknown modifier %q in key spec %q", token, spec)
		}
		chord.Key = normalizeKey(token)
	}
	if chord.Key == "" {
		return KeyChord{}, fmt.Errorf("input: key spec %q names no key", spec)
	}
	return chord, nil
}

// HasModifier reports whether the chord carries the named modifier.
func (k KeyChord) HasModifier(name string) bool {
	for _, m := range k.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// normalizeKey canonicalizes named keys; single characters pass through.
func normalizeKey(key string) string {
	if len(key) == 1 {
		return key
	}
	known := map[string]string{
		"enter": "Enter", "return": "Enter",
		"tab":       "Tab",
		"space":     " ",
		"spacebar":  " ",
		"escape":    "Escape",
		"esc":       "Escape",
		"backspace": "Backspace",
		"delete":    "Delete",
		"arrowup":   "ArrowUp", "up": "ArrowUp",
		"arrowdown": "ArrowDown", "down": "ArrowDown",
		"arrowleft": "ArrowLeft", "left": "ArrowLeft",
		"arrowright": "ArrowRight", "right": "ArrowRight",
		"home": "Home",
		"end":  "End",
	}
	if canon, ok := known[strings.ToLower(key)]; ok {
		return canon
	}
	return key
}
