// File: internal/input/simulator.go
package input

import (
	"context"
	"strings"
	"time"

	"github.com/earshot-dev/earshot/internal/config"
	"github.com/earshot-dev/earshot/internal/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/time/rate"
)

// ClickOptions selects the pointer button and click count.
type ClickOptions struct {
	Button     int // 0 left, 1 middle, 2 right
	ClickCount int // defaults to 1
}

// Simulator delivers simulated interactions to the document. Default actions
// go through the document's mutation-recording API, so live regions and tree
// resynthesis observe every consequence.
type Simulator struct {
	doc           *dom.Document
	limiter       *rate.Limiter
	settleTimeout time.Duration
	logger        *zap.Logger
}

// New builds a simulator. A positive typing rate paces Type at that many
// characters per second; zero or negative means unlimited.
func New(doc *dom.Document, cfg config.InputConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.TypingRate > 0 {
		limit = rate.Limit(cfg.TypingRate)
	}
	return &Simulator{
		doc:           doc,
		limiter:       rate.NewLimiter(limit, 1),
		settleTimeout: cfg.SettleTimeout,
		logger:        logger.Named("input"),
	}
}

// settle waits for the document to finish reacting to an interaction,
// bounded by the configured settle timeout. A runaway mutation cascade
// surfaces as context.DeadlineExceeded instead of hanging the caller.
func (s *Simulator) settle(ctx context.Context) error {
	if s.settleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settleTimeout)
		defer cancel()
	}
	return s.doc.Settle(ctx)
}

// Click delivers a pointer interaction to target and runs its default
// action, then settles the document.
func (s *Simulator) Click(ctx context.Context, target *html.Node, opts ClickOptions) error {
	if target == nil {
		return s.settle(ctx)
	}
	if opts.ClickCount <= 0 {
		opts.ClickCount = 1
	}
	if dom.IsFocusable(target) {
		s.doc.Focus(target)
	}

	for i := 0; i < opts.ClickCount; i++ {
		handled := s.doc.DispatchEvent(dom.Event{
			Type:       "click",
			Target:     target,
			Button:     opts.Button,
			ClickCount: i + 1,
		})
		// Secondary buttons and claimed events skip the default action.
		if !handled && opts.Button == 0 {
			s.defaultClickAction(target)
		}
	}
	return s.settle(ctx)
}

// Press delivers one key chord to target (or the focused element when target
// is nil) and runs its default action, then settles the document.
func (s *Simulator) Press(ctx context.Context, target *html.Node, spec string) error {
	chord, err := ParseKeySpec(spec)
	if err != nil {
		return err
	}
	if target == nil {
		target = s.doc.ActiveElement()
	}
	if target == nil {
		s.logger.Debug("key press with no target or focused element", zap.String("spec", spec))
		return s.settle(ctx)
	}

	handled := s.doc.DispatchEvent(dom.Event{
		Type:      "keydown",
		Target:    target,
		Key:       chord.Key,
		Modifiers: chord.Modifiers,
	})
	if !handled {
		s.defaultKeyAction(target, chord)
	}
	return s.settle(ctx)
}

// Type writes text into target (or the focused element), one character at a
// time at the configured cadence, then settles the document.
func (s *Simulator) Type(ctx context.Context, target *html.Node, text string) error {
	if target == nil {
		target = s.doc.ActiveElement()
	}
	if target == nil {
		s.logger.Debug("typing with no target or focused element")
		return s.settle(ctx)
	}
	if dom.IsFocusable(target) {
		s.doc.Focus(target)
	}

	for _, r := range text {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		ch := string(r)
		handled := s.doc.DispatchEvent(dom.Event{Type: "input", Target: target, Text: ch})
		if !handled {
			s.insertText(target, ch)
		}
	}
	return s.settle(ctx)
}

// defaultClickAction applies the host-language activation behavior.
func (s *Simulator) defaultClickAction(target *html.Node) {
	switch {
	case dom.TagName(target) == "input" && inputType(target) == "checkbox":
		s.toggleAttrPresence(target, "checked")
	case dom.TagName(target) == "input" && inputType(target) == "radio":
		s.doc.SetAttribute(target, "checked", "")
	case dom.HasAttribute(target, "aria-pressed"):
		s.toggleAriaBool(target, "aria-pressed")
	case dom.HasAttribute(target, "aria-checked"):
		s.toggleAriaBool(target, "aria-checked")
	case dom.HasAttribute(target, "aria-expanded"):
		s.toggleAriaBool(target, "aria-expanded")
	case dom.TagName(target) == "summary":
		if parent := target.Parent; dom.TagName(parent) == "details" {
			s.toggleAttrPresence(parent, "open")
		}
	}
}

// defaultKeyAction applies the default behavior for unclaimed key chords.
func (s *Simulator) defaultKeyAction(target *html.Node, chord KeyChord) {
	switch chord.Key {
	case "Enter", " ":
		// Activation keys behave like a primary click on widgets.
		s.defaultClickAction(target)
	case "Tab":
		s.moveFocus(target, !chord.HasModifier("Shift"))
	case "Backspace":
		s.deleteBack(target)
	default:
		if len(chord.Key) == 1 && len(chord.Modifiers) == 0 {
			s.insertText(target, chord.Key)
		}
	}
}

// moveFocus advances document focus to the next or previous focusable
// element, wrapping at either end.
func (s *Simulator) moveFocus(from *html.Node, forward bool) {
	focusables := s.doc.Focusables(s.doc.Root())
	if len(focusables) == 0 {
		return
	}
	idx := -1
	for i, n := range focusables {
		if n == from {
			idx = i
			break
		}
	}
	var next int
	if forward {
		next = (idx + 1) % len(focusables)
	} else {
		next = idx - 1
		if next < 0 {
			next = len(focusables) - 1
		}
	}
	s.doc.Focus(focusables[next])
}

// insertText appends to the editable value of a form control.
func (s *Simulator) insertText(target *html.Node, text string) {
	switch target.DataAtom {
	case atom.Input:
		current, _ := dom.GetAttribute(target, "value")
		s.doc.SetAttribute(target, "value", current+text)
	case atom.Textarea:
		s.doc.SetTextContent(target, dom.TextContent(target)+text)
	default:
		s.logger.Debug("ignoring text insertion on non-editable element",
			zap.String("tag", dom.TagName(target)))
	}
}

func (s *Simulator) deleteBack(target *html.Node) {
	if target.DataAtom != atom.Input {
		return
	}
	current, _ := dom.GetAttribute(target, "value")
	if current == "" {
		return
	}
	runes := []rune(current)
	s.doc.SetAttribute(target, "value", string(runes[:len(runes)-1]))
}

func (s *Simulator) toggleAriaBool(target *html.Node, attr string) {
	v, _ := dom.GetAttribute(target, attr)
	if strings.EqualFold(strings.TrimSpace(v), "true") {
		s.doc.SetAttribute(target, attr, "false")
	} else {
		s.doc.SetAttribute(target, attr, "true")
	}
}

func (s *Simulator) toggleAttrPresence(target *html.Node, attr string) {
	if dom.HasAttribute(target, attr) {
		s.doc.RemoveAttribute(target, attr)
	} else {
		s.doc.SetAttribute(target, attr, "")
	}
}

func inputType(n *html.Node) string {
	t, _ := dom.GetAttribute(n, "type")
	return strings.ToLower(t)
}
