// File: internal/dom/events.go
package dom

import (
	"context"

	"golang.org/x/net/html"
)

// MutationType classifies a mutation record, mirroring the DOM standard's
// MutationObserver record types.
type MutationType string

const (
	MutationChildList     MutationType = "childList"
	MutationAttributes    MutationType = "attributes"
	MutationCharacterData MutationType = "characterData"
)

// MutationRecord describes one observed document mutation.
type MutationRecord struct {
	Type          MutationType
	Target        *html.Node
	AddedNodes    []*html.Node
	RemovedNodes  []*html.Node
	AttributeName string
}

// FocusEvent is delivered when document focus moves.
type FocusEvent struct {
	Target *html.Node
}

// Event is a simulated UI event dispatched at a node. It bubbles from the
// target up to the document root.
type Event struct {
	Type       string // "click", "keydown", "input"
	Target     *html.Node
	Key        string // keydown: resolved key name, e.g. "Enter", "a"
	Modifiers  []string
	Button     int
	ClickCount int
	Text       string // input: the inserted text
}

// EventHandler reacts to a dispatched event. Returning true marks the event
// as handled and suppresses the default action.
type EventHandler func(Event) bool

// Observe registers a mutation observer. Observers receive each pending batch
// during Settle, in registration order. The returned function unsubscribes.
func (d *Document) Observe(fn func([]MutationRecord)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextObsID
	d.nextObsID++
	d.mutationObs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.mutationObs, id)
	}
}

// OnFocus registers a focus observer. The returned function unsubscribes.
func (d *Document) OnFocus(fn func(FocusEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextObsID
	d.nextObsID++
	d.focusObs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.focusObs, id)
	}
}

func (d *Document) recordMutation(rec MutationRecord) {
	d.mu.Lock()
	d.pendingMutations = append(d.pendingMutations, rec)
	d.mu.Unlock()
}

// Settle delivers all pending mutation batches and focus events to their
// observers, in queue order, looping until no notifications remain. Observers
// may themselves mutate the document; those follow-up notifications are
// delivered before Settle returns. This is the engine's scheduling
// checkpoint: callers are guaranteed to observe a fully notified document.
func (d *Document) Settle(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.Lock()
		mutations := d.pendingMutations
		focus := d.pendingFocus
		d.pendingMutations = nil
		d.pendingFocus = nil
		mutObs := observerList(d.mutationObs)
		focObs := observerList(d.focusObs)
		d.mu.Unlock()

		if len(mutations) == 0 && len(focus) == 0 {
			return nil
		}

		if len(mutations) > 0 {
			for _, fn := range mutObs {
				fn(mutations)
			}
		}
		for _, ev := range focus {
			for _, fn := range focObs {
				fn(ev)
			}
		}
	}
}

// observerList snapshots an observer map in stable id order.
func observerList[T any](m map[int]T) []T {
	max := -1
	for id := range m {
		if id > max {
			max = id
		}
	}
	out := make([]T, 0, len(m))
	for id := 0; id <= max; id++ {
		if fn, ok := m[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// AddEventListener registers a handler for simulated events of the given type
// at n. Handlers run before the event bubbles to ancestors.
func (d *Document) AddEventListener(n *html.Node, eventType string, fn EventHandler) {
	if n == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	byType := d.listeners[n]
	if byType == nil {
		byType = map[string][]EventHandler{}
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// DispatchEvent bubbles ev from its target to the root, invoking listeners.
// It reports whether any handler claimed the event (suppressing defaults).
func (d *Document) DispatchEvent(ev Event) bool {
	handled := false
	for n := ev.Target; n != nil; n = n.Parent {
		d.mu.Lock()
		handlers := append([]EventHandler(nil), d.listeners[n][ev.Type]...)
		d.mu.Unlock()
		for _, fn := range handlers {
			if fn(ev) {
				handled = true
			}
		}
	}
	return handled
}
