// File: internal/reader/engine.go

// Package reader drives a stateful reading cursor over the synthesized
// accessibility tree. The engine owns the two ordered output logs (spoken
// phrases and item text), modal-dialog scoping, live-region announcements,
// and the focus-driven cursor re-sync.
//
// Concurrency model: one engine confines all mutable state and runs
// cooperatively. Every public operation first settles pending host
// notifications, so a prior mutation or focus change is always observed
// before the operation reads state. Two engines over one document are
// independent.
package reader

import (
	"context"

	"github.com/earshot-dev/earshot/internal/a11y"
	"github.com/earshot-dev/earshot/internal/config"
	"github.com/earshot-dev/earshot/internal/dom"
	"github.com/earshot-dev/earshot/internal/input"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Options tunes one Start call.
type Options struct {
	// DisplayCursor requests the cosmetic highlight overlay where the host
	// supports one. The in-process host has nothing to draw on.
	DisplayCursor bool
}

// Engine is the virtual screen reader cursor.
type Engine struct {
	id       string
	logger   *zap.Logger
	cfg      config.ReaderConfig
	inputCfg config.InputConfig

	doc       *dom.Document
	container *html.Node
	synth     *a11y.Synthesizer
	sim       *input.Simulator

	started bool
	active  *a11y.FlatNode

	spokenLog []string
	itemLog   []string

	// The flattened tree is pure derived state, cached per synthesis pass
	// and invalidated by any observed mutation or focus change.
	tree      []a11y.FlatNode
	treeValid bool

	unsubMutations func()
	unsubFocus     func()

	// warned dedupes degraded-handling warnings per anomaly class.
	warned map[string]struct{}
}

// New builds an engine from configuration. The engine is inert until Start.
func New(cfg config.Interface, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Engine{
		id:       id,
		logger:   logger.Named("reader").With(zap.String("engine_id", id)),
		cfg:      cfg.Reader(),
		inputCfg: cfg.Input(),
		warned:   map[string]struct{}{},
	}
}

// Start attaches the engine to a container, subscribes to host
// notifications, synthesizes the tree, and announces the first stop.
func (e *Engine) Start(ctx context.Context, doc *dom.Document, container *html.Node, opts Options) error {
	if doc == nil || container == nil {
		return ErrMissingContainer
	}
	if e.started {
		if err := e.Stop(ctx); err != nil {
			return err
		}
	}

	e.doc = doc
	e.container = container
	e.synth = a11y.NewSynthesizer(doc, e.logger)
	e.sim = input.New(doc, e.inputCfg, e.logger)
	e.warned = map[string]struct{}{}

	e.unsubMutations = doc.Observe(func(batch []dom.MutationRecord) {
		e.treeValid = false
		e.announceLiveRegions(batch)
	})
	e.unsubFocus = doc.OnFocus(func(ev dom.FocusEvent) {
		e.treeValid = false
		e.handleFocus(ev)
	})

	e.started = true
	if opts.DisplayCursor {
		e.logger.Debug("cursor display requested; in-process host has no overlay")
	}

	if err := e.doc.Settle(ctx); err != nil {
		return err
	}
	e.refresh()
	if len(e.tree) > 0 {
		e.moveTo(e.tree[0])
	}
	e.logger.Info("engine started", zap.Int("stops", len(e.tree)))
	return nil
}

// Stop detaches from the document and clears all cursor state.
func (e *Engine) Stop(ctx context.Context) error {
	if !e.started {
		return ErrNotStarted
	}
	if e.unsubMutations != nil {
		e.unsubMutations()
	}
	if e.unsubFocus != nil {
		e.unsubFocus()
	}
	e.started = false
	e.active = nil
	e.spokenLog = nil
	e.itemLog = nil
	e.tree = nil
	e.treeValid = false
	e.doc = nil
	e.container = nil
	e.logger.Info("engine stopped")
	return nil
}

// Next moves the cursor to the next stop, wrapping to the start at the end.
func (e *Engine) Next(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	view := e.scopedView()
	if len(view) == 0 {
		e.warnOnce("empty-tree", "navigation over an empty tree is a no-op")
		return nil
	}
	idx := e.currentIndex(view)
	e.moveTo(view[(idx+1)%len(view)])
	return nil
}

// Previous moves the cursor to the previous stop. There is deliberately no
// wraparound at the start; a lost cursor jumps back to the first stop.
func (e *Engine) Previous(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	view := e.scopedView()
	if len(view) == 0 {
		e.warnOnce("empty-tree", "navigation over an empty tree is a no-op")
		return nil
	}
	idx := e.currentIndex(view)
	target := idx - 1
	if target < 0 {
		target = 0
	}
	e.moveTo(view[target])
	return nil
}

// Perform runs a named navigation command. Commands that find no target
// leave the cursor and logs untouched.
func (e *Engine) Perform(ctx context.Context, command string, opts PerformOptions) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	cmd, ok := commands[command]
	if !ok {
		e.warnOnce("unknown-command:"+command, "ignoring unknown command", zap.String("command", command))
		return nil
	}
	view := e.scopedView()
	if len(view) == 0 {
		e.warnOnce("empty-tree", "navigation over an empty tree is a no-op")
		return nil
	}
	idx, found := cmd(view, e.currentIndex(view), opts)
	if !found {
		return nil
	}
	e.moveTo(view[idx])
	return nil
}

// Act activates the active node with its default interaction (a click).
func (e *Engine) Act(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	if e.active == nil || e.active.Boundary {
		return nil
	}
	return e.sim.Click(ctx, e.active.DOM, input.ClickOptions{})
}

// Click delivers a pointer interaction to the active node.
func (e *Engine) Click(ctx context.Context, opts input.ClickOptions) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	if e.active == nil || e.active.Boundary {
		return nil
	}
	return e.sim.Click(ctx, e.active.DOM, opts)
}

// Press delivers a key chord ("Enter", "Shift+Tab", ...) to the active node,
// falling back to the focused element.
func (e *Engine) Press(ctx context.Context, keySpec string) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	var target *html.Node
	if e.active != nil && !e.active.Boundary {
		target = e.active.DOM
	}
	return e.sim.Press(ctx, target, keySpec)
}

// Type writes text into the active node, falling back to the focused
// element.
func (e *Engine) Type(ctx context.Context, text string) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	var target *html.Node
	if e.active != nil && !e.active.Boundary {
		target = e.active.DOM
	}
	return e.sim.Type(ctx, target, text)
}

// LastSpokenPhrase returns the most recent spoken phrase, or "".
func (e *Engine) LastSpokenPhrase(ctx context.Context) (string, error) {
	if err := e.settle(ctx); err != nil {
		return "", err
	}
	if len(e.spokenLog) == 0 {
		return "", nil
	}
	return e.spokenLog[len(e.spokenLog)-1], nil
}

// ItemText returns the most recent item text, or "".
func (e *Engine) ItemText(ctx context.Context) (string, error) {
	if err := e.settle(ctx); err != nil {
		return "", err
	}
	if len(e.itemLog) == 0 {
		return "", nil
	}
	return e.itemLog[len(e.itemLog)-1], nil
}

// SpokenPhraseLog returns a copy of the ordered spoken phrase log.
func (e *Engine) SpokenPhraseLog(ctx context.Context) ([]string, error) {
	if err := e.settle(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), e.spokenLog...), nil
}

// ItemTextLog returns a copy of the ordered item text log.
func (e *Engine) ItemTextLog(ctx context.Context) ([]string, error) {
	if err := e.settle(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), e.itemLog...), nil
}

// ClearSpokenPhraseLog empties the spoken phrase log.
func (e *Engine) ClearSpokenPhraseLog(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	e.spokenLog = nil
	return nil
}

// ClearItemTextLog empties the item text log.
func (e *Engine) ClearItemTextLog(ctx context.Context) error {
	if err := e.settle(ctx); err != nil {
		return err
	}
	e.itemLog = nil
	return nil
}

// ActiveNode returns the accessibility node under the cursor, or nil.
func (e *Engine) ActiveNode() *a11y.Node {
	if e.active == nil {
		return nil
	}
	return e.active.Node
}

// --- internals ---

// settle is the scheduling checkpoint every public operation passes through:
// pending host notifications flush (driving re-synthesis and live-region
// announcements) before state is read.
func (e *Engine) settle(ctx context.Context) error {
	if !e.started {
		return ErrNotStarted
	}
	return e.doc.Settle(ctx)
}

// refresh rebuilds the flattened tree if it was invalidated.
func (e *Engine) refresh() {
	if e.treeValid {
		return
	}
	root := e.synth.Synthesize(e.container)
	e.tree = a11y.Flatten(root)
	e.treeValid = true
}

// scopedView returns the navigable sequence, restricted to the active
// node's dialog when that dialog is currently aria-modal.
func (e *Engine) scopedView() []a11y.FlatNode {
	e.refresh()
	if e.active == nil || e.active.ParentDialog == nil || !a11y.IsAriaModal(e.active.ParentDialog) {
		return e.tree
	}
	scope := e.active.ParentDialog
	var view []a11y.FlatNode
	for _, f := range e.tree {
		if f.ParentDialog == scope {
			view = append(view, f)
		}
	}
	return view
}

// currentIndex recovers the cursor position in a freshly synthesized view by
// the active node's identity fields, not a stored offset. A vanished or
// altered node reads as -1: the cursor is lost and jumps to the start on the
// next move.
func (e *Engine) currentIndex(view []a11y.FlatNode) int {
	if e.active == nil {
		return -1
	}
	for i, f := range view {
		if f.Matches(*e.active) {
			return i
		}
	}
	return -1
}

// moveTo makes target the active node and appends its phrase and item text.
// Entering a dialog scope first announces the dialog node itself: the one
// case of two log entries per navigation. Leaving a scope announces only the
// target; there is no dialog node on the outside to speak for.
func (e *Engine) moveTo(target a11y.FlatNode) {
	var prevDialog *html.Node
	if e.active != nil {
		prevDialog = e.active.ParentDialog
	}
	if target.ParentDialog != prevDialog && target.ParentDialog != nil {
		if dialog, ok := e.findByDOM(target.ParentDialog); ok {
			e.append(a11y.Phrase(dialog), a11y.ItemText(dialog))
		}
	}

	copied := target
	e.active = &copied
	e.append(a11y.Phrase(target), a11y.ItemText(target))
}

// handleFocus re-syncs the cursor onto the newly focused document node. The
// append is suppressed when both outputs match the current log tails, so an
// idempotent re-focus stays silent.
func (e *Engine) handleFocus(ev dom.FocusEvent) {
	if !e.started || ev.Target == nil {
		return
	}
	e.refresh()
	target, ok := e.findByDOM(ev.Target)
	if !ok {
		e.warnOnce("focus-outside-tree", "focused node is not in the accessibility tree")
		return
	}
	phrase := a11y.Phrase(target)
	item := a11y.ItemText(target)
	if phrase == e.lastSpoken() && item == e.lastItem() {
		copied := target
		e.active = &copied
		return
	}
	e.moveTo(target)
}

// findByDOM locates the opening entry backed by a document node.
func (e *Engine) findByDOM(n *html.Node) (a11y.FlatNode, bool) {
	for _, f := range e.tree {
		if !f.Boundary && f.DOM == n {
			return f, true
		}
	}
	return a11y.FlatNode{}, false
}

func (e *Engine) append(phrase, item string) {
	e.spokenLog = append(e.spokenLog, phrase)
	e.itemLog = append(e.itemLog, item)
}

func (e *Engine) lastSpoken() string {
	if len(e.spokenLog) == 0 {
		return ""
	}
	return e.spokenLog[len(e.spokenLog)-1]
}

func (e *Engine) lastItem() string {
	if len(e.itemLog) == 0 {
		return ""
	}
	return e.itemLog[len(e.itemLog)-1]
}

// warnOnce logs one warning per anomaly class per engine instance, keeping
// degraded handling visible without flooding test output.
func (e *Engine) warnOnce(class, msg string, fields ...zap.Field) {
	if _, seen := e.warned[class]; seen {
		return
	}
	e.warned[class] = struct{}{}
	e.logger.Warn(msg, fields...)
}
