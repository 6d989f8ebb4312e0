package reader

import (
	"context"
	"testing"

	"github.com/earshot-dev/earshot/internal/config"
	"github.com/earshot-dev/earshot/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startEngine parses markup, starts an engine over the body, and registers
// cleanup. The page used by most tests reads, in traversal order: document,
// navigation, link, end of navigation, heading, button, end of document.
func startEngine(t *testing.T, markup string) (*Engine, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseString(markup, nil)
	require.NoError(t, err)

	e := New(config.Default(), nil)
	require.NoError(t, e.Start(context.Background(), doc, doc.Body(), Options{}))
	t.Cleanup(func() {
		if e.started {
			require.NoError(t, e.Stop(context.Background()))
		}
	})
	return e, doc
}

const samplePage = `<body>
	<nav><a href="/home">Home</a></nav>
	<h1>Welcome</h1>
	<button>Go</button>
</body>`

func lastPhrase(t *testing.T, e *Engine) string {
	t.Helper()
	p, err := e.LastSpokenPhrase(context.Background())
	require.NoError(t, err)
	return p
}

func next(t *testing.T, e *Engine) string {
	t.Helper()
	require.NoError(t, e.Next(context.Background()))
	return lastPhrase(t, e)
}

func previous(t *testing.T, e *Engine) string {
	t.Helper()
	require.NoError(t, e.Previous(context.Background()))
	return lastPhrase(t, e)
}

func TestStartRequiresContainer(t *testing.T) {
	doc, err := dom.ParseString(samplePage, nil)
	require.NoError(t, err)

	e := New(config.Default(), nil)
	assert.ErrorIs(t, e.Start(context.Background(), doc, nil, Options{}), ErrMissingContainer)
	assert.ErrorIs(t, e.Start(context.Background(), nil, doc.Body(), Options{}), ErrMissingContainer)
}

func TestOperationsBeforeStart(t *testing.T) {
	e := New(config.Default(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, e.Next(ctx), ErrNotStarted)
	assert.ErrorIs(t, e.Previous(ctx), ErrNotStarted)
	assert.ErrorIs(t, e.Act(ctx), ErrNotStarted)
	assert.ErrorIs(t, e.Press(ctx, "Enter"), ErrNotStarted)
	assert.ErrorIs(t, e.Type(ctx, "x"), ErrNotStarted)
	assert.ErrorIs(t, e.Stop(ctx), ErrNotStarted)
	_, err := e.SpokenPhraseLog(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestStartAnnouncesFirstStop(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	assert.Equal(t, "document", lastPhrase(t, e))

	item, err := e.ItemText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Home Welcome Go", item)
}

func TestNextWalksDocumentOrder(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	assert.Equal(t, "navigation", next(t, e))
	assert.Equal(t, "link, Home", next(t, e))
	assert.Equal(t, "end of navigation", next(t, e))
	assert.Equal(t, "heading, Welcome, level 1", next(t, e))
	assert.Equal(t, "button, Go", next(t, e))
	assert.Equal(t, "end of document", next(t, e))
}

func TestNextWrapsAtEnd(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	for i := 0; i < 6; i++ {
		next(t, e)
	}
	assert.Equal(t, "end of document", lastPhrase(t, e))
	assert.Equal(t, "document", next(t, e), "wraps back to the first stop")
}

func TestPreviousStopsAtStart(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	assert.Equal(t, "navigation", next(t, e))
	assert.Equal(t, "document", previous(t, e))
	assert.Equal(t, "document", previous(t, e), "no wraparound at the start")
}

func TestNextPreviousRoundTrip(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	next(t, e)
	here := next(t, e)
	next(t, e)
	assert.Equal(t, here, previous(t, e))
}

func TestNavigationOverEmptyTree(t *testing.T) {
	e, _ := startEngine(t, `<body hidden><button>Go</button></body>`)

	log, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, log, "a pruned container announces nothing")

	require.NoError(t, e.Next(context.Background()))
	require.NoError(t, e.Previous(context.Background()))

	log, err = e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestStopClearsState(t *testing.T) {
	e, _ := startEngine(t, samplePage)

	require.NoError(t, e.Stop(context.Background()))
	assert.Nil(t, e.ActiveNode())
	assert.ErrorIs(t, e.Next(context.Background()), ErrNotStarted)
	assert.ErrorIs(t, e.Stop(context.Background()), ErrNotStarted)
}

func TestMutationInvalidatesCursor(t *testing.T) {
	e, doc := startEngine(t, `<body>
		<nav><a id="home" href="/home">Home</a></nav>
		<h1>Welcome</h1>
	</body>`)

	next(t, e) // navigation
	next(t, e) // link

	// Renaming the active link changes its identity; the cursor is lost and
	// the next move restarts from the first stop.
	doc.SetAttribute(doc.GetElementByID("home"), "aria-label", "Start page")

	assert.Equal(t, "document", next(t, e))
}

func TestMutationRefreshesAnnouncedState(t *testing.T) {
	e, doc := startEngine(t, `<body>
		<button id="b" aria-pressed="false">Pause</button>
	</body>`)

	doc.SetAttribute(doc.GetElementByID("b"), "aria-pressed", "true")

	assert.Equal(t, "button, Pause, pressed", next(t, e))
}

func TestActTogglesActiveControl(t *testing.T) {
	e, doc := startEngine(t, `<body>
		<button id="b" aria-pressed="false">Pause</button>
	</body>`)

	assert.Equal(t, "button, Pause, not pressed", next(t, e))
	require.NoError(t, e.Act(context.Background()))

	v, _ := dom.GetAttribute(doc.GetElementByID("b"), "aria-pressed")
	assert.Equal(t, "true", v)
}

func TestPressAndTypeUseActiveNode(t *testing.T) {
	e, doc := startEngine(t, `<body>
		<input id="field" value="">
	</body>`)

	next(t, e) // the textbox
	require.NoError(t, e.Type(context.Background(), "abc"))
	require.NoError(t, e.Press(context.Background(), "Backspace"))

	v, _ := dom.GetAttribute(doc.GetElementByID("field"), "value")
	assert.Equal(t, "ab", v)
}

func TestFocusMovesCursor(t *testing.T) {
	e, doc := startEngine(t, `<body>
		<button id="one">One</button>
		<button id="two">Two</button>
	</body>`)

	doc.Focus(doc.GetElementByID("two"))
	assert.Equal(t, "button, Two", lastPhrase(t, e))

	before, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)

	// Re-focusing the same control announces nothing new.
	doc.Focus(doc.GetElementByID("two"))
	after, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestModalDialogScopesNavigation(t *testing.T) {
	e, _ := startEngine(t, `<body>
		<button id="open">Open</button>
		<div role="dialog" aria-modal="true" aria-label="Confirm">
			<button id="yes">Yes</button>
			<button id="no">No</button>
		</div>
		<button id="after">After</button>
	</body>`)

	assert.Equal(t, "button, Open", next(t, e))
	assert.Equal(t, "dialog, Confirm", next(t, e))

	// Crossing into the dialog announces the dialog and the stop.
	require.NoError(t, e.Next(context.Background()))
	log, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(log), 2)
	assert.Equal(t, "dialog, Confirm", log[len(log)-2])
	assert.Equal(t, "button, Yes", log[len(log)-1])

	// Inside, navigation cycles within the dialog and never reaches After.
	assert.Equal(t, "button, No", next(t, e))
	assert.Equal(t, "button, Yes", next(t, e), "wraps inside the dialog")
	assert.Equal(t, "button, No", next(t, e))
	assert.Equal(t, "button, Yes", previous(t, e))
	assert.Equal(t, "button, Yes", previous(t, e), "clamped at the dialog start")
}

func TestLogsReturnCopies(t *testing.T) {
	e, _ := startEngine(t, samplePage)
	ctx := context.Background()

	log, err := e.SpokenPhraseLog(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, log)
	log[0] = "tampered"

	fresh, err := e.SpokenPhraseLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "document", fresh[0])
}

func TestClearLogs(t *testing.T) {
	e, _ := startEngine(t, samplePage)
	ctx := context.Background()

	next(t, e)
	require.NoError(t, e.ClearSpokenPhraseLog(ctx))
	require.NoError(t, e.ClearItemTextLog(ctx))

	phrase, err := e.LastSpokenPhrase(ctx)
	require.NoError(t, err)
	assert.Empty(t, phrase)

	item, err := e.ItemText(ctx)
	require.NoError(t, err)
	assert.Empty(t, item)

	assert.Equal(t, "link, Home", next(t, e), "the cursor survives a log clear")
}

func TestRestartResetsLogs(t *testing.T) {
	e, doc := startEngine(t, samplePage)

	next(t, e)
	require.NoError(t, e.Start(context.Background(), doc, doc.Body(), Options{}))

	log, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"document"}, log)
}
