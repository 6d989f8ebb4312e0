package reader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commandPage = `<body>
	<nav aria-label="Site"><a href="/">Top</a></nav>
	<h2>News</h2>
	<main>
		<h3>Weather</h3>
		<a href="/more">Read more</a>
		<button>Refresh</button>
	</main>
</body>`

func perform(t *testing.T, e *Engine, command string, opts PerformOptions) string {
	t.Helper()
	require.NoError(t, e.Perform(context.Background(), command, opts))
	return lastPhrase(t, e)
}

func TestPerformHeadingNavigation(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	assert.Equal(t, "heading, News, level 2", perform(t, e, "moveToNextHeading", PerformOptions{}))
	assert.Equal(t, "heading, Weather, level 3", perform(t, e, "moveToNextHeading", PerformOptions{}))
	assert.Equal(t, "heading, News, level 2", perform(t, e, "moveToNextHeading", PerformOptions{}),
		"forward search wraps")
	assert.Equal(t, "heading, News, level 2", perform(t, e, "moveToPreviousHeading", PerformOptions{}),
		"backward search does not wrap; the only earlier heading is itself")
}

func TestPerformLandmarkNavigation(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	assert.Equal(t, "navigation, Site", perform(t, e, "moveToNextLandmark", PerformOptions{}))
	assert.Equal(t, "main", perform(t, e, "moveToNextLandmark", PerformOptions{}))
	assert.Equal(t, "navigation, Site", perform(t, e, "moveToPreviousLandmark", PerformOptions{}))
}

func TestPerformLinkNavigation(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	assert.Equal(t, "link, Top", perform(t, e, "moveToNextLink", PerformOptions{}))
	assert.Equal(t, "link, Read more", perform(t, e, "moveToNextLink", PerformOptions{}))
}

func TestPerformByRole(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	assert.Equal(t, "button, Refresh",
		perform(t, e, "moveToNextByRole", PerformOptions{Role: "button"}))
}

func TestPerformNoTargetLeavesCursor(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	before, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.Perform(context.Background(), "moveToNextByRole", PerformOptions{Role: "slider"}))

	after, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after, "a fruitless search announces nothing")
}

func TestPerformUnknownCommand(t *testing.T) {
	e, _ := startEngine(t, commandPage)

	before, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.Perform(context.Background(), "doABarrelRoll", PerformOptions{}))

	after, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPerformBeforeStart(t *testing.T) {
	e := New(nil, nil)
	assert.ErrorIs(t, e.Perform(context.Background(), "moveToNextHeading", PerformOptions{}), ErrNotStarted)
}
