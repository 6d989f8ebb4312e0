package reader

import (
	"context"
	"testing"

	"github.com/earshot-dev/earshot/internal/config"
	"github.com/earshot-dev/earshot/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const livePage = `<body>
	<button id="save">Save</button>
	<div id="status" aria-live="polite"></div>
	<div id="alarm" role="alert"></div>
	<div id="ticker" aria-live="off"></div>
	<div id="plain"></div>
</body>`

func TestPoliteAnnouncementWithoutCursorMove(t *testing.T) {
	e, doc := startEngine(t, livePage)

	next(t, e) // the save button
	active := e.ActiveNode()
	require.NotNil(t, active)

	doc.AppendText(doc.GetElementByID("status"), "Draft saved")

	assert.Equal(t, "polite: Draft saved", lastPhrase(t, e))
	assert.Equal(t, active.Name, e.ActiveNode().Name, "announcements never move the cursor")
}

func TestAssertiveAnnouncementFromImplicitRole(t *testing.T) {
	e, doc := startEngine(t, livePage)

	doc.AppendText(doc.GetElementByID("alarm"), "Connection lost")

	assert.Equal(t, "assertive: Connection lost", lastPhrase(t, e))
}

func TestCharacterDataChangeAnnounces(t *testing.T) {
	e, doc := startEngine(t, livePage)

	doc.SetTextContent(doc.GetElementByID("status"), "3 results")

	assert.Equal(t, "polite: 3 results", lastPhrase(t, e))
}

func TestNestedInsertionFindsEnclosingRegion(t *testing.T) {
	e, doc := startEngine(t, livePage)

	status := doc.GetElementByID("status")
	span := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	doc.AppendChild(status, span)
	doc.AppendText(span, "Uploading")

	assert.Equal(t, "polite: Uploading", lastPhrase(t, e))
}

func TestSilentRegions(t *testing.T) {
	e, doc := startEngine(t, livePage)

	before, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)

	doc.AppendText(doc.GetElementByID("ticker"), "stock is up")
	doc.AppendText(doc.GetElementByID("plain"), "not live")
	doc.SetAttribute(doc.GetElementByID("status"), "data-x", "1")
	doc.AppendText(doc.GetElementByID("status"), "   ")

	after, err := e.SpokenPhraseLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after,
		"off regions, non-live nodes, attribute flips, and blank text stay silent")
}

func TestAnnouncementWithoutPolitenessPrefix(t *testing.T) {
	doc, err := dom.ParseString(livePage, nil)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.SetReaderAnnouncePoliteness(false)

	e := New(cfg, nil)
	require.NoError(t, e.Start(context.Background(), doc, doc.Body(), Options{}))
	t.Cleanup(func() { require.NoError(t, e.Stop(context.Background())) })

	doc.AppendText(doc.GetElementByID("status"), "Draft saved")

	assert.Equal(t, "Draft saved", lastPhrase(t, e))
}
