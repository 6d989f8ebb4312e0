// File: internal/reader/live.go
package reader

import (
	"github.com/earshot-dev/earshot/internal/aria"
	"github.com/earshot-dev/earshot/internal/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// announceLiveRegions inspects one mutation batch and appends an
// announcement to the spoken phrase log for every content change inside a
// live region. The cursor never moves; announcements are output only.
// Attribute flips are not content and stay silent.
func (e *Engine) announceLiveRegions(batch []dom.MutationRecord) {
	for _, rec := range batch {
		switch rec.Type {
		case dom.MutationChildList:
			for _, added := range rec.AddedNodes {
				e.announceIfLive(added)
			}
		case dom.MutationCharacterData:
			e.announceIfLive(rec.Target)
		}
	}
}

// announceIfLive resolves the nearest live region enclosing n and, when one
// exists with politeness other than off, speaks n's collapsed text.
func (e *Engine) announceIfLive(n *html.Node) {
	politeness := enclosingPoliteness(n)
	if politeness == "" || politeness == "off" {
		return
	}
	text := dom.CollapseWhitespace(dom.TextContent(n))
	if text == "" {
		return
	}
	if e.cfg.AnnouncePoliteness {
		text = politeness + ": " + text
	}
	e.spokenLog = append(e.spokenLog, text)
	e.logger.Debug("live region announcement",
		zap.String("politeness", politeness), zap.String("text", text))
}

// enclosingPoliteness walks from n to the root looking for the nearest
// element with live-region semantics, explicit or implicit.
func enclosingPoliteness(n *html.Node) string {
	for el := n; el != nil; el = el.Parent {
		if el.Type != html.ElementNode {
			continue
		}
		if p := aria.Politeness(el); p != "" {
			return p
		}
	}
	return ""
}
