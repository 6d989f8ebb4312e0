package a11y

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phrases renders the full flattened sequence for a body's markup.
func phrases(t *testing.T, markup string) []string {
	t.Helper()
	_, root := synthesizeBody(t, markup)
	var out []string
	for _, f := range Flatten(root) {
		out = append(out, Phrase(f))
	}
	return out
}

func TestFlattenDocumentOrderWithBoundaries(t *testing.T) {
	got := phrases(t, `<body>
		<nav>
			<h1>Nav Heading</h1>
		</nav>
		<section aria-label="Intro">
			<p>Section Text</p>
		</section>
		<footer>
			<p>Footer Text</p>
		</footer>
	</body>`)

	want := []string{
		"document",
		"navigation",
		"heading, Nav Heading, level 1",
		"end of navigation",
		"region, Intro",
		"paragraph",
		"Section Text",
		"end of paragraph",
		"end of region",
		"contentinfo",
		"paragraph",
		"Footer Text",
		"end of paragraph",
		"end of contentinfo",
		"end of document",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flattened sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenEmptyTree(t *testing.T) {
	assert.Nil(t, Flatten(nil))
}

func TestPresentationalExclusion(t *testing.T) {
	_, root := synthesizeBody(t, `<body>
		<ul role="presentation">
			<li>alpha</li>
		</ul>
	</body>`)
	flat := Flatten(root)

	var roles []string
	for _, f := range flat {
		if !f.Boundary {
			roles = append(roles, f.Role)
		}
	}
	// The presentational list never appears; the exempt listitem and its
	// text do.
	assert.NotContains(t, roles, "list")
	assert.Contains(t, roles, "listitem")
	assert.Contains(t, roles, RoleText)
}

func TestChildrenPresentationalAbsorbsDescendants(t *testing.T) {
	_, root := synthesizeBody(t, `<body>
		<button><b>Bold</b> Pause</button>
	</body>`)
	flat := Flatten(root)

	// document, button, end of document: no descendant of the button is a
	// separate stop, but its text reaches the item text.
	require.Len(t, flat, 3)
	button := flat[1]
	assert.Equal(t, "button", button.Role)
	assert.Equal(t, "Bold Pause", ItemText(button))
}

func TestInertExclusion(t *testing.T) {
	got := phrases(t, `<body>
		<p>before</p>
		<div inert><button>frozen</button></div>
		<p>after</p>
	</body>`)

	for _, p := range got {
		assert.NotContains(t, p, "frozen")
	}
}

func TestBoundaryCarriesOpeningIdentity(t *testing.T) {
	_, root := synthesizeBody(t, `<body><nav aria-label="Site"><p>x</p></nav></body>`)
	flat := Flatten(root)

	var opening, closing *FlatNode
	for i := range flat {
		if flat[i].Role == "navigation" {
			if flat[i].Boundary {
				closing = &flat[i]
			} else {
				opening = &flat[i]
			}
		}
	}
	require.NotNil(t, opening)
	require.NotNil(t, closing)
	assert.Same(t, opening.Node, closing.Node)
	assert.Equal(t, "Site", closing.Name)
	assert.False(t, opening.Matches(*closing), "boundary and opening are distinct stops")
}

func TestGenericWrappersAreTransparent(t *testing.T) {
	got := phrases(t, `<body><div><div><p>deep</p></div></div></body>`)
	want := []string{
		"document",
		"paragraph",
		"deep",
		"end of paragraph",
		"end of document",
	}
	assert.Equal(t, want, got)
}
