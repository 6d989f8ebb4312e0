package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earshot-dev/earshot/internal/observability"
)

func writePage(t *testing.T, markup string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o644))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	observability.ResetForTest()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadCommandPlainOutput(t *testing.T) {
	page := writePage(t, `<body>
		<h1>Welcome</h1>
		<button>Go</button>
	</body>`)

	out, err := executeCommand(t, "read", page)
	require.NoError(t, err)

	assert.Contains(t, out, "document\n")
	assert.Contains(t, out, "heading, Welcome, level 1\n")
	assert.Contains(t, out, "button, Go\n")
	assert.Contains(t, out, "end of document\n")
}

func TestReadCommandJSONOutput(t *testing.T) {
	page := writePage(t, `<body><button>Go</button></body>`)

	out, err := executeCommand(t, "read", page, "--json")
	require.NoError(t, err)

	var entries []struct {
		Phrase   string `json:"phrase"`
		ItemText string `json:"itemText"`
		Role     string `json:"role"`
	}
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "document", entries[0].Phrase)
	assert.Equal(t, "button, Go", entries[1].Phrase)
	assert.Equal(t, "button", entries[1].Role)
	assert.Equal(t, "Go", entries[1].ItemText)
	assert.Equal(t, "end of document", entries[2].Phrase)
}

func TestReadCommandScopedContainer(t *testing.T) {
	page := writePage(t, `<body>
		<header>Masthead</header>
		<main id="content"><a href="/x">Details</a></main>
	</body>`)

	out, err := executeCommand(t, "read", page, "--container", "content")
	require.NoError(t, err)

	assert.Contains(t, out, "link, Details")
	assert.NotContains(t, out, "Masthead")
}

func TestReadCommandMissingFile(t *testing.T) {
	_, err := executeCommand(t, "read", filepath.Join(t.TempDir(), "absent.html"))
	assert.Error(t, err)
}

func TestReadCommandUnknownContainer(t *testing.T) {
	page := writePage(t, `<body><p>hi</p></body>`)

	_, err := executeCommand(t, "read", page, "--container", "nope")
	assert.Error(t, err)
}
