package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "console", cfg.Logger().Format)
	assert.Equal(t, "earshot", cfg.Logger().ServiceName)
	assert.False(t, cfg.Reader().DisplayCursor)
	assert.True(t, cfg.Reader().AnnouncePoliteness)
	assert.Equal(t, 0.0, cfg.Input().TypingRate)
	assert.Equal(t, 5*time.Second, cfg.Input().SettleTimeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logger:
  level: debug
  format: json
reader:
  display_cursor: true
  announce_politeness: false
input:
  typing_rate: 25.5
  settle_timeout: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "json", cfg.Logger().Format)
	assert.True(t, cfg.Reader().DisplayCursor)
	assert.False(t, cfg.Reader().AnnouncePoliteness)
	assert.Equal(t, 25.5, cfg.Input().TypingRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Input().SettleTimeout)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	// An explicitly named file that does not exist is an error; viper only
	// tolerates a missing file in search-path mode.
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSetters(t *testing.T) {
	cfg := Default()

	cfg.SetReaderDisplayCursor(true)
	cfg.SetReaderAnnouncePoliteness(false)
	cfg.SetInputTypingRate(80)
	cfg.SetInputSettleTimeout(time.Second)

	assert.True(t, cfg.Reader().DisplayCursor)
	assert.False(t, cfg.Reader().AnnouncePoliteness)
	assert.Equal(t, 80.0, cfg.Input().TypingRate)
	assert.Equal(t, time.Second, cfg.Input().SettleTimeout)
}
