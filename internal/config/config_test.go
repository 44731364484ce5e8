package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "note.md", c.DefaultType)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_type: todo.txt\neditor: plain\npoll_interval: 20ms\nrows: 4\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "todo.txt", c.DefaultType)
	assert.Equal(t, EditorPlain, c.Editor)
	assert.Equal(t, 20*time.Millisecond, c.PollInterval)
	assert.Equal(t, 4, c.Rows)
	assert.Equal(t, "Untitled {0}", c.TitlePlaceholder)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTETAB_DEFAULT_TYPE", "log.txt")
	t.Setenv("NOTETAB_HIGHLIGHT", "false")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "log.txt", c.DefaultType)
	assert.False(t, c.Highlight)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor: vim\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown editor")

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "log level")
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path, false))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	assert.ErrorIs(t, WriteDefault(path, false), ErrExists)
	assert.NoError(t, WriteDefault(path, true))
}

func TestSaveClone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Clone(DefaultConfig())
	c.Slack = 0
	c.LinkBase = "https://notes.example/"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Slack)
	assert.Equal(t, "https://notes.example/", got.LinkBase)
	assert.Equal(t, 1, DefaultConfig().Slack)
}

func TestMarshalUsesFileKeys(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "editor: markup\n")
	assert.Contains(t, out, "poll_interval: 50ms\n")
}
