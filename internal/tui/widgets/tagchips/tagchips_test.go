package tagchips

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notetab/internal/tui/state"
)

func TestPlainChips(t *testing.T) {
	tags := []state.Tag{
		{Kind: state.UNSAVED},
		{Kind: state.TYPE, Text: "note.md"},
		{Kind: state.EDITOR, Text: "plain"},
		{Kind: state.TITLE_LEN, Value: 3},
		{Kind: state.BODY_LEN, Value: 12},
		{Kind: state.ENTRY, Value: 2, Of: 4},
	}
	got := View(tags, true)
	assert.Equal(t, "[Unsaved] [note.md] [Editor plain] [Title 3] [Body 12] [Entry 2/4]", got)
}

func TestNoTags(t *testing.T) {
	assert.Empty(t, View(nil, true))
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "[Unsaved]", View([]state.Tag{{Kind: state.UNSAVED}}, false))
}
