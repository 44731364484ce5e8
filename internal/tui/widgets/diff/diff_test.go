package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notetab/internal/tui/state"
)

func TestNoChanges(t *testing.T) {
	out := NewDiffView().View(state.UIState{}, "a\n", "a\n")
	assert.Equal(t, "No unsaved changes\n", out)
}

func TestUnifiedSnapshot(t *testing.T) {
	out := NewDiffView().View(state.UIState{Width: 80}, "Title\n=====\n\nold line\n", "Title\n=====\n\nnew line\n")
	assert.Contains(t, out, "SAVED → CURRENT")
	assert.Contains(t, out, "  Title")
	assert.Contains(t, out, "- ")
	assert.Contains(t, out, "+ ")
	assert.Contains(t, out, "old")
	assert.Contains(t, out, "new")
}

func TestUnifiedUnequalLineCounts(t *testing.T) {
	out := NewDiffView().View(state.UIState{}, "a", "a\nb")
	assert.Contains(t, out, "b")
}

func TestSideBySideSnapshot(t *testing.T) {
	out := NewDiffView().View(state.UIState{Width: 120}, "left", "right")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "SAVED")
	assert.Contains(t, lines[0], "CURRENT")
	assert.Contains(t, lines[1], "  |  ")
}
