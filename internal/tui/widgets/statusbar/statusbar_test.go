package statusbar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notetab/internal/tui/state"
)

func TestPlainStatus(t *testing.T) {
	got := NewStatusBar().View(state.UIState{Saved: true, Editor: "plain"})
	assert.Equal(t, "[SAVED]  Focus: Title  Editor: plain  F1: help", got)
}

func TestMarkupStatusWithNotice(t *testing.T) {
	s := state.UIState{Focus: state.BodyFocus, Editor: "markup", Highlight: true, Notice: "Link copied"}
	got := NewStatusBar().View(s)
	assert.Equal(t, "[UNSAVED]  Focus: Body  Editor: markup  Highlight: On  F1: help  Link copied", got)
}

func TestLoadingEditor(t *testing.T) {
	got := NewStatusBar().View(state.UIState{Editor: "plain", Loading: true})
	assert.Contains(t, got, "Editor: plain (loading)")
}
