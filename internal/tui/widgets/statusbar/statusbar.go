package statusbar

import (
	"strings"

	"notetab/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line reflecting key UI state.
func (StatusBar) View(s state.UIState) string {
	saved := "[UNSAVED]"
	if s.Saved {
		saved = "[SAVED]"
	}
	focus := "Title"
	if s.Focus == state.BodyFocus {
		focus = "Body"
	}
	editor := s.Editor
	if s.Loading {
		editor += " (loading)"
	}
	parts := []string{saved, "Focus: " + focus, "Editor: " + editor}
	if s.Editor == "markup" {
		hl := "Highlight: Off"
		if s.Highlight {
			hl = "Highlight: On"
		}
		parts = append(parts, hl)
	}
	parts = append(parts, "F1: help")
	if s.Notice != "" {
		parts = append(parts, s.Notice)
	}
	return strings.Join(parts, "  ")
}
