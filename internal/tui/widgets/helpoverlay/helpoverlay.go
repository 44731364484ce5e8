package helpoverlay

import (
	"fmt"
	"strings"

	"notetab/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current editor indicated.
func (HelpOverlay) View(s state.UIState) string {
	editor := s.Editor
	if editor == "" {
		editor = "plain"
	}
	sections := []struct {
		title string
		keys  []string
	}{
		{"Document", []string{"Ctrl+S / Ctrl+J: save", "Enter (title): save", "Ctrl+N: new note", "Alt+←/Alt+→: back/forward"}},
		{"Share", []string{"Ctrl+L: copy link", "Ctrl+E: export file", "Ctrl+O: import file"}},
		{"Editor", []string{"Tab/Shift+Tab: switch field", "Ctrl+Z/Ctrl+Y: undo/redo", "Ctrl+T: plain/markup editor", "Ctrl+G: highlighting (markup)", "Alt+I: select enclosing syntax (markup)"}},
		{"View", []string{"Ctrl+D: unsaved changes", "F1: this help", "F2: history", "Esc: close panel", "Ctrl+Q: quit"}},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Help (Editor: %s)\n", editor)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	return b.String()
}
