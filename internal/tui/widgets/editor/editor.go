package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notetab/internal/tui/state"
	"notetab/internal/tui/util"
)

type Editor struct{}

func NewEditor() Editor { return Editor{} }

var label = lipgloss.NewStyle().Bold(true)

// View lays out the title field above the body surface. The focused field's
// label is marked with ">" and drawn in the accent color.
func (Editor) View(s state.UIState, title, body string) string {
	width := s.Width
	if width <= 0 {
		width = 40
	}
	var b strings.Builder
	b.WriteString(fieldLabel("Title", s.Focus == state.TitleFocus) + " " + title + "\n")
	b.WriteString(strings.Repeat("─", width) + "\n")
	b.WriteString(fieldLabel("Body", s.Focus == state.BodyFocus) + "\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func fieldLabel(name string, focused bool) string {
	if !focused {
		return "  " + label.Render(name)
	}
	return "> " + label.Foreground(util.DefaultPalette().Accent).Render(name)
}
