package entries

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notetab/internal/history"
)

var (
	cur   = lipgloss.NewStyle().Bold(true)
	faint = lipgloss.NewStyle().Faint(true)
)

// Render lists history entries oldest first, marking the current one. Long
// links are cut to width cells.
func Render(list []history.Entry, index, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	fmt.Fprintf(&b, "History (%d entries)\n\n", len(list))
	for i, e := range list {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%2d  %s", i+1, title)
		if e.State == nil {
			line += faint.Render("  (no state)")
		}
		if i == index {
			b.WriteString(cur.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("      " + faint.Render(clip(e.URL, width-6)) + "\n")
	}
	b.WriteString("\nalt+←/alt+→: move   esc: close\n")
	return b.String()
}

func clip(s string, width int) string {
	r := []rune(s)
	if width < 2 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
