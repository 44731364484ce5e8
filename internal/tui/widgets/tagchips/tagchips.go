package tagchips

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notetab/internal/tui/state"
	"notetab/internal/tui/util"
)

// View renders document tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	noColor = util.NoColor(noColor)

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	return chipStyle(t).Render(label)
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.UNSAVED:
		return "Unsaved"
	case state.TYPE:
		return t.Text
	case state.EDITOR:
		return "Editor " + t.Text
	case state.TITLE_LEN:
		return fmt.Sprintf("Title %d", t.Value)
	case state.BODY_LEN:
		return fmt.Sprintf("Body %d", t.Value)
	case state.ENTRY:
		return fmt.Sprintf("Entry %d/%d", t.Value, t.Of)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag) lipgloss.Style {
	p := util.DefaultPalette()
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(p.Ink)
	switch t.Kind {
	case state.UNSAVED:
		return base.Background(p.Unsaved).Foreground(lipgloss.Color("#111111"))
	case state.TYPE, state.EDITOR:
		return base.Background(p.Label)
	case state.TITLE_LEN, state.BODY_LEN:
		return base.Background(p.Muted)
	case state.ENTRY:
		return base.Background(p.Accent)
	default:
		return base
	}
}
