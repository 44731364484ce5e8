package util

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
	if explicit {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

// Palette defines the colors shared by the page and its widgets.
type Palette struct {
	Accent  lipgloss.Color // focused field, link
	Saved   lipgloss.Color
	Unsaved lipgloss.Color
	Label   lipgloss.Color // type and editor chips
	Muted   lipgloss.Color
	Ink     lipgloss.Color // text on chips
}

// DefaultPalette returns the default palette.
func DefaultPalette() Palette {
	return Palette{
		Accent:  lipgloss.Color("#3D6DFF"),
		Saved:   lipgloss.Color("#2AA876"),
		Unsaved: lipgloss.Color("#F0AD4E"),
		Label:   lipgloss.Color("#6C757D"),
		Muted:   lipgloss.Color("#5A5A5A"),
		Ink:     lipgloss.Color("#FFFFFF"),
	}
}
