package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/autoresize"
	"notetab/internal/events"
)

// titleField is the single-line title input. Its width follows the content
// through a width resizer writing to its own style.
type titleField struct {
	ti    textinput.Model
	style *autoresize.StyleMap
	ev    events.Emitter
	limit int
}

func newTitleField() *titleField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	f := &titleField{ti: ti, style: autoresize.NewStyleMap()}
	f.style.OnChange = func(string) { f.apply() }
	return f
}

// apply copies the measured width to the input, bounded by the window.
func (f *titleField) apply() {
	w, ok := f.style.Property("width")
	if !ok || w == autoresize.Auto {
		f.ti.Width = 0
		return
	}
	n := int(w)
	if f.limit > 0 && n > f.limit {
		n = f.limit
	}
	f.ti.Width = max(n, 1)
}

// SetLimit caps the applied width at n cells; 0 removes the cap.
func (f *titleField) SetLimit(n int) {
	f.limit = n
	f.apply()
}

func (f *titleField) Value() string           { return f.ti.Value() }
func (f *titleField) SetValue(v string)       { f.ti.SetValue(v) }
func (f *titleField) Placeholder() string     { return f.ti.Placeholder }
func (f *titleField) SetPlaceholder(p string) { f.ti.Placeholder = p }
func (f *titleField) Style() autoresize.Style { return f.style }
func (f *titleField) Events() *events.Emitter { return &f.ev }
func (f *titleField) ScrollHeight() int       { return 1 }

func (f *titleField) ScrollWidth() int {
	applied := 0
	if w, ok := f.style.Property("width"); ok && w > 0 {
		applied = int(w)
	}
	return max(applied, autoresize.TextWidth(f.ti.Value()))
}

func (f *titleField) Width() int { return f.ti.Width }

func (f *titleField) Focus() tea.Cmd { return f.ti.Focus() }
func (f *titleField) Blur()          { f.ti.Blur() }
func (f *titleField) Focused() bool  { return f.ti.Focused() }

// Update forwards msg to the input and dispatches input when the user
// changed the value.
func (f *titleField) Update(msg tea.Msg) tea.Cmd {
	before := f.ti.Value()
	var cmd tea.Cmd
	f.ti, cmd = f.ti.Update(msg)
	if f.ti.Value() != before {
		f.ev.Dispatch(events.Input)
	}
	return cmd
}

func (f *titleField) View() string { return f.ti.View() }

var _ autoresize.Field = (*titleField)(nil)
