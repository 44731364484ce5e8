package markup

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/autoresize"
	"notetab/internal/events"
	"notetab/internal/textinput"
)

// Adapter puts an Editor behind the textinput.Adapter interface.
type Adapter struct {
	textinput.Base

	editor    *Editor
	ev        events.Emitter
	style     *autoresize.StyleMap
	resizer   *autoresize.Resizer
	composing bool
}

// Options configure a new Adapter.
type Options struct {
	Highlight bool
}

// New builds the rich adapter. Ctrl+J (ctrl+enter on most terminals) is
// swallowed so the surrounding form can act on it; ctrl+\ and alt+i grow
// the selection to the enclosing markup.
func New(opts Options) *Adapter {
	a := &Adapter{style: autoresize.NewStyleMap()}
	a.editor = NewEditor(
		Highlighting(opts.Highlight),
		Keymap(PrecHighest,
			Binding{Key: key.NewBinding(key.WithKeys("ctrl+j")), Run: Swallow},
		),
		Keymap(PrecHigh,
			Binding{Key: key.NewBinding(key.WithKeys("tab")), Run: InsertTab},
			Binding{Key: key.NewBinding(key.WithKeys("alt+i")), Run: SelectParentSyntax},
			Binding{Key: key.NewBinding(key.WithKeys(`ctrl+\`)), Run: SelectParentSyntax},
		),
		UpdateListener(a.onUpdate),
	)
	return a
}

// onUpdate raises input for document changes made by the user.
func (a *Adapter) onUpdate(u ViewUpdate) {
	if !u.DocChanged {
		return
	}
	if u.Transaction.UserEvent == "" {
		autoresize.Recompute(a)
		return
	}
	a.composing = u.Transaction.IsUserEvent(EventCompose)
	a.ev.Dispatch(events.Input)
	a.composing = false
}

func (a *Adapter) Kind() string { return "markup" }

// Editor exposes the underlying editor.
func (a *Adapter) Editor() *Editor { return a.editor }

func (a *Adapter) Value() string { return a.editor.Doc() }

func (a *Adapter) SetValue(v string) {
	a.editor.Dispatch(Transaction{Changes: []Change{{From: 0, To: a.editor.Len(), Insert: v}}})
}

func (a *Adapter) Placeholder() string     { return a.editor.Placeholder() }
func (a *Adapter) SetPlaceholder(p string) { a.editor.SetPlaceholder(p) }
func (a *Adapter) Events() *events.Emitter { return &a.ev }
func (a *Adapter) Composing() bool         { return a.composing }
func (a *Adapter) ClearHistory()           { a.editor.ClearHistory() }
func (a *Adapter) SetHighlighting(on bool) { a.editor.SetHighlighting(on) }
func (a *Adapter) Highlighting() bool      { return a.editor.Highlighting() }

func (a *Adapter) SelectionRange() (textinput.Selection, string) {
	r := a.editor.Selection()
	sel := textinput.SelectionFrom(r.Anchor, r.Head)
	return sel, a.editor.SliceDoc(sel.Start, sel.End)
}

func (a *Adapter) SetSelectionRange(sel textinput.Selection) {
	anchor, head := sel.Points()
	a.editor.Dispatch(Transaction{Selection: &Range{Anchor: anchor, Head: head}})
}

// ReplaceSelection is a single transaction carrying both the change and the
// new selection.
func (a *Adapter) ReplaceSelection(sel textinput.Selection, text string) {
	sel = sel.Clamp(a.editor.Len())
	next := textinput.Selection{Start: sel.Start, End: sel.Start + len([]rune(text)), Direction: sel.Direction}
	anchor, head := next.Points()
	a.editor.Dispatch(Transaction{
		Changes:   []Change{{From: sel.Start, To: sel.End, Insert: text}},
		Selection: &Range{Anchor: anchor, Head: head},
	})
}

func (a *Adapter) Focus() tea.Cmd {
	a.editor.Focus()
	return nil
}

func (a *Adapter) Blur()         { a.editor.Blur() }
func (a *Adapter) Focused() bool { return a.editor.Focused() }

func (a *Adapter) Connected(h *textinput.Host) {
	if a.resizer != nil {
		return
	}
	a.resizer = textinput.AttachResize(h, surface{a})
}

func (a *Adapter) Disconnected() {
	if a.resizer == nil {
		return
	}
	a.resizer.Close()
	a.resizer = nil
}

func (a *Adapter) SetSize(width, height int)  { a.editor.SetSize(width, height) }
func (a *Adapter) Update(msg tea.Msg) tea.Cmd { return a.editor.Update(msg) }
func (a *Adapter) View() string               { return a.editor.View() }

var _ textinput.Adapter = (*Adapter)(nil)

// surface is the measurable view of the editor.
type surface struct{ a *Adapter }

func (s surface) Value() string           { return s.a.editor.Doc() }
func (s surface) Placeholder() string     { return s.a.editor.Placeholder() }
func (s surface) Style() autoresize.Style { return s.a.style }
func (s surface) Events() *events.Emitter { return &s.a.ev }

// SetValue is only used by width measurement, which the editor never gets.
func (s surface) SetValue(string) {}

func (s surface) ScrollWidth() int {
	w, _ := s.a.editor.Size()
	return max(w, autoresize.TextWidth(s.a.editor.Doc()))
}

func (s surface) ScrollHeight() int {
	_, h := s.a.editor.Size()
	return max(h, s.a.editor.VisualRows())
}
