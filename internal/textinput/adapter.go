// Package textinput is the swappable text surface behind the body field. A
// Host owns exactly one Adapter and can replace it at runtime without losing
// the value, the selection or focus.
package textinput

import (
	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/events"
)

// Direction tells which end of a selection holds the caret.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
	None     Direction = "none"
)

// Selection is a rune range with Start <= End.
type Selection struct {
	Start     int
	End       int
	Direction Direction
}

// SelectionFrom builds a Selection from an anchor and a caret position.
func SelectionFrom(anchor, head int) Selection {
	switch {
	case anchor > head:
		return Selection{Start: head, End: anchor, Direction: Backward}
	case anchor == head:
		return Selection{Start: anchor, End: head, Direction: None}
	default:
		return Selection{Start: anchor, End: head, Direction: Forward}
	}
}

// Points returns the anchor and caret positions.
func (s Selection) Points() (anchor, head int) {
	if s.Direction == Backward {
		return s.End, s.Start
	}
	return s.Start, s.End
}

// Clamp fits s into a value of n runes.
func (s Selection) Clamp(n int) Selection {
	s.Start = min(max(s.Start, 0), n)
	s.End = min(max(s.End, 0), n)
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	if s.Direction == "" {
		s.Direction = None
	}
	return s
}

// Adapter is the capability set of a text surface.
type Adapter interface {
	Kind() string

	Value() string
	SetValue(v string)
	Placeholder() string
	SetPlaceholder(p string)

	// SelectionRange returns the selection and the selected text.
	SelectionRange() (Selection, string)
	SetSelectionRange(sel Selection)
	// ReplaceSelection replaces the range with text as a single edit and
	// selects the inserted text, leaving the caret after it for forward and
	// none directions.
	ReplaceSelection(sel Selection, text string)
	// ClearHistory drops undo/redo history without touching the value.
	ClearHistory()

	Focus() tea.Cmd
	Blur()
	Focused() bool

	// Composing reports whether the input event being dispatched belongs to
	// an unfinished composition.
	Composing() bool
	Events() *events.Emitter

	// Connected and Disconnected run when the host attaches to or detaches
	// from the visible tree, or when the adapter is swapped out.
	Connected(h *Host)
	Disconnected()

	SetSize(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// NotImplementedError signals a capability the adapter does not provide.
// It is raised as a panic: reaching it is a wiring defect.
type NotImplementedError struct {
	Method string
}

func (e *NotImplementedError) Error() string {
	if e.Method == "" {
		return "Not implemented"
	}
	return "Not implemented: " + e.Method
}

func notImplemented(method string) *NotImplementedError {
	return &NotImplementedError{Method: method}
}

// Base is embedded by adapters. Every capability panics with
// *NotImplementedError until the embedding type overrides it; the lifecycle
// hooks and Composing have harmless defaults.
type Base struct{}

func (Base) Kind() string                        { return "base" }
func (Base) Value() string                       { panic(notImplemented("Value")) }
func (Base) SetValue(string)                     { panic(notImplemented("SetValue")) }
func (Base) Placeholder() string                 { panic(notImplemented("Placeholder")) }
func (Base) SetPlaceholder(string)               { panic(notImplemented("SetPlaceholder")) }
func (Base) SelectionRange() (Selection, string) { panic(notImplemented("SelectionRange")) }
func (Base) SetSelectionRange(Selection)         { panic(notImplemented("SetSelectionRange")) }
func (Base) ReplaceSelection(Selection, string)  { panic(notImplemented("ReplaceSelection")) }
func (Base) ClearHistory()                       { panic(notImplemented("ClearHistory")) }
func (Base) Focus() tea.Cmd                      { panic(notImplemented("Focus")) }
func (Base) Blur()                               { panic(notImplemented("Blur")) }
func (Base) Focused() bool                       { panic(notImplemented("Focused")) }
func (Base) Events() *events.Emitter             { panic(notImplemented("Events")) }
func (Base) SetSize(int, int)                    { panic(notImplemented("SetSize")) }
func (Base) Update(tea.Msg) tea.Cmd              { panic(notImplemented("Update")) }
func (Base) View() string                        { panic(notImplemented("View")) }
func (Base) Composing() bool                     { return false }
func (Base) Connected(*Host)                     {}
func (Base) Disconnected()                       {}

var _ Adapter = Base{}
