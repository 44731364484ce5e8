package state

import "fmt"

// CycleFocus moves focus between the title and the body.
func CycleFocus(s UIState) UIState {
	if s.Focus == TitleFocus {
		s.Focus = BodyFocus
	} else {
		s.Focus = TitleFocus
	}
	return s
}

// ToggleOverlay opens o, or closes it when it is already open.
func ToggleOverlay(s UIState, o Overlay) UIState {
	if s.Overlay == o {
		s.Overlay = NoOverlay
	} else {
		s.Overlay = o
	}
	return s
}

// CloseOverlay returns to the editor.
func CloseOverlay(s UIState) UIState {
	s.Overlay = NoOverlay
	return s
}

// Resize records the window size. A window narrower than MinBody hides the
// tag chips and says so once.
func Resize(s UIState, width, height int) UIState {
	wasNarrow := s.Narrow()
	s.Width, s.Height = width, height
	if s.Narrow() && !wasNarrow {
		s.Notice = "Narrow window: tags hidden"
	}
	return s
}

// Narrow reports whether the window is too narrow for the tag chips.
func (s UIState) Narrow() bool {
	floor := s.MinBody
	if floor <= 0 {
		floor = 40
	}
	return s.Width > 0 && s.Width < floor
}

// SetEditor records a finished adapter swap.
func SetEditor(s UIState, kind string, highlight bool) UIState {
	s.Editor = kind
	s.Highlight = highlight
	s.Loading = false
	s.Notice = fmt.Sprintf("Editor: %s", kind)
	return s
}

// ToggleHighlight flips syntax highlighting and sets a notice.
func ToggleHighlight(s UIState) UIState {
	s.Highlight = !s.Highlight
	if s.Highlight {
		s.Notice = "Highlighting on"
	} else {
		s.Notice = "Highlighting off"
	}
	return s
}

// SetHistory records the document's saved flag and history position.
func SetHistory(s UIState, saved bool, entries, index int) UIState {
	s.Saved = saved
	s.Entries = entries
	s.Index = index
	return s
}

// Notify replaces the notice.
func Notify(s UIState, format string, args ...any) UIState {
	s.Notice = fmt.Sprintf(format, args...)
	return s
}
