package textinput

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/autoresize"
	"notetab/internal/events"
	"notetab/internal/undo"
)

var (
	undoKey = key.NewBinding(key.WithKeys("ctrl+z"))
	redoKey = key.NewBinding(key.WithKeys("ctrl+y"))
)

// Plain is the default adapter, a bubbles textarea.
type Plain struct {
	Base

	ta      textarea.Model
	ev      events.Emitter
	style   *autoresize.StyleMap
	history *undo.Stack
	resizer *autoresize.Resizer

	// anchor is the far end of a selection set programmatically; the
	// textarea only tracks a caret. It is dropped on the next key press.
	anchor    int
	hasAnchor bool
	height    int
}

func NewPlain() *Plain {
	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(DefaultRows)
	return &Plain{
		ta:      ta,
		style:   autoresize.NewStyleMap(),
		history: undo.New(0),
		height:  DefaultRows,
	}
}

func (p *Plain) Kind() string { return "plain" }

func (p *Plain) Value() string { return p.ta.Value() }

// SetValue replaces the text without an input event.
func (p *Plain) SetValue(v string) {
	p.ta.SetValue(v)
	p.hasAnchor = false
	autoresize.Recompute(p)
}

func (p *Plain) Placeholder() string      { return p.ta.Placeholder }
func (p *Plain) SetPlaceholder(ph string) { p.ta.Placeholder = ph }
func (p *Plain) Events() *events.Emitter  { return &p.ev }

func (p *Plain) SelectionRange() (Selection, string) {
	head := p.caret()
	anchor := head
	if p.hasAnchor {
		anchor = p.anchor
	}
	sel := SelectionFrom(anchor, head)
	runes := []rune(p.ta.Value())
	sel = sel.Clamp(len(runes))
	return sel, string(runes[sel.Start:sel.End])
}

func (p *Plain) SetSelectionRange(sel Selection) {
	sel = sel.Clamp(utf8.RuneCountInString(p.ta.Value()))
	anchor, head := sel.Points()
	p.moveCaret(head)
	p.anchor, p.hasAnchor = anchor, anchor != head
}

func (p *Plain) ReplaceSelection(sel Selection, text string) {
	runes := []rune(p.ta.Value())
	sel = sel.Clamp(len(runes))
	p.history.Record(p.snapshot())

	var b strings.Builder
	b.WriteString(string(runes[:sel.Start]))
	b.WriteString(text)
	b.WriteString(string(runes[sel.End:]))
	p.ta.SetValue(b.String())

	end := sel.Start + utf8.RuneCountInString(text)
	next := Selection{Start: sel.Start, End: end, Direction: sel.Direction}
	anchor, head := next.Points()
	p.moveCaret(head)
	p.anchor, p.hasAnchor = anchor, anchor != head
	autoresize.Recompute(p)
}

func (p *Plain) ClearHistory() { p.history.Clear() }

func (p *Plain) Focus() tea.Cmd { return p.ta.Focus() }
func (p *Plain) Blur()          { p.ta.Blur() }
func (p *Plain) Focused() bool  { return p.ta.Focused() }

func (p *Plain) Connected(h *Host) {
	if p.resizer != nil {
		return
	}
	p.resizer = AttachResize(h, plainSurface{p})
}

func (p *Plain) Disconnected() {
	if p.resizer == nil {
		return
	}
	p.resizer.Close()
	p.resizer = nil
}

func (p *Plain) SetSize(width, height int) {
	if width > 0 {
		p.ta.SetWidth(width)
	}
	if height > 0 {
		p.height = height
		p.ta.SetHeight(height)
	}
}

func (p *Plain) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.ta, cmd = p.ta.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(km, undoKey):
		if s, ok := p.history.Undo(p.snapshot()); ok {
			p.restore(s)
		}
		return nil
	case key.Matches(km, redoKey):
		if s, ok := p.history.Redo(p.snapshot()); ok {
			p.restore(s)
		}
		return nil
	}

	before := p.snapshot()
	var cmd tea.Cmd
	p.ta, cmd = p.ta.Update(km)
	p.hasAnchor = false
	if p.ta.Value() != before.Value {
		p.history.Record(before)
		p.ev.Dispatch(events.Input)
	}
	return cmd
}

func (p *Plain) View() string { return p.ta.View() }

func (p *Plain) snapshot() undo.Snapshot {
	head := p.caret()
	anchor := head
	if p.hasAnchor {
		anchor = p.anchor
	}
	return undo.Snapshot{Value: p.ta.Value(), Anchor: anchor, Head: head}
}

// restore applies an undo snapshot. It is a user edit, so input fires.
func (p *Plain) restore(s undo.Snapshot) {
	p.ta.SetValue(s.Value)
	p.moveCaret(s.Head)
	p.anchor, p.hasAnchor = s.Anchor, s.Anchor != s.Head
	p.ev.Dispatch(events.Input)
}

// caret is the rune offset of the textarea cursor.
func (p *Plain) caret() int {
	lines := strings.Split(p.ta.Value(), "\n")
	row := min(p.ta.Line(), len(lines)-1)
	off := 0
	for _, l := range lines[:row] {
		off += utf8.RuneCountInString(l) + 1
	}
	li := p.ta.LineInfo()
	col := min(li.StartColumn+li.ColumnOffset, utf8.RuneCountInString(lines[row]))
	return off + col
}

// moveCaret places the textarea cursor at rune offset off.
func (p *Plain) moveCaret(off int) {
	row, col := position(p.ta.Value(), off)
	for guard := 0; p.ta.Line() > row && guard < maxSteps; guard++ {
		p.ta.CursorUp()
	}
	for guard := 0; p.ta.Line() < row && guard < maxSteps; guard++ {
		p.ta.CursorDown()
	}
	p.ta.SetCursor(col)
}

const maxSteps = 1 << 16

// position converts a rune offset to a logical row and column.
func position(s string, off int) (row, col int) {
	for _, r := range s {
		if off == 0 {
			break
		}
		off--
		if r == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return row, col
}

// plainSurface is the measurable view of a Plain adapter.
type plainSurface struct{ p *Plain }

func (s plainSurface) Value() string           { return s.p.ta.Value() }
func (s plainSurface) SetValue(v string)       { s.p.ta.SetValue(v) }
func (s plainSurface) Placeholder() string     { return s.p.ta.Placeholder }
func (s plainSurface) Style() autoresize.Style { return s.p.style }
func (s plainSurface) Events() *events.Emitter { return &s.p.ev }
func (s plainSurface) ScrollWidth() int {
	return max(s.p.ta.Width(), autoresize.TextWidth(s.p.ta.Value()))
}

func (s plainSurface) ScrollHeight() int {
	content := autoresize.TextHeight(s.p.ta.Value(), s.p.ta.Width())
	return max(s.p.height, content)
}
