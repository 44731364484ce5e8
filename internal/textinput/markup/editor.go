// Package markup is the rich text surface: a small editor with markdown
// highlighting driven by transactions, and the textinput adapter around it.
package markup

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"notetab/internal/undo"
)

// User event names carried by transactions.
const (
	EventType    = "input.type"
	EventCompose = "input.type.compose"
	EventPaste   = "input.paste"
	EventDelete  = "delete"
	EventUndo    = "undo"
	EventRedo    = "redo"
	EventSelect  = "select"
)

const tabWidth = 4

// Range is a selection; Head holds the caret.
type Range struct {
	Anchor int
	Head   int
}

func Cursor(pos int) Range { return Range{Anchor: pos, Head: pos} }

func (r Range) From() int   { return min(r.Anchor, r.Head) }
func (r Range) To() int     { return max(r.Anchor, r.Head) }
func (r Range) Empty() bool { return r.Anchor == r.Head }

// Change replaces the runes [From, To) of the current document with Insert.
type Change struct {
	From   int
	To     int
	Insert string
}

// Transaction is one atomic update. Changes are expressed against the
// document as it was before the transaction. A non-empty UserEvent marks
// the update as coming from the user.
type Transaction struct {
	Changes   []Change
	Selection *Range
	UserEvent string
}

// IsUserEvent reports whether the transaction's event is name or a
// refinement of it ("input.type" matches "input").
func (tr Transaction) IsUserEvent(name string) bool {
	ue := tr.UserEvent
	return ue == name || strings.HasPrefix(ue, name+".")
}

// ViewUpdate is handed to update listeners after a transaction.
type ViewUpdate struct {
	Transaction  Transaction
	DocChanged   bool
	SelectionSet bool
}

// Precedence orders keymaps; higher precedence runs first.
type Precedence int

const (
	PrecLowest Precedence = iota
	PrecLow
	PrecDefault
	PrecHigh
	PrecHighest
)

// Command runs against the editor and reports whether it handled the key.
type Command func(e *Editor) bool

type Binding struct {
	Key key.Binding
	Run Command
}

type keymap struct {
	prec     Precedence
	order    int
	bindings []Binding
}

// Extension configures an Editor.
type Extension func(e *Editor)

// Keymap installs bindings at the given precedence.
func Keymap(prec Precedence, bindings ...Binding) Extension {
	return func(e *Editor) {
		e.keymaps = append(e.keymaps, keymap{prec: prec, order: len(e.keymaps), bindings: bindings})
		sort.SliceStable(e.keymaps, func(i, j int) bool { return e.keymaps[i].prec > e.keymaps[j].prec })
	}
}

// UpdateListener runs fn after every dispatched transaction.
func UpdateListener(fn func(ViewUpdate)) Extension {
	return func(e *Editor) { e.listeners = append(e.listeners, fn) }
}

// Highlighting sets the initial highlighting state.
func Highlighting(on bool) Extension {
	return func(e *Editor) { e.highlight = on }
}

var (
	headingStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	emphasisStyle    = lipgloss.NewStyle().Italic(true)
	strongStyle      = lipgloss.NewStyle().Bold(true)
	strikeStyle      = lipgloss.NewStyle().Strikethrough(true)
	codeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	linkStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	quoteStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	listStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	plainStyle       = lipgloss.NewStyle()
	placeholderStyle = lipgloss.NewStyle().Faint(true)
	selectionBg      = lipgloss.Color("238")
)

func styleFor(k Kind) lipgloss.Style {
	switch k {
	case Heading:
		return headingStyle
	case Emphasis:
		return emphasisStyle
	case Strong:
		return strongStyle
	case Strike:
		return strikeStyle
	case Code, CodeBlock:
		return codeStyle
	case Link:
		return linkStyle
	case Quote:
		return quoteStyle
	case ListMarker:
		return listStyle
	}
	return plainStyle
}

// Editor is a single-selection text editor.
type Editor struct {
	doc     []rune
	sel     Range
	history *undo.Stack

	keymaps   []keymap
	listeners []func(ViewUpdate)

	highlight   bool
	highlighter *Highlighter
	spans       []Span
	spansValid  bool

	placeholder string
	focused     bool
	width       int
	height      int
	scroll      int
	// goal is the column kept across vertical moves; -1 when unset.
	goal int
}

func NewEditor(exts ...Extension) *Editor {
	e := &Editor{
		history:     undo.New(0),
		highlight:   true,
		highlighter: NewHighlighter(),
		width:       40,
		height:      2,
		goal:        -1,
	}
	for _, ext := range exts {
		ext(e)
	}
	return e
}

func (e *Editor) Doc() string      { return string(e.doc) }
func (e *Editor) Len() int         { return len(e.doc) }
func (e *Editor) Selection() Range { return e.sel }

// SliceDoc returns the runes [from, to), clamped to the document.
func (e *Editor) SliceDoc(from, to int) string {
	from, to = e.clamp(from), e.clamp(to)
	if from > to {
		from, to = to, from
	}
	return string(e.doc[from:to])
}

func (e *Editor) clamp(pos int) int { return min(max(pos, 0), len(e.doc)) }

// Dispatch applies tr and notifies the update listeners.
func (e *Editor) Dispatch(tr Transaction) {
	changed := false
	if len(tr.Changes) > 0 {
		before := e.snapshot()
		sel := e.sel
		for _, c := range e.normalize(tr.Changes) {
			ins := []rune(c.Insert)
			if c.From == c.To && len(ins) == 0 {
				continue
			}
			next := make([]rune, 0, len(e.doc)-(c.To-c.From)+len(ins))
			next = append(next, e.doc[:c.From]...)
			next = append(next, ins...)
			next = append(next, e.doc[c.To:]...)
			e.doc = next
			sel.Anchor = mapPos(sel.Anchor, c, len(ins))
			sel.Head = mapPos(sel.Head, c, len(ins))
			changed = true
		}
		if changed {
			e.sel = sel
			e.spansValid = false
			if tr.UserEvent != EventUndo && tr.UserEvent != EventRedo {
				e.history.Record(before)
			}
		}
	}
	if tr.Selection != nil {
		e.sel = Range{Anchor: e.clamp(tr.Selection.Anchor), Head: e.clamp(tr.Selection.Head)}
	}
	if changed || tr.Selection != nil {
		e.goal = -1
	}
	e.ensureVisible()

	u := ViewUpdate{Transaction: tr, DocChanged: changed, SelectionSet: tr.Selection != nil}
	for _, fn := range e.listeners {
		fn(u)
	}
}

// normalize clamps changes and orders them from the end of the document so
// each applies to positions the previous ones left untouched.
func (e *Editor) normalize(changes []Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		c.From, c.To = e.clamp(c.From), e.clamp(c.To)
		if c.From > c.To {
			c.From, c.To = c.To, c.From
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].From > out[j].From })
	for i := 1; i < len(out); i++ {
		if out[i].To > out[i-1].From {
			out[i].To = max(out[i-1].From, out[i].From)
		}
	}
	return out
}

// mapPos moves pos through c. Positions inside a replaced range collapse to
// its start; the end of the range follows the insertion.
func mapPos(pos int, c Change, inserted int) int {
	switch {
	case pos < c.From:
		return pos
	case pos == c.To:
		return c.From + inserted
	case pos < c.To:
		return c.From
	default:
		return pos + inserted - (c.To - c.From)
	}
}

func (e *Editor) snapshot() undo.Snapshot {
	return undo.Snapshot{Value: string(e.doc), Anchor: e.sel.Anchor, Head: e.sel.Head}
}

// ClearHistory forgets undo and redo state.
func (e *Editor) ClearHistory() { e.history.Clear() }

// HistoryDepth reports the undo and redo depth.
func (e *Editor) HistoryDepth() (undo, redo int) { return e.history.Depth() }

func (e *Editor) SetHighlighting(on bool) { e.highlight = on }
func (e *Editor) Highlighting() bool      { return e.highlight }

// Spans returns the current markup spans.
func (e *Editor) Spans() []Span {
	if !e.spansValid {
		e.spans = e.highlighter.Spans(string(e.doc))
		e.spansValid = true
	}
	return e.spans
}

func (e *Editor) Placeholder() string       { return e.placeholder }
func (e *Editor) SetPlaceholder(p string)   { e.placeholder = p }
func (e *Editor) Focus()                    { e.focused = true }
func (e *Editor) Blur()                     { e.focused = false }
func (e *Editor) Focused() bool             { return e.focused }
func (e *Editor) Size() (width, height int) { return e.width, e.height }

func (e *Editor) SetSize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
	e.ensureVisible()
}

// Commands

// InsertText replaces the selection with s as a typing event.
func InsertText(s string) Command {
	return func(e *Editor) bool {
		e.replaceSelection(s, EventType)
		return true
	}
}

// InsertTab inserts a tab character.
func InsertTab(e *Editor) bool {
	e.replaceSelection("\t", EventType)
	return true
}

// Swallow handles a key without doing anything.
func Swallow(*Editor) bool { return true }

// SelectParentSyntax grows the selection to the smallest enclosing markup
// span, then to the line, then to the whole document.
func SelectParentSyntax(e *Editor) bool {
	from, to := e.sel.From(), e.sel.To()
	best := Range{Anchor: 0, Head: len(e.doc)}
	grows := func(a, b int) bool {
		return a <= from && b >= to && (a < from || b > to) && b-a < best.Head-best.Anchor
	}
	for _, s := range e.Spans() {
		if grows(s.From, s.To) {
			best = Range{Anchor: s.From, Head: s.To}
		}
	}
	ls, le := e.lineBounds(from)
	if le >= to && grows(ls, le) {
		best = Range{Anchor: ls, Head: le}
	}
	e.Dispatch(Transaction{Selection: &best, UserEvent: EventSelect})
	return true
}

func (e *Editor) replaceSelection(s, event string) {
	from := e.sel.From()
	end := Cursor(from + len([]rune(s)))
	e.Dispatch(Transaction{
		Changes:   []Change{{From: from, To: e.sel.To(), Insert: s}},
		Selection: &end,
		UserEvent: event,
	})
}

func (e *Editor) deleteBackward() {
	if !e.sel.Empty() {
		e.replaceSelection("", EventDelete)
		return
	}
	if h := e.sel.Head; h > 0 {
		at := Cursor(h - 1)
		e.Dispatch(Transaction{Changes: []Change{{From: h - 1, To: h}}, Selection: &at, UserEvent: EventDelete})
	}
}

func (e *Editor) deleteForward() {
	if !e.sel.Empty() {
		e.replaceSelection("", EventDelete)
		return
	}
	if h := e.sel.Head; h < len(e.doc) {
		at := Cursor(h)
		e.Dispatch(Transaction{Changes: []Change{{From: h, To: h + 1}}, Selection: &at, UserEvent: EventDelete})
	}
}

// Undo restores the state before the last change.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo(e.snapshot())
	if ok {
		e.restore(s, EventUndo)
	}
	return ok
}

// Redo reapplies the last undone change.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo(e.snapshot())
	if ok {
		e.restore(s, EventRedo)
	}
	return ok
}

func (e *Editor) restore(s undo.Snapshot, event string) {
	sel := Range{Anchor: s.Anchor, Head: s.Head}
	e.Dispatch(Transaction{
		Changes:   []Change{{From: 0, To: len(e.doc), Insert: s.Value}},
		Selection: &sel,
		UserEvent: event,
	})
}

func (e *Editor) move(head int, extend bool) {
	r := Cursor(e.clamp(head))
	if extend {
		r.Anchor = e.sel.Anchor
	}
	e.Dispatch(Transaction{Selection: &r, UserEvent: EventSelect})
}

func (e *Editor) lineBounds(pos int) (start, end int) {
	start = pos
	for start > 0 && e.doc[start-1] != '\n' {
		start--
	}
	end = pos
	for end < len(e.doc) && e.doc[end] != '\n' {
		end++
	}
	return start, end
}

func (e *Editor) moveVertical(dir int, extend bool) {
	head := e.sel.Head
	ls, le := e.lineBounds(head)
	col := head - ls
	if e.goal >= 0 {
		col = e.goal
	}
	var target int
	switch {
	case dir < 0 && ls == 0:
		target = 0
	case dir < 0:
		ps, _ := e.lineBounds(ls - 1)
		target = min(ps+col, ls-1)
	case le == len(e.doc):
		target = len(e.doc)
	default:
		ns, ne := e.lineBounds(le + 1)
		target = min(ns+col, ne)
	}
	e.move(target, extend)
	e.goal = col
}

// Update handles a key press: keymaps first, by precedence, then the
// built-in editing keys. Keys are ignored while blurred.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !e.focused {
		return nil
	}
	for _, m := range e.keymaps {
		for _, b := range m.bindings {
			if key.Matches(km, b.Key) && b.Run(e) {
				return nil
			}
		}
	}

	switch km.Type {
	case tea.KeyRunes:
		if km.Alt {
			return nil
		}
		event := EventType
		if km.Paste {
			event = EventPaste
		}
		e.replaceSelection(string(km.Runes), event)
		return nil
	case tea.KeySpace:
		e.replaceSelection(" ", EventType)
		return nil
	}

	switch km.String() {
	case "enter":
		e.replaceSelection("\n", EventType)
	case "backspace":
		e.deleteBackward()
	case "delete":
		e.deleteForward()
	case "left", "shift+left":
		if !e.sel.Empty() && km.String() == "left" {
			e.move(e.sel.From(), false)
		} else {
			e.move(e.sel.Head-1, km.String() == "shift+left")
		}
	case "right", "shift+right":
		if !e.sel.Empty() && km.String() == "right" {
			e.move(e.sel.To(), false)
		} else {
			e.move(e.sel.Head+1, km.String() == "shift+right")
		}
	case "up", "shift+up":
		e.moveVertical(-1, km.String() == "shift+up")
	case "down", "shift+down":
		e.moveVertical(1, km.String() == "shift+down")
	case "home", "shift+home":
		ls, _ := e.lineBounds(e.sel.Head)
		e.move(ls, km.String() == "shift+home")
	case "end", "shift+end":
		_, le := e.lineBounds(e.sel.Head)
		e.move(le, km.String() == "shift+end")
	case "ctrl+a":
		all := Range{Anchor: 0, Head: len(e.doc)}
		e.Dispatch(Transaction{Selection: &all, UserEvent: EventSelect})
	case "ctrl+z":
		e.Undo()
	case "ctrl+y":
		e.Redo()
	}
	return nil
}

// Layout

type visualRow struct {
	start int
	end   int
}

func cellWidth(r rune) int {
	if r == '\t' {
		return tabWidth
	}
	return runewidth.RuneWidth(r)
}

// rows soft-wraps the document at the editor width.
func (e *Editor) rows() []visualRow {
	var out []visualRow
	start := 0
	for start <= len(e.doc) {
		_, end := e.lineBounds(start)
		rowStart, w := start, 0
		for i := start; i < end; i++ {
			cw := cellWidth(e.doc[i])
			if w+cw > e.width && i > rowStart {
				out = append(out, visualRow{start: rowStart, end: i})
				rowStart, w = i, 0
			}
			w += cw
		}
		out = append(out, visualRow{start: rowStart, end: end})
		start = end + 1
	}
	return out
}

// VisualRows is the number of rows the document occupies when wrapped.
func (e *Editor) VisualRows() int { return len(e.rows()) }

func headRow(rows []visualRow, head int) int {
	for i, r := range rows {
		if head >= r.start && head <= r.end {
			if head == r.end && i+1 < len(rows) && rows[i+1].start == r.end {
				continue
			}
			return i
		}
	}
	return len(rows) - 1
}

func (e *Editor) ensureVisible() {
	rows := e.rows()
	hr := headRow(rows, e.sel.Head)
	if hr < e.scroll {
		e.scroll = hr
	}
	if hr >= e.scroll+e.height {
		e.scroll = hr - e.height + 1
	}
	e.scroll = max(0, min(e.scroll, len(rows)-1))
}

func (e *Editor) View() string {
	if len(e.doc) == 0 && e.placeholder != "" {
		first := []rune(e.placeholder)
		var b strings.Builder
		if e.focused && len(first) > 0 {
			b.WriteString(plainStyle.Reverse(true).Render(string(first[:1])))
			first = first[1:]
		}
		b.WriteString(placeholderStyle.Render(string(first)))
		return e.pad([]string{b.String()})
	}

	var kinds []Kind
	if e.highlight {
		kinds = kindsFor(len(e.doc), e.Spans())
	}
	rows := e.rows()
	hr := headRow(rows, e.sel.Head)
	lines := make([]string, 0, e.height)
	for i := e.scroll; i < len(rows) && i < e.scroll+e.height; i++ {
		lines = append(lines, e.renderRow(rows[i], kinds, i == hr))
	}
	return e.pad(lines)
}

func (e *Editor) pad(lines []string) string {
	for len(lines) < e.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

type cellAttr struct {
	kind     Kind
	selected bool
	cursor   bool
}

func (e *Editor) renderRow(r visualRow, kinds []Kind, hasHead bool) string {
	var (
		b    strings.Builder
		run  strings.Builder
		attr cellAttr
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		st := styleFor(attr.kind)
		if attr.selected {
			st = st.Background(selectionBg)
		}
		if attr.cursor {
			st = st.Reverse(true)
		}
		b.WriteString(st.Render(run.String()))
		run.Reset()
	}
	from, to := e.sel.From(), e.sel.To()
	for i := r.start; i < r.end; i++ {
		a := cellAttr{
			selected: i >= from && i < to,
			cursor:   e.focused && hasHead && i == e.sel.Head,
		}
		if kinds != nil {
			a.kind = kinds[i]
		}
		if a != attr {
			flush()
			attr = a
		}
		if e.doc[i] == '\t' {
			run.WriteString(strings.Repeat(" ", tabWidth))
		} else {
			run.WriteRune(e.doc[i])
		}
	}
	flush()
	if e.focused && hasHead && e.sel.Head == r.end {
		b.WriteString(plainStyle.Reverse(true).Render(" "))
	}
	return b.String()
}
