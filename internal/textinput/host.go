package textinput

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"notetab/internal/autoresize"
	"notetab/internal/events"
)

const (
	// DefaultRows is the base height of a host without a valid rows attribute.
	DefaultRows = 2
	// FlexHeightProp is the private style property written by the height
	// resizer of the current adapter.
	FlexHeightProp = "--flex-height"
)

// HostOptions configure a Host. Window and Scheduler are handed to the
// adapters' resizers.
type HostOptions struct {
	Value       string
	Placeholder string
	Rows        string
	Flex        bool
	Slack       int
	Window      *events.Emitter
	Scheduler   autoresize.Scheduler
	// PollInterval is the startup polling period of adapter resizers.
	PollInterval time.Duration
}

// Host owns one Adapter and relays its input events.
type Host struct {
	adapter Adapter

	style     *autoresize.StyleMap
	ev        events.Emitter
	window    *events.Emitter
	sched     autoresize.Scheduler
	poll      time.Duration
	slack     int
	inputOff  func()
	recalcOff func()

	flex        bool
	placeholder string
	rows        int
	width       int
	connected   bool
}

// NewHost creates a host around a Plain adapter.
func NewHost(opts HostOptions) *Host {
	h := &Host{
		style:       autoresize.NewStyleMap(),
		window:      opts.Window,
		sched:       opts.Scheduler,
		poll:        opts.PollInterval,
		slack:       opts.Slack,
		flex:        opts.Flex,
		placeholder: opts.Placeholder,
		rows:        parseRows(opts.Rows),
	}
	h.style.OnChange = func(string) { h.reflow() }
	first := NewPlain()
	first.SetPlaceholder(opts.Placeholder)
	first.SetValue(opts.Value)
	h.install(first)
	return h
}

func parseRows(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultRows
	}
	return n
}

// Adapter returns the current adapter.
func (h *Host) Adapter() Adapter { return h.adapter }

// SetAdapter swaps the current adapter for next. The value, selection and
// focus carry over and next starts with an empty undo history. The previous
// adapter is detached before next is attached.
func (h *Host) SetAdapter(next Adapter) tea.Cmd {
	prev := h.adapter
	if prev == nil {
		h.install(next)
		return nil
	}
	if next == prev {
		return nil
	}

	next.SetValue(prev.Value())
	next.ClearHistory()
	next.SetPlaceholder(prev.Placeholder())
	hadFocus := prev.Focused()
	sel, _ := prev.SelectionRange()

	h.install(next)
	prev.Blur()
	prev.Disconnected()
	if h.connected {
		next.Connected(h)
	}
	next.SetSelectionRange(sel)

	if hadFocus {
		return next.Focus()
	}
	return nil
}

func (h *Host) install(a Adapter) {
	if h.inputOff != nil {
		h.inputOff()
		h.recalcOff()
	}
	h.adapter = a
	h.inputOff = a.Events().On(events.Input, func() { h.ev.Dispatch(events.Input) })
	h.recalcOff = a.Events().On(events.Recalc, func() { h.ev.Dispatch(events.Recalc) })
	h.reflow()
}

// Events relays the current adapter's input and recalc events.
func (h *Host) Events() *events.Emitter { return &h.ev }

// Composing reports whether the input being relayed is mid-composition.
func (h *Host) Composing() bool { return h.adapter.Composing() }

func (h *Host) Value() string       { return h.adapter.Value() }
func (h *Host) SetValue(v string)   { h.adapter.SetValue(v) }
func (h *Host) Placeholder() string { return h.placeholder }

func (h *Host) SetPlaceholder(p string) {
	h.placeholder = p
	h.adapter.SetPlaceholder(p)
}

func (h *Host) Flex() bool { return h.flex }

func (h *Host) SetFlex(on bool) {
	h.flex = on
	h.reflow()
}

func (h *Host) Rows() int { return h.rows }

// SetRows sets the rows attribute. Invalid or empty input falls back to
// DefaultRows.
func (h *Host) SetRows(raw string) {
	h.rows = parseRows(raw)
	h.reflow()
}

// PrivateStyle is the style scope shared between the host and its adapter.
func (h *Host) PrivateStyle() autoresize.Style { return h.style }

func (h *Host) Window() *events.Emitter         { return h.window }
func (h *Host) Scheduler() autoresize.Scheduler { return h.sched }
func (h *Host) Slack() int                      { return h.slack }

// Height is the laid-out height in rows.
func (h *Host) Height() int {
	base := h.rows
	if !h.flex {
		return base
	}
	if v, ok := h.style.Property(FlexHeightProp); ok && v != autoresize.Auto {
		return max(base, int(v))
	}
	return base
}

func (h *Host) Width() int { return h.width }

// SetWidth re-flows the adapter to w cells.
func (h *Host) SetWidth(w int) {
	h.width = w
	h.reflow()
}

func (h *Host) reflow() {
	if h.adapter == nil {
		return
	}
	h.adapter.SetSize(h.width, h.Height())
}

// Connect attaches the host to the visible tree.
func (h *Host) Connect() {
	if h.connected {
		return
	}
	h.connected = true
	h.adapter.Connected(h)
}

// Disconnect detaches the host from the visible tree.
func (h *Host) Disconnect() {
	if !h.connected {
		return
	}
	h.connected = false
	h.adapter.Disconnected()
}

// Close detaches the host and stops relaying events.
func (h *Host) Close() {
	h.Disconnect()
	if h.inputOff != nil {
		h.inputOff()
		h.recalcOff()
		h.inputOff, h.recalcOff = nil, nil
	}
}

func (h *Host) Focus() tea.Cmd { return h.adapter.Focus() }
func (h *Host) Blur()          { h.adapter.Blur() }
func (h *Host) Focused() bool  { return h.adapter.Focused() }

func (h *Host) Update(msg tea.Msg) tea.Cmd { return h.adapter.Update(msg) }
func (h *Host) View() string               { return h.adapter.View() }

// AttachResize installs the height resizer an adapter uses while connected
// to h. field is the adapter's measurable surface.
func AttachResize(h *Host, field autoresize.Field) *autoresize.Resizer {
	return autoresize.Height(field, h.Window(), autoresize.Options{
		Prop:         FlexHeightProp,
		Target:       func(autoresize.Field) autoresize.Style { return h.PrivateStyle() },
		Slack:        h.Slack(),
		Scheduler:    h.Scheduler(),
		PollInterval: h.poll,
	})
}
