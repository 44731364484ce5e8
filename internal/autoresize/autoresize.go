// Package autoresize keeps an input surface sized to its content. A run
// resets the measured property to a neutral value, reads the surface's scroll
// extent and applies it back with a small slack.
package autoresize

import (
	"time"

	"notetab/internal/events"
)

// Field is a measurable input surface. SetValue must not dispatch events; it
// is used to measure the placeholder in place of an empty value.
type Field interface {
	Value() string
	SetValue(v string)
	Placeholder() string
	// ScrollWidth and ScrollHeight report max(applied size, content size).
	ScrollWidth() int
	ScrollHeight() int
	Style() Style
	Events() *events.Emitter
}

// Scheduler runs fn every d until the returned stop function is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// Options configure a Resizer. Zero values pick the defaults.
type Options struct {
	// Prop is the style property written; "width" or "height" by default.
	Prop string
	// Target resolves the element whose style receives Prop. It is called on
	// every run; a nil func or nil result means the field's own style.
	Target func(Field) Style
	// Slack is added to the measured extent. Defaults to 1 cell.
	Slack int
	// Scheduler drives startup polling until the window's load event.
	// Polling is skipped when nil.
	Scheduler    Scheduler
	PollInterval time.Duration
}

// DefaultPollInterval is the startup polling period.
const DefaultPollInterval = 50 * time.Millisecond

type axis int

const (
	horizontal axis = iota
	vertical
)

// Resizer is an installed auto-resize loop.
type Resizer struct {
	field  Field
	window *events.Emitter
	opts   Options
	axis   axis

	offs     []func()
	loadOffs []func()
	stopPoll func()
	running  bool
	closed   bool
}

// Width sizes a single-line field horizontally. window may be nil.
func Width(field Field, window *events.Emitter, opts Options) *Resizer {
	if opts.Prop == "" {
		opts.Prop = "width"
	}
	return install(field, window, opts, horizontal)
}

// Height sizes a multi-line field vertically. window may be nil.
func Height(field Field, window *events.Emitter, opts Options) *Resizer {
	if opts.Prop == "" {
		opts.Prop = "height"
	}
	return install(field, window, opts, vertical)
}

func install(field Field, window *events.Emitter, opts Options, ax axis) *Resizer {
	if opts.Slack == 0 {
		opts.Slack = 1
	}
	if opts.Slack < 0 {
		opts.Slack = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	r := &Resizer{field: field, window: window, opts: opts, axis: ax}

	fe := field.Events()
	r.offs = append(r.offs,
		fe.On(events.Input, r.Update),
		fe.On(events.Recalc, r.Update),
	)
	if window != nil {
		r.offs = append(r.offs, window.On(events.Resize, r.Update))
		r.loadOffs = append(r.loadOffs,
			window.On(events.Load, r.Update),
			window.On(events.Load, r.loaded),
		)
	}
	r.Update()
	if opts.Scheduler != nil {
		r.stopPoll = opts.Scheduler.Every(opts.PollInterval, r.Update)
	}
	return r
}

// Update re-measures the field now.
func (r *Resizer) Update() {
	if r.closed || r.running {
		return
	}
	r.running = true
	defer func() { r.running = false }()

	switch r.axis {
	case horizontal:
		r.measureWidth()
	case vertical:
		r.measureHeight()
	}
}

func (r *Resizer) measureWidth() {
	f := r.field
	empty := f.Value() == ""
	if empty && f.Placeholder() != "" {
		f.SetValue(f.Placeholder())
	}
	st := r.target()
	st.SetProperty(r.opts.Prop, 0)
	st.SetProperty(r.opts.Prop, Length(f.ScrollWidth()+r.opts.Slack))
	if empty {
		f.SetValue("")
	}
}

func (r *Resizer) measureHeight() {
	st := r.target()
	st.SetProperty(r.opts.Prop, Auto)
	st.SetProperty(r.opts.Prop, Length(r.field.ScrollHeight()+r.opts.Slack))
}

func (r *Resizer) target() Style {
	if r.opts.Target != nil {
		if st := r.opts.Target(r.field); st != nil {
			return st
		}
	}
	return r.field.Style()
}

// loaded ends startup polling once the window has finished loading.
func (r *Resizer) loaded() {
	for _, off := range r.loadOffs {
		off()
	}
	r.loadOffs = nil
	r.stopPolling()
}

func (r *Resizer) stopPolling() {
	if r.stopPoll != nil {
		r.stopPoll()
		r.stopPoll = nil
	}
}

// Polling reports whether startup polling is still active.
func (r *Resizer) Polling() bool { return r.stopPoll != nil }

// Close removes every listener, stops polling and clears the applied
// property. Later calls do nothing.
func (r *Resizer) Close() {
	if r.closed {
		return
	}
	for _, off := range append(r.offs, r.loadOffs...) {
		off()
	}
	r.offs, r.loadOffs = nil, nil
	r.stopPolling()
	r.target().RemoveProperty(r.opts.Prop)
	r.closed = true
}

// Recompute asks any Resizer installed on field to re-measure. Callers use it
// after programmatic value changes, which raise no input event.
func Recompute(field interface{ Events() *events.Emitter }) {
	field.Events().Dispatch(events.Recalc)
}
