// Package events is a minimal synchronous event emitter. Listeners run on the
// caller's goroutine in registration order.
package events

// Event names shared across packages.
const (
	Input   = "input"
	Recalc  = "x-autoresize-update"
	Resize  = "resize"
	Load    = "load"
	Changed = "hashchange"
)

type listener struct {
	id int
	fn func()
}

// Emitter dispatches named events. The zero value is ready to use.
type Emitter struct {
	next      int
	listeners map[string][]listener
}

// On registers fn for name and returns a function that removes it. Calling
// the returned function more than once is harmless.
func (e *Emitter) On(name string, fn func()) (off func()) {
	if e.listeners == nil {
		e.listeners = map[string][]listener{}
	}
	e.next++
	id := e.next
	e.listeners[name] = append(e.listeners[name], listener{id: id, fn: fn})
	return func() { e.remove(name, id) }
}

func (e *Emitter) remove(name string, id int) {
	ls := e.listeners[name]
	for i, l := range ls {
		if l.id == id {
			e.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch calls the listeners registered for name. Listeners added or
// removed while dispatching take effect on the next dispatch.
func (e *Emitter) Dispatch(name string) {
	ls := append([]listener(nil), e.listeners[name]...)
	for _, l := range ls {
		l.fn()
	}
}

// Count reports how many listeners are registered for name.
func (e *Emitter) Count(name string) int {
	return len(e.listeners[name])
}
