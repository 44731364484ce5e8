// Package history is the session history behind the editor: a stack of
// entries with a current index, each holding a URL, a title and an optional
// state. It mirrors what a browser tab keeps for pushState navigation.
package history

import "errors"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// State is stored with an entry. Hash holds a structured-clone envelope.
type State struct {
	Hash  string
	Saved bool
}

// Entry is one step of history.
type Entry struct {
	URL   string
	Title string
	State *State
}

// History is the navigation stack. A url of "" keeps the current URL.
type History interface {
	State() *State
	URL() string
	PushState(st *State, title, url string) error
	ReplaceState(st *State, title, url string) error
	Back() (bool, error)
	Forward() (bool, error)
	Entries() []Entry
	Index() int
}

// Memory is an in-memory History. It starts with a single entry without
// state, like a freshly opened tab.
type Memory struct {
	entries []Entry
	index   int
}

func NewMemory(url string) *Memory {
	return &Memory{entries: []Entry{{URL: url}}}
}

func newMemoryFrom(entries []Entry, index int) *Memory {
	if len(entries) == 0 {
		return NewMemory("")
	}
	index = min(max(index, 0), len(entries)-1)
	return &Memory{entries: entries, index: index}
}

func cloneState(st *State) *State {
	if st == nil {
		return nil
	}
	c := *st
	return &c
}

func (m *Memory) current() *Entry { return &m.entries[m.index] }

type snapshot struct {
	entries []Entry
	index   int
}

func (m *Memory) snapshot() snapshot {
	return snapshot{entries: append([]Entry(nil), m.entries...), index: m.index}
}

func (m *Memory) restore(s snapshot) { m.entries, m.index = s.entries, s.index }

func (m *Memory) State() *State { return cloneState(m.current().State) }
func (m *Memory) URL() string   { return m.current().URL }
func (m *Memory) Index() int    { return m.index }

func (m *Memory) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		e.State = cloneState(e.State)
		out[i] = e
	}
	return out
}

// PushState drops any forward entries and appends a new current entry.
func (m *Memory) PushState(st *State, title, url string) error {
	if url == "" {
		url = m.URL()
	}
	m.entries = append(m.entries[:m.index+1], Entry{URL: url, Title: title, State: cloneState(st)})
	m.index++
	return nil
}

func (m *Memory) ReplaceState(st *State, title, url string) error {
	if url == "" {
		url = m.URL()
	}
	*m.current() = Entry{URL: url, Title: title, State: cloneState(st)}
	return nil
}

func (m *Memory) Back() (bool, error) {
	if m.index == 0 {
		return false, nil
	}
	m.index--
	return true, nil
}

func (m *Memory) Forward() (bool, error) {
	if m.index+1 >= len(m.entries) {
		return false, nil
	}
	m.index++
	return true, nil
}

var _ History = (*Memory)(nil)
