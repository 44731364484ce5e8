package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg fires one registered ticker.
type tickMsg struct{ id int }

type ticker struct {
	every time.Duration
	fn    func()
}

// tickScheduler runs autoresize polling on the program's event loop. Every
// only registers the ticker; the model arms it with tea.Tick after Update,
// so callbacks never run off-loop.
type tickScheduler struct {
	next    int
	tickers map[int]ticker
	pending []int
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{tickers: map[int]ticker{}}
}

func (s *tickScheduler) Every(d time.Duration, fn func()) (stop func()) {
	id := s.next
	s.next++
	s.tickers[id] = ticker{every: d, fn: fn}
	s.pending = append(s.pending, id)
	return func() { delete(s.tickers, id) }
}

// Active is the number of registered tickers.
func (s *tickScheduler) Active() int { return len(s.tickers) }

func (s *tickScheduler) arm(id int) tea.Cmd {
	t, ok := s.tickers[id]
	if !ok {
		return nil
	}
	return tea.Tick(t.every, func(time.Time) tea.Msg { return tickMsg{id: id} })
}

// drain arms every ticker registered since the last call.
func (s *tickScheduler) drain() []tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range s.pending {
		if cmd := s.arm(id); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	s.pending = nil
	return cmds
}

// fire runs a ticker and re-arms it unless it was stopped meanwhile.
func (s *tickScheduler) fire(id int) tea.Cmd {
	t, ok := s.tickers[id]
	if !ok {
		return nil
	}
	t.fn()
	return s.arm(id)
}
