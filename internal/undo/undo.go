// Package undo is a bounded snapshot history for text surfaces.
package undo

const (
	// DefaultMaxDepth is used when a non-positive depth is requested.
	DefaultMaxDepth = 200
)

// Snapshot is the surface state restored by undo and redo.
type Snapshot struct {
	Value  string
	Anchor int
	Head   int
}

// Stack keeps undo and redo snapshots. The oldest undo entry is dropped once
// the depth is reached.
type Stack struct {
	done   []Snapshot
	undone []Snapshot
	max    int
}

func New(maxDepth int) *Stack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Stack{max: maxDepth}
}

// Record stores the state before an edit and forgets anything redoable.
func (s *Stack) Record(before Snapshot) {
	if n := len(s.done); n > 0 && s.done[n-1] == before {
		return
	}
	if len(s.done) >= s.max {
		copy(s.done, s.done[1:])
		s.done = s.done[:len(s.done)-1]
	}
	s.done = append(s.done, before)
	s.undone = nil
}

// Undo returns the snapshot to restore, given the current state.
func (s *Stack) Undo(current Snapshot) (Snapshot, bool) {
	n := len(s.done)
	if n == 0 {
		return Snapshot{}, false
	}
	prev := s.done[n-1]
	s.done = s.done[:n-1]
	s.undone = append(s.undone, current)
	return prev, true
}

// Redo returns the snapshot to restore, given the current state.
func (s *Stack) Redo(current Snapshot) (Snapshot, bool) {
	n := len(s.undone)
	if n == 0 {
		return Snapshot{}, false
	}
	next := s.undone[n-1]
	s.undone = s.undone[:n-1]
	s.done = append(s.done, current)
	return next, true
}

// Clear drops all history.
func (s *Stack) Clear() {
	s.done = nil
	s.undone = nil
}

// Depth reports the number of undo and redo entries.
func (s *Stack) Depth() (undo, redo int) {
	return len(s.done), len(s.undone)
}
