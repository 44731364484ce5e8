package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoRedo(t *testing.T) {
	s := New(0)
	s.Record(Snapshot{Value: ""})
	s.Record(Snapshot{Value: "a", Anchor: 1, Head: 1})

	got, ok := s.Undo(Snapshot{Value: "ab", Anchor: 2, Head: 2})
	assert.True(t, ok)
	assert.Equal(t, "a", got.Value)

	got, ok = s.Redo(got)
	assert.True(t, ok)
	assert.Equal(t, "ab", got.Value)

	_, ok = s.Redo(got)
	assert.False(t, ok)
}

func TestRecordDropsRedoAndDuplicates(t *testing.T) {
	s := New(10)
	s.Record(Snapshot{Value: "x"})
	s.Record(Snapshot{Value: "x"})
	u, _ := s.Depth()
	assert.Equal(t, 1, u)

	s.Undo(Snapshot{Value: "xy"})
	s.Record(Snapshot{Value: "x"})
	_, r := s.Depth()
	assert.Zero(t, r)
}

func TestBoundedDepth(t *testing.T) {
	s := New(2)
	s.Record(Snapshot{Value: "1"})
	s.Record(Snapshot{Value: "2"})
	s.Record(Snapshot{Value: "3"})
	u, _ := s.Depth()
	assert.Equal(t, 2, u)
	got, _ := s.Undo(Snapshot{Value: "4"})
	assert.Equal(t, "3", got.Value)
	got, _ = s.Undo(got)
	assert.Equal(t, "2", got.Value)
	_, ok := s.Undo(got)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := New(0)
	s.Record(Snapshot{Value: "a"})
	s.Undo(Snapshot{Value: "b"})
	s.Clear()
	u, r := s.Depth()
	assert.Zero(t, u)
	assert.Zero(t, r)
}
