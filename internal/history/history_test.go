package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPushReplaceNavigate(t *testing.T) {
	m := NewMemory("notetab:")
	assert.Nil(t, m.State())
	assert.Equal(t, 0, m.Index())

	require.NoError(t, m.ReplaceState(&State{Hash: "a"}, "A", ""))
	assert.Equal(t, "notetab:", m.URL())
	require.NoError(t, m.PushState(&State{Hash: "b", Saved: true}, "B", "notetab:#b"))
	require.NoError(t, m.PushState(&State{Hash: "c"}, "C", ""))
	assert.Equal(t, "notetab:#b", m.URL())
	assert.Equal(t, 2, m.Index())

	moved, _ := m.Back()
	assert.True(t, moved)
	moved, _ = m.Back()
	assert.True(t, moved)
	moved, _ = m.Back()
	assert.False(t, moved)
	assert.Equal(t, "a", m.State().Hash)

	moved, _ = m.Forward()
	assert.True(t, moved)
	assert.Equal(t, &State{Hash: "b", Saved: true}, m.State())

	// push from the middle drops the forward entry
	require.NoError(t, m.PushState(&State{Hash: "d"}, "D", ""))
	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "d", entries[2].State.Hash)
	moved, _ = m.Forward()
	assert.False(t, moved)
}

func TestMemoryStateIsCopied(t *testing.T) {
	m := NewMemory("")
	st := &State{Hash: "a"}
	require.NoError(t, m.ReplaceState(st, "", ""))
	st.Hash = "changed"
	m.State().Hash = "also changed"
	assert.Equal(t, "a", m.State().Hash)
}

func openStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "sessions", "notetab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, ctx
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notetab.db")
	for i := 0; i < 2; i++ {
		s, err := Open(ctx, path)
		require.NoError(t, err)
		var n int
		require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
		assert.Equal(t, len(migrations), n)
		require.NoError(t, s.Close())
	}
}

func TestStoreRoundTripKeepsNUL(t *testing.T) {
	s, ctx := openStore(t)
	sess, err := s.CreateSession(ctx, "notetab:")
	require.NoError(t, err)

	_, entries, err := s.LoadSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{URL: "notetab:"}}, entries)

	want := []Entry{
		{URL: "notetab:", Title: "first"},
		{URL: "notetab:#title=x", Title: "x", State: &State{Hash: "urn:uuid:m#title=x\x00", Saved: true}},
		{URL: "notetab:#title=x", Title: "* x", State: &State{Hash: "urn:uuid:m#title=xy\x00"}},
	}
	require.NoError(t, s.SaveEntries(ctx, sess.ID, want, 2))

	got, entries, err := s.LoadSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Index)
	assert.Equal(t, want, entries)
}

func TestStoreMissingSession(t *testing.T) {
	s, ctx := openStore(t)
	_, _, err := s.LoadSession(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LatestSession(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SaveEntries(ctx, "nope", nil, 0), ErrNotFound)
}

func TestStoreLatestSession(t *testing.T) {
	s, ctx := openStore(t)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	a, err := s.CreateSession(ctx, "a")
	require.NoError(t, err)
	clock = clock.Add(time.Second)
	b, err := s.CreateSession(ctx, "b")
	require.NoError(t, err)

	latest, err := s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, latest.ID)

	clock = clock.Add(time.Second)
	require.NoError(t, s.SaveEntries(ctx, a.ID, []Entry{{URL: "a"}}, 0))
	latest, err = s.LatestSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, latest.ID)
	assert.Equal(t, clock, latest.UpdatedAt)
}

func TestPersistentWritesThrough(t *testing.T) {
	s, ctx := openStore(t)
	p, err := Start(ctx, s, "notetab:")
	require.NoError(t, err)

	require.NoError(t, p.ReplaceState(&State{Hash: "one\x00"}, "One", ""))
	require.NoError(t, p.PushState(&State{Hash: "two\x00", Saved: true}, "Two", "notetab:#two"))
	moved, err := p.Back()
	require.NoError(t, err)
	require.True(t, moved)

	again, err := Resume(ctx, s, "")
	require.NoError(t, err)
	assert.Equal(t, p.SessionID(), again.SessionID())
	assert.Equal(t, 0, again.Index())
	assert.Equal(t, "one\x00", again.State().Hash)
	assert.Equal(t, p.Entries(), again.Entries())

	moved, err = again.Forward()
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "notetab:#two", again.URL())
}

func TestResumeUnknownSession(t *testing.T) {
	s, ctx := openStore(t)
	_, err := Resume(ctx, s, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Resume(ctx, s, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistentReplaceKeepsOtherEntries(t *testing.T) {
	s, ctx := openStore(t)
	p, err := Start(ctx, s, "u0")
	require.NoError(t, err)
	require.NoError(t, p.PushState(&State{Hash: "one"}, "One", "u1"))
	require.NoError(t, p.PushState(&State{Hash: "two"}, "Two", "u2"))
	moved, err := p.Back()
	require.NoError(t, err)
	require.True(t, moved)

	require.NoError(t, p.ReplaceState(&State{Hash: "edited"}, "Edited", ""))

	sess, entries, err := s.LoadSession(ctx, p.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Index)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{URL: "u1", Title: "Edited", State: &State{Hash: "edited"}}, entries[1])
	assert.Equal(t, Entry{URL: "u2", Title: "Two", State: &State{Hash: "two"}}, entries[2])
	assert.Equal(t, p.Entries(), entries)
}

func TestPersistentUndoesFailedWrites(t *testing.T) {
	s, ctx := openStore(t)
	p, err := Start(ctx, s, "u0")
	require.NoError(t, err)
	require.NoError(t, p.ReplaceState(&State{Hash: "a"}, "A", ""))
	require.NoError(t, p.PushState(&State{Hash: "b"}, "B", "u1"))
	before := p.Entries()
	require.NoError(t, s.Close())

	require.Error(t, p.ReplaceState(&State{Hash: "lost"}, "Lost", ""))
	require.Error(t, p.PushState(&State{Hash: "lost"}, "Lost", "u2"))
	moved, err := p.Back()
	require.Error(t, err)
	assert.False(t, moved)

	assert.Equal(t, before, p.Entries())
	assert.Equal(t, 1, p.Index())
	assert.Equal(t, "b", p.State().Hash)

	moved, err = p.Forward()
	require.NoError(t, err, "nothing to write when the index cannot move")
	assert.False(t, moved)
}

func TestReplaceEntryUnknownSession(t *testing.T) {
	s, ctx := openStore(t)
	assert.ErrorIs(t, s.ReplaceEntry(ctx, "missing", 0, Entry{URL: "u"}), ErrNotFound)
	assert.ErrorIs(t, s.SetIndex(ctx, "missing", 0), ErrNotFound)
}
