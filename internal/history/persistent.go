package history

import (
	"context"
	"fmt"
)

// Persistent is a History that writes every change through to a Store. A
// change whose write fails is undone in memory as well.
type Persistent struct {
	mem   *Memory
	store *Store
	id    string
}

// Start creates a new session in store.
func Start(ctx context.Context, store *Store, url string) (*Persistent, error) {
	sess, err := store.CreateSession(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Persistent{mem: NewMemory(url), store: store, id: sess.ID}, nil
}

// Resume reopens session id. An empty id picks the latest session.
func Resume(ctx context.Context, store *Store, id string) (*Persistent, error) {
	if id == "" {
		sess, err := store.LatestSession(ctx)
		if err != nil {
			return nil, err
		}
		id = sess.ID
	}
	sess, entries, err := store.LoadSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return &Persistent{mem: newMemoryFrom(entries, sess.Index), store: store, id: sess.ID}, nil
}

func (p *Persistent) SessionID() string { return p.id }

// commit applies change in memory and persists it with write.
func (p *Persistent) commit(change func(), write func(ctx context.Context) error) error {
	prev := p.mem.snapshot()
	change()
	if err := write(context.Background()); err != nil {
		p.mem.restore(prev)
		return fmt.Errorf("save session %s: %w", p.id, err)
	}
	return nil
}

func (p *Persistent) writeAll(ctx context.Context) error {
	return p.store.SaveEntries(ctx, p.id, p.mem.entries, p.mem.index)
}

func (p *Persistent) writeCurrent(ctx context.Context) error {
	return p.store.ReplaceEntry(ctx, p.id, p.mem.index, *p.mem.current())
}

func (p *Persistent) writeIndex(ctx context.Context) error {
	return p.store.SetIndex(ctx, p.id, p.mem.index)
}

func (p *Persistent) State() *State    { return p.mem.State() }
func (p *Persistent) URL() string      { return p.mem.URL() }
func (p *Persistent) Entries() []Entry { return p.mem.Entries() }
func (p *Persistent) Index() int       { return p.mem.Index() }

// PushState rewrites the session since forward entries are dropped.
func (p *Persistent) PushState(st *State, title, url string) error {
	return p.commit(func() { _ = p.mem.PushState(st, title, url) }, p.writeAll)
}

// ReplaceState writes only the current entry.
func (p *Persistent) ReplaceState(st *State, title, url string) error {
	return p.commit(func() { _ = p.mem.ReplaceState(st, title, url) }, p.writeCurrent)
}

func (p *Persistent) Back() (bool, error)    { return p.step(p.mem.Back) }
func (p *Persistent) Forward() (bool, error) { return p.step(p.mem.Forward) }

func (p *Persistent) step(move func() (bool, error)) (bool, error) {
	moved := false
	err := p.commit(func() { moved, _ = move() }, func(ctx context.Context) error {
		if !moved {
			return nil
		}
		return p.writeIndex(ctx)
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

var _ History = (*Persistent)(nil)
