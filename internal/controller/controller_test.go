package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notetab/internal/fragment"
	"notetab/internal/history"
)

type fakeWindow struct {
	title string
	sets  int
}

func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) SetTitle(t string) {
	w.title = t
	w.sets++
}

type fakeField struct {
	value       string
	placeholder string
}

func (f *fakeField) Value() string           { return f.value }
func (f *fakeField) SetValue(v string)       { f.value = v }
func (f *fakeField) SetPlaceholder(p string) { f.placeholder = p }

type rig struct {
	c          *Controller
	h          *history.Memory
	win        *fakeWindow
	typ        *Value
	title      *fakeField
	body       *fakeField
	link       string
	recomputes int
}

func newRig(url string) *rig {
	r := &rig{
		h:     history.NewMemory(url),
		win:   &fakeWindow{},
		typ:   &Value{},
		title: &fakeField{},
		body:  &fakeField{},
	}
	r.c = New(Services{
		History:       r.h,
		Window:        r.win,
		Type:          r.typ,
		Title:         r.title,
		Body:          r.body,
		Link:          func(hash string) { r.link = hash },
		Recompute:     func() { r.recomputes++ },
		DefaultType:   "note.md",
		TitleTemplate: "Untitled {0}",
		LinkBase:      "notetab:",
	})
	return r
}

func decodeState(t *testing.T, st *history.State) string {
	t.Helper()
	require.NotNil(t, st)
	hash, err := fragment.Decode(st.Hash, fragment.Magic)
	require.NoError(t, err)
	return hash
}

func TestLoadWithoutEntrySavesImplicitly(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())

	assert.Equal(t, "note.md", r.typ.Value())
	assert.Equal(t, "Untitled note.md", r.title.placeholder)
	assert.Equal(t, "Untitled note.md", r.win.title)
	assert.True(t, r.c.Saved())
	assert.Equal(t, "#type=note.md", r.link)

	entries := r.h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notetab:#type=note.md", entries[0].URL)
	assert.Equal(t, "#type=note.md", decodeState(t, entries[0].State))
	assert.True(t, entries[0].State.Saved)
}

func TestLoadFromURL(t *testing.T) {
	r := newRig("notetab:#type=todo.txt&title=Groceries&body=milk%0Aeggs")
	require.NoError(t, r.c.Load())

	assert.Equal(t, "todo.txt", r.typ.Value())
	assert.Equal(t, "Groceries", r.title.value)
	assert.Equal(t, "milk\neggs", r.body.value)
	assert.Equal(t, "Groceries", r.win.title)
	assert.Len(t, r.h.Entries(), 1)
}

func TestLoadPrefersEntryState(t *testing.T) {
	r := newRig("notetab:#title=Old")
	env, err := fragment.Encode("#title=From%20state", fragment.Magic)
	require.NoError(t, err)
	require.NoError(t, r.h.ReplaceState(&history.State{Hash: env, Saved: false}, "", ""))

	require.NoError(t, r.c.Load())
	assert.Equal(t, "From state", r.title.value)
	assert.False(t, r.c.Saved())
	assert.Equal(t, "* From state", r.win.title)
}

func TestLoadFailsClosedOnMalformedState(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.h.ReplaceState(&history.State{Hash: "urn:uuid:no-fragment", Saved: true}, "", ""))

	require.NoError(t, r.c.Load())
	assert.Equal(t, "", r.title.value)
	assert.Equal(t, "", r.body.value)
	assert.Equal(t, "note.md", r.typ.Value())
}

func TestInputReplacesCurrentEntry(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())

	r.title.value = "Hello"
	require.NoError(t, r.c.Input(true))
	assert.True(t, r.c.Saved(), "composing input is ignored")

	require.NoError(t, r.c.Input(false))
	assert.True(t, r.c.Dirty())
	assert.Equal(t, "* Hello", r.win.title)
	assert.Equal(t, "#type=note.md&title=Hello", r.link)

	entries := r.h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notetab:#type=note.md", entries[0].URL)
	assert.Equal(t, "#type=note.md&title=Hello", decodeState(t, entries[0].State))
	assert.False(t, entries[0].State.Saved)
}

func TestSavePushesOnlyWhenFragmentChanges(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())

	r.body.value = "a & b = c"
	require.NoError(t, r.c.Update())
	require.NoError(t, r.c.Save())
	assert.Equal(t, "Untitled note.md", r.win.title)

	entries := r.h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1, r.h.Index())
	assert.Equal(t, "notetab:#type=note.md&body=a%20%26%20b%20%3D%20c", r.h.URL())
	assert.True(t, r.h.State().Saved)

	require.NoError(t, r.c.Save())
	assert.Len(t, r.h.Entries(), 2)
}

func TestBackAndForwardReloadFromURL(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())
	r.title.value = "One"
	require.NoError(t, r.c.Save())
	r.title.value = "Two"
	require.NoError(t, r.c.Save())
	r.body.value = "unsaved"
	require.NoError(t, r.c.Update())

	moved, err := r.c.Back()
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "One", r.title.value)
	assert.Equal(t, "", r.body.value)
	assert.True(t, r.c.Saved())
	assert.Equal(t, 1, r.recomputes)

	moved, err = r.c.Forward()
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "Two", r.title.value)
	assert.Equal(t, "", r.body.value)

	moved, err = r.c.Forward()
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestOpenAndNewDocument(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())

	require.NoError(t, r.c.Open("https://example.test/notetab#type=log.txt&title=Shared"))
	assert.Equal(t, "Shared", r.title.value)
	assert.Equal(t, "log.txt", r.typ.Value())
	assert.Equal(t, "Untitled log.txt", r.title.placeholder)
	assert.Len(t, r.h.Entries(), 2)

	require.NoError(t, r.c.NewDocument())
	assert.Equal(t, "", r.title.value)
	assert.Equal(t, "log.txt", r.typ.Value())
	assert.Equal(t, "notetab:#type=log.txt", r.h.URL())
}

func TestExport(t *testing.T) {
	r := newRig("notetab:#title=Report&body=line1%0Aline2")
	require.NoError(t, r.c.Load())

	name, contents := r.c.Export()
	assert.Equal(t, "Report.note.md", name)
	assert.Equal(t, "Report\n======\n\nline1\nline2\n", contents)

	r.title.value = "A/B"
	name, _ = r.c.Export()
	assert.Equal(t, "A⁄B.note.md", name)
}

func TestImport(t *testing.T) {
	r := newRig("notetab:")
	require.NoError(t, r.c.Load())

	require.NoError(t, r.c.Import("Shopping List.note.txt", "Shopping List\n=============\n\nmilk\neggs\n"))
	assert.Equal(t, "note.txt", r.typ.Value())
	assert.Equal(t, "Shopping List", r.title.value)
	assert.Equal(t, "milk\neggs", r.body.value)
	assert.Equal(t, "Untitled note.txt", r.title.placeholder)
	assert.True(t, r.c.Dirty())

	assert.ErrorIs(t, r.c.Import("", ""), ErrEmptyImport)
}
