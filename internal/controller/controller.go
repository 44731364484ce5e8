// Package controller runs the load/update/save cycle of a note. It reads the
// document from the current history entry or URL, keeps the history entry in
// step with edits and pushes a navigable entry on save.
package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"notetab/internal/document"
	"notetab/internal/fragment"
	"notetab/internal/history"
)

// Field is an editable form value.
type Field interface {
	Value() string
	SetValue(v string)
}

// TitleField is a Field that also shows a placeholder.
type TitleField interface {
	Field
	SetPlaceholder(p string)
}

// Window owns the visible window title.
type Window interface {
	Title() string
	SetTitle(t string)
}

// Services is everything the controller touches outside itself.
type Services struct {
	History history.History
	Window  Window

	Type  Field
	Title TitleField
	Body  Field

	// Link receives the current fragment whenever it changes.
	Link func(hash string)
	// Recompute re-measures the title and body after a reload.
	Recompute func()

	// DefaultType is used when neither the fragment nor the type field has
	// one. TitleTemplate is the title placeholder with `{0}` for the type.
	DefaultType   string
	TitleTemplate string
	// LinkBase is prefixed to the fragment of pushed entries.
	LinkBase string

	Logger *slog.Logger
}

// Controller is the document controller. Its zero value is not usable.
type Controller struct {
	svc         Services
	log         *slog.Logger
	saved       bool
	loaded      bool
	placeholder string
}

func New(svc Services) *Controller {
	log := svc.Logger
	if log == nil {
		log = slog.Default()
	}
	if svc.Type == nil {
		svc.Type = &Value{}
	}
	return &Controller{svc: svc, log: log}
}

// Value is a plain Field.
type Value struct{ v string }

func (f *Value) Value() string     { return f.v }
func (f *Value) SetValue(v string) { f.v = v }

func (c *Controller) Saved() bool         { return c.saved }
func (c *Controller) Dirty() bool         { return !c.saved }
func (c *Controller) Loaded() bool        { return c.loaded }
func (c *Controller) Placeholder() string { return c.placeholder }

// Document is the current field contents.
func (c *Controller) Document() document.Document {
	return document.Document{
		Type:  c.svc.Type.Value(),
		Title: c.svc.Title.Value(),
		Body:  c.svc.Body.Value(),
	}
}

// Hash is the fragment for the current fields.
func (c *Controller) Hash() string { return fragment.Serialize(c.Document()) }

// URL is the shareable link for the current fields.
func (c *Controller) URL() string { return c.svc.LinkBase + c.Hash() }

// WindowTitle is the title or placeholder, prefixed with "* " when unsaved.
func (c *Controller) WindowTitle() string {
	return document.WindowTitle(c.svc.Title.Value(), c.placeholder, c.saved)
}

// Load fills the fields from the current history entry, or from the URL when
// the entry has no state. Values the entry lacks keep what the fields hold.
// A fresh entry is saved right away.
func (c *Controller) Load() error {
	h := c.svc.History
	st := h.State()
	hadEntry := st != nil
	if st == nil {
		st = &history.State{Hash: c.locationHash(), Saved: c.saved}
	}
	c.saved = st.Saved

	raw := st.Hash
	if raw == "" {
		raw = "#"
	}
	hash, err := fragment.Decode(raw, "")
	if err != nil {
		c.log.Warn("discarding malformed history state", "err", err)
		hash = "#"
	}
	params := fragment.Parse(hash)

	typ := c.pick(params, "type", c.svc.Type)
	if typ == "" {
		typ = c.svc.DefaultType
	}
	c.svc.Type.SetValue(typ)
	c.placeholder = document.Placeholder(c.svc.TitleTemplate, typ)
	c.svc.Title.SetPlaceholder(c.placeholder)

	c.svc.Title.SetValue(c.pick(params, "title", c.svc.Title))
	c.setWindowTitle()
	c.svc.Body.SetValue(c.pick(params, "body", c.svc.Body))

	c.loaded = true
	c.setLink(c.Hash())
	c.log.Debug("loaded", "had_entry", hadEntry, "saved", c.saved)

	if !hadEntry {
		return c.save(false)
	}
	return nil
}

func (c *Controller) pick(params fragment.Fields, key string, f Field) string {
	if v, ok := params.Get(key); ok {
		return v
	}
	return f.Value()
}

// locationHash is the fragment of the current entry's URL.
func (c *Controller) locationHash() string {
	hash, err := fragment.FromURL(c.svc.History.URL())
	if err != nil {
		return "#"
	}
	return hash
}

// Input handles a field edit. Edits made mid-composition are ignored.
func (c *Controller) Input(composing bool) error {
	if composing {
		return nil
	}
	return c.Update()
}

// Update marks the document unsaved and rewrites the current history entry
// without creating a new one.
func (c *Controller) Update() error {
	c.saved = false
	hash := c.Hash()
	c.setLink(hash)
	c.setWindowTitle()
	return c.replaceState(hash, "")
}

// Save marks the document saved and records a navigable history entry whose
// URL carries the plain fragment. A new entry is pushed only when the
// fragment differs from the current URL's.
func (c *Controller) Save() error { return c.save(true) }

// save with push false always rewrites the current entry; Load uses it so
// the first state does not leave a blank entry behind it.
func (c *Controller) save(push bool) error {
	c.saved = true
	c.setWindowTitle()

	hash := c.Hash()
	st, err := c.state(hash)
	if err != nil {
		return err
	}
	url := c.svc.LinkBase + hash
	h := c.svc.History
	if push && hash != c.locationHash() {
		err = h.PushState(st, c.svc.Window.Title(), url)
	} else {
		err = h.ReplaceState(st, c.svc.Window.Title(), url)
	}
	if err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	c.log.Info("saved", "hash_len", len(hash), "entries", len(h.Entries()))
	return nil
}

func (c *Controller) state(hash string) (*history.State, error) {
	env, err := fragment.Encode(hash, fragment.Magic)
	if err != nil {
		return nil, err
	}
	return &history.State{Hash: env, Saved: c.saved}, nil
}

func (c *Controller) replaceState(hash, url string) error {
	st, err := c.state(hash)
	if err != nil {
		return err
	}
	if err := c.svc.History.ReplaceState(st, c.svc.Window.Title(), url); err != nil {
		return fmt.Errorf("replace history entry: %w", err)
	}
	return nil
}

// HashChanged reloads after the current entry changed underneath the
// controller: back/forward navigation or opening a link. The entry's state
// is dropped and the document is read from its URL.
func (c *Controller) HashChanged() error {
	c.saved = true
	h := c.svc.History
	if err := h.ReplaceState(nil, c.svc.Window.Title(), ""); err != nil {
		return fmt.Errorf("reset history entry: %w", err)
	}
	c.svc.Title.SetValue("")
	c.svc.Body.SetValue("")
	if err := c.Load(); err != nil {
		return err
	}
	if c.svc.Recompute != nil {
		c.svc.Recompute()
	}
	return nil
}

// Back moves one entry back and reloads. It reports whether it moved.
func (c *Controller) Back() (bool, error) {
	moved, err := c.svc.History.Back()
	if err != nil || !moved {
		return moved, err
	}
	return true, c.HashChanged()
}

// Forward moves one entry forward and reloads.
func (c *Controller) Forward() (bool, error) {
	moved, err := c.svc.History.Forward()
	if err != nil || !moved {
		return moved, err
	}
	return true, c.HashChanged()
}

// Open navigates to a link or bare fragment as a new entry.
func (c *Controller) Open(link string) error {
	hash, err := fragment.FromURL(link)
	if err != nil {
		return err
	}
	if err := c.svc.History.PushState(nil, "", c.svc.LinkBase+hash); err != nil {
		return fmt.Errorf("open %q: %w", hash, err)
	}
	return c.HashChanged()
}

// NewDocument opens an empty document of the current type.
func (c *Controller) NewDocument() error {
	hash := "#"
	if typ := c.svc.Type.Value(); typ != "" {
		hash = fragment.Serialize(document.Document{Type: typ})
	}
	return c.Open(hash)
}

// Export returns the export file name and contents.
func (c *Controller) Export() (filename, contents string) {
	d := c.Document()
	return document.Filename(d, c.placeholder), document.Export(d, c.placeholder)
}

// ErrEmptyImport is returned for an import with nothing in it.
var ErrEmptyImport = errors.New("nothing to import")

// Import replaces the fields with an exported file's contents. The result
// is unsaved.
func (c *Controller) Import(name, contents string) error {
	if name == "" && contents == "" {
		return ErrEmptyImport
	}
	im := document.Import(name, contents)
	if im.Type != "" {
		c.svc.Type.SetValue(im.Type)
		c.placeholder = document.Placeholder(c.svc.TitleTemplate, im.Type)
		c.svc.Title.SetPlaceholder(c.placeholder)
	}
	c.svc.Title.SetValue(im.Title)
	c.svc.Body.SetValue(im.Body)
	if c.svc.Recompute != nil {
		c.svc.Recompute()
	}
	c.log.Info("imported", "name", name, "type", im.Type)
	return c.Update()
}

func (c *Controller) setWindowTitle() {
	t := c.WindowTitle()
	if c.svc.Window.Title() != t {
		c.svc.Window.SetTitle(t)
	}
}

func (c *Controller) setLink(hash string) {
	if c.svc.Link != nil {
		c.svc.Link(hash)
	}
}
