package state

// Focus names the field receiving keys.
type Focus int

const (
	TitleFocus Focus = iota
	BodyFocus
)

// Overlay is the panel drawn over the editor, if any.
type Overlay int

const (
	NoOverlay Overlay = iota
	HelpOverlay
	DiffOverlay
	ImportOverlay
	HistoryOverlay
)

// UIState holds cross-widget UI state used by the status bar, overlays and
// the page layout.
type UIState struct {
	Focus   Focus
	Overlay Overlay

	// Layout
	Width  int
	Height int
	// MinBody is the narrowest body before the tag chips are dropped.
	MinBody int

	// Editor surface
	Editor    string // adapter kind: plain|markup
	Loading   bool   // rich surface is being built
	Highlight bool

	// Document
	Saved   bool
	Entries int
	Index   int

	// Notices and ephemeral messages
	Notice string
}
