package state

// TagKind enumerates the status chips shown next to the status bar.
type TagKind int

const (
	// Stable ordering for display: Unsaved, Type, Editor, Title Len, Body Len, Entry
	UNSAVED TagKind = iota
	TYPE
	EDITOR
	TITLE_LEN
	BODY_LEN
	ENTRY
)

// Tag represents a single status chip. Value carries numeric counters and
// Text carries labels; unused fields are zero.
type Tag struct {
	Kind  TagKind
	Value int
	Text  string
	// Of is the total for positional counters such as ENTRY.
	Of int
}
