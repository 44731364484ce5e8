package util

import (
	"notetab/internal/document"
	"notetab/internal/tui/state"
)

// ComputeTags derives the status chips for a document.
//
// The returned slice preserves a stable order:
//
//	Unsaved, Type, Editor, Title Len, Body Len, Entry
//
// Rules:
//   - Unsaved appears only while the document has edits since the last save.
//   - Type is omitted when the document has none.
//   - Title Len and Body Len count runes, so they match the selection offsets.
//   - Entry is shown once history holds more than one entry.
func ComputeTags(d document.Document, s state.UIState) []state.Tag {
	tags := make([]state.Tag, 0, 6)
	if !s.Saved {
		tags = append(tags, state.Tag{Kind: state.UNSAVED})
	}
	if d.Type != "" {
		tags = append(tags, state.Tag{Kind: state.TYPE, Text: d.Type})
	}
	if s.Editor != "" {
		tags = append(tags, state.Tag{Kind: state.EDITOR, Text: s.Editor})
	}
	tags = append(tags,
		state.Tag{Kind: state.TITLE_LEN, Value: runeLen(d.Title)},
		state.Tag{Kind: state.BODY_LEN, Value: runeLen(d.Body)},
	)
	if s.Entries > 1 {
		tags = append(tags, state.Tag{Kind: state.ENTRY, Value: s.Index + 1, Of: s.Entries})
	}
	return tags
}

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int {
	return len([]rune(s))
}
