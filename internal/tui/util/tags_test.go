package util

import (
	"testing"

	"notetab/internal/document"
	"notetab/internal/tui/state"
)

func findKind(tags []state.Tag, k state.TagKind) (idx int, ok bool) {
	for i, t := range tags {
		if t.Kind == k {
			return i, true
		}
	}
	return -1, false
}

func TestUnsavedOnlyWhenDirty(t *testing.T) {
	d := document.Document{Type: "note.md", Title: "t", Body: "b"}
	tags := ComputeTags(d, state.UIState{Saved: true})
	if _, ok := findKind(tags, state.UNSAVED); ok {
		t.Fatalf("did not expect UNSAVED for a saved document")
	}
	tags = ComputeTags(d, state.UIState{Saved: false})
	if idx, ok := findKind(tags, state.UNSAVED); !ok || idx != 0 {
		t.Fatalf("expected UNSAVED first")
	}
}

func TestLengthsCountRunes(t *testing.T) {
	d := document.Document{Title: "héllo", Body: "日本語"}
	tags := ComputeTags(d, state.UIState{Saved: true})
	if idx, ok := findKind(tags, state.TITLE_LEN); !ok || tags[idx].Value != 5 {
		t.Fatalf("expected TITLE_LEN 5")
	}
	if idx, ok := findKind(tags, state.BODY_LEN); !ok || tags[idx].Value != 3 {
		t.Fatalf("expected BODY_LEN 3")
	}
	if _, ok := findKind(tags, state.TYPE); ok {
		t.Fatalf("did not expect TYPE without a type")
	}
}

func TestEntryCounter(t *testing.T) {
	d := document.Document{}
	if _, ok := findKind(ComputeTags(d, state.UIState{Entries: 1}), state.ENTRY); ok {
		t.Fatalf("did not expect ENTRY with a single entry")
	}
	tags := ComputeTags(d, state.UIState{Entries: 3, Index: 1})
	idx, ok := findKind(tags, state.ENTRY)
	if !ok || tags[idx].Value != 2 || tags[idx].Of != 3 {
		t.Fatalf("expected ENTRY 2/3, got %+v", tags)
	}
}

func TestStableOrder(t *testing.T) {
	d := document.Document{Type: "note.md", Title: "a", Body: "b"}
	tags := ComputeTags(d, state.UIState{Editor: "markup", Entries: 2})
	order := []state.TagKind{state.UNSAVED, state.TYPE, state.EDITOR, state.TITLE_LEN, state.BODY_LEN, state.ENTRY}
	if len(tags) != len(order) {
		t.Fatalf("expected %d tags, got %d", len(order), len(tags))
	}
	for i, k := range order {
		if tags[i].Kind != k {
			t.Fatalf("tag %d: got %v want %v", i, tags[i].Kind, k)
		}
	}
}
