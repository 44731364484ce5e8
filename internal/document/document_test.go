package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportScenario(t *testing.T) {
	got := Export(Document{Title: "Report", Body: "line1\nline2"}, "")
	assert.Equal(t, "Report\n======\n\nline1\nline2\n", got)
}

func TestExportUsesPlaceholderAndCapsUnderline(t *testing.T) {
	got := Export(Document{Body: "b"}, "Untitled")
	assert.Equal(t, "Untitled\n========\n\nb\n", got)

	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	got = Export(Document{Title: long}, "")
	assert.Contains(t, got, "\n"+repeat("=", MaxUnderline)+"\n\n")
	assert.NotContains(t, got, repeat("=", MaxUnderline+1))
}

func TestExportWithoutAnyTitle(t *testing.T) {
	assert.Equal(t, "just body\n", Export(Document{Body: "just body"}, ""))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "A⁄B.note.md", Filename(Document{Title: "A/B", Type: "note.md"}, ""))
	assert.Equal(t, "x⁄y⁄z.note.md", Filename(Document{Title: "x/y/z", Type: "note.md"}, ""))
	assert.Equal(t, "Untitled.todo.txt", Filename(Document{Type: "todo.txt"}, "Untitled"))
}

func TestImportScenario(t *testing.T) {
	im := Import("Shopping List.note.txt", "Shopping List\n=============\n\nmilk\neggs\n")
	assert.Equal(t, "Shopping List", im.Name)
	assert.Equal(t, "note.txt", im.Type)
	assert.Equal(t, "Shopping List", im.Title)
	assert.Equal(t, "milk\neggs", im.Body)
}

func TestImportWithoutUnderline(t *testing.T) {
	im := Import("notes.txt", "first\nsecond\n")
	assert.Equal(t, "", im.Title)
	assert.Equal(t, "first\nsecond", im.Body)
	assert.Equal(t, "", im.Type)
	assert.Equal(t, "notes.txt", im.Name)
}

func TestImportTypeSegmentStartingWithSpace(t *testing.T) {
	im := Import("foo. bar.txt", "x")
	assert.Equal(t, "", im.Type)
}

func TestImportCRLF(t *testing.T) {
	im := Import("/tmp/T.note.md", "T\r\n=\r\n\r\nbody\r\n")
	assert.Equal(t, "T", im.Title)
	assert.Equal(t, "body", im.Body)
	assert.Equal(t, "note.md", im.Type)
	assert.Equal(t, "T", im.Name)
}

func TestExportImportRoundTrip(t *testing.T) {
	d := Document{Type: "note.md", Title: "Plan/B", Body: "one\n\ntwo"}
	im := Import(Filename(d, ""), Export(d, ""))
	assert.Equal(t, d, im.Document)
	assert.Equal(t, "Plan/B", im.Name)
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "* Untitled note.md", WindowTitle("", Placeholder("Untitled {0}", "note.md"), false))
	assert.Equal(t, "Groceries", WindowTitle("Groceries", "x", true))
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
