// Package document holds the derivations around a note: window titles,
// placeholders and the plain-text export format.
package document

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"notetab/internal/fragment"
)

// Document is the note state carried in a fragment.
type Document = fragment.Document

const (
	// MaxUnderline caps the `=` line under an exported title.
	MaxUnderline = 76
	// FractionSlash replaces `/` in exported file names.
	FractionSlash = "⁄"
)

// Placeholder fills the `{0}` slot of a title placeholder template with the
// document type.
func Placeholder(template, docType string) string {
	return strings.ReplaceAll(template, "{0}", docType)
}

// DisplayTitle is the title or, when empty, the placeholder.
func DisplayTitle(title, placeholder string) string {
	if title != "" {
		return title
	}
	return placeholder
}

// WindowTitle decorates the display title with "* " while changes are unsaved.
func WindowTitle(title, placeholder string, saved bool) string {
	t := DisplayTitle(title, placeholder)
	if !saved {
		t = "* " + t
	}
	return t
}

// Export renders d as plain text: a title underlined with `=`, a blank line,
// the body and a trailing newline.
func Export(d Document, placeholder string) string {
	title := DisplayTitle(d.Title, placeholder)
	if title == "" {
		return d.Body + "\n"
	}
	n := utf8.RuneCountInString(title)
	if n > MaxUnderline {
		n = MaxUnderline
	}
	return title + "\n" + strings.Repeat("=", n) + "\n\n" + d.Body + "\n"
}

// Filename is the export file name `<title>.<type>` with slashes made safe.
func Filename(d Document, placeholder string) string {
	name := DisplayTitle(d.Title, placeholder)
	if d.Type != "" {
		name += "." + d.Type
	}
	return strings.ReplaceAll(name, "/", FractionSlash)
}

// Imported is a document read back from an exported file.
type Imported struct {
	// Name is the file name part before the type, e.g. "Shopping List".
	Name string
	Document
}

var (
	underlineRE = regexp.MustCompile(`^([^\r\n]*)\r?\n=+\r?\n(\r?\n)?`)
	typedNameRE = regexp.MustCompile(`^(.+)\.([^.\s][^.]*)\.([^.]+)$`)
)

// Import parses an exported file. A leading underlined title becomes the
// title and the rest the body; otherwise the whole content is body. The type
// is inferred from names shaped like `name.<type>.<ext>`.
func Import(filename, contents string) Imported {
	var im Imported
	if m := underlineRE.FindStringSubmatchIndex(contents); m != nil {
		im.Title = contents[m[2]:m[3]]
		contents = contents[m[1]:]
	}
	if strings.HasSuffix(contents, "\r\n") {
		contents = strings.TrimSuffix(contents, "\r\n")
	} else {
		contents = strings.TrimSuffix(contents, "\n")
	}
	im.Body = contents

	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if m := typedNameRE.FindStringSubmatch(base); m != nil {
		im.Name = strings.ReplaceAll(m[1], FractionSlash, "/")
		im.Type = m[2] + "." + m[3]
	} else {
		im.Name = base
	}
	return im
}
