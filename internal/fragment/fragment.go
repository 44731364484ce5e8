// Package fragment encodes note documents into URL fragments and wraps those
// fragments in the magic-tagged envelope stored in session history.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Magic tags history payloads written by notetab.
var Magic = uuid.MustParse("46e56985-cff3-45fd-b1b7-c5f84fbb921c").String()

const urnPrefix = "urn:uuid:"

var (
	ErrMagicMismatch = errors.New("UUIDs do not match")
	ErrMissingHash   = errors.New("encoded hash must contain a `#`")
	ErrHashPrefix    = errors.New("hash must start with `#`")
)

// FormatError reports a malformed envelope or hash.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *FormatError) Unwrap() error { return e.Err }

// Decode extracts the fragment from an envelope. When magic is non-empty the
// envelope must carry it. raw may be a slice of a larger blob: the payload ends
// at the first NUL after the `#`, or at the end of raw.
func Decode(raw, magic string) (string, error) {
	if magic != "" && !strings.HasPrefix(raw, urnPrefix+magic) {
		return "", &FormatError{Op: "decode", Err: ErrMagicMismatch}
	}
	start := strings.IndexByte(raw, '#')
	if start < 0 {
		return "", &FormatError{Op: "decode", Err: ErrMissingHash}
	}
	payload := raw[start:]
	if end := strings.IndexByte(payload, 0); end >= 0 {
		payload = payload[:end]
	}
	return payload, nil
}

// Encode wraps hash in an envelope tagged with magic.
func Encode(hash, magic string) (string, error) {
	if !strings.HasPrefix(hash, "#") {
		return "", &FormatError{Op: "encode", Err: ErrHashPrefix}
	}
	return urnPrefix + magic + hash + "\x00", nil
}

// Scan finds every envelope tagged with magic inside blob, e.g. a session
// database file, and returns the decoded fragments in order of appearance.
// Each candidate is bounded by the start of the next one.
func Scan(blob []byte, magic string) []string {
	if magic == "" {
		magic = Magic
	}
	marker := []byte(urnPrefix + magic)
	var out []string
	for off := 0; off < len(blob); {
		i := bytes.Index(blob[off:], marker)
		if i < 0 {
			break
		}
		start := off + i
		end := len(blob)
		if j := bytes.Index(blob[start+len(marker):], marker); j >= 0 {
			end = start + len(marker) + j
		}
		if hash, err := Decode(string(blob[start:end]), magic); err == nil {
			out = append(out, hash)
		}
		off = start + len(marker)
	}
	return out
}

// Keys in the order they are written to a fragment.
var Keys = []string{"type", "title", "body"}

// Document is the state carried in a fragment.
type Document struct {
	Type  string
	Title string
	Body  string
}

func (d Document) field(key string) string {
	switch key {
	case "type":
		return d.Type
	case "title":
		return d.Title
	case "body":
		return d.Body
	}
	return ""
}

// Serialize renders d as `#type=..&title=..&body=..`, dropping empty fields.
// An empty document serializes to "#".
func Serialize(d Document) string {
	params := make([]string, 0, len(Keys))
	for _, key := range Keys {
		if v := d.field(key); v != "" {
			params = append(params, EscapeComponent(key)+"="+EscapeComponent(v))
		}
	}
	return "#" + strings.Join(params, "&")
}

// Fields is a parsed fragment. Keys with empty values count as absent.
type Fields struct {
	values url.Values
}

// Parse reads a fragment the way URLSearchParams does: pairs split on `&`,
// each cut at its first `=`, `+` read as space. A `%` not followed by two hex
// digits stays literal and `;` is ordinary text. Unknown keys are ignored.
func Parse(hash string) Fields {
	values := url.Values{}
	for _, pair := range strings.Split(strings.TrimPrefix(hash, "#"), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		values.Add(unescapeLenient(key), unescapeLenient(value))
	}
	return Fields{values: values}
}

// unescapeLenient percent-decodes s, keeping malformed escapes as written.
// Byte sequences that are not UTF-8 become U+FFFD.
func unescapeLenient(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// Get returns the first value for key and whether it is present.
func (f Fields) Get(key string) (string, bool) {
	v := f.values.Get(key)
	return v, v != ""
}

// Document returns the known fields; absent fields are empty.
func (f Fields) Document() Document {
	var d Document
	d.Type, _ = f.Get("type")
	d.Title, _ = f.Get("title")
	d.Body, _ = f.Get("body")
	return d
}

// EscapeComponent percent-encodes s the way browsers' encodeURIComponent
// does: space becomes %20 and !'()* stay literal.
func EscapeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// FromURL returns the fragment of a link, or the input itself when it already
// is a fragment. A link without a fragment yields "#".
func FromURL(link string) (string, error) {
	if strings.HasPrefix(link, "#") {
		return link, nil
	}
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[i:], nil
	}
	if _, err := url.Parse(link); err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}
	return "#", nil
}
