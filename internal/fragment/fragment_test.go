package fragment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	docs := []Document{
		{Type: "note.md", Title: "a&b=c", Body: "x=1&y=2\nnext line"},
		{Type: "todo.txt", Title: "Grüße ✓", Body: "日本語 + spaces %20 literal"},
		{Title: "only title"},
		{Body: "only body with # hash"},
	}
	for _, d := range docs {
		hash := Serialize(d)
		require.True(t, len(hash) > 0 && hash[0] == '#', "hash %q", hash)
		assert.Equal(t, d, Parse(hash).Document())
	}
}

func TestSerializeOrderAndEscaping(t *testing.T) {
	hash := Serialize(Document{Type: "note.md", Title: "It's (fun)!", Body: "a b"})
	assert.Equal(t, "#type=note.md&title=It's%20(fun)!&body=a%20b", hash)
}

func TestSerializeEmptyDocument(t *testing.T) {
	assert.Equal(t, "#", Serialize(Document{}))

	f := Parse("#")
	for _, key := range Keys {
		_, ok := f.Get(key)
		assert.False(t, ok, key)
	}
	assert.Equal(t, Document{}, f.Document())
}

func TestParseMissingAndUnknownKeys(t *testing.T) {
	f := Parse("#title=Hi&color=red")
	title, ok := f.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Hi", title)
	_, ok = f.Get("body")
	assert.False(t, ok)
	assert.Equal(t, Document{Title: "Hi"}, f.Document())
}

func TestParseKeepsMalformedEscapes(t *testing.T) {
	f := Parse("#title=%zz&body=ok+then")
	title, ok := f.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "%zz", title)
	body, _ := f.Get("body")
	assert.Equal(t, "ok then", body)

	assert.Equal(t, Document{Title: "50%", Body: "ok"}, Parse("#title=50%&body=ok").Document())
	assert.Equal(t, Document{Title: "100%", Body: "%4"}, Parse("#title=100%25&body=%4").Document())
}

func TestParseSemicolonIsText(t *testing.T) {
	assert.Equal(t, Document{Body: "a;b"}, Parse("#body=a;b").Document())
	assert.Equal(t, Document{Title: "x", Body: "a;b"}, Parse("#title=x&body=a;b").Document())
}

func TestParsePairShapes(t *testing.T) {
	f := Parse("#&&title=a=b&body&type=")
	title, _ := f.Get("title")
	assert.Equal(t, "a=b", title)
	_, ok := f.Get("body")
	assert.False(t, ok, "a key without value counts as absent")
	assert.Equal(t, "\uFFFD", Parse("#title=%FF").Document().Title)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	for _, hash := range []string{"#", "#a=b", "#type=note.md&body=x%00y"} {
		raw, err := Encode(hash, Magic)
		require.NoError(t, err)
		got, err := Decode(raw, Magic)
		require.NoError(t, err)
		assert.Equal(t, hash, got)
	}
}

func TestDecodeStopsAtNUL(t *testing.T) {
	got, err := Decode("urn:uuid:M#a=b\x00garbage-after-nul", "M")
	require.NoError(t, err)
	assert.Equal(t, "#a=b", got)
}

func TestDecodeWithoutMagic(t *testing.T) {
	got, err := Decode("#title=x", "")
	require.NoError(t, err)
	assert.Equal(t, "#title=x", got)
}

func TestDecodeMagicMismatch(t *testing.T) {
	_, err := Decode("urn:uuid:OTHER#a=b", "M")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, ErrMagicMismatch)
}

func TestDecodeMissingHash(t *testing.T) {
	_, err := Decode("urn:uuid:M-no-hash", "M")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestEncodeRequiresHash(t *testing.T) {
	_, err := Encode("a=b", Magic)
	assert.ErrorIs(t, err, ErrHashPrefix)
}

func TestScanBlob(t *testing.T) {
	one, _ := Encode("#title=one", Magic)
	two, _ := Encode("#title=two", Magic)
	foreign, _ := Encode("#title=foreign", "00000000-0000-0000-0000-000000000000")
	blob := []byte("\x01\x02junk" + one + "\xff\xfe" + foreign + "more" + two + "tail")

	assert.Equal(t, []string{"#title=one", "#title=two"}, Scan(blob, ""))
}

func TestScanUnterminatedEnvelopes(t *testing.T) {
	blob := []byte("urn:uuid:" + Magic + "#a=1" + "urn:uuid:" + Magic + "#a=2")
	assert.Equal(t, []string{"#a=1", "#a=2"}, Scan(blob, Magic))
}

func TestFromURL(t *testing.T) {
	got, err := FromURL("https://example.org/notetab/#title=x")
	require.NoError(t, err)
	assert.Equal(t, "#title=x", got)

	got, err = FromURL("#body=y")
	require.NoError(t, err)
	assert.Equal(t, "#body=y", got)

	got, err = FromURL("https://example.org/")
	require.NoError(t, err)
	assert.Equal(t, "#", got)
}
