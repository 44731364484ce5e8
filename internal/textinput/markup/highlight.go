package markup

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Kind classifies a highlighted span.
type Kind int

const (
	Plain Kind = iota
	Heading
	Emphasis
	Strong
	Strike
	Code
	CodeBlock
	Link
	Quote
	ListMarker
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Emphasis:
		return "emphasis"
	case Strong:
		return "strong"
	case Strike:
		return "strike"
	case Code:
		return "code"
	case CodeBlock:
		return "codeblock"
	case Link:
		return "link"
	case Quote:
		return "quote"
	case ListMarker:
		return "list"
	}
	return "plain"
}

// Span is a highlighted rune range [From, To).
type Span struct {
	From int
	To   int
	Kind Kind
}

// Highlighter finds markup spans in a document.
type Highlighter struct {
	md goldmark.Markdown
}

func NewHighlighter() *Highlighter {
	return &Highlighter{md: goldmark.New(goldmark.WithExtensions(extension.Strikethrough))}
}

// Spans parses src and returns its spans, outer constructs before the ones
// nested in them.
func (h *Highlighter) Spans(src string) []Span {
	b := []byte(src)
	root := h.md.Parser().Parse(text.NewReader(b))
	var out []Span
	add := func(from, to int, k Kind) {
		from, to = max(from, 0), min(to, len(b))
		if from < to {
			out = append(out, Span{From: from, To: to, Kind: k})
		}
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			if from, to, ok := blockBounds(n); ok {
				from, to = lineStart(b, from), lastLineEnd(b, from, to)
				if to < len(b) {
					if next := lineEnd(b, to+1); isSetextUnderline(b[to+1 : next]) {
						to = next
					}
				}
				add(from, to, Heading)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if from, to, ok := blockBounds(n); ok {
				from = lineStart(b, from)
				if from > 0 {
					from = lineStart(b, from-1)
				}
				to = lastLineEnd(b, from, to)
				if to < len(b) {
					if next := lineEnd(b, to+1); isFence(b[to+1 : next]) {
						to = next
					}
				}
				add(from, to, CodeBlock)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			if from, to, ok := blockBounds(n); ok {
				add(lineStart(b, from), lastLineEnd(b, from, to), CodeBlock)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Blockquote:
			if from, to, ok := blockBounds(n); ok {
				add(lineStart(b, from), lastLineEnd(b, from, to), Quote)
			}
		case *ast.ListItem:
			if from, _, ok := blockBounds(n); ok {
				ls := lineStart(b, from)
				add(ls, from, ListMarker)
			}
		case *ast.CodeSpan:
			if from, to, ok := inlineBounds(n); ok {
				for from > 0 && b[from-1] == '`' {
					from--
				}
				for to < len(b) && b[to] == '`' {
					to++
				}
				add(from, to, Code)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Emphasis:
			if from, to, ok := inlineBounds(n); ok {
				k := Emphasis
				if n.Level >= 2 {
					k = Strong
				}
				add(from-n.Level, to+n.Level, k)
			}
		case *extast.Strikethrough:
			if from, to, ok := inlineBounds(n); ok {
				add(from-2, to+2, Strike)
			}
		case *ast.Link:
			if from, to, ok := inlineBounds(n); ok {
				end := to
				if end+1 < len(b) && b[end] == ']' && b[end+1] == '(' {
					if i := bytes.IndexByte(b[end:lineEnd(b, end)], ')'); i >= 0 {
						end += i + 1
					}
				}
				add(from-1, end, Link)
			}
		}
		return ast.WalkContinue, nil
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].From < out[j].From })
	return toRunes(b, out)
}

// blockBounds is the byte range covered by the lines of n and its
// descendants.
func blockBounds(n ast.Node) (from, to int, ok bool) {
	from, to = -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if from < 0 || seg.Start < from {
				from = seg.Start
			}
			if seg.Stop > to {
				to = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	return from, to, from >= 0
}

// inlineBounds is the byte range of the text nodes inside n.
func inlineBounds(n ast.Node) (from, to int, ok bool) {
	from, to = -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, isText := c.(*ast.Text); entering && isText {
			if from < 0 || t.Segment.Start < from {
				from = t.Segment.Start
			}
			if t.Segment.Stop > to {
				to = t.Segment.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	return from, to, from >= 0
}

func lineStart(b []byte, i int) int {
	i = min(i, len(b))
	return bytes.LastIndexByte(b[:i], '\n') + 1
}

// lineEnd is the index of the newline ending the line that holds i, or
// len(b) on the last line.
func lineEnd(b []byte, i int) int {
	i = min(i, len(b))
	if j := bytes.IndexByte(b[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(b)
}

// lastLineEnd is the end of the line holding the last byte of [from, to).
// Block segments usually include their trailing newline.
func lastLineEnd(b []byte, from, to int) int {
	return lineEnd(b, max(to-1, from))
}

func isSetextUnderline(line []byte) bool {
	line = bytes.TrimRight(line, " \t\r")
	if len(line) == 0 {
		return false
	}
	return len(bytes.Trim(line, "=")) == 0 || len(bytes.Trim(line, "-")) == 0
}

func isFence(line []byte) bool {
	line = bytes.TrimLeft(line, " ")
	return bytes.HasPrefix(line, []byte("```")) || bytes.HasPrefix(line, []byte("~~~"))
}

// toRunes converts byte offsets to rune offsets.
func toRunes(b []byte, spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	idx := make([]int, len(b)+1)
	r := 0
	for i := 0; i < len(b); {
		_, size := utf8.DecodeRune(b[i:])
		for k := 0; k < size && i+k < len(b); k++ {
			idx[i+k] = r
		}
		i += size
		r++
	}
	idx[len(b)] = r
	for i := range spans {
		spans[i].From = idx[spans[i].From]
		spans[i].To = idx[spans[i].To]
	}
	return spans
}

// kindsFor paints spans over n runes. Later spans win.
func kindsFor(n int, spans []Span) []Kind {
	kinds := make([]Kind, n)
	for _, s := range spans {
		for i := max(s.From, 0); i < min(s.To, n); i++ {
			kinds[i] = s.Kind
		}
	}
	return kinds
}
