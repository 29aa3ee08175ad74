// Package textengine implements the passage-location, context-extraction,
// search and highlight primitives the reader API is built on. Everything in
// this package is pure: functions take the document and return values, no I/O,
// no shared state.
package textengine

import (
	"unicode"
	"unicode/utf8"
)

// Document wraps the full text of one book for a reading session. The text is
// immutable; switching books means constructing a new Document.
type Document struct {
	text string
}

// Span is a byte-offset region within a document's text.
type Span struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the byte offset just past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// NewDocument wraps raw text. The caller is expected to have done any
// HTML/Markdown-to-text conversion already (see plugin/textload).
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// Len returns the text length in bytes.
func (d *Document) Len() int {
	return len(d.text)
}

// Slice returns the text of a span. Out-of-range spans are clamped rather than
// panicking; a span that clamps to nothing yields "".
func (d *Document) Slice(s Span) string {
	start, end := d.clamp(s.Start), d.clamp(s.End())
	if start >= end {
		return ""
	}
	return d.text[start:end]
}

// Window returns up to n bytes of text before (back=true) or after (back=false)
// the given offset, clamped to the document and adjusted so the cut never
// splits a UTF-8 sequence.
func (d *Document) Window(offset, n int, back bool) string {
	offset = d.clamp(offset)
	if back {
		start := d.runeFloor(offset - n)
		return d.text[start:offset]
	}
	end := d.runeFloor(offset + n)
	if end < offset {
		end = offset
	}
	return d.text[offset:end]
}

// Valid reports whether the span lies fully within the document.
func (d *Document) Valid(s Span) bool {
	return s.Start >= 0 && s.Length >= 0 && s.End() <= len(d.text)
}

func (d *Document) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(d.text) {
		return len(d.text)
	}
	return i
}

// runeFloor moves i down to the nearest rune start.
func (d *Document) runeFloor(i int) int {
	i = d.clamp(i)
	for i > 0 && i < len(d.text) && !utf8.RuneStart(d.text[i]) {
		i--
	}
	return i
}

// isWordChar matches the word-character class used for boundary expansion:
// letters, digits and underscore.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ExpandToWordBoundaries grows the span outward while the adjacent character
// is a word character, so selections that start or end mid-word capture the
// whole word. A zero-length span at a point expands to the enclosing word.
func ExpandToWordBoundaries(doc *Document, s Span) Span {
	text := doc.text
	start, end := doc.clamp(s.Start), doc.clamp(s.End())

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isWordChar(r) {
			break
		}
		start -= size
	}
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordChar(r) {
			break
		}
		end += size
	}
	return Span{Start: start, Length: end - start}
}
