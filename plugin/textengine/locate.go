package textengine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Locate resolves a possibly-inexact selected string to an exact span in the
// document. Selections arrive from DOM reconstruction and may differ from the
// stored text in case, punctuation or whitespace, so a cascade of strategies
// is tried in order; the first hit wins and is expanded to word boundaries.
// The second return value is false when every strategy fails — the caller
// treats that as "no highlight", never as an error.
func Locate(candidate string, doc *Document) (Span, bool) {
	if strings.TrimSpace(candidate) == "" {
		return Span{}, false
	}

	// Strategy 1: exact substring.
	if idx := strings.Index(doc.text, candidate); idx >= 0 {
		return ExpandToWordBoundaries(doc, Span{Start: idx, Length: len(candidate)}), true
	}

	// Strategy 2: case-insensitive. Folding preserves byte length, so an
	// index into the folded text maps directly back to the original.
	lowerDoc := foldPreservingLength(doc.text)
	lowerCand := foldPreservingLength(candidate)
	if idx := strings.Index(lowerDoc, lowerCand); idx >= 0 {
		return ExpandToWordBoundaries(doc, Span{Start: idx, Length: len(candidate)}), true
	}

	// Strategy 3: strip boundary punctuation from the candidate and search the
	// unmodified document. Only succeeds when the removed punctuation sat at
	// the selection edges; mid-string punctuation shifts alignment and the
	// strategy simply misses.
	stripped := stripPunctuation(candidate)
	if stripped != "" && stripped != candidate {
		if idx := strings.Index(doc.text, stripped); idx >= 0 {
			return ExpandToWordBoundaries(doc, Span{Start: idx, Length: len(stripped)}), true
		}
	}

	// Strategy 4: core-word fuzzy match. Collapse the candidate to letters
	// only and take the first word-boundary occurrence in the document.
	if span, ok := locateCore(candidate, doc); ok {
		return ExpandToWordBoundaries(doc, span), true
	}

	return Span{}, false
}

// LocatePoint resolves a zero-length position (a touch-start point) to the
// word enclosing it.
func LocatePoint(offset int, doc *Document) (Span, bool) {
	if offset < 0 || offset > doc.Len() {
		return Span{}, false
	}
	span := ExpandToWordBoundaries(doc, Span{Start: doc.runeFloor(offset)})
	if span.Length == 0 {
		return Span{}, false
	}
	return span, true
}

const punctuationSet = ".,;:!?"

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(punctuationSet, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func locateCore(candidate string, doc *Document) (Span, bool) {
	var core strings.Builder
	for _, r := range candidate {
		if unicode.IsLetter(r) {
			core.WriteRune(unicode.ToUpper(r))
		}
	}
	if core.Len() < 2 {
		return Span{}, false
	}

	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(core.String()) + `\b`)
	if err != nil {
		return Span{}, false
	}
	loc := pattern.FindStringIndex(doc.text)
	if loc == nil {
		return Span{}, false
	}
	return Span{Start: loc[0], Length: loc[1] - loc[0]}, true
}

// foldPreservingLength lowercases a string without changing its byte length.
// Runes whose lowercase form encodes to a different number of bytes (e.g.
// U+0130) are left as-is, so offsets into the folded text are valid offsets
// into the original.
func foldPreservingLength(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) != utf8.RuneLen(r) {
			l = r
		}
		b.WriteRune(l)
	}
	return b.String()
}
