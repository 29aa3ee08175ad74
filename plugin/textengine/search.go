package textengine

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// flexibleGap matches the word break between two query terms: optional
// punctuation/whitespace, at least one whitespace, optional
// punctuation/whitespace. It lets "to be or not to be" match
// "To be, or not to be," where punctuation intervenes at word breaks.
const flexibleGap = `[\p{P}\s]*\s+[\p{P}\s]*`

// Search returns every non-overlapping match of the query in the document, in
// strictly increasing offset order. Matching is case-insensitive and tolerant
// of punctuation at word breaks. An empty or whitespace-only query yields no
// matches; a pattern failure falls back to plain substring search. Search
// never returns an error.
func Search(query string, doc *Document) []Span {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	re, err := tolerantPattern(query)
	if err != nil {
		return substringSearch(query, doc)
	}
	return scan(re, doc)
}

// tolerantPattern builds the flexible search pattern: the query is quoted
// literally, then each whitespace run becomes a flexibleGap.
func tolerantPattern(query string) (*regexp.Regexp, error) {
	parts := whitespaceRun.Split(regexp.QuoteMeta(query), -1)
	return regexp.Compile(`(?i)` + strings.Join(parts, flexibleGap))
}

// scan collects all matches front to back. A zero-length match advances the
// scan position by one rune so the loop always terminates.
func scan(re *regexp.Regexp, doc *Document) []Span {
	var spans []Span
	pos := 0
	for pos <= doc.Len() {
		loc := re.FindStringIndex(doc.text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start {
			spans = append(spans, Span{Start: start, Length: end - start})
			pos = end
			continue
		}
		pos = start + 1
	}
	return spans
}

// substringSearch is the fallback when pattern construction fails: a plain
// case-insensitive scan that records every occurrence, not just the first.
func substringSearch(query string, doc *Document) []Span {
	lowerDoc := foldPreservingLength(doc.text)
	lowerQuery := foldPreservingLength(query)

	var spans []Span
	pos := 0
	for {
		idx := strings.Index(lowerDoc[pos:], lowerQuery)
		if idx < 0 {
			break
		}
		start := pos + idx
		spans = append(spans, Span{Start: start, Length: len(query)})
		pos = start + len(query)
	}
	return spans
}

// Direction selects which neighboring match navigation moves to.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Navigate moves a current-match pointer through a result list of the given
// length, wrapping at both ends. With no results the pointer stays at -1; a
// pointer that was -1 enters the list at the nearest end.
func Navigate(current, total int, dir Direction) int {
	if total <= 0 {
		return -1
	}
	if current < 0 || current >= total {
		if dir == DirectionPrev {
			return total - 1
		}
		return 0
	}
	switch dir {
	case DirectionPrev:
		return (current - 1 + total) % total
	default:
		return (current + 1) % total
	}
}
