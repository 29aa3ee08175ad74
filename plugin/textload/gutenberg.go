package textload

import (
	"regexp"
	"strings"
)

// Project Gutenberg plain-text releases wrap the work in license boilerplate
// delimited by marker lines. The markers have drifted over the years; these
// patterns cover the "*** START/END OF ..." family.
var (
	gutenbergStart = regexp.MustCompile(`(?mi)^\*{3}\s*START OF (THE|THIS) PROJECT GUTENBERG EBOOK[^\n]*\*{3}\s*$`)
	gutenbergEnd   = regexp.MustCompile(`(?mi)^\*{3}\s*END OF (THE|THIS) PROJECT GUTENBERG EBOOK[^\n]*\*{3}\s*$`)
)

// StripGutenbergBoilerplate removes the Gutenberg preamble and postamble when
// both text and markers make sense; text without markers is returned as-is.
func StripGutenbergBoilerplate(text string) string {
	start := gutenbergStart.FindStringIndex(text)
	if start == nil {
		return text
	}
	body := text[start[1]:]

	if end := gutenbergEnd.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return strings.TrimSpace(body) + "\n"
}
