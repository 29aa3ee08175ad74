package textload

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// markdownToText renders the markdown to HTML with goldmark, then extracts
// text from the HTML. Going through HTML keeps list/paragraph structure intact
// instead of leaking markdown syntax into the reading text.
func markdownToText(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", err
	}
	return htmlToText(buf.String())
}
