// Package textload converts uploaded book sources into the plain text the
// text engine operates on. Conversion happens once at ingest; the stored text
// is the canonical form all spans refer to, so the only normalization applied
// unconditionally is CRLF→LF.
package textload

import (
	"strings"

	"github.com/pkg/errors"
)

// Format identifies a supported source format.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnsupportedFormat is returned for formats the loader does not know.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DetectFormat maps a filename extension or MIME-ish hint to a Format,
// defaulting to plain text.
func DetectFormat(hint string) Format {
	switch strings.ToLower(strings.TrimPrefix(hint, ".")) {
	case "md", "markdown", "text/markdown":
		return FormatMarkdown
	case "html", "htm", "xhtml", "text/html":
		return FormatHTML
	default:
		return FormatPlain
	}
}

// Load converts raw source bytes in the given format to plain reading text.
// Project Gutenberg license boilerplate is stripped when its markers are
// present.
func Load(raw []byte, format Format) (string, error) {
	var text string
	switch format {
	case FormatPlain, "":
		text = string(raw)
	case FormatMarkdown:
		converted, err := markdownToText(raw)
		if err != nil {
			return "", errors.Wrap(err, "failed to convert markdown")
		}
		text = converted
	case FormatHTML:
		converted, err := htmlToText(string(raw))
		if err != nil {
			return "", errors.Wrap(err, "failed to convert html")
		}
		text = converted
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return StripGutenbergBoilerplate(text), nil
}
