package textload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		hint string
		want Format
	}{
		{"md", FormatMarkdown},
		{".markdown", FormatMarkdown},
		{"text/markdown", FormatMarkdown},
		{".html", FormatHTML},
		{"htm", FormatHTML},
		{"txt", FormatPlain},
		{"", FormatPlain},
		{"pdf", FormatPlain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.hint), "hint %q", tt.hint)
	}
}

func TestLoadPlain(t *testing.T) {
	text, err := Load([]byte("ACT I\r\nSCENE I\r\nROMEO. But soft."), FormatPlain)
	require.NoError(t, err)
	assert.Equal(t, "ACT I\nSCENE I\nROMEO. But soft.", text)
}

func TestLoadHTML(t *testing.T) {
	src := `<html><head><style>body{color:red}</style></head><body>
<p>ACT I</p><p>SCENE I</p><p>ROMEO. But soft, what light?</p>
<script>alert("no")</script></body></html>`

	text, err := Load([]byte(src), FormatHTML)
	require.NoError(t, err)

	assert.Contains(t, text, "ACT I")
	assert.Contains(t, text, "ROMEO. But soft, what light?")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")

	// Paragraph structure survives as line structure.
	assert.Contains(t, text, "ACT I\nSCENE I")
}

func TestLoadMarkdown(t *testing.T) {
	src := "# Hamlet\n\nACT I\n\n*To be or not to be.*\n"

	text, err := Load([]byte(src), FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, text, "Hamlet")
	assert.Contains(t, text, "ACT I")
	assert.Contains(t, text, "To be or not to be.")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "*")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load([]byte("x"), Format("epub"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStripGutenbergBoilerplate(t *testing.T) {
	text := strings.Join([]string{
		"The Project Gutenberg eBook of Romeo and Juliet",
		"License chatter here.",
		"*** START OF THE PROJECT GUTENBERG EBOOK ROMEO AND JULIET ***",
		"ACT I",
		"SCENE I",
		"*** END OF THE PROJECT GUTENBERG EBOOK ROMEO AND JULIET ***",
		"More license chatter.",
	}, "\n")

	got := StripGutenbergBoilerplate(text)
	assert.Equal(t, "ACT I\nSCENE I\n", got)
}

func TestStripGutenbergNoMarkers(t *testing.T) {
	text := "ACT I\nSCENE I\n"
	assert.Equal(t, text, StripGutenbergBoilerplate(text))
}
