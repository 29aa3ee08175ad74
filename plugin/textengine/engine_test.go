package textengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The full selection flow: raw document in, user selection resolved, context
// extracted for the explanation request.
func TestSelectionToExplanationRequest(t *testing.T) {
	doc := NewDocument("ACT I\nSCENE I\nROMEO. But soft, what light through yonder window breaks?")

	span, ok := Locate("what light through yonder window breaks", doc)
	require.True(t, ok)

	meta := Extract(span, doc, "Romeo and Juliet", "William Shakespeare")

	assert.Equal(t, "I", meta.Act)
	assert.Equal(t, "I", meta.Scene)
	assert.Equal(t, "ROMEO", meta.Speaker)
	assert.Equal(t, "what light through yonder window breaks", meta.SelectedText)
	assert.Equal(t, "Romeo and Juliet", meta.BookTitle)
	assert.Equal(t, "William Shakespeare", meta.Author)
	assert.Contains(t, meta.BeforeContext, "But soft")
}
