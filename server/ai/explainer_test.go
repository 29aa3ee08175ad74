package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/folio-reader/folio/plugin/textengine"
)

func TestBuildPromptFullContext(t *testing.T) {
	prompt := BuildPrompt(&textengine.ContextMetadata{
		BookTitle:         "Romeo and Juliet",
		Author:            "William Shakespeare",
		Act:               "II",
		Scene:             "II",
		Speaker:           "ROMEO",
		CharactersOnStage: []string{"ROMEO", "JULIET"},
		SelectedText:      "But soft, what light through yonder window breaks?",
		BeforeContext:     "He jests at scars that never felt a wound.",
		AfterContext:      "It is the east, and Juliet is the sun.",
	})

	require.Contains(t, prompt, "Book: Romeo and Juliet")
	require.Contains(t, prompt, "Act: II")
	require.Contains(t, prompt, "Speaker: ROMEO")
	require.Contains(t, prompt, "Characters on stage: ROMEO, JULIET")
	require.Contains(t, prompt, "Selected passage:\nBut soft")
	require.Contains(t, prompt, "Text just after the selection:")
}

func TestBuildPromptOmitsMissingSections(t *testing.T) {
	prompt := BuildPrompt(&textengine.ContextMetadata{
		BookTitle:    "Walden",
		Author:       "Henry David Thoreau",
		SelectedText: "I went to the woods because I wished to live deliberately.",
	})

	require.NotContains(t, prompt, "Act:")
	require.NotContains(t, prompt, "Scene:")
	require.NotContains(t, prompt, "Speaker:")
	require.NotContains(t, prompt, "Characters on stage:")
	require.NotContains(t, prompt, "Text just before")
	require.Contains(t, prompt, "Selected passage:")
}

func TestExplainerRejectsWhenBudgetExhausted(t *testing.T) {
	provider, err := NewProvider(&Config{APIKey: "test"})
	require.NoError(t, err)

	// A one-per-minute limiter allows the first call and rejects the second
	// before any network traffic happens.
	e := NewExplainer(provider, 1, 1)
	require.True(t, e.limiter.Allow())

	_, err = e.Explain(context.Background(), &textengine.ContextMetadata{SelectedText: "x"})
	require.ErrorIs(t, err, ErrBusy)
}

func TestExplainSystemPromptMentionsTutorRole(t *testing.T) {
	require.True(t, strings.Contains(explainSystemPrompt, "literature tutor"))
}
