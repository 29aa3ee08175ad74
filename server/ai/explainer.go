package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/folio-reader/folio/plugin/textengine"
)

const explainSystemPrompt = `You are a patient literature tutor. The reader has selected a passage ` +
	`from a public-domain text and wants to understand it. Explain the passage in plain modern ` +
	`English: paraphrase it, unpack archaic words and figures of speech, and use the structural ` +
	`context you are given (act, scene, speaker, who is on stage) to situate it. Keep the ` +
	`explanation under three short paragraphs.`

// ErrBusy is returned when the concurrency or rate budget for explanation
// calls is exhausted.
var ErrBusy = errors.New("explanation service is busy")

// Explainer turns an extracted passage context into an LLM explanation.
// Calls are bounded by a concurrency semaphore and a per-minute rate limit so
// one reader hammering the endpoint cannot drain the API budget.
type Explainer struct {
	provider *Provider
	sem      *semaphore.Weighted
	limiter  *rate.Limiter
}

// NewExplainer creates an Explainer around provider.
func NewExplainer(provider *Provider, concurrency int, ratePerMin int) *Explainer {
	if concurrency <= 0 {
		concurrency = 1
	}
	if ratePerMin <= 0 {
		ratePerMin = 1
	}
	return &Explainer{
		provider: provider,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMin)), ratePerMin),
	}
}

// Explain asks the model to explain the selected passage.
func (e *Explainer) Explain(ctx context.Context, meta *textengine.ContextMetadata) (string, error) {
	if !e.limiter.Allow() {
		return "", ErrBusy
	}
	if !e.sem.TryAcquire(1) {
		return "", ErrBusy
	}
	defer e.sem.Release(1)

	return e.provider.Chat(ctx, []Message{
		{Role: "system", Content: explainSystemPrompt},
		{Role: "user", Content: BuildPrompt(meta)},
	})
}

// BuildPrompt renders the context metadata as the user message. Sections with
// no extracted value are omitted rather than sent empty.
func BuildPrompt(meta *textengine.ContextMetadata) string {
	var b strings.Builder
	if meta.BookTitle != "" {
		fmt.Fprintf(&b, "Book: %s\n", meta.BookTitle)
	}
	if meta.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", meta.Author)
	}
	if meta.Act != "" {
		fmt.Fprintf(&b, "Act: %s\n", meta.Act)
	}
	if meta.Scene != "" {
		fmt.Fprintf(&b, "Scene: %s\n", meta.Scene)
	}
	if meta.Speaker != "" {
		fmt.Fprintf(&b, "Speaker: %s\n", meta.Speaker)
	}
	if len(meta.CharactersOnStage) > 0 {
		fmt.Fprintf(&b, "Characters on stage: %s\n", strings.Join(meta.CharactersOnStage, ", "))
	}
	if meta.BeforeContext != "" {
		fmt.Fprintf(&b, "\nText just before the selection:\n%s\n", meta.BeforeContext)
	}
	fmt.Fprintf(&b, "\nSelected passage:\n%s\n", meta.SelectedText)
	if meta.AfterContext != "" {
		fmt.Fprintf(&b, "\nText just after the selection:\n%s\n", meta.AfterContext)
	}
	return b.String()
}
