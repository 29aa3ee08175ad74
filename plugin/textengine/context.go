package textengine

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ContextMetadata is the bundle of structural facts attached to a selected
// passage before it is handed to the explanation service. Empty strings mean
// "not found"; extraction degrades instead of failing.
type ContextMetadata struct {
	BookTitle         string   `json:"bookTitle"`
	Author            string   `json:"author"`
	Act               string   `json:"act,omitempty"`
	Scene             string   `json:"scene,omitempty"`
	Speaker           string   `json:"speaker,omitempty"`
	CharactersOnStage []string `json:"charactersOnStage,omitempty"`
	SelectedText      string   `json:"selectedText"`
	BeforeContext     string   `json:"beforeContext"`
	AfterContext      string   `json:"afterContext"`
}

const (
	// Scan windows around the selection. Only the trailing/leading
	// contextKeep bytes of each end up in the metadata.
	beforeWindow = 1000
	afterWindow  = 500
	contextKeep  = 200
)

var (
	actPattern   = regexp.MustCompile(`(?i)\bACT\s+([IVXLCDM]+|\d+)\b`)
	scenePattern = regexp.MustCompile(`(?i)\bSCENE\s+([IVXLCDM]+|\d+)\b`)

	// Dramatic speaker label: a newline, an all-caps name of two or more
	// letters (spaces, ampersands and apostrophes allowed), then a period.
	speakerPattern = regexp.MustCompile(`\n([A-Z][A-Z &']+)\.`)

	stageDirectionPattern = regexp.MustCompile(`\[[^\]]*\]`)

	// Entrances and exits, captured with the rest of their line.
	entrancePattern = regexp.MustCompile(`(?m)\b(Enter|Exeunt|Exit)\b[ \t]*([^\n]*)`)

	nameSplitPattern = regexp.MustCompile(`(?i)\s+and\s+|,`)
)

// genericRoles are stage-direction nouns that name a function rather than a
// character; they churn constantly and are excluded from presence tracking.
var genericRoles = map[string]struct{}{
	"SERVANT":    {},
	"SERVANTS":   {},
	"PAGE":       {},
	"PAGES":      {},
	"ATTENDANT":  {},
	"ATTENDANTS": {},
	"OTHERS":     {},
	"ALL":        {},
}

// Extract derives structural context for a located span. Act and scene are
// searched from the document start through the end of the selection (markers
// can be arbitrarily far back); the speaker only within the preceding window.
// A span outside the document yields metadata with just the title and author.
func Extract(span Span, doc *Document, bookTitle, author string) ContextMetadata {
	meta := ContextMetadata{BookTitle: bookTitle, Author: author}
	if !doc.Valid(span) {
		return meta
	}

	meta.SelectedText = doc.Slice(span)

	before := doc.Window(span.Start, beforeWindow, true)
	after := doc.Window(span.End(), afterWindow, false)
	meta.BeforeContext = tail(before, contextKeep)
	meta.AfterContext = head(after, contextKeep)

	upToEnd := doc.text[:doc.clamp(span.End())]
	meta.Act = lastNumberedMarker(actPattern, upToEnd)
	meta.Scene = lastNumberedMarker(scenePattern, upToEnd)
	meta.Speaker = lastSpeaker(before)
	meta.CharactersOnStage = charactersOnStage(doc.text[:doc.clamp(span.Start)])

	return meta
}

// lastNumberedMarker returns the numeral of the highest-offset match. Acts and
// scenes increase monotonically through a play, so the most recent marker
// before the selection is the current one.
func lastNumberedMarker(re *regexp.Regexp, text string) string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// lastSpeaker finds the most recent speaker label in the window before the
// selection. Bracketed stage directions are stripped from the captured name;
// leftovers that still look like formatting artifacts are rejected.
func lastSpeaker(before string) string {
	matches := speakerPattern.FindAllStringSubmatch(before, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		name := stageDirectionPattern.ReplaceAllString(matches[i][1], "")
		name = strings.TrimSpace(name)
		if len(name) < 2 || strings.Contains(name, "_") {
			continue
		}
		return name
	}
	return ""
}

// charactersOnStage replays every entrance and exit from the document start up
// to the selection and returns who is left, in order of first entrance.
func charactersOnStage(text string) []string {
	var order []string
	present := map[string]bool{}

	add := func(name string) {
		if _, generic := genericRoles[name]; generic {
			return
		}
		if _, seen := present[name]; !seen {
			order = append(order, name)
		}
		present[name] = true
	}
	remove := func(name string) {
		if _, seen := present[name]; seen {
			present[name] = false
		}
	}

	for _, m := range entrancePattern.FindAllStringSubmatch(text, -1) {
		keyword, rest := m[1], m[2]
		switch keyword {
		case "Enter":
			for _, name := range splitNames(rest) {
				add(name)
			}
		case "Exit":
			for _, name := range splitNames(rest) {
				remove(name)
			}
		case "Exeunt":
			if containsWordAll(rest) {
				present = map[string]bool{}
				order = nil
				continue
			}
			for _, name := range splitNames(rest) {
				remove(name)
			}
		}
	}

	var out []string
	for _, name := range order {
		if present[name] {
			out = append(out, name)
		}
	}
	return out
}

func splitNames(rest string) []string {
	rest = stageDirectionPattern.ReplaceAllString(rest, "")
	var names []string
	for _, part := range nameSplitPattern.Split(rest, -1) {
		name := strings.ToUpper(strings.Trim(part, " \t."))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

var allWordPattern = regexp.MustCompile(`(?i)\ball\b`)

func containsWordAll(s string) bool {
	return allWordPattern.MatchString(s)
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
