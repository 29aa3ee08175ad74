package textengine

// Segment is one run of document text with its highlight state. A render pass
// produces segments covering the whole document in order.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
	IsCurrent   bool   `json:"isCurrent,omitempty"`
}

// Render splits the document into presentation-ready segments. Search matches
// take priority over a selection: once a search is in progress it is the
// active task, so a non-empty match list is rendered (with the currentIndex-th
// match marked current) and the selection is ignored. With no matches, a
// selection renders as a single highlighted span. With neither, the whole
// document is one plain segment.
//
// Render is a full pass over the document every time; document sizes are
// bounded by a single book, so re-rendering beats incremental bookkeeping.
func Render(doc *Document, matches []Span, currentIndex int, selection *Span) []Segment {
	if len(matches) > 0 {
		return renderMatches(doc, matches, currentIndex)
	}
	if selection != nil && doc.Valid(*selection) && selection.Length > 0 {
		return renderSelection(doc, *selection)
	}
	return []Segment{{Text: doc.Text()}}
}

func renderMatches(doc *Document, matches []Span, currentIndex int) []Segment {
	segments := make([]Segment, 0, len(matches)*2+1)
	pos := 0
	for i, m := range matches {
		if !doc.Valid(m) || m.Start < pos {
			continue
		}
		if m.Start > pos {
			segments = append(segments, Segment{Text: doc.text[pos:m.Start]})
		}
		segments = append(segments, Segment{
			Text:        doc.Slice(m),
			Highlighted: true,
			IsCurrent:   i == currentIndex,
		})
		pos = m.End()
	}
	if pos < doc.Len() {
		segments = append(segments, Segment{Text: doc.text[pos:]})
	}
	return segments
}

func renderSelection(doc *Document, sel Span) []Segment {
	segments := make([]Segment, 0, 3)
	if sel.Start > 0 {
		segments = append(segments, Segment{Text: doc.text[:sel.Start]})
	}
	segments = append(segments, Segment{Text: doc.Slice(sel), Highlighted: true})
	if sel.End() < doc.Len() {
		segments = append(segments, Segment{Text: doc.text[sel.End():]})
	}
	return segments
}
