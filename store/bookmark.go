package store

// Bookmark is the reader's position in one document, as a scroll percentage.
// Writes are last-writer-wins; the client debounces scroll events before
// calling, the store just records the latest value.
type Bookmark struct {
	ID          int32
	DocumentUID string
	// ScrollPercentage is in [0, 100].
	ScrollPercentage float64
	UpdatedTs        int64
}

type FindBookmark struct {
	DocumentUID *string
}
