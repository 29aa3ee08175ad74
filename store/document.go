package store

// Document is one ingested book or play. The text column is the canonical
// plain-text form every span refers to; it never changes after ingest, a
// re-upload creates a new document.
type Document struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64

	Title  string
	Author string
	Format string
	Text   string
	Size   int64
}

type FindDocument struct {
	ID     *int32
	UID    *string
	Title  *string
	Author *string

	// ExcludeText omits the text body (document listings).
	ExcludeText bool
}

type DeleteDocument struct {
	UID string
}
