package store

// ReaderSession is the session-scoped reader state that must survive
// component remounts: the in-flight search query and the current match index.
// It deliberately stores no spans — document text can change between
// uploads, so offsets are recomputed from the query on restore.
type ReaderSession struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64

	DocumentUID  string
	SearchQuery  string
	CurrentIndex int32

	// SelectionText is the last committed selection, stored as text rather
	// than offsets for the same reason as the query.
	SelectionText string
}

type FindReaderSession struct {
	UID         *string
	DocumentUID *string
}

type UpdateReaderSession struct {
	UID string

	SearchQuery   *string
	CurrentIndex  *int32
	SelectionText *string
}
