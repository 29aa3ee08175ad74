package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Document model related methods.
	CreateDocument(ctx context.Context, create *Document) (*Document, error)
	GetDocument(ctx context.Context, find *FindDocument) (*Document, error)
	ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error)
	DeleteDocument(ctx context.Context, delete *DeleteDocument) error

	// Bookmark model related methods.
	UpsertBookmark(ctx context.Context, upsert *Bookmark) (*Bookmark, error)
	GetBookmark(ctx context.Context, find *FindBookmark) (*Bookmark, error)

	// ReaderSession model related methods.
	CreateReaderSession(ctx context.Context, create *ReaderSession) (*ReaderSession, error)
	GetReaderSession(ctx context.Context, find *FindReaderSession) (*ReaderSession, error)
	UpdateReaderSession(ctx context.Context, update *UpdateReaderSession) (*ReaderSession, error)
	DeleteExpiredReaderSessions(ctx context.Context, beforeTs int64) (int64, error)
}
