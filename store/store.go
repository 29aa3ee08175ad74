// Package store provides database access to all raw objects.
package store

import (
	"context"
	"time"

	"github.com/folio-reader/folio/internal/profile"
	"github.com/folio-reader/folio/store/cache"
)

// Store provides database access to documents, bookmarks and reader sessions.
// Document reads go through an in-memory cache with a freshness window so a
// remounted reader does not refetch the full book text.
type Store struct {
	profile *profile.Profile
	driver  Driver

	documentCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		documentCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        64, // full book texts are large; keep the window small
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.documentCache.Close()
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

func (s *Store) CreateDocument(ctx context.Context, create *Document) (*Document, error) {
	doc, err := s.driver.CreateDocument(ctx, create)
	if err != nil {
		return nil, err
	}
	s.documentCache.Set(ctx, doc.UID, doc)
	return doc, nil
}

// GetDocument returns one document with its full text, served from the cache
// when fresh.
func (s *Store) GetDocument(ctx context.Context, uid string) (*Document, error) {
	if v, ok := s.documentCache.Get(ctx, uid); ok {
		if doc, ok := v.(*Document); ok {
			return doc, nil
		}
	}

	doc, err := s.driver.GetDocument(ctx, &FindDocument{UID: &uid})
	if err != nil {
		return nil, err
	}
	if doc != nil {
		s.documentCache.Set(ctx, uid, doc)
	}
	return doc, nil
}

// ListDocuments returns document metadata without text bodies.
func (s *Store) ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, find)
}

func (s *Store) DeleteDocument(ctx context.Context, delete *DeleteDocument) error {
	if err := s.driver.DeleteDocument(ctx, delete); err != nil {
		return err
	}
	s.documentCache.Delete(ctx, delete.UID)
	return nil
}

func (s *Store) UpsertBookmark(ctx context.Context, upsert *Bookmark) (*Bookmark, error) {
	return s.driver.UpsertBookmark(ctx, upsert)
}

func (s *Store) GetBookmark(ctx context.Context, find *FindBookmark) (*Bookmark, error) {
	return s.driver.GetBookmark(ctx, find)
}

func (s *Store) CreateReaderSession(ctx context.Context, create *ReaderSession) (*ReaderSession, error) {
	return s.driver.CreateReaderSession(ctx, create)
}

func (s *Store) GetReaderSession(ctx context.Context, find *FindReaderSession) (*ReaderSession, error) {
	return s.driver.GetReaderSession(ctx, find)
}

func (s *Store) UpdateReaderSession(ctx context.Context, update *UpdateReaderSession) (*ReaderSession, error) {
	return s.driver.UpdateReaderSession(ctx, update)
}

func (s *Store) DeleteExpiredReaderSessions(ctx context.Context, before time.Time) (int64, error) {
	return s.driver.DeleteExpiredReaderSessions(ctx, before.Unix())
}
