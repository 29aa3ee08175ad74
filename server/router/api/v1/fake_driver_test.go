package v1

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/folio-reader/folio/store"
)

// fakeDriver is an in-memory store.Driver for handler tests.
type fakeDriver struct {
	mu        sync.Mutex
	nextID    int32
	documents map[string]*store.Document
	bookmarks map[string]*store.Bookmark
	sessions  map[string]*store.ReaderSession
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		documents: map[string]*store.Document{},
		bookmarks: map[string]*store.Bookmark{},
		sessions:  map[string]*store.ReaderSession{},
	}
}

func (f *fakeDriver) GetDB() *sql.DB { return nil }
func (f *fakeDriver) Close() error   { return nil }

func (f *fakeDriver) IsInitialized(ctx context.Context) (bool, error) { return true, nil }

func (f *fakeDriver) CreateDocument(ctx context.Context, create *store.Document) (*store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	create.ID = f.nextID
	create.CreatedTs = time.Now().Unix()
	create.UpdatedTs = create.CreatedTs
	f.documents[create.UID] = create
	return create, nil
}

func (f *fakeDriver) GetDocument(ctx context.Context, find *store.FindDocument) (*store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if find.UID != nil {
		return f.documents[*find.UID], nil
	}
	return nil, nil
}

func (f *fakeDriver) ListDocuments(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]*store.Document, 0, len(f.documents))
	for _, doc := range f.documents {
		copied := *doc
		if find.ExcludeText {
			copied.Text = ""
		}
		list = append(list, &copied)
	}
	return list, nil
}

func (f *fakeDriver) DeleteDocument(ctx context.Context, del *store.DeleteDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for uid, session := range f.sessions {
		if session.DocumentUID == del.UID {
			delete(f.sessions, uid)
		}
	}
	delete(f.bookmarks, del.UID)
	delete(f.documents, del.UID)
	return nil
}

func (f *fakeDriver) UpsertBookmark(ctx context.Context, upsert *store.Bookmark) (*store.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	upsert.UpdatedTs = time.Now().Unix()
	f.bookmarks[upsert.DocumentUID] = upsert
	return upsert, nil
}

func (f *fakeDriver) GetBookmark(ctx context.Context, find *store.FindBookmark) (*store.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if find.DocumentUID != nil {
		return f.bookmarks[*find.DocumentUID], nil
	}
	return nil, nil
}

func (f *fakeDriver) CreateReaderSession(ctx context.Context, create *store.ReaderSession) (*store.ReaderSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	create.ID = f.nextID
	create.CreatedTs = time.Now().Unix()
	create.UpdatedTs = create.CreatedTs
	f.sessions[create.UID] = create
	return create, nil
}

func (f *fakeDriver) GetReaderSession(ctx context.Context, find *store.FindReaderSession) (*store.ReaderSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if find.UID != nil {
		return f.sessions[*find.UID], nil
	}
	if find.DocumentUID != nil {
		for _, session := range f.sessions {
			if session.DocumentUID == *find.DocumentUID {
				return session, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeDriver) UpdateReaderSession(ctx context.Context, update *store.UpdateReaderSession) (*store.ReaderSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[update.UID]
	if !ok {
		return nil, nil
	}
	if update.SearchQuery != nil {
		session.SearchQuery = *update.SearchQuery
	}
	if update.CurrentIndex != nil {
		session.CurrentIndex = *update.CurrentIndex
	}
	if update.SelectionText != nil {
		session.SelectionText = *update.SelectionText
	}
	session.UpdatedTs = time.Now().Unix()
	return session, nil
}

func (f *fakeDriver) DeleteExpiredReaderSessions(ctx context.Context, beforeTs int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for uid, session := range f.sessions {
		if session.UpdatedTs < beforeTs {
			delete(f.sessions, uid)
			n++
		}
	}
	return n, nil
}
