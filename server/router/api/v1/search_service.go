package v1

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/folio-reader/folio/plugin/textengine"
	"github.com/folio-reader/folio/store"
)

type SearchResponse struct {
	Query        string            `json:"query"`
	Total        int               `json:"total"`
	CurrentIndex int               `json:"currentIndex"`
	Matches      []textengine.Span `json:"matches"`
}

// SearchDocument runs a punctuation-tolerant search over the document. When a
// session is named, the query and a reset index are persisted in one update so
// a later restore never sees the old matches with the new query.
// GET /api/v1/documents/:uid/search?q=&session=
func (s *APIV1Service) SearchDocument(c echo.Context) error {
	ctx := c.Request().Context()

	_, doc, err := s.loadStoredDocument(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	matches := textengine.Search(query, doc)
	if matches == nil {
		matches = []textengine.Span{}
	}

	currentIndex := -1
	if len(matches) > 0 {
		currentIndex = 0
	}

	if sessionUID := c.QueryParam("session"); sessionUID != "" {
		idx := int32(currentIndex)
		if _, err := s.Store.UpdateReaderSession(ctx, &store.UpdateReaderSession{
			UID:          sessionUID,
			SearchQuery:  &query,
			CurrentIndex: &idx,
		}); err != nil {
			slog.Error("failed to persist search state", "session", sessionUID, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist search state"})
		}
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Query:        query,
		Total:        len(matches),
		CurrentIndex: currentIndex,
		Matches:      matches,
	})
}

// ReaderSession is the wire form of a stored reader session.
type ReaderSession struct {
	UID           string `json:"uid"`
	DocumentUID   string `json:"documentUid"`
	SearchQuery   string `json:"searchQuery"`
	CurrentIndex  int32  `json:"currentIndex"`
	SelectionText string `json:"selectionText"`
	UpdatedTs     int64  `json:"updatedTs"`
}

type CreateSessionRequest struct {
	DocumentUID string `json:"documentUid"`
}

// CreateSession opens a reader session for one document.
// POST /api/v1/sessions
func (s *APIV1Service) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	doc, err := s.Store.GetDocument(ctx, req.DocumentUID)
	if err != nil {
		slog.Error("failed to get document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get document"})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}

	session, err := s.Store.CreateReaderSession(ctx, &store.ReaderSession{
		UID:          uuid.NewString(),
		DocumentUID:  req.DocumentUID,
		CurrentIndex: -1,
	})
	if err != nil {
		slog.Error("failed to create reader session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	return c.JSON(http.StatusOK, convertSession(session))
}

// GetSession fetches a reader session.
// GET /api/v1/sessions/:uid
func (s *APIV1Service) GetSession(c echo.Context) error {
	session, err := s.loadSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertSession(session))
}

type NavigateRequest struct {
	Direction textengine.Direction `json:"direction"`
}

type NavigateResponse struct {
	CurrentIndex int              `json:"currentIndex"`
	Total        int              `json:"total"`
	Span         *textengine.Span `json:"span,omitempty"`
}

// NavigateSession moves the current match pointer. Matches are recomputed
// from the persisted query because spans are never stored.
// POST /api/v1/sessions/:uid/navigate
func (s *APIV1Service) NavigateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req NavigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.Direction != textengine.DirectionNext && req.Direction != textengine.DirectionPrev {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "direction must be next or prev"})
	}

	session, err := s.loadSession(c)
	if err != nil {
		return err
	}

	stored, err := s.Store.GetDocument(ctx, session.DocumentUID)
	if err != nil || stored == nil {
		slog.Error("failed to get session document", "session", session.UID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get document"})
	}
	doc := textengine.NewDocument(stored.Text)

	matches := textengine.Search(session.SearchQuery, doc)
	newIndex := textengine.Navigate(int(session.CurrentIndex), len(matches), req.Direction)

	idx := int32(newIndex)
	if _, err := s.Store.UpdateReaderSession(ctx, &store.UpdateReaderSession{
		UID:          session.UID,
		CurrentIndex: &idx,
	}); err != nil {
		slog.Error("failed to persist navigation", "session", session.UID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist navigation"})
	}

	resp := NavigateResponse{CurrentIndex: newIndex, Total: len(matches)}
	if newIndex >= 0 && newIndex < len(matches) {
		span := matches[newIndex]
		resp.Span = &span
	}
	return c.JSON(http.StatusOK, resp)
}

// RenderHighlights produces the segment list for the session's state. An
// active search wins over a stored selection.
// GET /api/v1/documents/:uid/highlight?session=
func (s *APIV1Service) RenderHighlights(c echo.Context) error {
	ctx := c.Request().Context()

	_, doc, err := s.loadStoredDocument(c)
	if err != nil {
		return err
	}

	var matches []textengine.Span
	currentIndex := -1
	var selection *textengine.Span

	if sessionUID := c.QueryParam("session"); sessionUID != "" {
		session, err := s.Store.GetReaderSession(ctx, &store.FindReaderSession{UID: &sessionUID})
		if err != nil {
			slog.Error("failed to get reader session", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get session"})
		}
		if session != nil {
			matches = textengine.Search(session.SearchQuery, doc)
			currentIndex = int(session.CurrentIndex)
			if span, found := textengine.Locate(session.SelectionText, doc); found {
				selection = &span
			}
		}
	}

	segments := textengine.Render(doc, matches, currentIndex, selection)
	return c.JSON(http.StatusOK, map[string]any{"segments": segments})
}

func (s *APIV1Service) loadSession(c echo.Context) (*store.ReaderSession, error) {
	ctx := c.Request().Context()

	uid := c.Param("uid")
	session, err := s.Store.GetReaderSession(ctx, &store.FindReaderSession{UID: &uid})
	if err != nil {
		slog.Error("failed to get reader session", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get session")
	}
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return session, nil
}

func convertSession(session *store.ReaderSession) *ReaderSession {
	return &ReaderSession{
		UID:           session.UID,
		DocumentUID:   session.DocumentUID,
		SearchQuery:   session.SearchQuery,
		CurrentIndex:  session.CurrentIndex,
		SelectionText: session.SelectionText,
		UpdatedTs:     session.UpdatedTs,
	}
}
