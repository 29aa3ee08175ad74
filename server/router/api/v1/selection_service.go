package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/folio-reader/folio/plugin/textengine"
	"github.com/folio-reader/folio/server/ai"
	"github.com/folio-reader/folio/store"
)

type ResolveSelectionRequest struct {
	// Candidate is the text the client thinks was selected.
	Candidate string `json:"candidate"`
	// Offset, when set, resolves a caret position instead of a text match.
	Offset *int `json:"offset,omitempty"`
}

type ResolveSelectionResponse struct {
	Found        bool             `json:"found"`
	Span         *textengine.Span `json:"span,omitempty"`
	SelectedText string           `json:"selectedText,omitempty"`
}

// ResolveSelection maps a selection candidate onto the canonical document
// text. A missed locate is a normal outcome, not an error: the response is
// 200 with found=false.
// POST /api/v1/documents/:uid/selection
func (s *APIV1Service) ResolveSelection(c echo.Context) error {
	var req ResolveSelectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	doc, err := s.loadDocument(c)
	if err != nil {
		return err
	}

	var span textengine.Span
	var found bool
	if req.Offset != nil {
		span, found = textengine.LocatePoint(*req.Offset, doc)
	} else {
		span, found = textengine.Locate(req.Candidate, doc)
	}
	if !found {
		return c.JSON(http.StatusOK, ResolveSelectionResponse{Found: false})
	}

	selectedText := doc.Slice(span)
	if sessionUID := c.QueryParam("session"); sessionUID != "" {
		if _, err := s.Store.UpdateReaderSession(c.Request().Context(), &store.UpdateReaderSession{
			UID:           sessionUID,
			SelectionText: &selectedText,
		}); err != nil {
			slog.Error("failed to persist selection", "session", sessionUID, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist selection"})
		}
	}

	return c.JSON(http.StatusOK, ResolveSelectionResponse{
		Found:        true,
		Span:         &span,
		SelectedText: selectedText,
	})
}

type ExtractContextRequest struct {
	Candidate string           `json:"candidate,omitempty"`
	Span      *textengine.Span `json:"span,omitempty"`
}

type ExtractContextResponse struct {
	Found   bool                        `json:"found"`
	Context *textengine.ContextMetadata `json:"context,omitempty"`
}

// ExtractContext builds the structural context for a selected passage.
// POST /api/v1/documents/:uid/context
func (s *APIV1Service) ExtractContext(c echo.Context) error {
	var req ExtractContextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	stored, doc, err := s.loadStoredDocument(c)
	if err != nil {
		return err
	}

	span, found := s.resolveSpan(&req, doc)
	if !found {
		return c.JSON(http.StatusOK, ExtractContextResponse{Found: false})
	}

	meta := textengine.Extract(span, doc, stored.Title, stored.Author)
	return c.JSON(http.StatusOK, ExtractContextResponse{Found: true, Context: &meta})
}

type ExplainSelectionResponse struct {
	Explanation string                      `json:"explanation"`
	Context     *textengine.ContextMetadata `json:"context"`
}

// ExplainSelection assembles the passage context server-side and asks the
// configured LLM for an explanation.
// POST /api/v1/documents/:uid/explain
func (s *APIV1Service) ExplainSelection(c echo.Context) error {
	ctx := c.Request().Context()

	if s.Explainer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "explanation service is not configured"})
	}

	var req ExtractContextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	stored, doc, err := s.loadStoredDocument(c)
	if err != nil {
		return err
	}

	span, found := s.resolveSpan(&req, doc)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "selection not found in document"})
	}

	meta := textengine.Extract(span, doc, stored.Title, stored.Author)
	explanation, err := s.Explainer.Explain(ctx, &meta)
	if err != nil {
		if errors.Is(err, ai.ErrBusy) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "explanation service is busy"})
		}
		slog.Error("failed to explain selection", "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "explanation service failed"})
	}

	return c.JSON(http.StatusOK, ExplainSelectionResponse{
		Explanation: explanation,
		Context:     &meta,
	})
}

// resolveSpan turns an explicit span or a candidate string into a validated
// span within doc.
func (s *APIV1Service) resolveSpan(req *ExtractContextRequest, doc *textengine.Document) (textengine.Span, bool) {
	if req.Span != nil {
		if doc.Valid(*req.Span) && req.Span.Length > 0 {
			return *req.Span, true
		}
		return textengine.Span{}, false
	}
	return textengine.Locate(req.Candidate, doc)
}

// loadStoredDocument fetches the document for the :uid path param and wraps
// its text. A non-nil error is an *echo.HTTPError ready to be returned from
// the handler.
func (s *APIV1Service) loadStoredDocument(c echo.Context) (*store.Document, *textengine.Document, error) {
	ctx := c.Request().Context()

	stored, err := s.Store.GetDocument(ctx, c.Param("uid"))
	if err != nil {
		slog.Error("failed to get document", "error", err)
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to get document")
	}
	if stored == nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return stored, textengine.NewDocument(stored.Text), nil
}

func (s *APIV1Service) loadDocument(c echo.Context) (*textengine.Document, error) {
	_, doc, err := s.loadStoredDocument(c)
	return doc, err
}
