package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/folio-reader/folio/plugin/textload"
	"github.com/folio-reader/folio/store"
)

// Document is the wire form of a stored document. Text is only populated when
// the caller asked for it.
type Document struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Format    string `json:"format"`
	Size      int64  `json:"size"`
	CreatedTs int64  `json:"createdTs"`
	Text      string `json:"text,omitempty"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// CreateDocument ingests a book: converts the uploaded content to canonical
// plain text and stores it.
// POST /api/v1/documents
func (s *APIV1Service) CreateDocument(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	format := textload.DetectFormat(req.Format)
	text, err := textload.Load([]byte(req.Content), format)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	doc, err := s.Store.CreateDocument(ctx, &store.Document{
		UID:    shortuuid.New(),
		Title:  req.Title,
		Author: req.Author,
		Format: string(format),
		Text:   text,
		Size:   int64(len(text)),
	})
	if err != nil {
		slog.Error("failed to create document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create document"})
	}

	slog.Info("document ingested", "uid", doc.UID, "title", doc.Title, "size", doc.Size)
	return c.JSON(http.StatusOK, convertDocument(doc, false))
}

// ListDocuments returns document metadata without text bodies.
// GET /api/v1/documents
func (s *APIV1Service) ListDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := s.Store.ListDocuments(ctx, &store.FindDocument{ExcludeText: true})
	if err != nil {
		slog.Error("failed to list documents", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list documents"})
	}

	resp := make([]*Document, 0, len(list))
	for _, doc := range list {
		resp = append(resp, convertDocument(doc, false))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetDocument returns one document; ?text=1 includes the full text.
// GET /api/v1/documents/:uid
func (s *APIV1Service) GetDocument(c echo.Context) error {
	ctx := c.Request().Context()

	doc, err := s.Store.GetDocument(ctx, c.Param("uid"))
	if err != nil {
		slog.Error("failed to get document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get document"})
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}

	withText := c.QueryParam("text") == "1"
	return c.JSON(http.StatusOK, convertDocument(doc, withText))
}

// DeleteDocument removes a document along with its bookmark and sessions.
// DELETE /api/v1/documents/:uid
func (s *APIV1Service) DeleteDocument(c echo.Context) error {
	ctx := c.Request().Context()

	if err := s.Store.DeleteDocument(ctx, &store.DeleteDocument{UID: c.Param("uid")}); err != nil {
		slog.Error("failed to delete document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete document"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

func convertDocument(doc *store.Document, withText bool) *Document {
	resp := &Document{
		UID:       doc.UID,
		Title:     doc.Title,
		Author:    doc.Author,
		Format:    doc.Format,
		Size:      doc.Size,
		CreatedTs: doc.CreatedTs,
	}
	if withText {
		resp.Text = doc.Text
	}
	return resp
}
