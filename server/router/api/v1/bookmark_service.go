package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/folio-reader/folio/store"
)

// Bookmark is the wire form of the reader's saved position.
type Bookmark struct {
	DocumentUID      string  `json:"documentUid"`
	ScrollPercentage float64 `json:"scrollPercentage"`
	UpdatedTs        int64   `json:"updatedTs"`
}

type UpsertBookmarkRequest struct {
	ScrollPercentage float64 `json:"scrollPercentage"`
}

// GetBookmark returns the saved position for a document, or percentage zero
// when nothing has been saved yet.
// GET /api/v1/documents/:uid/bookmark
func (s *APIV1Service) GetBookmark(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	bookmark, err := s.Store.GetBookmark(ctx, &store.FindBookmark{DocumentUID: &uid})
	if err != nil {
		slog.Error("failed to get bookmark", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get bookmark"})
	}
	if bookmark == nil {
		return c.JSON(http.StatusOK, Bookmark{DocumentUID: uid})
	}
	return c.JSON(http.StatusOK, convertBookmark(bookmark))
}

// UpsertBookmark saves the reader's position. Last writer wins.
// PUT /api/v1/documents/:uid/bookmark
func (s *APIV1Service) UpsertBookmark(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpsertBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if req.ScrollPercentage < 0 || req.ScrollPercentage > 100 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "scrollPercentage must be in [0, 100]"})
	}

	stored, _, err := s.loadStoredDocument(c)
	if err != nil {
		return err
	}

	bookmark, err := s.Store.UpsertBookmark(ctx, &store.Bookmark{
		DocumentUID:      stored.UID,
		ScrollPercentage: req.ScrollPercentage,
	})
	if err != nil {
		slog.Error("failed to upsert bookmark", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save bookmark"})
	}
	return c.JSON(http.StatusOK, convertBookmark(bookmark))
}

func convertBookmark(bookmark *store.Bookmark) Bookmark {
	return Bookmark{
		DocumentUID:      bookmark.DocumentUID,
		ScrollPercentage: bookmark.ScrollPercentage,
		UpdatedTs:        bookmark.UpdatedTs,
	}
}
