// Package v1 implements the JSON reader API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/folio-reader/folio/internal/profile"
	"github.com/folio-reader/folio/server/ai"
	"github.com/folio-reader/folio/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	// Explainer is nil when no AI provider is configured; the explain
	// endpoint answers 503 in that case.
	Explainer *ai.Explainer
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) (*APIV1Service, error) {
	service := &APIV1Service{
		Profile: profile,
		Store:   store,
	}

	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(&ai.Config{
			BaseURL:   profile.AIBaseURL,
			APIKey:    profile.AIAPIKey,
			ChatModel: profile.AIChatModel,
		})
		if err != nil {
			return nil, err
		}
		service.Explainer = ai.NewExplainer(provider, profile.ExplainConcurrency, profile.ExplainRatePerMin)
	}

	return service, nil
}

// Register mounts all v1 routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/documents", s.CreateDocument)
	g.GET("/documents", s.ListDocuments)
	g.GET("/documents/:uid", s.GetDocument)
	g.DELETE("/documents/:uid", s.DeleteDocument)

	g.POST("/documents/:uid/selection", s.ResolveSelection)
	g.POST("/documents/:uid/context", s.ExtractContext)
	g.POST("/documents/:uid/explain", s.ExplainSelection)

	g.GET("/documents/:uid/search", s.SearchDocument)
	g.GET("/documents/:uid/highlight", s.RenderHighlights)

	g.GET("/documents/:uid/bookmark", s.GetBookmark)
	g.PUT("/documents/:uid/bookmark", s.UpsertBookmark)

	g.POST("/sessions", s.CreateSession)
	g.GET("/sessions/:uid", s.GetSession)
	g.POST("/sessions/:uid/navigate", s.NavigateSession)
}
