// Package v1 exposes the JSON API: identity, edge and lens mutations,
// feed event ingestion, ranked feed reads and on-demand trust
// computation.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/openlens/trustfeed/internal/errors"
	"github.com/openlens/trustfeed/internal/profile"
	"github.com/openlens/trustfeed/plugin/content"
	"github.com/openlens/trustfeed/server/events"
	"github.com/openlens/trustfeed/server/feedrank"
	"github.com/openlens/trustfeed/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Ranker  *feedrank.Ranker

	sink *events.AsyncSink
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, contentService content.Service, sink *events.AsyncSink) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Ranker:  feedrank.NewRanker(store, contentService),
		sink:    sink,
	}
}

// RegisterRoutes mounts all v1 endpoints on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")

	g.POST("/identities", s.registerIdentity)
	g.GET("/identities", s.listIdentities)

	g.POST("/edges", s.upsertEdge)
	g.GET("/edges", s.listEdges)
	g.DELETE("/edges", s.deleteEdge)

	g.POST("/lenses", s.createLens)
	g.GET("/lenses", s.listLenses)
	g.DELETE("/lenses/:id", s.deleteLens)

	g.POST("/feed/events", s.ingestFeedEvents)
	g.GET("/feed", s.getFeed)
	g.GET("/feed/rss", s.getFeedRSS)

	g.POST("/trust/compute", s.computeTrust)
}

func (s *APIV1Service) publish(eventType string, payload map[string]any) {
	if s.sink != nil {
		s.sink.Publish(eventType, payload)
	}
}

// errorResponse maps the error taxonomy onto HTTP statuses. Validation
// failures are the client's fault; an unreachable content backend is a
// bad gateway; everything else is internal.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	code := apperrors.GetCodeFromError(err, "INTERNAL")
	switch code {
	case apperrors.ErrCodeInvalidWeight,
		apperrors.ErrCodeInvalidLens,
		apperrors.ErrCodeInvalidCid,
		apperrors.ErrCodeInvalidArgument,
		apperrors.ErrCodeParseError:
		status = http.StatusBadRequest
	case apperrors.ErrCodeLensNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeFetchError:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]any{
		"code":    code,
		"message": err.Error(),
	})
}
