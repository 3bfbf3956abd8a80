// Package server hosts the HTTP server wiring the store, the content
// service and the ranking services together.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/openlens/trustfeed/internal/profile"
	"github.com/openlens/trustfeed/plugin/content"
	"github.com/openlens/trustfeed/server/events"
	apiv1 "github.com/openlens/trustfeed/server/router/api/v1"
	"github.com/openlens/trustfeed/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	content    *content.CachingService
	sink       *events.AsyncSink
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	if profile.GatewayURL == "" {
		return nil, errors.New("content gateway url is required")
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())

	gateway := content.NewHTTPGateway(profile.GatewayURL, profile.FetchRatePerSec, profile.FetchTimeout)
	contentService := content.NewCachingService(gateway, 0)
	sink := events.NewAsyncSink(events.LogSink{}, 256)

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
		content:    contentService,
		sink:       sink,
	}

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, store, contentService, sink)
	apiV1Service.RegisterRoutes(echoServer)

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	s.sink.Close()
	s.content.Close()
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}
