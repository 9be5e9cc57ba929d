package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/export"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

// TripPlanner computes the view-models served by the API.
type TripPlanner interface {
	Regions() []string
	TripFor(region, date string) (domain.Trip, error)
	Weather(trip domain.Trip) (planner.WeatherView, error)
	Packing(trip domain.Trip) (planner.PackingView, error)
	Alerts(trip domain.Trip) planner.AlertsView
	Sites(trip domain.Trip) planner.SitesView
	Overview(trip domain.Trip) planner.Overview
	SiteDetail(siteID string, date time.Time) (planner.SiteDetail, error)
}

// Favorites manages the saved-sites list.
type Favorites interface {
	List(ctx context.Context) ([]domain.FavoriteSite, error)
	Add(ctx context.Context, id string) (domain.FavoriteSite, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// TripExporter renders a site detail as a PDF.
type TripExporter interface {
	Export(ctx context.Context, detail planner.SiteDetail) (export.Document, error)
}

// AllReady reports ready only when every checker does. The first failure wins.
type AllReady []sharedobs.ReadinessChecker

func (a AllReady) CheckReadiness(ctx context.Context) error {
	for _, c := range a {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Deps are the services behind the API routes. Places may be nil when place
// search is disabled.
type Deps struct {
	Planner   TripPlanner
	Favorites Favorites
	Exporter  TripExporter
	Places    domain.PlaceSearcher
	Ready     sharedobs.ReadinessChecker
}

// Server exposes the trip planner API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/sites", s.handleSites)
	mux.HandleFunc("GET /api/sites/{id}", s.handleSiteDetail)
	mux.HandleFunc("GET /api/sites/{id}/export.pdf", s.handleExport)
	mux.HandleFunc("GET /api/places", s.handlePlaces)
	mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	mux.HandleFunc("PUT /api/favorites/{id}", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.handleRemoveFavorite)
	mux.HandleFunc("DELETE /api/favorites", s.handleClearFavorites)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
