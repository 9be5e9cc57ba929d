package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

var errMissingRegion = errors.New("region is required")

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]string{"regions": s.deps.Planner.Regions()})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trip(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.deps.Planner.Overview(trip))
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trip(w, r)
	if !ok {
		return
	}
	view, err := s.deps.Planner.Weather(trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trip(w, r)
	if !ok {
		return
	}
	view, err := s.deps.Planner.Packing(trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trip(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.deps.Planner.Alerts(trip))
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.trip(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.deps.Planner.Sites(trip))
}

func (s *Server) handleSiteDetail(w http.ResponseWriter, r *http.Request) {
	trip, err := s.deps.Planner.TripFor("", r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.deps.Planner.SiteDetail(r.PathValue("id"), trip.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	trip, err := s.deps.Planner.TripFor("", r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail, err := s.deps.Planner.SiteDetail(r.PathValue("id"), trip.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.deps.Exporter.Export(r.Context(), detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		s.logger.Warn("write pdf response", "error", err)
	}
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	places, err := domain.SearchPlaces(r.Context(), s.deps.Places, r.URL.Query().Get("q"), s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]domain.Place{"places": places})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.deps.Favorites.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]domain.FavoriteSite{"favorites": favs})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	fav, err := s.deps.Favorites.Add(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Favorites.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Favorites.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// trip parses the region and date query parameters, writing a 400 on failure.
func (s *Server) trip(w http.ResponseWriter, r *http.Request) (domain.Trip, bool) {
	q := r.URL.Query()
	region := strings.TrimSpace(q.Get("region"))
	if region == "" {
		s.writeError(w, r, errMissingRegion)
		return domain.Trip{}, false
	}
	trip, err := s.deps.Planner.TripFor(region, q.Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return domain.Trip{}, false
	}
	return trip, true
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, errMissingRegion):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSearchDisabled):
		status = http.StatusServiceUnavailable
	case domain.IsExternalCallFailure(err):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, errorResponse{Error: err.Error()})
}
