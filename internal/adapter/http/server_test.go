package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/pachawayra-service/internal/adapter/http"
	"github.com/couchcryptid/pachawayra-service/internal/catalog"
	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/export"
	"github.com/couchcryptid/pachawayra-service/internal/favorites"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/pipeline"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

// --- stubs ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type stubExporter struct {
	err error
}

func (s *stubExporter) Export(_ context.Context, d planner.SiteDetail) (export.Document, error) {
	if s.err != nil {
		return export.Document{}, s.err
	}
	return export.Document{Filename: "pachawayra-" + d.Site.ID + ".pdf", Data: []byte("%PDF-1.3 stub")}, nil
}

type stubPlaces struct {
	places []domain.Place
	err    error
}

func (s *stubPlaces) SearchPlaces(_ context.Context, _ string) ([]domain.Place, error) {
	return s.places, s.err
}

var lima = time.FixedZone("PET", -5*60*60)

type fixture struct {
	deps httpadapter.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	clk := clockwork.NewFakeClockAt(time.Date(2026, time.July, 5, 12, 0, 0, 0, lima))

	cat, err := catalog.Open("", logger)
	require.NoError(t, err)

	return &fixture{deps: httpadapter.Deps{
		Planner:   planner.New(cat, clk, fixedRandom(0.5), lima, metrics),
		Favorites: favorites.NewService(favorites.NewMemoryStore(), cat, clk, pipeline.Discard{}, metrics, logger),
		Exporter:  &stubExporter{},
		Places:    &stubPlaces{places: []domain.Place{{Lat: -13.53, Lon: -71.97, DisplayName: "Cusco, Perú"}}},
		Ready:     &mockReadiness{},
	}}
}

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := httpadapter.NewServer(":0", f.deps, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])

	f.deps.Ready = &mockReadiness{err: fmt.Errorf("reference data has no regions")}
	rec = f.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "reference data has no regions", body["error"])
}

func TestReadyz_ActivityPipelineNotRunning(t *testing.T) {
	f := newFixture(t)
	activity := pipeline.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(), 10, time.Second, 10)
	f.deps.Ready = httpadapter.AllReady{&mockReadiness{}, activity}

	rec := f.do(t, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "activity pipeline is not running", decode[map[string]string](t, rec)["error"])
}

func TestAllReady(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, httpadapter.AllReady{}.CheckReadiness(ctx))
	assert.NoError(t, httpadapter.AllReady{&mockReadiness{}, &mockReadiness{}}.CheckReadiness(ctx))

	first := errors.New("catalog empty")
	err := httpadapter.AllReady{&mockReadiness{}, &mockReadiness{err: first}, &mockReadiness{err: errors.New("later")}}.CheckReadiness(ctx)
	assert.ErrorIs(t, err, first)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- planner views ---

func TestRegions(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/regions")

	require.Equal(t, http.StatusOK, rec.Code)
	regions := decode[map[string][]string](t, rec)["regions"]
	assert.Len(t, regions, 24)
	assert.Contains(t, regions, "Cusco")
}

func TestOverview(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/overview?region=Cusco&date=2026-07-20")

	require.Equal(t, http.StatusOK, rec.Code)
	ov := decode[planner.Overview](t, rec)
	assert.Equal(t, "Cusco", ov.Trip.Region)
	assert.Equal(t, "2026-07-20", ov.Trip.Date)
	assert.Equal(t, 15, ov.Trip.DaysAhead)
	require.NotNil(t, ov.Weather)
	assert.Empty(t, ov.Missing)
	assert.NotEmpty(t, ov.Sites.Cards)
}

func TestOverview_UnknownRegionReportsMissing(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/overview?region=Atlantis")

	require.Equal(t, http.StatusOK, rec.Code)
	ov := decode[planner.Overview](t, rec)
	assert.Nil(t, ov.Weather)
	assert.Equal(t, []string{planner.SectionWeather, planner.SectionSites, planner.SectionAlerts}, ov.Missing)
}

func TestTripRoutes_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		errMsg string
	}{
		{"missing region", "/api/weather", http.StatusBadRequest, "region is required"},
		{"malformed date", "/api/weather?region=Cusco&date=20-07-2026", http.StatusBadRequest, "invalid travel date"},
		{"unknown region weather", "/api/weather?region=Atlantis", http.StatusNotFound, "no data found"},
		{"unknown region packing", "/api/recommendations?region=Atlantis", http.StatusNotFound, "no data found"},
		{"unknown site", "/api/sites/999", http.StatusNotFound, "no data found"},
		{"site malformed date", "/api/sites/12?date=tomorrow", http.StatusBadRequest, "invalid travel date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newFixture(t).do(t, http.MethodGet, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.errMsg)
		})
	}
}

func TestWeatherAndRecommendations(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/weather?region=Lima&date=2026-07-05")
	require.Equal(t, http.StatusOK, rec.Code)
	w := decode[planner.WeatherView](t, rec)
	assert.Equal(t, "Lima", w.Region)
	assert.Equal(t, w.TemperatureC+2, w.FeelsLikeC)

	rec = f.do(t, http.MethodGet, "/api/recommendations?region=Lima&date=2026-07-05")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[planner.PackingView](t, rec)
	assert.NotEmpty(t, p.Items)
}

func TestAlertsAndSites_UnknownRegionIsEmpty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/alerts?region=Atlantis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[planner.AlertsView](t, rec).Alerts)

	rec = f.do(t, http.MethodGet, "/api/sites?region=Atlantis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[planner.SitesView](t, rec).Cards)
}

func TestSiteDetail(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/sites/12?date=2026-07-20")

	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[planner.SiteDetail](t, rec)
	assert.Equal(t, "Sacsayhuaman", d.Site.Name)
	assert.Equal(t, "Cusco", d.Trip.Region)
	assert.NotEmpty(t, d.PackingGuide)
}

// --- export ---

func TestExport(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/sites/12/export.pdf?date=2026-07-20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="pachawayra-12.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExport_FontFailureIs502(t *testing.T) {
	f := newFixture(t)
	f.deps.Exporter = &stubExporter{err: &domain.ExternalCallError{Op: "font fetch", Err: errors.New("status 404")}}

	rec := f.do(t, http.MethodGet, "/api/sites/12/export.pdf")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "font fetch: status 404", decode[map[string]string](t, rec)["error"])
}

func TestExport_UnknownSite(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/sites/999/export.pdf")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- places ---

func TestPlaces(t *testing.T) {
	tests := []struct {
		name   string
		places domain.PlaceSearcher
		target string
		status int
	}{
		{"found", &stubPlaces{places: []domain.Place{{DisplayName: "Cusco, Perú"}}}, "/api/places?q=Cusco", http.StatusOK},
		{"empty query", &stubPlaces{}, "/api/places?q=%20%20", http.StatusBadRequest},
		{"no results", &stubPlaces{}, "/api/places?q=Atlantis", http.StatusNotFound},
		{"provider failure", &stubPlaces{err: errors.New("timeout")}, "/api/places?q=Cusco", http.StatusBadGateway},
		{"disabled", nil, "/api/places?q=Cusco", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.deps.Places = tt.places

			rec := f.do(t, http.MethodGet, tt.target)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestPlaces_Body(t *testing.T) {
	rec := newFixture(t).do(t, http.MethodGet, "/api/places?q=Cusco")

	require.Equal(t, http.StatusOK, rec.Code)
	places := decode[map[string][]domain.Place](t, rec)["places"]
	require.Len(t, places, 1)
	assert.InDelta(t, -13.53, places[0].Lat, 1e-9)
}

// --- favorites ---

func TestFavoritesLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/favorites")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"favorites":[]}`, rec.Body.String())

	rec = f.do(t, http.MethodPut, "/api/favorites/12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sacsayhuaman", decode[domain.FavoriteSite](t, rec).Name)

	rec = f.do(t, http.MethodPut, "/api/favorites/12")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/favorites")
	favs := decode[map[string][]domain.FavoriteSite](t, rec)["favorites"]
	require.Len(t, favs, 1)
	assert.Equal(t, "12", favs[0].ID)

	rec = f.do(t, http.MethodPut, "/api/favorites/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/favorites/12")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/favorites")
	assert.Empty(t, decode[map[string][]domain.FavoriteSite](t, rec)["favorites"])

	rec = f.do(t, http.MethodDelete, "/api/favorites")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
