package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

type recorder struct{ events []domain.ActivityEvent }

func (r *recorder) Record(e domain.ActivityEvent) { r.events = append(r.events, e) }

var exportTime = time.Date(2026, time.July, 5, 17, 0, 0, 0, time.UTC)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 4, G: 120, B: 87, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /images/sites/sacsayhuaman.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	})
	mux.HandleFunc("GET /images/sites/broken.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newExporter(opts Options) (*Exporter, *recorder, *observability.Metrics) {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	rec := &recorder{}
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(opts, clockwork.NewFakeClockAt(exportTime), rec, metrics, logger), rec, metrics
}

func detail(image string) planner.SiteDetail {
	return planner.SiteDetail{
		Trip: planner.TripInfo{Region: "Cusco", Date: "2026-07-20", DaysAhead: 15},
		Site: domain.TouristSite{
			ID:          "12",
			Name:        "Sacsayhuaman  Fortress",
			Region:      "Cusco",
			Category:    domain.CategoryArchaeological,
			Description: "Inca citadel above Cusco, famous for its massive stone walls.",
			Image:       image,
		},
		Weather: &planner.WeatherView{
			ProjectedWeather: domain.ProjectedWeather{Region: "Cusco", TemperatureC: 13, Forecast: "sunny", HumidityPercent: 45},
			WindSpeedLabel:   "12 km/h",
			ConfidenceLabel:  "high confidence",
		},
		PackingGuide: []string{"Warm jacket", "Comfortable walking shoes"},
		Highlights: domain.LocalHighlights{
			Activities: []string{"Visit Machu Picchu"},
			Foods:      []string{"Cuy al horno", "Chicha morada"},
		},
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		site string
		want string
	}{
		{"single word", "Kuelap", "pachawayra-kuelap-1783270800000.pdf"},
		{"spaces collapse", "Lake  Titicaca\tIslands", "pachawayra-lake-titicaca-islands-1783270800000.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.site, exportTime))
		})
	}
}

func TestExport_WithImage(t *testing.T) {
	srv := assetServer(t)
	exp, rec, metrics := newExporter(Options{ImageBaseURL: srv.URL})

	doc, err := exp.Export(context.Background(), detail("/images/sites/sacsayhuaman.png"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, "pachawayra-sacsayhuaman-fortress-1783270800000.pdf", doc.Filename)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PDFExports.WithLabelValues("success")))
	assert.Zero(t, testutil.ToFloat64(metrics.PDFImagePlaceholders))

	require.Len(t, rec.events, 1)
	assert.Equal(t, domain.ActivityTripExported, rec.events[0].Type)
	assert.Equal(t, "12", rec.events[0].SiteID)
}

func TestExport_ImagePlaceholder(t *testing.T) {
	srv := assetServer(t)

	tests := []struct {
		name  string
		base  string
		image string
	}{
		{"undecodable image", srv.URL, "/images/sites/broken.jpg"},
		{"missing image", srv.URL, "/images/sites/nope.jpg"},
		{"no base url", "", "/images/sites/sacsayhuaman.png"},
		{"no image", srv.URL, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, _, metrics := newExporter(Options{ImageBaseURL: tt.base})

			doc, err := exp.Export(context.Background(), detail(tt.image))
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PDFImagePlaceholders))
		})
	}
}

func TestExport_WithoutWeather(t *testing.T) {
	exp, _, _ := newExporter(Options{})
	d := detail("")
	d.Weather = nil

	doc, err := exp.Export(context.Background(), d)

	require.NoError(t, err)
	assert.NotEmpty(t, doc.Data)
}

func TestExport_FontFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	exp, rec, metrics := newExporter(Options{FontURL: srv.URL + "/fonts/NotoSans-Regular.ttf"})

	_, err := exp.Export(context.Background(), detail(""))

	require.Error(t, err)
	assert.True(t, domain.IsExternalCallFailure(err))
	assert.Contains(t, err.Error(), "font fetch")
	assert.Empty(t, rec.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PDFExports.WithLabelValues("error")))
}

func TestExport_UnusableFontAsset(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html error page", "<!doctype html><html><body>Service Unavailable</body></html>"},
		{"truncated", "\x00\x01"},
		{"truetype header only", "\x00\x01\x00\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()
			exp, rec, metrics := newExporter(Options{FontURL: srv.URL + "/fonts/NotoSans-Regular.ttf"})

			_, err := exp.Export(context.Background(), detail(""))

			require.Error(t, err)
			assert.True(t, domain.IsExternalCallFailure(err))
			assert.Contains(t, err.Error(), "load pdf font")
			assert.Empty(t, rec.events)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PDFExports.WithLabelValues("error")))
		})
	}
}

func TestResolveImageURL(t *testing.T) {
	exp, _, _ := newExporter(Options{ImageBaseURL: "https://cdn.example.com/static/"})

	got, err := exp.resolveImageURL("/images/sites/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/sites/x.jpg", got)

	got, err = exp.resolveImageURL("https://upload.example.org/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example.org/a.jpg", got)
}
