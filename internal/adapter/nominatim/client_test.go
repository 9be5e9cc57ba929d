package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, "pachawayra-test/1.0", 100, timeout,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_SearchPlaces_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Arequipa", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "es", q.Get("accept-language"))
		assert.Equal(t, "pe", q.Get("countrycodes"))
		assert.Equal(t, "pachawayra-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat":"-16.3988","lon":"-71.5369","display_name":"Arequipa, Perú"},
			{"lat":"n/a","lon":"-71.5","display_name":"broken"}
		]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	places, err := c.SearchPlaces(context.Background(), "Arequipa")
	require.NoError(t, err)

	require.Len(t, places, 1)
	assert.Equal(t, domain.Place{Lat: -16.3988, Lon: -71.5369, DisplayName: "Arequipa, Perú"}, places[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "success")))
}

func TestClient_SearchPlaces_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	places, err := c.SearchPlaces(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestClient_SearchPlaces_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.SearchPlaces(context.Background(), "Cusco")

	require.Error(t, err)
	assert.True(t, domain.IsExternalCallFailure(err))
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "error")))
}

func TestClient_SearchPlaces_CanceledContext(t *testing.T) {
	c := testClient("http://127.0.0.1:1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SearchPlaces(ctx, "Cusco")

	require.Error(t, err)
	assert.True(t, domain.IsExternalCallFailure(err))
}
