package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

const (
	providerName   = "mapbox"
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	resultLimit    = "5"
)

// Client implements domain.PlaceSearcher using the Mapbox Geocoding API,
// restricted to Peru.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox place search client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// SearchPlaces forward-geocodes query and returns up to five Peruvian matches.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"country":      {"pe"},
		"limit":        {resultLimit},
		"language":     {"es"},
	}

	start := time.Now()
	places, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.PlaceSearchDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "error").Inc()
		return nil, &domain.ExternalCallError{Op: "mapbox search", Err: err}
	case len(places) == 0:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "empty").Inc()
	default:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "success").Inc()
	}
	c.logger.Debug("mapbox search", "query", query, "results", len(places))
	return places, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	places := make([]domain.Place, 0, len(mapboxResp.Features))
	for _, f := range mapboxResp.Features {
		if len(f.Center) != 2 {
			continue
		}
		places = append(places, domain.Place{
			Lat:         f.Center[1],
			Lon:         f.Center[0],
			DisplayName: f.PlaceName,
		})
	}
	return places, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
}
