// Package nominatim searches places through an OpenStreetMap Nominatim instance.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

const providerName = "nominatim"

// Client implements domain.PlaceSearcher. Requests are rate limited to honour
// the public instance's usage policy, which also requires a User-Agent.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client allowing perSecond requests per second.
func NewClient(baseURL, userAgent string, perSecond float64, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		metrics:    metrics,
		logger:     logger,
	}
}

// SearchPlaces returns up to five matches for query inside Peru.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ExternalCallError{Op: "nominatim search", Err: err}
	}

	params := url.Values{
		"format":          {"json"},
		"limit":           {"5"},
		"accept-language": {"es"},
		"countrycodes":    {"pe"},
		"q":               {query},
	}

	start := time.Now()
	places, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.PlaceSearchDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "error").Inc()
		return nil, &domain.ExternalCallError{Op: "nominatim search", Err: err}
	case len(places) == 0:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "empty").Inc()
	default:
		c.metrics.PlaceSearchRequests.WithLabelValues(providerName, "success").Inc()
	}
	c.logger.Debug("nominatim search", "query", query, "results", len(places))
	return places, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nominatim error: status %d: %s", resp.StatusCode, body)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			c.logger.Warn("skipping place with unparseable coordinates",
				"display_name", r.DisplayName, "lat", r.Lat, "lon", r.Lon)
			continue
		}
		places = append(places, domain.Place{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}
	return places, nil
}

// Nominatim encodes coordinates as strings.
type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
