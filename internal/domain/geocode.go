package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrSearchDisabled is returned when no place-search provider is configured.
var ErrSearchDisabled = errors.New("place search disabled")

// SearchPlaces runs a trimmed query against searcher. Provider failures come back as
// *ExternalCallError and an empty result as ErrNoData; neither is retried.
func SearchPlaces(ctx context.Context, searcher PlaceSearcher, query string, logger *slog.Logger) ([]Place, error) {
	if searcher == nil {
		return nil, ErrSearchDisabled
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	places, err := searcher.SearchPlaces(ctx, query)
	if err != nil {
		logger.Warn("place search failed",
			"query", query,
			"error", err,
		)
		if IsExternalCallFailure(err) {
			return nil, err
		}
		return nil, &ExternalCallError{Op: "place search", Err: err}
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("no results found in Peru for %q: %w", query, ErrNoData)
	}
	return places, nil
}
