package domain

import "context"

// PlaceSearcher looks up places by free-text query, restricted to Peru.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query string) ([]Place, error)
}
