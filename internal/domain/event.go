package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType names a user action published on the activity stream.
type ActivityType string

const (
	ActivityFavoriteAdded    ActivityType = "favorite_added"
	ActivityFavoriteRemoved  ActivityType = "favorite_removed"
	ActivityFavoritesCleared ActivityType = "favorites_cleared"
	ActivityTripExported     ActivityType = "trip_exported"
)

// ActivityEvent records a favorites mutation or a PDF export.
type ActivityEvent struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	SiteID     string       `json:"site_id,omitempty"`
	Region     string       `json:"region,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewActivityEvent stamps a new event with a random UUID.
func NewActivityEvent(typ ActivityType, siteID, region string, at time.Time) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		SiteID:     siteID,
		Region:     region,
		OccurredAt: at.UTC(),
	}
}
