// Package favorites keeps the single-profile list of saved tourist sites.
package favorites

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
)

// Store persists favorites. Entries are unique by site id and listed in insertion order.
type Store interface {
	List(ctx context.Context) ([]domain.FavoriteSite, error)
	// Add inserts fav unless its id is already stored. It reports whether a row was added.
	Add(ctx context.Context, fav domain.FavoriteSite) (bool, error)
	// Remove deletes the entry with id. It reports whether a row was removed.
	Remove(ctx context.Context, id string) (bool, error)
	// Clear deletes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
	Close() error
}

// SiteLookup resolves catalogue sites by id.
type SiteLookup interface {
	Site(id string) (domain.TouristSite, error)
}

// Recorder receives activity events. Implementations must not block.
type Recorder interface {
	Record(event domain.ActivityEvent)
}

// Service applies favorites mutations and publishes them as activity events.
type Service struct {
	store    Store
	sites    SiteLookup
	clock    clockwork.Clock
	recorder Recorder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates a Service over store.
func NewService(store Store, sites SiteLookup, clock clockwork.Clock, recorder Recorder, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		sites:    sites,
		clock:    clock,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// List returns the saved sites in the order they were added.
func (s *Service) List(ctx context.Context) ([]domain.FavoriteSite, error) {
	favs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favs == nil {
		favs = []domain.FavoriteSite{}
	}
	return favs, nil
}

// Add saves the catalogue site with id. Adding a saved site again is a no-op.
// Unknown ids yield domain.ErrNoData.
func (s *Service) Add(ctx context.Context, id string) (domain.FavoriteSite, error) {
	site, err := s.sites.Site(id)
	if err != nil {
		return domain.FavoriteSite{}, err
	}

	now := s.clock.Now()
	fav := domain.FavoriteFromSite(site, now.UTC())
	added, err := s.store.Add(ctx, fav)
	if err != nil {
		return domain.FavoriteSite{}, fmt.Errorf("add favorite %q: %w", id, err)
	}
	if added {
		s.metrics.FavoritesMutations.WithLabelValues("add").Inc()
		s.recorder.Record(domain.NewActivityEvent(domain.ActivityFavoriteAdded, site.ID, site.Region, now))
		s.logger.Info("favorite added", "site_id", site.ID, "region", site.Region)
	}
	return fav, nil
}

// Remove deletes the saved site with id. Removing an unsaved site is a no-op.
func (s *Service) Remove(ctx context.Context, id string) error {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("remove favorite %q: %w", id, err)
	}
	if removed {
		s.metrics.FavoritesMutations.WithLabelValues("remove").Inc()
		s.recorder.Record(domain.NewActivityEvent(domain.ActivityFavoriteRemoved, id, "", s.clock.Now()))
		s.logger.Info("favorite removed", "site_id", id)
	}
	return nil
}

// Clear deletes every saved site.
func (s *Service) Clear(ctx context.Context) error {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	if n > 0 {
		s.metrics.FavoritesMutations.WithLabelValues("clear").Inc()
		s.recorder.Record(domain.NewActivityEvent(domain.ActivityFavoritesCleared, "", "", s.clock.Now()))
		s.logger.Info("favorites cleared", "count", n)
	}
	return nil
}
