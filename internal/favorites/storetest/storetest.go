// Package storetest holds the behavior checks every favorites.Store must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/favorites"
)

// Favorite returns a sample favorite with the given id.
func Favorite(id string) domain.FavoriteSite {
	return domain.FavoriteSite{
		ID:          id,
		Name:        "Site " + id,
		Region:      "Cusco",
		Category:    domain.CategoryArchaeological,
		Description: "Inca stonework",
		Image:       "/images/sites/" + id + ".jpg",
		AddedAt:     time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC),
	}
}

// Run exercises store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) favorites.Store) {
	t.Run("starts empty", func(t *testing.T) {
		s := newStore(t)
		favs, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, favs)
	})

	t.Run("add is idempotent", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		added, err := s.Add(ctx, Favorite("12"))
		require.NoError(t, err)
		assert.True(t, added)

		again := Favorite("12")
		again.Name = "changed"
		added, err = s.Add(ctx, again)
		require.NoError(t, err)
		assert.False(t, added)

		favs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, "Site 12", favs[0].Name)
		assert.True(t, Favorite("12").AddedAt.Equal(favs[0].AddedAt))
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for _, id := range []string{"3", "1", "2"} {
			_, err := s.Add(ctx, Favorite(id))
			require.NoError(t, err)
		}

		favs, err := s.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(favs))
		for _, f := range favs {
			ids = append(ids, f.ID)
		}
		assert.Equal(t, []string{"3", "1", "2"}, ids)
	})

	t.Run("remove", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.Add(ctx, Favorite("12"))
		require.NoError(t, err)

		removed, err := s.Remove(ctx, "12")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Remove(ctx, "12")
		require.NoError(t, err)
		assert.False(t, removed)

		favs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, favs)
	})

	t.Run("clear", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for _, id := range []string{"1", "2"} {
			_, err := s.Add(ctx, Favorite(id))
			require.NoError(t, err)
		}

		n, err := s.Clear(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		favs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, favs)
	})
}
