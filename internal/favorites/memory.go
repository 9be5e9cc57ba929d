package favorites

import (
	"context"
	"slices"
	"sync"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
)

// MemoryStore keeps favorites in process memory. It backs tests and the fallback
// used when the configured database is unreachable.
type MemoryStore struct {
	mu   sync.Mutex
	favs []domain.FavoriteSite
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) List(_ context.Context) ([]domain.FavoriteSite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favs), nil
}

func (m *MemoryStore) Add(_ context.Context, fav domain.FavoriteSite) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index(fav.ID) >= 0 {
		return false, nil
	}
	m.favs = append(m.favs, fav)
	return true, nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return false, nil
	}
	m.favs = slices.Delete(m.favs, i, i+1)
	return true, nil
}

func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.favs)
	m.favs = nil
	return n, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) index(id string) int {
	return slices.IndexFunc(m.favs, func(f domain.FavoriteSite) bool { return f.ID == id })
}
