package cache

import (
	"context"
	"time"

	"mgnrega-api/internal/models"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryStore keeps catalogs in process memory.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates an in-process store whose entries expire after defaultTTL
// unless Set is given its own ttl.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(defaultTTL, memoryCleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.DistrictCatalog, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	catalog, ok := v.(*models.DistrictCatalog)
	return catalog, ok, nil
}

// Set stores catalog. A zero ttl uses the store default.
func (s *MemoryStore) Set(_ context.Context, key string, catalog *models.DistrictCatalog, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.items.Set(key, catalog, ttl)
	return nil
}

// Flush drops every entry.
func (s *MemoryStore) Flush() {
	s.items.Flush()
}
