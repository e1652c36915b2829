// Package cache keeps the district catalog between requests so every resolution does not
// rebuild it from the backend.
package cache

import (
	"context"
	"time"

	"mgnrega-api/internal/models"
)

// Store holds catalogs by key. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) (*models.DistrictCatalog, bool, error)
	Set(ctx context.Context, key string, catalog *models.DistrictCatalog, ttl time.Duration) error
}
