package cache

import (
	"context"
	"fmt"
	"time"

	"mgnrega-api/internal/metrics"
	"mgnrega-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a loaded catalog is served before it is rebuilt.
const DefaultTTL = 15 * time.Minute

// DefaultLoadTimeout bounds a backend load, which is shared by every caller waiting on it.
const DefaultLoadTimeout = 30 * time.Second

const catalogKey = "districts"

// CatalogSource builds the catalog from the backend.
type CatalogSource interface {
	Catalog(ctx context.Context) (*models.DistrictCatalog, error)
}

// CatalogLoader serves the district catalog from a Store and rebuilds it from the source on a miss.
// Concurrent misses share one backend load. A nil store disables caching.
type CatalogLoader struct {
	source  CatalogSource
	store   Store
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// LoaderOption configures a CatalogLoader.
type LoaderOption func(*CatalogLoader)

// WithTTL sets how long a loaded catalog stays in the store.
func WithTTL(d time.Duration) LoaderOption {
	return func(l *CatalogLoader) {
		if d > 0 {
			l.ttl = d
		}
	}
}

// WithLoadTimeout bounds a backend load. The load outlives the caller that started it.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *CatalogLoader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLoaderMetrics records cache hits and backend loads on m.
func WithLoaderMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *CatalogLoader) { l.metrics = m }
}

// WithLoaderLogger replaces the global logger.
func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(l *CatalogLoader) { l.logger = logger }
}

// NewCatalogLoader creates a loader over source backed by store.
func NewCatalogLoader(source CatalogSource, store Store, opts ...LoaderOption) *CatalogLoader {
	l := &CatalogLoader{
		source:  source,
		store:   store,
		ttl:     DefaultTTL,
		timeout: DefaultLoadTimeout,
		logger:  log.Logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the cached catalog or builds it. A failing store is logged and bypassed.
func (l *CatalogLoader) Load(ctx context.Context) (*models.DistrictCatalog, error) {
	if l.store != nil {
		catalog, ok, err := l.store.Get(ctx, catalogKey)
		switch {
		case err != nil:
			l.logger.Warn().Err(err).Msg("catalog cache read failed")
		case ok:
			l.metrics.IncCatalogLoad("cache")
			return catalog, nil
		}
	}

	ch := l.group.DoChan(catalogKey, func() (any, error) {
		// Joined callers must not fail because the first one went away.
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		catalog, err := l.source.Catalog(shared)
		if err != nil {
			return nil, err
		}
		l.metrics.IncCatalogLoad("backend")
		l.logger.Info().Int("districts", catalog.Len()).Msg("district catalog loaded")

		if l.store != nil {
			if err := l.store.Set(shared, catalogKey, catalog, l.ttl); err != nil {
				l.logger.Warn().Err(err).Msg("catalog cache write failed")
			}
		}
		return catalog, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("cache: loading district catalog: %w", res.Err)
		}
		return res.Val.(*models.DistrictCatalog), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("cache: loading district catalog: %w", ctx.Err())
	}
}
