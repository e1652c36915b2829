//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"mgnrega-api/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *RedisStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
	})

	return NewRedisStore(client)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	store := setupRedis(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "districts")
	require.NoError(t, err)
	assert.False(t, ok)

	catalog := sampleCatalog()
	require.NoError(t, store.Set(ctx, "districts", catalog, time.Minute))

	got, ok, err := store.Get(ctx, "districts")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(catalog.Entries(), got.Entries()); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.HasData(models.CanonicalDistrict{District: "Pune", State: "Maharashtra"}))
}

func TestRedisStore_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	store := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "districts", sampleCatalog(), time.Second))
	time.Sleep(1500 * time.Millisecond)

	_, ok, err := store.Get(ctx, "districts")
	require.NoError(t, err)
	assert.False(t, ok)
}
