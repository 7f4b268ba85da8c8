package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr(f float64) *float64 { return &f }

func TestFilterKey_Stable(t *testing.T) {
	a := repository.UnitFilter{Type: "Sale", City: "Cairo", MinPrice: ptr(1000)}
	b := repository.UnitFilter{City: "Cairo", MinPrice: ptr(1000.0), Type: "Sale"}

	assert.Equal(t, FilterKey(0, a), FilterKey(0, b))
	assert.True(t, strings.HasPrefix(FilterKey(3, a), "listings:3:"))
}

func TestFilterKey_Distinguishes(t *testing.T) {
	base := repository.UnitFilter{Type: "Sale"}

	keys := map[string]bool{
		FilterKey(0, base): true,
		FilterKey(1, base): true,
		FilterKey(0, repository.UnitFilter{Type: "Rent"}): true,
		FilterKey(0, repository.UnitFilter{Type: "Sale", MinPrice: ptr(0)}): true,
		FilterKey(0, repository.UnitFilter{Type: "Sale", MaxPrice: ptr(0)}): true,
		FilterKey(0, repository.UnitFilter{}):                                true,
	}
	assert.Len(t, keys, 6)
}

func TestNewRedis_BadURL(t *testing.T) {
	client, err := NewRedis(context.Background(), "not a url", zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
}

func newTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewListingCache(rdb, time.Minute), mr
}

func TestListingCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	f := repository.UnitFilter{Type: "Sale", City: "Cairo"}

	got, key, hit, err := c.Get(ctx, f)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
	assert.Equal(t, FilterKey(0, f), key)

	page := []models.PublicUnit{{Title: "Nile flat", City: "Cairo"}}
	require.NoError(t, c.Set(ctx, key, page))
	assert.Equal(t, time.Minute, mr.TTL(key))

	got, _, hit, err = c.Get(ctx, f)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, page, got)
}

func TestListingCache_EmptyPageIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	f := repository.UnitFilter{Governorate: "Aswan"}

	_, key, _, err := c.Get(ctx, f)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, []models.PublicUnit{}))

	got, _, hit, err := c.Get(ctx, f)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestListingCache_InvalidateOrphansPages(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	f := repository.UnitFilter{Type: "Rent"}

	_, key, _, err := c.Get(ctx, f)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, []models.PublicUnit{{Title: "old"}}))

	require.NoError(t, c.Invalidate(ctx))

	_, newKey, hit, err := c.Get(ctx, f)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, FilterKey(1, f), newKey)
}

// A search that read before a write and filled after the write's
// Invalidate must not leave its stale page visible to later readers.
func TestListingCache_FillAfterInvalidateStaysOrphaned(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	f := repository.UnitFilter{Category: "Villa"}

	_, staleKey, hit, err := c.Get(ctx, f)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, staleKey, []models.PublicUnit{{Title: "sold villa"}}))
	assert.True(t, mr.Exists(staleKey))

	got, _, hit, err := c.Get(ctx, f)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestListingCache_CorruptPage(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	f := repository.UnitFilter{City: "Giza"}

	require.NoError(t, mr.Set(FilterKey(0, f), "{not json"))

	_, _, hit, err := c.Get(ctx, f)
	require.Error(t, err)
	assert.False(t, hit)
}

func TestListingCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, key, hit, err := c.Get(ctx, repository.UnitFilter{})
	require.Error(t, err)
	assert.False(t, hit)
	assert.Empty(t, key)
	assert.Error(t, c.Invalidate(ctx))
}
