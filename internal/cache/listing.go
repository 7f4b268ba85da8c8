package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	listingPrefix     = "listings"
	listingGeneration = "listings:gen"
)

// ListingCache stores public search results keyed by the normalized filter.
//
// Keys embed a generation number. Invalidate bumps the generation, which
// orphans every cached page at once; the TTL reclaims them.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

// Get returns a cached page and the key it looked under. It reports false
// on a miss.
//
// A miss must be filled with Set under the returned key. The key pins the
// generation read here, so a page queried before a concurrent Invalidate
// is written to the orphaned generation and never served.
func (c *ListingCache) Get(ctx context.Context, f repository.UnitFilter) ([]models.PublicUnit, string, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, "", false, err
	}
	key := FilterKey(gen, f)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false, nil
	}
	if err != nil {
		return nil, key, false, fmt.Errorf("get cached listings: %w", err)
	}

	var units []models.PublicUnit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, key, false, fmt.Errorf("decode cached listings: %w", err)
	}
	return units, key, true, nil
}

// Set stores a page under a key returned by Get.
func (c *ListingCache) Set(ctx context.Context, key string, units []models.PublicUnit) error {
	data, err := json.Marshal(units)
	if err != nil {
		return fmt.Errorf("encode listings: %w", err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache listings: %w", err)
	}
	return nil
}

// Invalidate drops every cached search page.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, listingGeneration).Err(); err != nil {
		return fmt.Errorf("invalidate listings: %w", err)
	}
	return nil
}

func (c *ListingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, listingGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read listing generation: %w", err)
	}
	return gen, nil
}

// FilterKey hashes the filter's fields in a fixed order so equal filters
// always map to the same key.
func FilterKey(gen int64, f repository.UnitFilter) string {
	params := map[string]string{
		"type":        f.Type,
		"category":    f.Category,
		"governorate": f.Governorate,
		"city":        f.City,
	}
	if f.MinPrice != nil {
		params["minPrice"] = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		params["maxPrice"] = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(":")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}

	sum := md5.Sum([]byte(b.String()))
	return listingPrefix + ":" + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(sum[:])
}
