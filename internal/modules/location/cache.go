// README: Redis-backed geocode cache; only successful lookups are stored.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, query string) (Place, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Place{}, false, nil
	}
	if err != nil {
		return Place{}, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var place Place
	if err := json.Unmarshal(raw, &place); err != nil {
		return Place{}, false, fmt.Errorf("decode geocode cache entry: %w", err)
	}
	return place, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, query string, place Place) error {
	raw, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("encode geocode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(query), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put geocode cache: %w", err)
	}
	return nil
}

func cacheKey(query string) string {
	return geocodeKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
