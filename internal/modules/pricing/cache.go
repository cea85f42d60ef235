// README: Redis-backed quote cache keeping one price per route for a while.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "pricing:quote:"

type QuoteCache struct {
	redis *redis.Client
}

func NewQuoteCache(redis *redis.Client) *QuoteCache {
	return &QuoteCache{redis: redis}
}

// Get returns the cached quote for key; found is false on a miss.
func (c *QuoteCache) Get(ctx context.Context, key string) (Quote, bool, error) {
	val, err := c.redis.Get(ctx, quoteKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}
	var q Quote
	if err := json.Unmarshal(val, &q); err != nil {
		return Quote{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return q, true, nil
}

func (c *QuoteCache) Set(ctx context.Context, key string, q Quote, ttl time.Duration) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, quoteKeyPrefix+key, b, ttl).Err()
}

// routeKey identifies a route to roughly a metre so the same pair of
// geocoded addresses always hits the same entry.
func routeKey(rateName string, route RoutePair) string {
	p, d := *route.Pickup, *route.Dropoff
	return fmt.Sprintf("%s:%.5f,%.5f:%.5f,%.5f", rateName, p.Lng, p.Lat, d.Lng, d.Lat)
}
