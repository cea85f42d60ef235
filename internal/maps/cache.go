// README: Redis cache in front of a Geocoder.
package maps

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"oyadrop/internal/types"
)

const autocompleteKeyPrefix = "geo:ac:"

// CachedGeocoder memoises autocomplete results per normalised query.
type CachedGeocoder struct {
	next  Geocoder
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedGeocoder(next Geocoder, redis *redis.Client, ttl time.Duration, log *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, redis: redis, ttl: ttl, log: log.Named("geocache")}
}

type cachedSuggestion struct {
	PlaceID     string     `json:"id"`
	DisplayName string     `json:"name"`
	LngLat      [2]float64 `json:"lnglat"`
}

func (c *CachedGeocoder) Autocomplete(ctx context.Context, text string) ([]Suggestion, error) {
	q, ok := normalizeQuery(text)
	if !ok {
		return nil, nil
	}
	key := autocompleteKeyPrefix + strings.ToLower(q)

	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var cached []cachedSuggestion
		if err := json.Unmarshal(raw, &cached); err == nil {
			return fromCached(cached), nil
		}
	} else if err != redis.Nil {
		c.log.Warn("read geocode cache", zap.String("key", key), zap.Error(err))
	}

	results, err := c.next.Autocomplete(ctx, q)
	if err != nil {
		return nil, err
	}
	// empty results are not cached; the provider may learn the address later
	if len(results) == 0 {
		return results, nil
	}

	b, err := json.Marshal(toCached(results))
	if err == nil {
		err = c.redis.Set(ctx, key, b, c.ttl).Err()
	}
	if err != nil {
		c.log.Warn("write geocode cache", zap.String("key", key), zap.Error(err))
	}
	return results, nil
}

func toCached(in []Suggestion) []cachedSuggestion {
	out := make([]cachedSuggestion, len(in))
	for i, s := range in {
		out[i] = cachedSuggestion{PlaceID: s.PlaceID, DisplayName: s.DisplayName, LngLat: s.Position.LngLat()}
	}
	return out
}

func fromCached(in []cachedSuggestion) []Suggestion {
	out := make([]Suggestion, len(in))
	for i, s := range in {
		out[i] = Suggestion{PlaceID: s.PlaceID, DisplayName: s.DisplayName, Position: types.PointFromLngLat(s.LngLat)}
	}
	return out
}
