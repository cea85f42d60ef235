package maps

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"oyadrop/internal/types"
)

type countingGeocoder struct {
	calls   int
	results []Suggestion
}

func (c *countingGeocoder) Autocomplete(context.Context, string) ([]Suggestion, error) {
	c.calls++
	return c.results, nil
}

func TestCachedGeocoder(t *testing.T) {
	redisAddr := os.Getenv("OYADROP_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("OYADROP_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ctx := context.Background()
	query := fmt.Sprintf("Test Street %d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(ctx, autocompleteKeyPrefix+strings.ToLower(query)) })

	next := &countingGeocoder{results: []Suggestion{
		{PlaceID: "x", DisplayName: query, Position: types.Point{Lng: 3.38, Lat: 6.52}},
	}}
	g := NewCachedGeocoder(next, rdb, time.Minute, zap.NewNop())

	first, err := g.Autocomplete(ctx, query)
	require.NoError(t, err)
	second, err := g.Autocomplete(ctx, "  "+query+" ")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
}
