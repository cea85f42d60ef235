// README: Pricing service tests (rate resolution and quote caching).
package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oyadrop/internal/config"
)

type stubRateStore struct {
	rates map[string]Rate
	err   error
	calls int
}

func (s *stubRateStore) GetRate(_ context.Context, name string) (Rate, error) {
	s.calls++
	if s.err != nil {
		return Rate{}, s.err
	}
	r, ok := s.rates[name]
	if !ok {
		return Rate{}, ErrRateNotFound
	}
	return r, nil
}

type memCache struct {
	entries map[string]Quote
	ttl     time.Duration
	setErr  error
}

func newMemCache() *memCache { return &memCache{entries: map[string]Quote{}} }

func (c *memCache) Get(_ context.Context, key string) (Quote, bool, error) {
	q, ok := c.entries[key]
	return q, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, q Quote, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = q
	c.ttl = ttl
	return nil
}

func testConfig() config.PricingConfig {
	return config.PricingConfig{QuoteTTL: 15 * time.Minute}
}

func TestService_QuoteIncompleteRoute(t *testing.T) {
	s := NewService(nil, nil, testConfig(), nil)
	q, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(lagos)}, "")
	require.NoError(t, err)
	assert.False(t, q.Available)
	assert.Equal(t, NotAvailable, q.Formatted)
	assert.Equal(t, DefaultRateName, q.Rate)
}

func TestService_QuoteDefaultRateWithoutStore(t *testing.T) {
	s := NewService(nil, nil, testConfig(), nil).WithRandom(fixed(0.5))
	q, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}, "")
	require.NoError(t, err)
	assert.True(t, q.Available)
	assert.Equal(t, int64(107900), q.Amount)
	assert.Equal(t, "₦107,900", q.Formatted)
	assert.Equal(t, "NGN", q.Currency)
	assert.InDelta(t, 534.5, q.DistanceKm, 0.5)
}

func TestService_QuoteUnknownRate(t *testing.T) {
	store := &stubRateStore{rates: map[string]Rate{}}
	s := NewService(store, nil, testConfig(), nil)
	_, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}, "express")
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestService_QuoteUsesStoredRate(t *testing.T) {
	store := &stubRateStore{rates: map[string]Rate{
		"express": {Name: "express", BaseFare: 2000, PerKm: 300, Currency: "NGN"},
	}}
	s := NewService(store, nil, testConfig(), nil).WithRandom(fixed(0.5))
	q, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(ikeja), Dropoff: ptr(ikeja)}, "express")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), q.Amount)
	assert.Equal(t, "express", q.Rate)
}

func TestService_QuoteFallsBackWhenStoreFails(t *testing.T) {
	store := &stubRateStore{err: errors.New("connection refused")}
	s := NewService(store, nil, testConfig(), nil).WithRandom(fixed(0.5))
	q, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(ikeja), Dropoff: ptr(ikeja)}, DefaultRateName)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), q.Amount)
}

func TestService_QuoteIsStablePerRoute(t *testing.T) {
	cache := newMemCache()
	calls := 0
	values := []float64{0, 0.9999999}
	s := NewService(nil, cache, testConfig(), nil).WithRandom(func() float64 {
		v := values[calls%len(values)]
		calls++
		return v
	})
	route := RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}

	first, err := s.Quote(context.Background(), route, "")
	require.NoError(t, err)
	second, err := s.Quote(context.Background(), route, "")
	require.NoError(t, err)

	assert.Equal(t, first.Amount, second.Amount)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 15*time.Minute, cache.ttl)

	looked, ok := s.Lookup(context.Background(), route, DefaultRateName)
	require.True(t, ok)
	assert.Equal(t, first.Amount, looked.Amount)

	// a different drop-off is a different route
	other := RoutePair{Pickup: ptr(lagos), Dropoff: ptr(ikeja)}
	_, ok = s.Lookup(context.Background(), other, "")
	assert.False(t, ok)
}

func TestService_CacheWriteFailureIsNotFatal(t *testing.T) {
	cache := newMemCache()
	cache.setErr = errors.New("redis down")
	s := NewService(nil, cache, testConfig(), nil)
	q, err := s.Quote(context.Background(), RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}, "")
	require.NoError(t, err)
	assert.True(t, q.Available)
}
