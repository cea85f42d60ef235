// README: Pricing service computes fare quotes and keeps them stable per route.
package pricing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"oyadrop/internal/config"
)

type RateStore interface {
	GetRate(ctx context.Context, name string) (Rate, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (Quote, bool, error)
	Set(ctx context.Context, key string, q Quote, ttl time.Duration) error
}

type Service struct {
	store RateStore
	cache Cache
	float func() float64
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewService wires the rate store and quote cache; either may be nil.
func NewService(store RateStore, cache Cache, cfg config.PricingConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		cache: cache,
		ttl:   cfg.QuoteTTL,
		log:   log.Named("pricing"),
		now:   time.Now,
	}
}

// WithRandom replaces the variation source, mainly for tests.
func (s *Service) WithRandom(float func() float64) *Service {
	s.float = float
	return s
}

// Quote prices route with the named rate. An incomplete route yields an
// unavailable quote, not an error.
func (s *Service) Quote(ctx context.Context, route RoutePair, rateName string) (Quote, error) {
	if rateName == "" {
		rateName = DefaultRateName
	}
	if !route.Complete() {
		return Quote{
			Rate:      rateName,
			Currency:  DefaultRate.Currency,
			Formatted: FormatPrice(0, false),
			QuotedAt:  s.now(),
		}, nil
	}

	key := routeKey(rateName, route)
	if q, ok := s.cached(ctx, key); ok {
		return q, nil
	}

	rate, err := s.rate(ctx, rateName)
	if err != nil {
		return Quote{}, err
	}

	distance := DistanceKm(*route.Pickup, *route.Dropoff)
	amount := NewEngine(rate, s.float).priceFor(distance)
	q := Quote{
		Rate:       rate.Name,
		DistanceKm: distance,
		Amount:     amount,
		Available:  true,
		Currency:   rate.Currency,
		Formatted:  FormatPrice(amount, true),
		QuotedAt:   s.now(),
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, q, s.ttl); err != nil {
			s.log.Warn("cache quote", zap.String("key", key), zap.Error(err))
		}
	}
	return q, nil
}

// Lookup returns a previously issued quote for route, if one is still cached.
func (s *Service) Lookup(ctx context.Context, route RoutePair, rateName string) (Quote, bool) {
	if !route.Complete() {
		return Quote{}, false
	}
	if rateName == "" {
		rateName = DefaultRateName
	}
	return s.cached(ctx, routeKey(rateName, route))
}

func (s *Service) cached(ctx context.Context, key string) (Quote, bool) {
	if s.cache == nil {
		return Quote{}, false
	}
	q, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("read cached quote", zap.String("key", key), zap.Error(err))
		return Quote{}, false
	}
	return q, ok
}

func (s *Service) rate(ctx context.Context, name string) (Rate, error) {
	if s.store == nil {
		if name == DefaultRateName {
			return DefaultRate, nil
		}
		return Rate{}, ErrRateNotFound
	}
	r, err := s.store.GetRate(ctx, name)
	switch {
	case err == nil:
		return r, nil
	case name != DefaultRateName:
		return Rate{}, err
	case errors.Is(err, ErrRateNotFound):
		return DefaultRate, nil
	default:
		s.log.Warn("rate store unavailable, using default rate", zap.Error(err))
		return DefaultRate, nil
	}
}
