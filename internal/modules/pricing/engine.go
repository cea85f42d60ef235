// README: Fare engine turning a route pair into a varied, rounded price.
package pricing

import (
	"math"
	"math/rand/v2"
)

const (
	// variationSpan is the width of the uniform variation band, centred on zero.
	variationSpan = 0.10
	roundTo       = 100
)

// Engine estimates fares for a single rate. The float source must return
// values in [0, 1); it is called once per estimate.
type Engine struct {
	rate  Rate
	float func() float64
}

// NewEngine returns an Engine for rate. A nil float source uses math/rand/v2.
func NewEngine(rate Rate, float func() float64) *Engine {
	if float == nil {
		float = rand.Float64
	}
	return &Engine{rate: rate, float: float}
}

var defaultEngine = NewEngine(DefaultRate, nil)

// EstimatePrice prices route with the default rate.
func EstimatePrice(route RoutePair) (int64, bool) {
	return defaultEngine.Estimate(route)
}

// Estimate returns the fare for route, or false when either side is absent.
// Repeated calls with the same route may differ by up to ±5%.
func (e *Engine) Estimate(route RoutePair) (int64, bool) {
	if !route.Complete() {
		return 0, false
	}
	distance := DistanceKm(*route.Pickup, *route.Dropoff)
	return e.priceFor(distance), true
}

func (e *Engine) priceFor(distanceKm float64) int64 {
	raw := float64(e.rate.BaseFare) + distanceKm*float64(e.rate.PerKm)
	v := e.float()*variationSpan - variationSpan/2
	adjusted := raw * (1 + v)
	return int64(math.Floor(adjusted/roundTo+0.5)) * roundTo
}
