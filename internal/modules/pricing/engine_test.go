package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oyadrop/internal/types"
)

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func ptr(p types.Point) *types.Point { return &p }

func TestEstimate_AbsentUnlessBothPresent(t *testing.T) {
	e := NewEngine(DefaultRate, fixed(0.5))
	tests := []struct {
		name  string
		route RoutePair
		want  bool
	}{
		{"both absent", RoutePair{}, false},
		{"pickup only", RoutePair{Pickup: ptr(lagos)}, false},
		{"dropoff only", RoutePair{Dropoff: ptr(abuja)}, false},
		{"both present", RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := e.Estimate(tt.route)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEstimate_PinnedVariation(t *testing.T) {
	route := RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}
	// raw fare for Lagos -> Abuja is 1000 + 534.52*200 = 107,904.69
	tests := []struct {
		name  string
		float float64
		want  int64
	}{
		{"no variation", 0.5, 107900},
		{"lowest variation", 0, 102500},
		{"highest variation", 0.9999999, 113300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewEngine(DefaultRate, fixed(tt.float)).Estimate(route)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimate_SamePointIsBaseFare(t *testing.T) {
	got, ok := NewEngine(DefaultRate, fixed(0.5)).Estimate(RoutePair{Pickup: ptr(ikeja), Dropoff: ptr(ikeja)})
	require.True(t, ok)
	assert.Equal(t, int64(1000), got)
}

func TestEstimate_HalfRoundsUp(t *testing.T) {
	// base 1050, zero distance, zero variation -> 1050 rounds to 1100
	e := NewEngine(Rate{BaseFare: 1050, PerKm: 200}, fixed(0.5))
	got, ok := e.Estimate(RoutePair{Pickup: ptr(lagos), Dropoff: ptr(lagos)})
	require.True(t, ok)
	assert.Equal(t, int64(1100), got)
}

func TestEstimatePrice_RandomStaysInBand(t *testing.T) {
	route := RoutePair{Pickup: ptr(lagos), Dropoff: ptr(abuja)}
	raw := float64(DefaultRate.BaseFare) + DistanceKm(lagos, abuja)*float64(DefaultRate.PerKm)
	lo := int64(math.Floor(raw*0.95/100)) * 100
	hi := int64(math.Ceil(raw*1.05/100)) * 100

	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		got, ok := EstimatePrice(route)
		require.True(t, ok)
		assert.Zero(t, got%100, "price %d is not a multiple of 100", got)
		assert.GreaterOrEqual(t, got, lo)
		assert.LessOrEqual(t, got, hi)
		seen[got] = true
	}
	assert.Greater(t, len(seen), 1, "expected variation across repeated estimates")
}
