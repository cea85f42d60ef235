package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointValid(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"lagos", Point{Lng: 3.3792, Lat: 6.5244}, true},
		{"antimeridian", Point{Lng: 180, Lat: 0}, true},
		{"south pole", Point{Lng: 0, Lat: -90}, true},
		{"lng out of range", Point{Lng: 181, Lat: 0}, false},
		{"lat out of range", Point{Lng: 0, Lat: 90.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valid())
		})
	}
}

func TestPointLngLatRoundTrip(t *testing.T) {
	p := Point{Lng: 7.4913, Lat: 9.0765}
	assert.Equal(t, [2]float64{7.4913, 9.0765}, p.LngLat())
	assert.Equal(t, p, PointFromLngLat(p.LngLat()))
}

func TestMoneyKobo(t *testing.T) {
	assert.Equal(t, int64(150000), Naira(1500).Kobo())
	assert.Equal(t, CurrencyNGN, Naira(1).Currency)
}
