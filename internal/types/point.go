// README: Geographic point and identifier value objects.
package types

import "github.com/google/uuid"

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Point is a (longitude, latitude) pair in decimal degrees. It is produced
// by a geocoder and replaced wholesale, never mutated in place.
type Point struct {
	Lng float64
	Lat float64
}

func (p Point) Valid() bool {
	return p.Lng >= -180 && p.Lng <= 180 && p.Lat >= -90 && p.Lat <= 90
}

// LngLat returns the point in the [lon, lat] order used on the wire.
func (p Point) LngLat() [2]float64 {
	return [2]float64{p.Lng, p.Lat}
}

func PointFromLngLat(v [2]float64) Point {
	return Point{Lng: v[0], Lat: v[1]}
}
