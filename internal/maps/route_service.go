// README: Road distance and travel time between two points via Google Directions.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"oyadrop/internal/types"
)

// TravelEstimate is the road distance and driving time of a route.
type TravelEstimate struct {
	DistanceKm float64
	Duration   time.Duration
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
	region string
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey, region string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, region: region}, nil
}

// TravelEstimate returns the driving distance and duration from origin to destination.
func (s *RouteService) TravelEstimate(ctx context.Context, origin, destination types.Point) (TravelEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(destination),
		Mode:        maps.TravelModeDriving,
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return TravelEstimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return TravelEstimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return TravelEstimate{
		DistanceKm: float64(leg.Distance.Meters) / 1000,
		Duration:   leg.Duration,
	}, nil
}

func latLng(p types.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
