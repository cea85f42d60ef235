// README: Google Maps geocoding adapter.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"oyadrop/internal/types"
)

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
	region string
}

func NewGoogleGeocoder(apiKey, region string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: region}, nil
}

func (g *GoogleGeocoder) Autocomplete(ctx context.Context, text string) ([]Suggestion, error) {
	q, ok := normalizeQuery(text)
	if !ok {
		return nil, nil
	}
	r := &maps.GeocodingRequest{
		Address: q,
		Region:  g.region,
	}
	if g.region != "" {
		r.Components = map[maps.Component]string{maps.ComponentCountry: g.region}
	}

	resp, err := g.client.Geocode(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}

	results := make([]Suggestion, 0, len(resp))
	for _, res := range resp {
		p := types.Point{Lng: res.Geometry.Location.Lng, Lat: res.Geometry.Location.Lat}
		if !p.Valid() {
			continue
		}
		results = append(results, Suggestion{
			PlaceID:     res.PlaceID,
			DisplayName: res.FormattedAddress,
			Position:    p,
		})
		if len(results) >= MaxSuggestions {
			break
		}
	}
	return results, nil
}
