// README: Geoapify autocomplete adapter.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"oyadrop/internal/types"
)

// GeoapifyGeocoder calls the Geoapify address autocomplete endpoint.
type GeoapifyGeocoder struct {
	baseURL     string
	apiKey      string
	countryCode string
	httpc       *http.Client
}

func NewGeoapifyGeocoder(baseURL, apiKey, countryCode string) (*GeoapifyGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("geoapify: missing api key")
	}
	return &GeoapifyGeocoder{
		baseURL:     baseURL,
		apiKey:      apiKey,
		countryCode: countryCode,
		httpc:       &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type geoapifyResponse struct {
	Features []struct {
		Properties struct {
			PlaceID   string   `json:"place_id"`
			Formatted string   `json:"formatted"`
			Name      string   `json:"name"`
			Lat       *float64 `json:"lat"`
			Lon       *float64 `json:"lon"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (g *GeoapifyGeocoder) Autocomplete(ctx context.Context, text string) ([]Suggestion, error) {
	q, ok := normalizeQuery(text)
	if !ok {
		return nil, nil
	}

	params := url.Values{}
	params.Set("text", q)
	params.Set("limit", strconv.Itoa(MaxSuggestions))
	params.Set("apiKey", g.apiKey)
	if g.countryCode != "" {
		params.Set("filter", "countrycode:"+g.countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/geocode/autocomplete?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geoapify: build request: %w", err)
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoapify: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geoapify: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoapify: status %d: %s", resp.StatusCode, body)
	}

	var gr geoapifyResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("geoapify: unmarshal response: %w", err)
	}

	results := make([]Suggestion, 0, len(gr.Features))
	for i, f := range gr.Features {
		p, ok := featurePoint(f.Properties.Lat, f.Properties.Lon, f.Geometry.Coordinates)
		if !ok {
			continue
		}
		name := f.Properties.Formatted
		if name == "" {
			name = f.Properties.Name
		}
		id := f.Properties.PlaceID
		if id == "" {
			id = fmt.Sprintf("%s#%d", q, i)
		}
		results = append(results, Suggestion{PlaceID: id, DisplayName: name, Position: p})
		if len(results) >= MaxSuggestions {
			break
		}
	}
	return results, nil
}

// featurePoint prefers the explicit lat/lon properties and falls back to the
// GeoJSON [lon, lat] geometry.
func featurePoint(lat, lon *float64, coords []float64) (types.Point, bool) {
	var p types.Point
	switch {
	case lat != nil && lon != nil:
		p = types.Point{Lng: *lon, Lat: *lat}
	case len(coords) >= 2:
		p = types.Point{Lng: coords[0], Lat: coords[1]}
	default:
		return types.Point{}, false
	}
	return p, p.Valid()
}
