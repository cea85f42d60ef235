package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const autocompleteBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "properties": {"place_id": "p1", "formatted": "Lekki Phase 1, Lagos, Nigeria", "lat": 6.4474, "lon": 3.4720},
      "geometry": {"type": "Point", "coordinates": [3.4720, 6.4474]}
    },
    {
      "properties": {"place_id": "p2", "name": "Wuse II"},
      "geometry": {"type": "Point", "coordinates": [7.4700, 9.0800]}
    },
    {
      "properties": {"place_id": "p3", "formatted": "Nowhere"},
      "geometry": {"type": "Point", "coordinates": []}
    }
  ]
}`

func TestGeoapify_Autocomplete(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/autocomplete", r.URL.Path)
		gotQuery = map[string]string{
			"text":   r.URL.Query().Get("text"),
			"limit":  r.URL.Query().Get("limit"),
			"apiKey": r.URL.Query().Get("apiKey"),
			"filter": r.URL.Query().Get("filter"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(autocompleteBody))
	}))
	defer srv.Close()

	g, err := NewGeoapifyGeocoder(srv.URL, "k", "ng")
	require.NoError(t, err)

	got, err := g.Autocomplete(context.Background(), "  Lekki   Phase ")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"text": "Lekki Phase", "limit": "5", "apiKey": "k", "filter": "countrycode:ng"}, gotQuery)
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].PlaceID)
	assert.Equal(t, "Lekki Phase 1, Lagos, Nigeria", got[0].DisplayName)
	assert.InDelta(t, 3.4720, got[0].Position.Lng, 1e-9)
	assert.InDelta(t, 6.4474, got[0].Position.Lat, 1e-9)
	assert.Equal(t, "Wuse II", got[1].DisplayName)
	assert.InDelta(t, 7.47, got[1].Position.Lng, 1e-9)
}

func TestGeoapify_ShortQuerySkipsProvider(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g, err := NewGeoapifyGeocoder(srv.URL, "k", "")
	require.NoError(t, err)
	got, err := g.Autocomplete(context.Background(), " ab ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestGeoapify_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid apiKey", http.StatusUnauthorized)
	}))
	defer srv.Close()

	g, err := NewGeoapifyGeocoder(srv.URL, "bad", "")
	require.NoError(t, err)
	_, err = g.Autocomplete(context.Background(), "Ikeja")
	assert.ErrorContains(t, err, "status 401")
}

func TestNewGeoapify_RequiresKey(t *testing.T) {
	_, err := NewGeoapifyGeocoder("https://api.geoapify.com", "", "ng")
	assert.Error(t, err)
}
