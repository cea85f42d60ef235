package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oyadrop/internal/config"
)

func TestNewGeocoder(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.GeocoderConfig
		googleKey string
		wantType  any
		wantErr   bool
	}{
		{
			name:     "default is geoapify",
			cfg:      config.GeocoderConfig{GeoapifyKey: "k", GeoapifyURL: "https://api.geoapify.com", CountryCode: "ng"},
			wantType: &GeoapifyGeocoder{},
		},
		{
			name:      "google",
			cfg:       config.GeocoderConfig{Provider: "Google", CountryCode: "ng"},
			googleKey: "AIzaTestKey",
			wantType:  &GoogleGeocoder{},
		},
		{name: "google without key", cfg: config.GeocoderConfig{Provider: "google"}, wantErr: true},
		{name: "geoapify without key", cfg: config.GeocoderConfig{Provider: "geoapify"}, wantErr: true},
		{name: "unknown", cfg: config.GeocoderConfig{Provider: "mapbox"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGeocoder(tc.cfg, tc.googleKey)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.wantType, g)
		})
	}
}
