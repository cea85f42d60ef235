// README: Geocoder provider selection from config (Geoapify or Google).
package maps

import (
	"fmt"
	"strings"

	"oyadrop/internal/config"
)

const (
	ProviderGeoapify = "geoapify"
	ProviderGoogle   = "google"
)

// NewGeocoder builds the provider named by cfg.Provider.
func NewGeocoder(cfg config.GeocoderConfig, googleKey string) (Geocoder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGeoapify:
		g, err := NewGeoapifyGeocoder(cfg.GeoapifyURL, cfg.GeoapifyKey, cfg.CountryCode)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderGoogle:
		if googleKey == "" {
			return nil, fmt.Errorf("google geocoder requires OYADROP_GOOGLE_MAPS_KEY")
		}
		g, err := NewGoogleGeocoder(googleKey, cfg.CountryCode)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}
}
