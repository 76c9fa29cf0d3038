package services

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// GeocodeResult is a resolved address
type GeocodeResult struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// Geocoder resolves a free-text address to coordinates. A nil result with a nil
// error means the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}

type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleGeocoder resolves addresses with the Google Maps geocoding API
type GoogleGeocoder struct {
	client geocodingClient
}

// NewGoogleGeocoder creates a geocoder for the given API key
func NewGoogleGeocoder(apiKey string, options ...maps.ClientOption) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Geocode returns the first match for the address, or nil when there is none
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", address, err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	first := results[0]
	return &GeocodeResult{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}

// NoopGeocoder never resolves anything. It is used when no API key is configured.
type NoopGeocoder struct{}

func (NoopGeocoder) Geocode(context.Context, string) (*GeocodeResult, error) {
	return nil, nil
}
