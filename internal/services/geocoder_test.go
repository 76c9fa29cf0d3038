package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

type fakeMapsClient struct {
	results  []maps.GeocodingResult
	err      error
	requests []*maps.GeocodingRequest
}

func (f *fakeMapsClient) Geocode(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.requests = append(f.requests, r)
	return f.results, f.err
}

func TestGoogleGeocoder_Geocode(t *testing.T) {
	client := &fakeMapsClient{results: []maps.GeocodingResult{{
		FormattedAddress: "Paris, France",
		Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 48.8566, Lng: 2.3522}},
	}}}
	geocoder := &GoogleGeocoder{client: client}

	result, err := geocoder.Geocode(context.Background(), "Paris, France")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Paris, France", result.FormattedAddress)
	assert.InDelta(t, 2.3522, result.Longitude, 1e-9)
	assert.Equal(t, "Paris, France", client.requests[0].Address)
}

func TestGoogleGeocoder_NoResults(t *testing.T) {
	geocoder := &GoogleGeocoder{client: &fakeMapsClient{}}

	result, err := geocoder.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGoogleGeocoder_Error(t *testing.T) {
	geocoder := &GoogleGeocoder{client: &fakeMapsClient{err: errors.New("maps: REQUEST_DENIED")}}

	_, err := geocoder.Geocode(context.Background(), "Paris")
	assert.Error(t, err)
}

func TestGoogleGeocoder_BlankAddressSkipsCall(t *testing.T) {
	client := &fakeMapsClient{}
	geocoder := &GoogleGeocoder{client: client}

	result, err := geocoder.Geocode(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, client.requests)
}

func TestNewGoogleGeocoder(t *testing.T) {
	geocoder, err := NewGoogleGeocoder("AIzaTestKey")
	require.NoError(t, err)
	assert.NotNil(t, geocoder)
}
