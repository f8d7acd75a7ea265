// README: Google Maps Geocoding API adapter.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"movequote/internal/modules/location"
	"movequote/internal/types"
)

// GoogleGeocoder handles interactions with the Google Geocoding API.
type GoogleGeocoder struct {
	client   *maps.Client
	region   string
	language string
}

// NewGoogleGeocoder creates a geocoder with the given API key. Extra client
// options (e.g. maps.WithBaseURL) are passed through.
func NewGoogleGeocoder(apiKey, region, language string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: region, language: language}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (location.Place, error) {
	r := &maps.GeocodingRequest{
		Address:  query,
		Region:   g.region,
		Language: g.language,
	}

	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return location.Place{}, fmt.Errorf("maps api error: %w", err)
	}
	// ZERO_RESULTS is not an error for the client; it comes back empty.
	if len(results) == 0 {
		return location.Place{}, location.ErrNoResults
	}

	best := results[0]
	return location.Place{
		Point:       types.Point{Lat: best.Geometry.Location.Lat, Lng: best.Geometry.Location.Lng},
		DisplayName: best.FormattedAddress,
	}, nil
}
