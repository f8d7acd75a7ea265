package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"movequote/internal/modules/location"
)

func newGoogleTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ca", r.URL.Query().Get("region"))
		assert.Equal(t, "fr", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleGeocode(t *testing.T) {
	srv := newGoogleTestServer(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "2325 Rue de l'Université, Québec, QC",
			"geometry": {"location": {"lat": 46.7817, "lng": -71.2747}}
		}]
	}`)

	g, err := NewGoogleGeocoder("test-key", "ca", "fr", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	place, err := g.Geocode(context.Background(), "2325 rue de l'Universite")
	require.NoError(t, err)
	assert.InDelta(t, 46.7817, place.Point.Lat, 1e-9)
	assert.InDelta(t, -71.2747, place.Point.Lng, 1e-9)
	assert.Equal(t, "2325 Rue de l'Université, Québec, QC", place.DisplayName)
}

func TestGoogleGeocodeZeroResults(t *testing.T) {
	srv := newGoogleTestServer(t, `{"status": "ZERO_RESULTS", "results": []}`)

	g, err := NewGoogleGeocoder("test-key", "ca", "fr", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, location.ErrNoResults), "got %v", err)
}
