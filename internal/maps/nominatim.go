// README: Nominatim (OpenStreetMap) geocoder over plain HTTP.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movequote/internal/modules/location"
	"movequote/internal/types"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("geocoder status %d: %s", e.Code, e.Body)
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder calls the /search endpoint and keeps the first hit.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	language  string
	client    *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent, language string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		language:  language,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (location.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return location.Place{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.language != "" {
		req.Header.Set("Accept-Language", g.language)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return location.Place{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return location.Place{}, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return location.Place{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded) == 0 {
		return location.Place{}, location.ErrNoResults
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return location.Place{}, fmt.Errorf("parse lat %q: %w", decoded[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return location.Place{}, fmt.Errorf("parse lon %q: %w", decoded[0].Lon, err)
	}

	return location.Place{
		Point:       types.Point{Lat: lat, Lng: lng},
		DisplayName: decoded[0].DisplayName,
	}, nil
}
