// README: Geocoding wiring; provider choice, Redis cache, resolver options.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"movequote/internal/config"
	"movequote/internal/maps"
	"movequote/internal/modules/location"
)

func NewGeocoder(cfg config.GeocoderConfig) (location.Geocoder, error) {
	switch cfg.Provider {
	case config.GeocoderNominatim, "":
		return maps.NewNominatimGeocoder(cfg.BaseURL, cfg.UserAgent, cfg.Language), nil
	case config.GeocoderGoogle:
		g, err := maps.NewGoogleGeocoder(cfg.GoogleAPIKey, cfg.RegionCode, cfg.Language)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown geocoder %q", cfg.Provider)
}

// NewResolver caches lookups in Redis only when a client is available.
func NewResolver(cfg config.GeocoderConfig, geocoder location.Geocoder, client *redis.Client, logger *slog.Logger) *location.Resolver {
	opts := location.ResolverOptions{
		RegionSuffix: cfg.RegionSuffix,
		Timeout:      cfg.Timeout,
		Parallelism:  cfg.Parallelism,
		Logger:       logger,
	}
	if client != nil {
		opts.Cache = location.NewRedisGeocodeCache(client, cfg.CacheTTL)
	}
	return location.NewResolver(geocoder, opts)
}
