// README: fx modules wiring config, storage, geocoding, services and HTTP.
package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"movequote/internal/config"
	httptransport "movequote/internal/http"
	"movequote/internal/infra"
	"movequote/internal/modules/location"
	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/clock"
	"movequote/internal/types"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
		func(cfg config.Config) *slog.Logger {
			return NewLogger(cfg.Log, os.Stdout)
		},
	),
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		provideStorage,
		func(s *Storage) infra.KV { return s.KV },
	),
)

var GeocodingModule = fx.Module("geocoding",
	fx.Provide(
		func(cfg config.Config) (location.Geocoder, error) {
			return NewGeocoder(cfg.Geocoder)
		},
		func(cfg config.Config, g location.Geocoder, s *Storage, logger *slog.Logger) *location.Resolver {
			return NewResolver(cfg.Geocoder, g, s.Redis, logger)
		},
	),
)

var ServiceModule = fx.Module("services",
	fx.Provide(
		clock.NewRealClock,
		tariff.NewStore,
		func(cfg config.Config, r *location.Resolver) *pricing.Calculator {
			return pricing.NewCalculator(r, types.Point{Lat: cfg.Depot.Lat, Lng: cfg.Depot.Lng})
		},
		func(tariffs *tariff.Store, calc *pricing.Calculator, logger *slog.Logger) *pricing.Service {
			return pricing.NewService(tariffs, calc, logger)
		},
		reservation.NewStore,
		func(store *reservation.Store, tariffs *tariff.Store, clk clock.Clock, logger *slog.Logger) *reservation.Service {
			return reservation.NewService(store, tariffs, clk, logger)
		},
	),
)

var HTTPModule = fx.Module("http",
	fx.Provide(
		func(cfg config.Config, quotes *pricing.Service, tariffs *tariff.Store, reservations *reservation.Service, logger *slog.Logger) *gin.Engine {
			return httptransport.NewRouter(httptransport.RouterDeps{
				Quotes:       quotes,
				Tariffs:      tariffs,
				Reservations: reservations,
				CORSOrigins:  cfg.HTTP.CORSOrigins,
				Logger:       logger,
			})
		},
		func(cfg config.Config, engine *gin.Engine) *httptransport.Server {
			return httptransport.NewServer(cfg.HTTP.Addr, engine)
		},
	),
)

var Module = fx.Options(
	ConfigModule,
	StorageModule,
	GeocodingModule,
	ServiceModule,
	HTTPModule,
	fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
		return &fxevent.SlogLogger{Logger: logger}
	}),
)

func provideStorage(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*Storage, error) {
	s, err := OpenStorage(context.Background(), cfg.Store)
	if err != nil {
		return nil, err
	}
	logger.Info("storage opened", "backend", cfg.Store.Backend)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}
