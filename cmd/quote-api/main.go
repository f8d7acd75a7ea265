// README: Entry point; fx wires config, storage, geocoding and services, then serves HTTP.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"movequote/internal/bootstrap"
	"movequote/internal/config"
	httptransport "movequote/internal/http"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

func startServer(lc fx.Lifecycle, srv *httptransport.Server, cfg config.Config, shutdowner fx.Shutdowner, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("http server starting", "addr", srv.Addr(), "mode", gin.Mode())
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("http server failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("http server stopping")
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Invoke(startServer),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	sig := <-app.Wait()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	os.Exit(sig.ExitCode)
}
