// README: Logger construction (JSON slog at LOG_LEVEL).
package bootstrap

import (
	"io"
	"log/slog"

	"movequote/internal/config"
)

func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}
