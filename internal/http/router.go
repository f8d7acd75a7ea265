// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"movequote/internal/http/handlers"
	"movequote/internal/http/middleware"
)

type RouterDeps struct {
	Quotes       handlers.QuoteService
	Tariffs      handlers.TariffStore
	Reservations handlers.ReservationService
	CORSOrigins  []string
	Logger       *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(logger),
		middleware.CORS(deps.CORSOrigins),
		middleware.Logging(logger),
	)

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	tariffHandler := handlers.NewTariffHandler(deps.Tariffs)
	reservationHandler := handlers.NewReservationHandler(deps.Reservations, deps.Quotes)

	api := r.Group("/api")
	api.POST("/quotes", quoteHandler.Create)

	api.GET("/tariffs", tariffHandler.Get)
	api.PUT("/tariffs", tariffHandler.Put)
	api.DELETE("/tariffs", tariffHandler.Reset)

	api.GET("/availability", reservationHandler.Availability)
	api.POST("/reservations", reservationHandler.Submit)
	api.GET("/reservations", reservationHandler.List)
	api.GET("/reservations/:id", reservationHandler.Get)
	api.POST("/reservations/:id/approve", reservationHandler.Approve)
	api.POST("/reservations/:id/refuse", reservationHandler.Refuse)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
