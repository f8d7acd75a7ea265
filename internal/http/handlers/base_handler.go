// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/errs"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// isValidID accepts the ledger's "RES-<uuid>" identifiers.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Success: false, Message: msg})
}

func writeQuoteError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, pricing.ErrNoPickup), errs.Is(err, pricing.ErrNoServiceDate):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeTariffError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, tariff.ErrInvalidConfig):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeReservationError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, reservation.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errs.Is(err, reservation.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errs.Is(err, reservation.ErrNoCapacity), errs.Is(err, reservation.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errs.Is(err, reservation.ErrCorruptLedger):
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, reservation.ErrCorruptLedger.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
