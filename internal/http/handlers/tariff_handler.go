// README: Tariff handler (read, replace and reset the pricing configuration).
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"movequote/internal/modules/tariff"
)

type TariffStore interface {
	Load(ctx context.Context) (tariff.Config, error)
	Save(ctx context.Context, cfg tariff.Config) (tariff.Config, error)
	Reset(ctx context.Context) (tariff.Config, error)
}

type TariffHandler struct {
	store TariffStore
}

func NewTariffHandler(store TariffStore) *TariffHandler {
	return &TariffHandler{store: store}
}

func (h *TariffHandler) Get(c *gin.Context) {
	cfg, err := h.store.Load(c.Request.Context())
	if err != nil {
		writeTariffError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}

// Put accepts the current document or any older layout Migrate understands.
func (h *TariffHandler) Put(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cfg, err := tariff.Migrate(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	saved, err := h.store.Save(c.Request.Context(), cfg)
	if err != nil {
		writeTariffError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, saved)
}

func (h *TariffHandler) Reset(c *gin.Context) {
	cfg, err := h.store.Reset(c.Request.Context())
	if err != nil {
		writeTariffError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}
