// README: Quote handler (estimate a move from addresses, size, floors, date).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"movequote/internal/modules/pricing"
)

type QuoteService interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

type QuoteHandler struct {
	quotes QuoteService
}

func NewQuoteHandler(quotes QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req pricing.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	q, err := h.quotes.Quote(c.Request.Context(), req)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}
