// README: Reservation handler (availability, submit, list, approve/refuse).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/types"
)

type ReservationService interface {
	CheckAvailability(ctx context.Context, date types.Date) (reservation.Availability, error)
	Submit(ctx context.Context, cmd reservation.SubmitCommand) (reservation.Reservation, error)
	Approve(ctx context.Context, id types.ID) (reservation.Reservation, error)
	Refuse(ctx context.Context, id types.ID) (reservation.Reservation, error)
	Get(ctx context.Context, id types.ID) (reservation.Reservation, error)
	List(ctx context.Context, f reservation.Filter) ([]reservation.Reservation, error)
}

type ReservationHandler struct {
	reservations ReservationService
	quotes       QuoteService
}

func NewReservationHandler(reservations ReservationService, quotes QuoteService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, quotes: quotes}
}

// submitReservationReq carries either a quote the caller already holds or
// the request to price server-side. Request wins when both are present.
type submitReservationReq struct {
	Quote   *pricing.Quote     `json:"quote"`
	Request *pricing.Request   `json:"request"`
	Client  reservation.Client `json:"client"`
}

func (h *ReservationHandler) Availability(c *gin.Context) {
	date, err := types.ParseDate(c.Query("date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid date")
		return
	}
	av, err := h.reservations.CheckAvailability(c.Request.Context(), date)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, av)
}

func (h *ReservationHandler) Submit(c *gin.Context) {
	var req submitReservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var q pricing.Quote
	switch {
	case req.Request != nil:
		computed, err := h.quotes.Quote(c.Request.Context(), *req.Request)
		if err != nil {
			writeQuoteError(c, err)
			return
		}
		q = computed
	case req.Quote != nil:
		q = *req.Quote
	default:
		writeError(c, http.StatusBadRequest, "quote or request is required")
		return
	}

	r, err := h.reservations.Submit(c.Request.Context(), reservation.SubmitCommand{
		Quote:  q,
		Client: req.Client,
	})
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *ReservationHandler) List(c *gin.Context) {
	var f reservation.Filter
	if v := c.Query("date"); v != "" {
		date, err := types.ParseDate(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid date")
			return
		}
		f.Date = date
	}
	if v := c.Query("status"); v != "" {
		f.Status = reservation.Status(v)
	}

	list, err := h.reservations.List(c.Request.Context(), f)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, list)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *ReservationHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.reservations.Approve(c.Request.Context(), id)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *ReservationHandler) Refuse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.reservations.Refuse(c.Request.Context(), id)
	if err != nil {
		writeReservationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func pathID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return types.ID(id), true
}
