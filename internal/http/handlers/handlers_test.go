package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movequote/internal/http/handlers"
	"movequote/internal/infra"
	"movequote/internal/modules/pricing"
	"movequote/internal/modules/reservation"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/clock"
	"movequote/internal/types"
)

type stubQuotes struct {
	quote pricing.Quote
	err   error
	calls int
}

func (s *stubQuotes) Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error) {
	s.calls++
	if s.err != nil {
		return pricing.Quote{}, s.err
	}
	q := s.quote
	q.ServiceDate = req.ServiceDate
	q.DwellingSize = req.DwellingSize
	return q, nil
}

type env struct {
	router *gin.Engine
	kv     *infra.MemoryKV
	quotes *stubQuotes
}

func newEnv(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := infra.NewMemoryKV()
	clk := clock.NewMockClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	tariffs := tariff.NewStore(kv, clk, logger)
	ledger := reservation.NewService(reservation.NewStore(kv, logger), tariffs, clk, logger)
	quotes := &stubQuotes{quote: pricing.Quote{
		StartTime:       "08:00",
		EstimatedFinish: "12:00",
		EffectiveRate:   150,
		Costs:           pricing.Costs{Subtotal: 600, GST: 30, QST: 59.85, Total: 689.85},
		Currency:        "CAD",
	}}

	quoteHandler := handlers.NewQuoteHandler(quotes)
	tariffHandler := handlers.NewTariffHandler(tariffs)
	reservationHandler := handlers.NewReservationHandler(ledger, quotes)

	r := gin.New()
	r.POST("/api/quotes", quoteHandler.Create)
	r.GET("/api/tariffs", tariffHandler.Get)
	r.PUT("/api/tariffs", tariffHandler.Put)
	r.DELETE("/api/tariffs", tariffHandler.Reset)
	r.GET("/api/availability", reservationHandler.Availability)
	r.POST("/api/reservations", reservationHandler.Submit)
	r.GET("/api/reservations", reservationHandler.List)
	r.GET("/api/reservations/:id", reservationHandler.Get)
	r.POST("/api/reservations/:id/approve", reservationHandler.Approve)
	r.POST("/api/reservations/:id/refuse", reservationHandler.Refuse)

	return env{router: r, kv: kv, quotes: quotes}
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func submit(t *testing.T, e env, date string) reservation.Reservation {
	t.Helper()
	body := `{"request":{"pickups":["1 Grande Allee"],"dwelling_size":"3.5","service_date":"` + date + `"},"client":{"name":"Alex Tremblay"}}`
	w := doRequest(t, e.router, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[reservation.Reservation](t, w)
}

func TestQuoteCreate(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodPost, "/api/quotes",
		`{"pickups":["1 Grande Allee"],"dropoffs":["2 Rue Saint-Jean"],"dwelling_size":"4.5","service_date":"2026-07-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	q := decode[pricing.Quote](t, w)
	assert.Equal(t, "2026-07-01", q.ServiceDate.String())
	assert.Equal(t, "4.5", q.DwellingSize)
	assert.Equal(t, 689.85, q.Costs.Total)
}

func TestQuoteCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "malformed body", body: `{`, code: http.StatusBadRequest},
		{name: "no pickup", body: `{}`, err: pricing.ErrNoPickup, code: http.StatusBadRequest},
		{name: "no date", body: `{}`, err: pricing.ErrNoServiceDate, code: http.StatusBadRequest},
		{name: "tariff outage", body: `{}`, err: errors.New("kv down"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.quotes.err = tt.err

			w := doRequest(t, e.router, http.MethodPost, "/api/quotes", tt.body)
			assert.Equal(t, tt.code, w.Code)

			resp := decode[map[string]any](t, w)
			assert.Equal(t, false, resp["success"])
			assert.NotEmpty(t, resp["message"])
		})
	}
}

func TestTariffLifecycle(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodGet, "/api/tariffs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tariff.Defaults().BaseHourlyRate, decode[tariff.Config](t, w).BaseHourlyRate)

	w = doRequest(t, e.router, http.MethodPut, "/api/tariffs", `{"base_hourly_rate":175,"truck_count":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[tariff.Config](t, w)
	assert.Equal(t, 175.0, saved.BaseHourlyRate)
	assert.Equal(t, 2, saved.TruckCount)
	assert.NotNil(t, saved.LastUpdated)

	w = doRequest(t, e.router, http.MethodGet, "/api/tariffs", "")
	assert.Equal(t, 175.0, decode[tariff.Config](t, w).BaseHourlyRate)

	w = doRequest(t, e.router, http.MethodDelete, "/api/tariffs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tariff.Defaults().BaseHourlyRate, decode[tariff.Config](t, w).BaseHourlyRate)
}

func TestTariffPutWhatGetReturned(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodPut, "/api/tariffs", `{"base_hourly_rate":140,"truck_count":1,"floor_multipliers":{"2e":1.4}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, e.router, http.MethodGet, "/api/tariffs", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	w = doRequest(t, e.router, http.MethodPut, "/api/tariffs", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, e.router, http.MethodGet, "/api/tariffs", "")
	got := decode[tariff.Config](t, w)
	assert.Equal(t, 140.0, got.BaseHourlyRate)
	assert.Equal(t, 1, got.TruckCount)
	assert.InDelta(t, 1.4, got.FloorMultipliers["2e"], 1e-9)

	w = doRequest(t, e.router, http.MethodGet, "/api/availability?date=2026-07-01", "")
	assert.Equal(t, 1, decode[reservation.Availability](t, w).Capacity)
}

func TestTariffPutLegacyKeys(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodPut, "/api/tariffs", `{"tauxHoraireBase":160,"nombreCamions":4}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	saved := decode[tariff.Config](t, w)
	assert.Equal(t, 160.0, saved.BaseHourlyRate)
	assert.Equal(t, 4, saved.TruckCount)
	assert.Equal(t, tariff.SchemaVersion, saved.Version)
}

func TestTariffPutRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "malformed", body: `{"base_hourly_rate":`},
		{name: "negative rate", body: `{"base_hourly_rate":-1}`},
		{name: "zero speed", body: `{"average_speed_kmh":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			w := doRequest(t, e.router, http.MethodPut, "/api/tariffs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			_, found, err := e.kv.Get(context.Background(), infra.KeyTariffs)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestAvailability(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodGet, "/api/availability", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r := submit(t, e, "2026-07-01")
	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/"+r.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, e.router, http.MethodGet, "/api/availability?date=2026-07-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	av := decode[reservation.Availability](t, w)
	assert.Equal(t, 3, av.Capacity)
	assert.Equal(t, 1, av.Used)
	assert.Equal(t, 2, av.Remaining)
	assert.True(t, av.IsAvailable)
}

func TestSubmitReservation(t *testing.T) {
	e := newEnv(t)

	r := submit(t, e, "2026-07-01")
	assert.Equal(t, reservation.StatusPending, r.Status)
	assert.Equal(t, "Alex Tremblay", r.Client.Name)
	assert.Equal(t, 689.85, r.Quote.Total)
	assert.Equal(t, 1, e.quotes.calls)

	w := doRequest(t, e.router, http.MethodGet, "/api/reservations/"+r.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, r.ID, decode[reservation.Reservation](t, w).ID)
}

func TestSubmitReservationWithQuote(t *testing.T) {
	e := newEnv(t)

	body := `{"quote":{"service_date":"2026-07-02","estimated_finish":"13:30","costs":{"total":512.4}},"client":{"name":"Sam"}}`
	w := doRequest(t, e.router, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	r := decode[reservation.Reservation](t, w)
	assert.Equal(t, "2026-07-02", r.ServiceDate.String())
	assert.Equal(t, 512.4, r.Quote.Total)
	assert.Equal(t, 0, e.quotes.calls)
}

func TestSubmitReservationRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{`},
		{name: "neither quote nor request", body: `{"client":{"name":"Sam"}}`},
		{name: "quote without date", body: `{"quote":{"estimated_finish":"12:00"},"client":{"name":"Sam"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			w := doRequest(t, e.router, http.MethodPost, "/api/reservations", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decode[map[string]any](t, w)["success"])
		})
	}
}

func TestApproveRefuseMapping(t *testing.T) {
	e := newEnv(t)

	w := doRequest(t, e.router, http.MethodPut, "/api/tariffs", `{"truck_count":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	first := submit(t, e, "2026-07-01")
	second := submit(t, e, "2026-07-01")
	third := submit(t, e, "2026-07-01")

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/"+first.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reservation.StatusApproved, decode[reservation.Reservation](t, w).Status)

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/"+second.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, reservation.ErrNoCapacity.Error(), decode[map[string]any](t, w)["message"])

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/"+third.ID.String()+"/refuse", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reservation.StatusRefused, decode[reservation.Reservation](t, w).Status)

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/"+third.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/RES-missing/approve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, e.router, http.MethodPost, "/api/reservations/bad$id/refuse", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReservations(t *testing.T) {
	e := newEnv(t)

	a := submit(t, e, "2026-07-01")
	submit(t, e, "2026-07-02")
	w := doRequest(t, e.router, http.MethodPost, "/api/reservations/"+a.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "?date=2026-07-01", want: 1},
		{query: "?status=pending", want: 1},
		{query: "?status=approved&date=2026-07-02", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(t, e.router, http.MethodGet, "/api/reservations"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]reservation.Reservation](t, w), tt.want)
		})
	}

	w = doRequest(t, e.router, http.MethodGet, "/api/reservations?date=July", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorruptLedger(t *testing.T) {
	e := newEnv(t)
	r := submit(t, e, "2026-07-01")
	require.NoError(t, e.kv.Set(context.Background(), infra.KeyReservations, []byte("{not json")))

	w := doRequest(t, e.router, http.MethodPost, "/api/reservations/"+r.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, reservation.ErrCorruptLedger.Error(), decode[map[string]any](t, w)["message"])

	raw, _, err := e.kv.Get(context.Background(), infra.KeyReservations)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestGetUnknownReservation(t *testing.T) {
	e := newEnv(t)
	w := doRequest(t, e.router, http.MethodGet, "/api/reservations/"+types.ID("RES-nope").String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
