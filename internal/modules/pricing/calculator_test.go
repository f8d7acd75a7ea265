package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movequote/internal/infra"
	"movequote/internal/modules/location"
	"movequote/internal/modules/route"
	"movequote/internal/modules/tariff"
	"movequote/internal/pkg/clock"
	"movequote/internal/types"
)

// mapResolver resolves from a fixed table; anything else is Unresolved.
type mapResolver struct {
	points map[string]types.Point
	calls  int
}

func (m *mapResolver) ResolveAll(ctx context.Context, texts []string) []location.Resolution {
	m.calls++
	out := make([]location.Resolution, len(texts))
	for i, text := range texts {
		if p, ok := m.points[text]; ok {
			out[i] = location.Resolved{Query: text, Point: p, DisplayName: "resolved " + text}
		} else {
			out[i] = location.Unresolved{Query: text, Reason: "not found"}
		}
	}
	return out
}

func TestCalculatorCompute(t *testing.T) {
	pickup := north(depot, 10)
	resolver := &mapResolver{points: map[string]types.Point{
		"pickup":  pickup,
		"dropoff": north(pickup, 5),
	}}
	calc := NewCalculator(resolver, depot)

	q, err := calc.Compute(context.Background(), tariff.Defaults(), Request{
		Pickups:      []string{"pickup"},
		Dropoffs:     []string{"dropoff"},
		DwellingSize: "2.5",
		PickupFloor:  "rdc",
		DropoffFloor: "rdc",
		ServiceDate:  types.NewDate(2026, time.March, 17),
	})
	require.NoError(t, err)

	assert.Equal(t, 503.02, q.Costs.Total)
	require.Len(t, q.Addresses, 2)
	assert.Equal(t, route.RolePickup, q.Addresses[0].Role)
	assert.Equal(t, route.RoleDropoff, q.Addresses[1].Role)
	assert.True(t, q.Addresses[0].Found)
	assert.Empty(t, q.UnresolvedAddresses())
}

func TestCalculatorComputeUnresolvedAddresses(t *testing.T) {
	pickup := north(depot, 10)
	resolver := &mapResolver{points: map[string]types.Point{
		"good pickup": pickup,
		"dropoff":     north(pickup, 5),
	}}
	calc := NewCalculator(resolver, depot)

	q, err := calc.Compute(context.Background(), tariff.Defaults(), Request{
		Pickups:      []string{"bad pickup", "good pickup"},
		Dropoffs:     []string{"dropoff", "nowhere"},
		DwellingSize: "2.5",
		ServiceDate:  types.NewDate(2026, time.March, 17),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bad pickup", "nowhere"}, q.UnresolvedAddresses())
	assert.Len(t, q.Route.Stops, 2, "unresolved addresses do not become stops")
	assert.InDelta(t, 6.75, q.Route.DistanceKm, 1e-6)
	assert.Equal(t, 2, q.PickupCount, "unresolved pickups still need handling")
	assert.Equal(t, 2, q.DropoffCount)
	assert.Equal(t, 0.0, q.Durations.DepotDistanceKm, "first pickup unresolved")
	assert.Equal(t, 60.0, q.Durations.DeadheadMinutes)
}

func TestCalculatorComputeAllUnresolved(t *testing.T) {
	calc := NewCalculator(&mapResolver{}, depot)

	q, err := calc.Compute(context.Background(), tariff.Defaults(), Request{
		Pickups:     []string{"a"},
		Dropoffs:    []string{"b"},
		ServiceDate: types.NewDate(2026, time.March, 17),
	})
	require.NoError(t, err)

	assert.Empty(t, q.Route.Stops)
	assert.Equal(t, 0.0, q.Durations.TravelMinutes)
	assert.Greater(t, q.Costs.Total, 0.0)
}

func TestCalculatorComputeValidation(t *testing.T) {
	calc := NewCalculator(&mapResolver{}, depot)
	date := types.NewDate(2026, time.March, 17)

	_, err := calc.Compute(context.Background(), tariff.Defaults(), Request{Dropoffs: []string{"x"}, ServiceDate: date})
	assert.True(t, errors.Is(err, ErrNoPickup))

	_, err = calc.Compute(context.Background(), tariff.Defaults(), Request{Pickups: []string{"  "}, ServiceDate: date})
	assert.True(t, errors.Is(err, ErrNoPickup))

	_, err = calc.Compute(context.Background(), tariff.Defaults(), Request{Pickups: []string{"x"}})
	assert.True(t, errors.Is(err, ErrNoServiceDate))
}

func TestServiceQuoteReadsLiveTariff(t *testing.T) {
	ctx := context.Background()
	store := tariff.NewStore(infra.NewMemoryKV(), clock.NewMockClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), nil)

	pickup := north(depot, 10)
	resolver := &mapResolver{points: map[string]types.Point{"pickup": pickup, "dropoff": north(pickup, 5)}}
	svc := NewService(store, NewCalculator(resolver, depot), nil)

	req := Request{
		Pickups:      []string{"pickup"},
		Dropoffs:     []string{"dropoff"},
		DwellingSize: "2.5",
		ServiceDate:  types.NewDate(2026, time.March, 17),
	}

	before, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 125.0, before.EffectiveRate)

	cfg := tariff.Defaults()
	cfg.BaseHourlyRate = 150
	_, err = store.Save(ctx, cfg)
	require.NoError(t, err)

	after, err := svc.Quote(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 150.0, after.EffectiveRate)
	assert.Equal(t, 525.0, after.Costs.Subtotal)
}

type brokenLoader struct{}

func (brokenLoader) Load(context.Context) (tariff.Config, error) {
	return tariff.Config{}, errors.New("kv down")
}

func TestServiceQuoteTariffError(t *testing.T) {
	svc := NewService(brokenLoader{}, NewCalculator(&mapResolver{}, depot), nil)
	_, err := svc.Quote(context.Background(), Request{Pickups: []string{"x"}, ServiceDate: types.NewDate(2026, 3, 17)})
	assert.Error(t, err)
}
