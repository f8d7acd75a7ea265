// README: Calculator resolves addresses, orders the route and prices the job.
package pricing

import (
	"context"
	"strings"

	"movequote/internal/modules/location"
	"movequote/internal/modules/route"
	"movequote/internal/modules/tariff"
	"movequote/internal/types"
)

// AddressResolver is satisfied by *location.Resolver.
type AddressResolver interface {
	ResolveAll(ctx context.Context, texts []string) []location.Resolution
}

type Calculator struct {
	resolver AddressResolver
	depot    types.Point
}

func NewCalculator(resolver AddressResolver, depot types.Point) *Calculator {
	return &Calculator{resolver: resolver, depot: depot}
}

// Compute prices req against cfg. Addresses that fail to resolve are
// reported on the quote and skipped in the route; they still count as
// handling passes.
func (c *Calculator) Compute(ctx context.Context, cfg tariff.Config, req Request) (Quote, error) {
	if err := validateRequest(req); err != nil {
		return Quote{}, err
	}

	queries := make([]string, 0, len(req.Pickups)+len(req.Dropoffs))
	queries = append(queries, req.Pickups...)
	queries = append(queries, req.Dropoffs...)
	resolutions := c.resolver.ResolveAll(ctx, queries)

	addresses := make([]AddressResult, 0, len(resolutions))
	stops := make([]route.Stop, 0, len(resolutions))
	var firstPickup *types.Point

	for i, res := range resolutions {
		role := route.RolePickup
		if i >= len(req.Pickups) {
			role = route.RoleDropoff
		}

		switch r := res.(type) {
		case location.Resolved:
			addresses = append(addresses, AddressResult{
				Role: role, Query: r.Query, Found: true, Point: r.Point, DisplayName: r.DisplayName,
			})
			stops = append(stops, route.Stop{Point: r.Point, Role: role, Address: r.Query})
			if i == 0 {
				p := r.Point
				firstPickup = &p
			}
		case location.Unresolved:
			addresses = append(addresses, AddressResult{Role: role, Query: r.Query, DisplayName: r.Query})
		}
	}

	q := Estimate(cfg, c.depot, Input{
		Route:        route.Optimize(stops),
		FirstPickup:  firstPickup,
		PickupCount:  len(req.Pickups),
		DropoffCount: len(req.Dropoffs),
		DwellingSize: req.DwellingSize,
		PickupFloor:  req.PickupFloor,
		DropoffFloor: req.DropoffFloor,
		ServiceDate:  req.ServiceDate,
	})
	q.Addresses = addresses
	return q, nil
}

func validateRequest(req Request) error {
	if len(req.Pickups) == 0 || strings.TrimSpace(req.Pickups[0]) == "" {
		return ErrNoPickup
	}
	if req.ServiceDate.IsZero() {
		return ErrNoServiceDate
	}
	return nil
}
