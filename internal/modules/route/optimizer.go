// README: Greedy nearest-neighbor ordering of quote stops.
package route

import (
	"math"

	"movequote/internal/modules/location"
)

// Optimize orders stops with a nearest-neighbor heuristic seeded by the
// first stop. It is not an optimal TSP solver; stop counts are small and
// the result must be deterministic.
//
// Ties keep the earliest stop in input order. Zero to two stops are
// returned unchanged.
func Optimize(stops []Stop) Result {
	if len(stops) <= 2 {
		ordered := append([]Stop(nil), stops...)
		return Result{Stops: ordered, DistanceKm: TotalDistanceKm(ordered)}
	}

	remaining := append([]Stop(nil), stops[1:]...)
	ordered := make([]Stop, 0, len(stops))
	ordered = append(ordered, stops[0])

	for len(remaining) > 0 {
		current := ordered[len(ordered)-1].Point
		best := 0
		bestKm := math.Inf(1)
		for i, s := range remaining {
			// Strict < keeps the first candidate on equal distances.
			if d := location.HaversineKm(current, s.Point); d < bestKm {
				bestKm = d
				best = i
			}
		}
		ordered = append(ordered, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return Result{Stops: ordered, DistanceKm: TotalDistanceKm(ordered)}
}

// TotalDistanceKm sums road distance over consecutive stops.
func TotalDistanceKm(stops []Stop) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += location.RoadKmBetween(stops[i-1].Point, stops[i].Point)
	}
	return total
}
