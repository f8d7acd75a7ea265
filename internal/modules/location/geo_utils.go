// README: Pure geographic helpers: great-circle and road distance.
package location

import (
	"math"

	"movequote/internal/types"
)

const earthRadiusKm = 6371.0

// RoadFactor inflates straight-line distance to approximate road indirection.
const RoadFactor = 1.35

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// RoadDistanceKm converts a straight-line distance into the road distance
// used everywhere a quote needs kilometres driven.
func RoadDistanceKm(straightLineKm float64) float64 {
	return straightLineKm * RoadFactor
}

// RoadKmBetween is RoadDistanceKm(HaversineKm(a, b)).
func RoadKmBetween(a, b types.Point) float64 {
	return RoadDistanceKm(HaversineKm(a, b))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
