// README: WGS84 coordinate value object.
package types

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) IsZero() bool { return p.Lat == 0 && p.Lng == 0 }
