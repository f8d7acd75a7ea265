// README: Cent rounding shared by quote and reservation output.
package types

import "math"

// RoundCents rounds a monetary amount to two decimals. Only output values
// are rounded; intermediate hour and minute arithmetic stays unrounded.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
