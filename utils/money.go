package utils

import "math"

// Round2 rounds x to 2 decimal places, half-up on the cent. Display-level
// helper; the tax engine does its arithmetic in decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
