// Package score holds the numeric conventions shared by every score the
// engine emits: values live in [0, 1] and are rounded half-up to two decimal
// places.
package score

import (
	"math"
	"math/big"
	"strconv"
)

// Clamp01 limits v to the closed interval [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round2 rounds v half-up (away from zero on a tie) to two decimal places.
//
// Rounding is performed on the shortest decimal representation of v rather
// than on its binary value, so 0.285 rounds to 0.29 even though the nearest
// float64 is slightly below 0.285. This matches how a decimal type built
// from the float would behave.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return math.Round(v*100) / 100
	}
	neg := r.Sign() < 0
	if neg {
		r.Neg(r)
	}
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	hundredths := new(big.Int).Quo(r.Num(), r.Denom())
	f, _ := new(big.Rat).SetFrac(hundredths, big.NewInt(100)).Float64()
	if neg {
		f = -f
	}
	return f
}

// Unit clamps v to [0, 1] and rounds the result with [Round2].
func Unit(v float64) float64 {
	return Round2(Clamp01(v))
}
