// Package dice provides the randomness abstraction shared by the battle and
// encounter engines. Every random decision in the engine is drawn from a Source
// so tests can substitute deterministic sequences.
package dice

import "math"

// Source is the randomness provider for all engine draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// IntRange returns a uniform int in [lo, hi] inclusive.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi.
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Chance reports whether a uniform draw in [0, 1) falls below p.
//
// Postcondition: Always false when p <= 0; always true when p > 1.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// floatSteps is the grid resolution of FloatRangeInclusive.
const floatSteps = 1 << 20

// FloatRangeInclusive returns a uniform float in [lo, hi] inclusive, drawn
// from floatSteps+1 evenly spaced points so both bounds are reachable.
//
// Precondition: lo <= hi.
// Postcondition: lo <= result <= hi.
func FloatRangeInclusive(src Source, lo, hi float64) float64 {
	k := math.Floor(src.Float64() * (floatSteps + 1))
	if k >= floatSteps {
		return hi
	}
	return lo + k/floatSteps*(hi-lo)
}
