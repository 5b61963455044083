package combat

import (
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

// EscapeChance is the probability that fleeing a wild combatant succeeds.
const EscapeChance = 0.6

// CaptureRate returns the probability of catching c at its current HP.
//
// Postcondition: 0 <= result <= 1 for a catch rate within [0, 255].
func CaptureRate(c *monster.Combatant) float64 {
	return float64(c.CatchRate) / monster.MaxCatchRate * (1 - c.HPRatio()*0.5)
}

// CaptureSuccess draws once to decide whether a thrown ball catches c.
// A weaker target is easier to catch.
//
// Precondition: c and src must be non-nil.
func CaptureSuccess(c *monster.Combatant, src dice.Source) bool {
	return dice.Chance(src, CaptureRate(c))
}

// EscapeSuccess draws once to decide whether fleeing an encounter preview succeeds.
func EscapeSuccess(src dice.Source) bool {
	return dice.Chance(src, EscapeChance)
}
