package combat

import (
	"math"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

const (
	// VarianceMin is the lower bound of the damage roll multiplier.
	VarianceMin = 0.85
	// VarianceMax is the upper bound of the damage roll multiplier.
	VarianceMax = 1.00
)

// Damage computes the HP lost by defender when attacker connects with mv.
// Stats are read in battle mode, so individual values and natures do not
// influence live combat.
//
// Precondition: attacker, defender and src must be non-nil; chart nil means the default chart.
// Postcondition: Returns 0 for Status moves and >= 1 for every other category.
func Damage(attacker, defender *monster.Combatant, mv monster.Move, chart *element.Chart, src dice.Source) int {
	if mv.Category == monster.Status {
		return 0
	}
	if chart == nil {
		chart = element.DefaultChart()
	}

	atkKind, defKind := stats.Attack, stats.Defense
	if mv.Category == monster.Special {
		atkKind, defKind = stats.SpAttack, stats.SpDefense
	}
	atk := float64(attacker.EffectiveStat(stats.ModeBattle, atkKind))
	def := float64(max(1, defender.EffectiveStat(stats.ModeBattle, defKind)))
	level := float64(attacker.Level)

	base := math.Trunc(((2*level/5+2)*float64(mv.Power)*atk/def)/50 + 2)
	effectiveness := chart.Effectiveness(mv.Type, defender.Typing)
	variance := dice.FloatRangeInclusive(src, VarianceMin, VarianceMax)

	return max(1, int(math.Floor(base*effectiveness*variance)))
}

// Hits performs the accuracy check: one draw in [0,100] that must not exceed accuracy.
//
// Postcondition: accuracy >= 100 always hits; accuracy <= 0 never hits.
func Hits(accuracy int, src dice.Source) bool {
	if accuracy <= 0 {
		return false
	}
	return src.Intn(101) <= accuracy
}
