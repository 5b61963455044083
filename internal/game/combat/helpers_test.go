package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// fixedSrc returns val for every Intn call (clamped to n-1) and f for every Float64 call.
type fixedSrc struct {
	val int
	f   float64
}

func (s fixedSrc) Intn(n int) int {
	if s.val >= n {
		return n - 1
	}
	return s.val
}

func (s fixedSrc) Float64() float64 { return s.f }

// alwaysHit hits every accuracy check and rolls minimum variance.
var alwaysHit = fixedSrc{val: 0, f: 0}

func tackle() monster.Move {
	return monster.Move{ID: "tackle", Name: "Tackle", Category: monster.Physical, Type: element.Normal, Power: 40, Accuracy: 100, PP: 35, MaxPP: 35}
}

func ember() monster.Move {
	return monster.Move{ID: "ember", Name: "Ember", Category: monster.Special, Type: element.Fire, Power: 40, Accuracy: 100, PP: 25, MaxPP: 25}
}

func growl() monster.Move {
	return monster.Move{ID: "growl", Name: "Growl", Category: monster.Status, Type: element.Normal, Power: 0, Accuracy: 100, PP: 40, MaxPP: 40, Script: "growl"}
}

// mon builds a combatant with every base stat set to base and zero IVs.
func mon(name string, typing element.Typing, base, level int, moves ...monster.Move) *monster.Combatant {
	c := monster.New(name, name, typing, stats.Uniform(base), 100, level, stats.Block{}, stats.Hardy)
	for _, m := range moves {
		c.AddMove(m)
	}
	return c
}

func normal(name string, level int) *monster.Combatant {
	return mon(name, element.Single(element.Normal), 100, level, tackle(), ember(), growl())
}

func newBattle(t *testing.T, player, opponent []*monster.Combatant, wild bool, opts combat.Options) *combat.Battle {
	t.Helper()
	if opts.Source == nil {
		opts.Source = alwaysHit
	}
	b, err := combat.NewBattle("test", player, opponent, wild, opts)
	require.NoError(t, err)
	return b
}
