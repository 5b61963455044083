package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
	"github.com/cory-johannsen/monbattle/internal/handlers"
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

// lucky hits every move, wins every escape and capture roll.
var lucky = fixedSrc{val: 0, f: 0}

// unlucky fails every escape and capture roll.
var unlucky = fixedSrc{val: 0, f: 0.99}

func tackle() monster.Move {
	return monster.Move{ID: "tackle", Name: "Tackle", Category: monster.Physical, Type: element.Normal, Power: 40, Accuracy: 100, PP: 35, MaxPP: 35}
}

func ember() monster.Move {
	return monster.Move{ID: "ember", Name: "Ember", Category: monster.Special, Type: element.Fire, Power: 40, Accuracy: 100, PP: 25, MaxPP: 25}
}

func recoverMove() monster.Move {
	return monster.Move{ID: "recover", Name: "Recover", Category: monster.Status, Type: element.Normal, Accuracy: 100, PP: 10, MaxPP: 10, Script: "recover"}
}

func mon(name string, typing element.Typing, level int, moves ...monster.Move) *monster.Combatant {
	c := monster.New(name, name, typing, stats.Uniform(100), 100, level, stats.Block{}, stats.Hardy)
	for _, m := range moves {
		c.AddMove(m)
	}
	return c
}

func normal(name string, level int) *monster.Combatant {
	return mon(name, element.Single(element.Normal), level, tackle())
}

func newPlayer(t *testing.T, members ...*monster.Combatant) *trainer.Player {
	t.Helper()
	p := trainer.NewPlayer("Red", trainer.DefaultPartyCap)
	for _, c := range members {
		require.NoError(t, p.AddToParty(c))
	}
	return p
}

func newBattleHandler(src fixedSrc, effects combat.StatusEffects) (*handlers.BattleHandler, *combat.Engine) {
	engine := combat.NewEngine(combat.Options{Source: src, Effects: effects})
	return handlers.NewBattleHandler(engine, src, zap.NewNop(), 50), engine
}
