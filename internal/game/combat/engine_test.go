package combat_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

func team(names ...string) []*monster.Combatant {
	out := make([]*monster.Combatant, len(names))
	for i, n := range names {
		out[i] = normal(n, 5)
	}
	return out
}

func TestEngine_StartAndGet(t *testing.T) {
	e := combat.NewEngine(combat.Options{Source: alwaysHit})
	b, err := e.Start(team("p"), team("o"), true)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	got, ok := e.Get(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, e.Count())
}

func TestEngine_DuplicateID(t *testing.T) {
	e := combat.NewEngine(combat.Options{Source: alwaysHit})
	_, err := e.StartWithID("gym", team("p"), team("o"), false)
	require.NoError(t, err)
	_, err = e.StartWithID("gym", team("p"), team("o"), false)
	assert.Error(t, err)
}

func TestEngine_StartRejectsEmptyTeam(t *testing.T) {
	e := combat.NewEngine(combat.Options{Source: alwaysHit})
	_, err := e.Start(nil, team("o"), true)
	assert.ErrorIs(t, err, combat.ErrNoActiveCombatant)
	assert.Equal(t, 0, e.Count())
}

func TestEngine_End(t *testing.T) {
	e := combat.NewEngine(combat.Options{Source: alwaysHit})
	b, err := e.Start(team("p"), team("o"), true)
	require.NoError(t, err)
	e.End(b.ID)
	_, ok := e.Get(b.ID)
	assert.False(t, ok)
	e.End("missing")
}

func TestEngine_ConcurrentStarts(t *testing.T) {
	e := combat.NewEngine(combat.Options{Source: dice.NewSeededSource(1)})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Start(team("p"), team("o"), true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, e.Count())
}
