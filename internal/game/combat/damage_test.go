package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

func TestDamage_Formula(t *testing.T) {
	// Both sides at level 50 with base 100: atk == def == 105, base damage 19.
	atk := normal("a", 50)
	def := normal("b", 50)
	assert.Equal(t, 16, combat.Damage(atk, def, tackle(), nil, fixedSrc{f: 0}))
	assert.Equal(t, 17, combat.Damage(atk, def, tackle(), nil, fixedSrc{f: 0.5}))
}

func TestDamage_TopRollReachesFullBase(t *testing.T) {
	atk := normal("a", 50)
	def := normal("b", 50)
	assert.Equal(t, 19, combat.Damage(atk, def, tackle(), nil, fixedSrc{f: 0.9999999999}))
}

func TestDamage_FireVsGrassBug(t *testing.T) {
	atk := normal("a", 50)
	def := mon("b", element.Dual(element.Grass, element.Bug), 100, 50)
	assert.Equal(t, 4.0, element.DefaultChart().Effectiveness(element.Fire, def.Typing))
	assert.Equal(t, 64, combat.Damage(atk, def, ember(), nil, fixedSrc{f: 0}))
}

func TestDamage_StatusDealsZero(t *testing.T) {
	mv := growl()
	mv.Power = 150
	assert.Equal(t, 0, combat.Damage(normal("a", 100), normal("b", 1), mv, nil, fixedSrc{f: 0.99}))
}

func TestDamage_Property_FloorOfOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		atk := mon("a", element.Single(element.Normal), rapid.IntRange(1, 255).Draw(t, "atk_base"), rapid.IntRange(1, 100).Draw(t, "atk_level"))
		def := mon("b", element.Dual(element.Rock, element.Steel), rapid.IntRange(1, 255).Draw(t, "def_base"), rapid.IntRange(1, 100).Draw(t, "def_level"))
		mv := monster.Move{
			ID:       "m",
			Name:     "M",
			Category: rapid.SampledFrom([]monster.Category{monster.Physical, monster.Special}).Draw(t, "category"),
			Type:     rapid.SampledFrom(element.All()).Draw(t, "type"),
			Power:    rapid.IntRange(1, 250).Draw(t, "power"),
			Accuracy: 100, PP: 1, MaxPP: 1,
		}
		src := fixedSrc{f: rapid.Float64Range(0, 0.999999).Draw(t, "variance")}
		if d := combat.Damage(atk, def, mv, nil, src); d < 1 {
			t.Fatalf("damage %d below floor", d)
		}
	})
}

func TestDamage_IgnoresIndividualValues(t *testing.T) {
	atk := normal("a", 50)
	boosted := atk.Clone()
	boosted.IVs.Attack = 31
	def := normal("b", 50)
	src := fixedSrc{f: 0.3}
	assert.Equal(t, combat.Damage(atk, def, tackle(), nil, src), combat.Damage(boosted, def, tackle(), nil, src))
}

func TestHits_Boundaries(t *testing.T) {
	src := dice.NewSeededSource(99)
	for i := 0; i < 1000; i++ {
		assert.True(t, combat.Hits(100, src))
		assert.False(t, combat.Hits(0, src))
	}
	assert.True(t, combat.Hits(70, fixedSrc{val: 70}))
	assert.False(t, combat.Hits(70, fixedSrc{val: 71}))
}

func TestCaptureSuccess(t *testing.T) {
	c := mon("w", element.Single(element.Normal), 50, 10)
	c.CatchRate = 255
	// Full HP halves the rate.
	assert.InDelta(t, 0.5, combat.CaptureRate(c), 1e-9)
	assert.True(t, combat.CaptureSuccess(c, fixedSrc{f: 0.49}))
	assert.False(t, combat.CaptureSuccess(c, fixedSrc{f: 0.5}))

	c.TakeDamage(c.MaxHP)
	assert.InDelta(t, 1.0, combat.CaptureRate(c), 1e-9)

	c.CatchRate = 0
	assert.False(t, combat.CaptureSuccess(c, fixedSrc{f: 0}))
}

func TestCaptureRate_Property_Bounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := mon("w", element.Single(element.Normal), 50, rapid.IntRange(1, 100).Draw(t, "level"))
		c.CatchRate = rapid.IntRange(0, monster.MaxCatchRate).Draw(t, "rate")
		c.TakeDamage(rapid.IntRange(0, c.MaxHP).Draw(t, "damage"))
		r := combat.CaptureRate(c)
		if r < 0 || r > 1 {
			t.Fatalf("capture rate %v out of bounds", r)
		}
	})
}

func TestEscapeSuccess(t *testing.T) {
	assert.True(t, combat.EscapeSuccess(fixedSrc{f: 0.59}))
	assert.False(t, combat.EscapeSuccess(fixedSrc{f: 0.6}))
}

func TestParseItemKind(t *testing.T) {
	for _, k := range combat.ItemKinds {
		got, err := combat.ParseItemKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := combat.ParseItemKind("super_potion")
	assert.NoError(t, err)
	assert.Equal(t, combat.SuperPotion, got)

	_, err = combat.ParseItemKind("elixir")
	assert.ErrorIs(t, err, combat.ErrUnknownItemKind)
}
