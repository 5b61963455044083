package trainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
)

func member(name string, level int) *monster.Combatant {
	return monster.New(name, name, element.Single(element.Normal), stats.Uniform(100), 45, level, stats.Block{}, stats.Hardy)
}

func faint(c *monster.Combatant) *monster.Combatant {
	c.TakeDamage(c.MaxHP)
	return c
}

func TestNewPlayer_StarterBag(t *testing.T) {
	p := trainer.NewPlayer("Red", 0)
	assert.Equal(t, trainer.DefaultPartyCap, p.PartyCap)
	assert.Equal(t, 5, p.Bag.Balls)
	assert.Equal(t, 3, p.Bag.Count(combat.Potion))
	assert.Equal(t, 1, p.Bag.Count(combat.SuperPotion))
	assert.Equal(t, 1, p.Bag.Count(combat.Revive))
	assert.Equal(t, 0, p.Bag.Count(combat.FullRestore))
	assert.Zero(t, p.Money)
}

func TestAddToParty_Cap(t *testing.T) {
	p := trainer.NewPlayer("Red", 2)
	require.NoError(t, p.AddToParty(member("a", 5)))
	require.NoError(t, p.AddToParty(member("b", 5)))
	assert.ErrorIs(t, p.AddToParty(member("c", 5)), trainer.ErrPartyFull)
	assert.Len(t, p.Party, 2)
}

func TestProperty_PartyNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		partyCap := rapid.IntRange(1, 6).Draw(t, "cap")
		adds := rapid.IntRange(0, 12).Draw(t, "adds")
		p := trainer.NewPlayer("Red", partyCap)
		for i := 0; i < adds; i++ {
			_ = p.AddToParty(member("m", 1))
		}
		if len(p.Party) > partyCap {
			t.Fatalf("party %d exceeds cap %d", len(p.Party), partyCap)
		}
	})
}

func TestLeadAndCounts(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	require.NoError(t, p.AddToParty(faint(member("a", 5))))
	b := member("b", 9)
	require.NoError(t, p.AddToParty(b))
	assert.Same(t, b, p.Lead())
	assert.Equal(t, 1, p.ConsciousCount())
	assert.Equal(t, 1, p.FaintedCount())
	assert.False(t, p.AllFainted())
	assert.Equal(t, 9, p.HighestLevel())

	faint(b)
	assert.True(t, p.AllFainted())
	assert.Nil(t, p.Lead())
}

func TestItemsAndBalls(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	p.AddItem(combat.FullRestore, 2)
	assert.Equal(t, 2, p.Bag.Count(combat.FullRestore))
	require.NoError(t, p.TakeItem(combat.FullRestore))
	require.NoError(t, p.TakeItem(combat.FullRestore))
	assert.ErrorIs(t, p.TakeItem(combat.FullRestore), trainer.ErrOutOfStock)

	for i := 0; i < 5; i++ {
		require.NoError(t, p.TakeBall())
	}
	assert.ErrorIs(t, p.TakeBall(), trainer.ErrOutOfStock)
}

func TestAddMoney_IgnoresNegative(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	p.AddMoney(150)
	p.AddMoney(-50)
	assert.Equal(t, 150, p.Money)
}

func TestReviveWithItem_PotionHealsShareOfMax(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	c := member("a", 50)
	require.NoError(t, p.AddToParty(c))
	c.TakeDamage(100)

	msg, err := p.ReviveWithItem(0, combat.Potion)
	require.NoError(t, err)
	assert.Contains(t, msg, "recovered")
	assert.Equal(t, min(c.MaxHP, c.MaxHP-100+c.MaxHP/2), c.HP)
	assert.Equal(t, 2, p.Bag.Count(combat.Potion))
}

func TestReviveWithItem_PotionRefusesFainted(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	require.NoError(t, p.AddToParty(faint(member("a", 10))))
	_, err := p.ReviveWithItem(0, combat.SuperPotion)
	assert.ErrorIs(t, err, trainer.ErrNeedsRevive)
	assert.Equal(t, 1, p.Bag.Count(combat.SuperPotion), "bag unchanged on error")
}

func TestReviveWithItem_Revive(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	c := faint(member("a", 50))
	require.NoError(t, p.AddToParty(c))

	_, err := p.ReviveWithItem(0, combat.Revive)
	require.NoError(t, err)
	assert.False(t, c.IsFainted())
	assert.Equal(t, (c.MaxHP+1)/2, c.HP)

	faint(c)
	_, err = p.ReviveWithItem(0, combat.Revive)
	assert.ErrorIs(t, err, trainer.ErrOutOfStock)
	assert.True(t, c.IsFainted())
}

func TestReviveWithItem_ReviveRefusesConscious(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	c := member("a", 50)
	require.NoError(t, p.AddToParty(c))
	c.TakeDamage(5)
	hp := c.HP

	_, err := p.ReviveWithItem(0, combat.Revive)
	assert.ErrorIs(t, err, combat.ErrIllegalItem)
	assert.Equal(t, hp, c.HP)
	assert.Equal(t, 1, p.Bag.Count(combat.Revive), "bag unchanged on error")
}

func TestReviveWithItem_InvalidInputs(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	_, err := p.ReviveWithItem(0, combat.Potion)
	assert.ErrorIs(t, err, trainer.ErrInvalidMember)

	require.NoError(t, p.AddToParty(member("a", 5)))
	_, err = p.ReviveWithItem(0, combat.ItemKind(42))
	assert.ErrorIs(t, err, combat.ErrUnknownItemKind)
}

func TestReviveAllAtCenter(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	a, b, c := faint(member("a", 5)), faint(member("b", 5)), member("c", 5)
	for _, m := range []*monster.Combatant{a, b, c} {
		require.NoError(t, p.AddToParty(m))
	}

	_, err := p.ReviveAllAtCenter()
	assert.ErrorIs(t, err, trainer.ErrInsufficientFunds)

	p.AddMoney(500)
	_, err = p.ReviveAllAtCenter()
	require.NoError(t, err)
	assert.Equal(t, 100, p.Money)
	assert.True(t, p.VisitedCenter)
	assert.Equal(t, a.MaxHP, a.HP)
	assert.Equal(t, b.MaxHP, b.HP)

	_, err = p.ReviveAllAtCenter()
	assert.ErrorIs(t, err, trainer.ErrNothingToRevive)

	faint(a)
	_, err = p.ReviveAllAtCenter()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Money, "second visit is half price")
}

func TestReviveAtCenter(t *testing.T) {
	p := trainer.NewPlayer("Red", 6)
	a := faint(member("a", 5))
	require.NoError(t, p.AddToParty(a))
	p.AddMoney(250)

	_, err := p.ReviveAtCenter(0)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Money)
	assert.Equal(t, a.MaxHP, a.HP)
	assert.Equal(t, trainer.CenterCost/2, p.CenterPrice(1))

	_, err = p.ReviveAtCenter(3)
	assert.ErrorIs(t, err, trainer.ErrInvalidMember)
}
