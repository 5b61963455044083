package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
	"github.com/cory-johannsen/monbattle/internal/gamedata"
	"github.com/cory-johannsen/monbattle/internal/storage/postgres"
	"github.com/cory-johannsen/monbattle/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupRepo(t *testing.T) (*postgres.TrainerRepository, *encounter.Generator) {
	t.Helper()
	data, err := gamedata.LoadDefault()
	require.NoError(t, err)
	pool := testutil.NewPool(t)
	gen := encounter.NewGenerator(data, dice.NewSeededSource(7), nil)
	return postgres.NewTrainerRepository(pool, data), gen
}

func TestTrainerRepository_CreateAndGet(t *testing.T) {
	repo, gen := setupRepo(t)
	ctx := context.Background()

	p := trainer.NewPlayer(uniqueName("red"), trainer.DefaultPartyCap)
	pika, err := gen.Wild("pikachu", 7)
	require.NoError(t, err)
	pika.TakeDamage(5)
	pika.Moves[0].PP = 3
	pika.SetCaught("Poké Ball", "pallet-town", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, p.AddToParty(pika))
	p.AddMoney(300)

	require.NoError(t, repo.Create(ctx, p))
	assert.Greater(t, p.ID, int64(0))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, 300, got.Money)
	assert.Equal(t, 5, got.Bag.Balls)
	assert.Equal(t, 3, got.Bag.Count(combat.Potion))
	assert.Equal(t, 1, got.Bag.Count(combat.Revive))

	require.Len(t, got.Party, 1)
	m := got.Party[0]
	assert.Equal(t, pika.ID, m.ID)
	assert.Equal(t, pika.SpeciesID, m.SpeciesID)
	assert.Equal(t, pika.Level, m.Level)
	assert.Equal(t, pika.HP, m.HP)
	assert.Equal(t, pika.MaxHP, m.MaxHP)
	assert.Equal(t, pika.IVs, m.IVs)
	assert.Equal(t, pika.Nature, m.Nature)
	assert.Equal(t, pika.Talent, m.Talent)
	require.Len(t, m.Moves, len(pika.Moves))
	assert.Equal(t, 3, m.Moves[0].PP)
	assert.Equal(t, "pallet-town", m.Provenance.LocationID)
	assert.True(t, pika.Provenance.CaughtAt.Equal(m.Provenance.CaughtAt))
}

func TestTrainerRepository_DuplicateName(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	name := uniqueName("blue")

	require.NoError(t, repo.Create(ctx, trainer.NewPlayer(name, 6)))
	dup := trainer.NewPlayer(name, 6)
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, postgres.ErrTrainerNameTaken)
	assert.Zero(t, dup.ID)
}

func TestTrainerRepository_SaveReplacesContents(t *testing.T) {
	repo, gen := setupRepo(t)
	ctx := context.Background()

	p := trainer.NewPlayer(uniqueName("green"), 6)
	a, err := gen.Perfect("bulbasaur", 5)
	require.NoError(t, err)
	require.NoError(t, p.AddToParty(a))
	require.NoError(t, repo.Create(ctx, p))

	b, err := gen.Perfect("charmander", 5)
	require.NoError(t, err)
	require.NoError(t, p.AddToParty(b))
	require.NoError(t, p.TakeItem(combat.Potion))
	p.VisitedCenter = true
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByName(ctx, p.Name)
	require.NoError(t, err)
	require.Len(t, got.Party, 2)
	assert.Equal(t, "bulbasaur", got.Party[0].SpeciesID)
	assert.Equal(t, "charmander", got.Party[1].SpeciesID)
	assert.Equal(t, 2, got.Bag.Count(combat.Potion))
	assert.True(t, got.VisitedCenter)
}

func TestTrainerRepository_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, postgres.ErrTrainerNotFound)

	_, err = repo.GetByName(ctx, uniqueName("nobody"))
	assert.ErrorIs(t, err, postgres.ErrTrainerNotFound)

	ghost := trainer.NewPlayer("ghost", 6)
	ghost.ID = 999999
	assert.ErrorIs(t, repo.Save(ctx, ghost), postgres.ErrTrainerNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999999), postgres.ErrTrainerNotFound)
}

func TestTrainerRepository_DeleteCascades(t *testing.T) {
	repo, gen := setupRepo(t)
	ctx := context.Background()

	p := trainer.NewPlayer(uniqueName("gold"), 6)
	c, err := gen.Wild("rattata", 3)
	require.NoError(t, err)
	require.NoError(t, p.AddToParty(c))
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, postgres.ErrTrainerNotFound)
}

func TestProperty_MoneyRoundTrips(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		money := rapid.IntRange(0, 1_000_000).Draw(rt, "money")
		p := trainer.NewPlayer(uniqueName("prop"), 6)
		p.AddMoney(money)
		if err := repo.Create(ctx, p); err != nil {
			rt.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.Money != money {
			rt.Fatalf("money %d stored as %d", money, got.Money)
		}
	})
}
