package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
)

var (
	// ErrTrainerNotFound is returned when a trainer lookup yields no results.
	ErrTrainerNotFound = errors.New("trainer not found")
	// ErrTrainerNameTaken is returned when creating a trainer whose name exists.
	ErrTrainerNameTaken = errors.New("trainer name already taken")
	// ErrUnknownReference is returned when a stored party member names a
	// species or move that the catalog no longer has.
	ErrUnknownReference = errors.New("stored party member references unknown data")
)

// storedMove is the jsonb shape of one known move. Everything but PP comes
// from the catalog on load.
type storedMove struct {
	ID string `json:"id"`
	PP int    `json:"pp"`
}

// TrainerRepository persists trainers with their party and bag.
type TrainerRepository struct {
	db      *pgxpool.Pool
	catalog encounter.Catalog
}

// NewTrainerRepository creates a TrainerRepository backed by db. Party
// members are rebuilt from catalog on load.
//
// Precondition: db must be an open pool; catalog must be non-nil.
func NewTrainerRepository(db *pgxpool.Pool, catalog encounter.Catalog) *TrainerRepository {
	return &TrainerRepository{db: db, catalog: catalog}
}

// Create inserts p with its party and bag and sets p.ID and timestamps.
//
// Precondition: p.ID == 0; p.Name is non-empty.
// Postcondition: Returns ErrTrainerNameTaken on a duplicate name.
func (r *TrainerRepository) Create(ctx context.Context, p *trainer.Player) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO trainers (name, party_cap, money, balls, visited_center)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			p.Name, p.PartyCap, p.Money, p.Bag.Balls, p.VisitedCenter,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}
		return writeContents(ctx, tx, p)
	})
	if err != nil {
		p.ID = 0
		if isDuplicateKeyError(err) {
			return ErrTrainerNameTaken
		}
		return fmt.Errorf("inserting trainer: %w", err)
	}
	return nil
}

// Save overwrites the stored wallet, bag, center flag, and party of p.
//
// Precondition: p.ID > 0.
// Postcondition: Returns ErrTrainerNotFound if no row has p.ID.
func (r *TrainerRepository) Save(ctx context.Context, p *trainer.Player) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE trainers
			SET party_cap = $2, money = $3, balls = $4, visited_center = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			p.ID, p.PartyCap, p.Money, p.Bag.Balls, p.VisitedCenter,
		).Scan(&p.UpdatedAt)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM party_members WHERE trainer_id = $1`, p.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM bag_items WHERE trainer_id = $1`, p.ID); err != nil {
			return err
		}
		return writeContents(ctx, tx, p)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTrainerNotFound
		}
		return fmt.Errorf("saving trainer %d: %w", p.ID, err)
	}
	return nil
}

func writeContents(ctx context.Context, tx pgx.Tx, p *trainer.Player) error {
	batch := &pgx.Batch{}
	for slot, c := range p.Party {
		ivs, err := json.Marshal(c.IVs)
		if err != nil {
			return fmt.Errorf("encoding ivs of %s: %w", c.Name, err)
		}
		moves := make([]storedMove, 0, len(c.Moves))
		for _, mv := range c.Moves {
			moves = append(moves, storedMove{ID: mv.ID, PP: mv.PP})
		}
		movesJSON, err := json.Marshal(moves)
		if err != nil {
			return fmt.Errorf("encoding moves of %s: %w", c.Name, err)
		}
		var caughtAt *time.Time
		if !c.Provenance.CaughtAt.IsZero() {
			at := c.Provenance.CaughtAt
			caughtAt = &at
		}
		batch.Queue(`
			INSERT INTO party_members
				(trainer_id, slot, combatant_id, species_id, name, level, experience, hp,
				 ivs, nature, talent, moves, ball, location_id, caught_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			p.ID, slot, c.ID, c.SpeciesID, c.Name, c.Level, c.Experience, c.HP,
			ivs, c.Nature.String(), int(c.Talent), movesJSON,
			c.Provenance.Ball, c.Provenance.LocationID, caughtAt,
		)
	}
	for kind, n := range p.Bag.Items {
		batch.Queue(`INSERT INTO bag_items (trainer_id, kind, count) VALUES ($1, $2, $3)`,
			p.ID, kind.String(), n)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

// GetByID retrieves a trainer with its party and bag.
//
// Postcondition: Returns the Player or ErrTrainerNotFound.
func (r *TrainerRepository) GetByID(ctx context.Context, id int64) (*trainer.Player, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByName retrieves a trainer by its unique name.
//
// Postcondition: Returns the Player or ErrTrainerNotFound.
func (r *TrainerRepository) GetByName(ctx context.Context, name string) (*trainer.Player, error) {
	return r.get(ctx, `WHERE name = $1`, name)
}

func (r *TrainerRepository) get(ctx context.Context, where string, arg any) (*trainer.Player, error) {
	p := &trainer.Player{Bag: trainer.Bag{Items: make(map[combat.ItemKind]int)}}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, party_cap, money, balls, visited_center, created_at, updated_at
		FROM trainers `+where, arg,
	).Scan(&p.ID, &p.Name, &p.PartyCap, &p.Money, &p.Bag.Balls, &p.VisitedCenter, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("querying trainer: %w", err)
	}
	if err := r.loadBag(ctx, p); err != nil {
		return nil, err
	}
	if err := r.loadParty(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *TrainerRepository) loadBag(ctx context.Context, p *trainer.Player) error {
	rows, err := r.db.Query(ctx, `SELECT kind, count FROM bag_items WHERE trainer_id = $1`, p.ID)
	if err != nil {
		return fmt.Errorf("listing bag items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return fmt.Errorf("scanning bag item: %w", err)
		}
		kind, err := combat.ParseItemKind(name)
		if err != nil {
			return fmt.Errorf("trainer %d bag: %w", p.ID, err)
		}
		p.Bag.Items[kind] = count
	}
	return rows.Err()
}

type memberRow struct {
	id         string
	speciesID  string
	name       string
	level      int
	experience int
	hp         int
	ivs        []byte
	nature     string
	talent     int16
	moves      []byte
	ball       string
	locationID string
	caughtAt   *time.Time
}

func (r *TrainerRepository) loadParty(ctx context.Context, p *trainer.Player) error {
	rows, err := r.db.Query(ctx, `
		SELECT combatant_id, species_id, name, level, experience, hp,
		       ivs, nature, talent, moves, ball, location_id, caught_at
		FROM party_members WHERE trainer_id = $1 ORDER BY slot ASC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("listing party: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m memberRow
		if err := rows.Scan(
			&m.id, &m.speciesID, &m.name, &m.level, &m.experience, &m.hp,
			&m.ivs, &m.nature, &m.talent, &m.moves, &m.ball, &m.locationID, &m.caughtAt,
		); err != nil {
			return fmt.Errorf("scanning party member: %w", err)
		}
		c, err := r.rebuild(m)
		if err != nil {
			return fmt.Errorf("trainer %d: %w", p.ID, err)
		}
		p.Party = append(p.Party, c)
	}
	return rows.Err()
}

// rebuild reconstructs a combatant from its row. Species stats and move
// definitions come from the catalog; MaxHP is recomputed from level and IVs.
func (r *TrainerRepository) rebuild(m memberRow) (*monster.Combatant, error) {
	species, ok := r.catalog.Species(m.speciesID)
	if !ok {
		return nil, fmt.Errorf("species %q: %w", m.speciesID, ErrUnknownReference)
	}
	var ivs stats.Block
	if err := json.Unmarshal(m.ivs, &ivs); err != nil {
		return nil, fmt.Errorf("decoding ivs of %s: %w", m.name, err)
	}
	nature, err := stats.ParseNature(m.nature)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	var moves []storedMove
	if err := json.Unmarshal(m.moves, &moves); err != nil {
		return nil, fmt.Errorf("decoding moves of %s: %w", m.name, err)
	}

	c := monster.New(species.ID, m.name, species.Typing(), species.Base, species.CatchRate, m.level, ivs, nature)
	c.ID = m.id
	c.Experience = m.experience
	c.HP = min(m.hp, c.MaxHP)
	c.Talent = monster.Talent(m.talent)
	for _, sm := range moves {
		mv, ok := r.catalog.Move(sm.ID)
		if !ok {
			return nil, fmt.Errorf("move %q: %w", sm.ID, ErrUnknownReference)
		}
		mv.PP = min(max(sm.PP, 0), mv.MaxPP)
		c.AddMove(mv)
	}
	c.Provenance = monster.Provenance{Ball: m.ball, LocationID: m.locationID}
	if m.caughtAt != nil {
		c.Provenance.CaughtAt = *m.caughtAt
	}
	return c, nil
}

// Delete removes a trainer and, by cascade, its party and bag.
//
// Postcondition: Returns ErrTrainerNotFound if no row was deleted.
func (r *TrainerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting trainer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTrainerNotFound
	}
	return nil
}
