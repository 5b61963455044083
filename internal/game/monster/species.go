package monster

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// Species is the immutable template every combatant of a kind is built from.
type Species struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Types     []element.Type `yaml:"types"`
	Base      stats.Block    `yaml:"base_stats"`
	CatchRate int            `yaml:"catch_rate"`
	// Moves lists move IDs learned at creation, in order. Only the first MaxMoves are used.
	Moves []string `yaml:"moves"`
}

// Validate checks species invariants.
//
// Postcondition: Returns nil if the species is well-formed.
func (s *Species) Validate() error {
	var errs []string
	if s.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if s.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if len(s.Types) < 1 || len(s.Types) > 2 {
		errs = append(errs, fmt.Sprintf("must have 1 or 2 types, got %d", len(s.Types)))
	} else if len(s.Types) == 2 && s.Types[0] == s.Types[1] {
		errs = append(errs, "types must be distinct")
	}
	for _, k := range stats.Kinds {
		if s.Base.Get(k) < 1 {
			errs = append(errs, fmt.Sprintf("base %s must be >= 1", k))
		}
	}
	if s.CatchRate < 0 || s.CatchRate > MaxCatchRate {
		errs = append(errs, fmt.Sprintf("catch_rate must be 0-%d, got %d", MaxCatchRate, s.CatchRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("species %q: %s", s.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Typing returns the species' typing.
//
// Precondition: Validate returned nil.
func (s *Species) Typing() element.Typing {
	if len(s.Types) == 2 {
		return element.Dual(s.Types[0], s.Types[1])
	}
	return element.Single(s.Types[0])
}

// MoveLookup resolves move IDs to move definitions.
type MoveLookup interface {
	Move(id string) (Move, bool)
}

// Instantiate builds a combatant of this species at level with the given
// individual values and nature. Known moves are resolved through moves with full PP.
//
// Precondition: level >= 1.
// Postcondition: Returns an error if any move ID is unknown.
func (s *Species) Instantiate(moves MoveLookup, level int, ivs stats.Block, nature stats.Nature) (*Combatant, error) {
	c := New(s.ID, s.Name, s.Typing(), s.Base, s.CatchRate, level, ivs, nature)
	for _, id := range s.Moves {
		m, ok := moves.Move(id)
		if !ok {
			return nil, fmt.Errorf("species %q: unknown move %q", s.ID, id)
		}
		if !c.AddMove(m.Fresh()) {
			break
		}
	}
	return c, nil
}

// NewFromSpecies is the species factory: level 1, zero individual values,
// the default nature, full HP.
func NewFromSpecies(s *Species, moves MoveLookup) (*Combatant, error) {
	return s.Instantiate(moves, 1, stats.Block{}, stats.DefaultNature)
}
