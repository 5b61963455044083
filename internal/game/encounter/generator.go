package encounter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// TrainerIV is the fixed individual value given to every trainer-owned combatant.
const TrainerIV = 25

// hiddenTalentChance is the probability a wild combatant rolls a hidden talent.
const hiddenTalentChance = 0.1

// SpeciesLookup resolves species IDs.
type SpeciesLookup interface {
	Species(id string) (*monster.Species, bool)
}

// Catalog is the read-only game data the generator draws from.
type Catalog interface {
	SpeciesLookup
	monster.MoveLookup
}

// Generator builds fully statted combatants.
type Generator struct {
	catalog Catalog
	src     dice.Source
	logger  *zap.Logger
}

// NewGenerator creates a Generator.
//
// Precondition: catalog and src must be non-nil.
// Postcondition: Returns a non-nil Generator. A nil logger is replaced with a no-op logger.
func NewGenerator(catalog Catalog, src dice.Source, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{catalog: catalog, src: src, logger: logger}
}

func (g *Generator) species(id string) (*monster.Species, error) {
	s, ok := g.catalog.Species(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return s, nil
}

// Generate selects a spawn entry from the location, draws a level, and builds
// a wild combatant with fresh individual values and nature.
//
// Postcondition: Returns ErrEmptySpawnTable or ErrNonPositiveWeight from selection unchanged.
func (g *Generator) Generate(loc *Location) (*monster.Combatant, error) {
	entry, err := Select(loc.SpawnTable, g.src)
	if err != nil {
		return nil, fmt.Errorf("location %q: %w", loc.ID, err)
	}
	level := RollLevel(entry, g.src)
	c, err := g.Wild(entry.SpeciesID, level)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("wild combatant generated",
		zap.String("location", loc.ID),
		zap.String("species", entry.SpeciesID),
		zap.Int("level", level),
		zap.Stringer("nature", c.Nature),
	)
	return c, nil
}

// Wild builds a combatant with six independent individual values in [0,31],
// a uniformly drawn nature, and a rolled talent.
func (g *Generator) Wild(speciesID string, level int) (*monster.Combatant, error) {
	s, err := g.species(speciesID)
	if err != nil {
		return nil, err
	}
	ivs := stats.RandomIVs(g.src)
	nature := stats.RandomNature(g.src)
	c, err := s.Instantiate(g.catalog, level, ivs, nature)
	if err != nil {
		return nil, err
	}
	if dice.Chance(g.src, hiddenTalentChance) {
		c.Talent = monster.TalentHidden
	}
	return c, nil
}

// Perfect builds a combatant with every individual value at 31.
func (g *Generator) Perfect(speciesID string, level int) (*monster.Combatant, error) {
	s, err := g.species(speciesID)
	if err != nil {
		return nil, err
	}
	return s.Instantiate(g.catalog, level, stats.Uniform(stats.MaxIV), stats.RandomNature(g.src))
}

// Team builds a trainer-owned team. Every member has individual values of
// TrainerIV and level max(1, baseLevel+adjustment).
func (g *Generator) Team(speciesIDs []string, baseLevel, adjustment int) ([]*monster.Combatant, error) {
	level := max(1, baseLevel+adjustment)
	team := make([]*monster.Combatant, 0, len(speciesIDs))
	for _, id := range speciesIDs {
		s, err := g.species(id)
		if err != nil {
			return nil, err
		}
		c, err := s.Instantiate(g.catalog, level, stats.Uniform(TrainerIV), stats.RandomNature(g.src))
		if err != nil {
			return nil, err
		}
		team = append(team, c)
	}
	return team, nil
}

// TrainerTeam builds the team for def scaled from baseLevel by the trainer's difficulty.
func (g *Generator) TrainerTeam(def *TrainerDef, baseLevel int) ([]*monster.Combatant, error) {
	team, err := g.Team(def.Team, baseLevel, def.Difficulty.LevelAdjustment())
	if err != nil {
		return nil, fmt.Errorf("trainer %q: %w", def.ID, err)
	}
	return team, nil
}
