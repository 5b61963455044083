// Package encounter generates wild and trainer-owned combatants from location
// spawn tables and previews them under a location's environment.
package encounter

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

var (
	// ErrEmptySpawnTable is returned when selecting from a table with no entries.
	ErrEmptySpawnTable = errors.New("spawn table is empty")
	// ErrNonPositiveWeight is returned when a table's weights sum to zero or less.
	ErrNonPositiveWeight = errors.New("spawn weights must sum to a positive value")
	// ErrUnknownSpecies is returned when a spawn or team names a species with no definition.
	ErrUnknownSpecies = errors.New("unknown species")
)

// SpawnEntry is one weighted row of a location's spawn table.
//
// Invariant: Weight > 0; 1 <= MinLevel <= MaxLevel.
type SpawnEntry struct {
	SpeciesID string  `yaml:"species"`
	Weight    float64 `yaml:"weight"`
	MinLevel  int     `yaml:"min_level"`
	MaxLevel  int     `yaml:"max_level"`
}

// Validate checks the entry's invariants.
func (e SpawnEntry) Validate() error {
	if e.SpeciesID == "" {
		return errors.New("spawn entry species must not be empty")
	}
	if e.Weight <= 0 {
		return fmt.Errorf("spawn entry %q: %w", e.SpeciesID, ErrNonPositiveWeight)
	}
	if e.MinLevel < 1 {
		return fmt.Errorf("spawn entry %q: min_level must be >= 1, got %d", e.SpeciesID, e.MinLevel)
	}
	if e.MaxLevel < e.MinLevel {
		return fmt.Errorf("spawn entry %q: max_level %d < min_level %d", e.SpeciesID, e.MaxLevel, e.MinLevel)
	}
	return nil
}

// Select picks an entry with probability proportional to its weight.
//
// A draw in [0, total) is reduced by each weight in table order until it is
// no longer positive. The last entry is returned if rounding exhausts the table.
//
// Postcondition: Returns ErrEmptySpawnTable for an empty table and
// ErrNonPositiveWeight when the weights sum to <= 0.
func Select(table []SpawnEntry, src dice.Source) (SpawnEntry, error) {
	if len(table) == 0 {
		return SpawnEntry{}, ErrEmptySpawnTable
	}
	total := 0.0
	for _, e := range table {
		total += e.Weight
	}
	if total <= 0 {
		return SpawnEntry{}, ErrNonPositiveWeight
	}

	roll := src.Float64() * total
	for _, e := range table {
		roll -= e.Weight
		if roll <= 0 {
			return e, nil
		}
	}
	return table[len(table)-1], nil
}

// RollLevel draws a level uniformly from the entry's inclusive range.
//
// Postcondition: MinLevel <= result <= MaxLevel when the entry is valid.
func RollLevel(e SpawnEntry, src dice.Source) int {
	return dice.IntRange(src, e.MinLevel, e.MaxLevel)
}
