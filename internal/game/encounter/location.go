package encounter

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// DefaultEncounterRate applies when a location does not set one.
const DefaultEncounterRate = 0.7

// Location is a place that can be explored for encounters.
type Location struct {
	ID          string                `yaml:"id"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Environment stats.EnvironmentKind `yaml:"environment"`
	// Bonus overrides the environment's default stat multipliers when set.
	Bonus         *stats.Environment `yaml:"bonus,omitempty"`
	EncounterRate *float64           `yaml:"encounter_rate,omitempty"`
	SpawnTable    []SpawnEntry       `yaml:"spawns"`
	Trainers      []string           `yaml:"trainers"`
}

// StatBonus returns the location's environment multipliers.
func (l *Location) StatBonus() stats.Environment {
	if l.Bonus != nil {
		return *l.Bonus
	}
	return stats.EnvironmentFor(l.Environment)
}

// Rate returns the encounter probability in [0, 1].
func (l *Location) Rate() float64 {
	if l.EncounterRate == nil {
		return DefaultEncounterRate
	}
	return *l.EncounterRate
}

// ShouldEncounter draws once against the location's encounter rate.
func (l *Location) ShouldEncounter(src dice.Source) bool {
	return dice.Chance(src, l.Rate())
}

// Validate checks the location's invariants. An empty spawn table is legal;
// selecting from it fails at encounter time.
func (l *Location) Validate() error {
	var errs []string
	if l.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if l.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if r := l.Rate(); r < 0 || r > 1 {
		errs = append(errs, fmt.Sprintf("encounter_rate must be 0-1, got %v", r))
	}
	if l.Bonus != nil {
		if err := l.Bonus.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	for _, e := range l.SpawnTable {
		if err := e.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("location %q: %s", l.ID, strings.Join(errs, "; "))
	}
	return nil
}
