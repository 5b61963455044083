package monster

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/monbattle/internal/game/element"
)

// Category decides which stats a move reads and whether it deals damage.
type Category int

const (
	Physical Category = iota
	Special
	Status
)

func (c Category) String() string {
	switch c {
	case Physical:
		return "Physical"
	case Special:
		return "Special"
	case Status:
		return "Status"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory converts a case-insensitive name to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical":
		return Physical, nil
	case "special":
		return Special, nil
	case "status":
		return Status, nil
	}
	return Physical, fmt.Errorf("unknown move category %q", s)
}

// UnmarshalYAML decodes a category from its name.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Move is a technique a combatant knows.
//
// Invariant: 0 <= Accuracy <= 100; 0 <= PP <= MaxPP; Power == 0 when Category == Status.
type Move struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Category Category     `yaml:"category"`
	Type     element.Type `yaml:"type"`
	Power    int          `yaml:"power"`
	Accuracy int          `yaml:"accuracy"`
	PP       int          `yaml:"pp"`
	MaxPP    int          `yaml:"max_pp"`
	// Script names a Lua hook applied when a status move connects.
	Script string `yaml:"script,omitempty"`
}

// Validate checks the move's invariants.
//
// Postcondition: Returns nil if the move is well-formed.
func (m Move) Validate() error {
	var errs []string
	if m.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if m.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if !m.Type.Valid() {
		errs = append(errs, fmt.Sprintf("type %s is not valid", m.Type))
	}
	if m.Accuracy < 0 || m.Accuracy > 100 {
		errs = append(errs, fmt.Sprintf("accuracy must be 0-100, got %d", m.Accuracy))
	}
	if m.Power < 0 {
		errs = append(errs, fmt.Sprintf("power must be >= 0, got %d", m.Power))
	}
	if m.Category != Status && m.Power == 0 {
		errs = append(errs, "damaging move must have power > 0")
	}
	if m.MaxPP < 1 {
		errs = append(errs, fmt.Sprintf("max_pp must be >= 1, got %d", m.MaxPP))
	}
	if m.PP < 0 || m.PP > m.MaxPP {
		errs = append(errs, fmt.Sprintf("pp must be 0-%d, got %d", m.MaxPP, m.PP))
	}
	if len(errs) > 0 {
		return fmt.Errorf("move %q: %s", m.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Fresh returns a copy of m with PP restored to MaxPP.
func (m Move) Fresh() Move {
	m.PP = m.MaxPP
	return m
}
