package encounter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty shifts a trainer team's level relative to the challenger.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Expert
)

// LevelAdjustment returns the level offset for the difficulty.
func (d Difficulty) LevelAdjustment() int {
	switch d {
	case Easy:
		return -5
	case Hard:
		return 5
	case Expert:
		return 10
	}
	return 0
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Normal:
		return "Normal"
	case Hard:
		return "Hard"
	case Expert:
		return "Expert"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// UnmarshalYAML decodes a difficulty from its name.
func (d *Difficulty) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for c := Easy; c <= Expert; c++ {
		if strings.EqualFold(c.String(), s) {
			*d = c
			return nil
		}
	}
	return fmt.Errorf("unknown difficulty %q", s)
}

// TrainerDef is an opposing trainer and the species on their team.
type TrainerDef struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Title       string     `yaml:"title"`
	Team        []string   `yaml:"team"`
	RewardMoney int        `yaml:"reward_money"`
	Difficulty  Difficulty `yaml:"difficulty"`
}

// FullName returns "<title> <name>", or just the name without a title.
func (t *TrainerDef) FullName() string {
	if t.Title == "" {
		return t.Name
	}
	return t.Title + " " + t.Name
}

// Validate checks the trainer's invariants.
func (t *TrainerDef) Validate() error {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if len(t.Team) == 0 {
		errs = append(errs, "team must not be empty")
	}
	if t.RewardMoney < 0 {
		errs = append(errs, fmt.Sprintf("reward_money must be >= 0, got %d", t.RewardMoney))
	}
	if len(errs) > 0 {
		return fmt.Errorf("trainer %q: %s", t.ID, strings.Join(errs, "; "))
	}
	return nil
}
