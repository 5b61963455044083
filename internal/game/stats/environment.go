package stats

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvironmentKind is the terrain of a location.
type EnvironmentKind int

const (
	Grassland EnvironmentKind = iota
	Forest
	Cave
	Water
	Mountain
	City
)

var environmentNames = [...]string{
	Grassland: "Grassland",
	Forest:    "Forest",
	Cave:      "Cave",
	Water:     "Water",
	Mountain:  "Mountain",
	City:      "City",
}

func (e EnvironmentKind) String() string {
	if e < 0 || int(e) >= len(environmentNames) {
		return fmt.Sprintf("EnvironmentKind(%d)", int(e))
	}
	return environmentNames[e]
}

// ParseEnvironmentKind converts a case-insensitive name to an EnvironmentKind.
func ParseEnvironmentKind(s string) (EnvironmentKind, error) {
	for i, name := range environmentNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return EnvironmentKind(i), nil
		}
	}
	return Grassland, fmt.Errorf("unknown environment %q", s)
}

// UnmarshalYAML decodes an environment kind from its name.
func (e *EnvironmentKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEnvironmentKind(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Environment carries one multiplier per non-HP stat.
//
// Invariant: a zero-valued field is treated as 1.0.
type Environment struct {
	Attack    float64 `yaml:"attack"`
	Defense   float64 `yaml:"defense"`
	SpAttack  float64 `yaml:"sp_attack"`
	SpDefense float64 `yaml:"sp_defense"`
	Speed     float64 `yaml:"speed"`
}

// NeutralEnvironment returns an Environment with every multiplier at 1.0.
func NeutralEnvironment() Environment {
	return Environment{Attack: 1, Defense: 1, SpAttack: 1, SpDefense: 1, Speed: 1}
}

// EnvironmentFor returns the stat bonus associated with a terrain.
func EnvironmentFor(kind EnvironmentKind) Environment {
	env := NeutralEnvironment()
	switch kind {
	case Grassland:
		env.Speed = 1.1
	case Forest:
		env.Defense = 1.1
	case Cave:
		env.SpAttack = 1.1
	case Water:
		env.SpDefense = 1.1
	case Mountain:
		env.Attack = 1.1
	case City:
		env = Environment{Attack: 1.05, Defense: 1.05, SpAttack: 1.05, SpDefense: 1.05, Speed: 1.05}
	}
	return env
}

// Multiplier returns the multiplier for k. HP is always 1.0.
func (e Environment) Multiplier(k Kind) float64 {
	var m float64
	switch k {
	case Attack:
		m = e.Attack
	case Defense:
		m = e.Defense
	case SpAttack:
		m = e.SpAttack
	case SpDefense:
		m = e.SpDefense
	case Speed:
		m = e.Speed
	default:
		return 1.0
	}
	if m == 0 {
		return 1.0
	}
	return m
}

// Apply multiplies v by the multiplier for k and rounds half up.
func (e Environment) Apply(k Kind, v int) int {
	return roundHalfUp(float64(v) * e.Multiplier(k))
}

// Validate rejects negative multipliers.
func (e Environment) Validate() error {
	for _, k := range NonHP {
		if e.Multiplier(k) < 0 {
			return fmt.Errorf("environment multiplier for %s must not be negative", k)
		}
	}
	return nil
}

// Describe lists every non-neutral multiplier, e.g. "Speed +10%".
// A neutral environment yields the empty string.
func (e Environment) Describe() string {
	var parts []string
	for _, k := range NonHP {
		m := e.Multiplier(k)
		if m == 1.0 {
			continue
		}
		pct := int(math.Round((m - 1.0) * 100))
		parts = append(parts, fmt.Sprintf("%s %+d%%", k, pct))
	}
	return strings.Join(parts, ", ")
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
