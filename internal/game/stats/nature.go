package stats

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Nature is a personality raising one non-HP stat by 10% and lowering another by 10%.
// Five natures are neutral.
type Nature int

const (
	Docile Nature = iota
	Hardy
	Serious
	Bashful
	Quirky
	Lonely
	Brave
	Adamant
	Naughty
	Bold
	Relaxed
	Impish
	Lax
	Timid
	Hasty
	Jolly
	Naive
	Modest
	Mild
	Rash
	Quiet
	Calm
	Gentle
	Sassy
	Careful
)

// NatureCount is the number of natures.
const NatureCount = 25

type natureInfo struct {
	name      string
	up, down  Kind
	isNeutral bool
}

var natures = [NatureCount]natureInfo{
	Docile:  {name: "Docile", isNeutral: true},
	Hardy:   {name: "Hardy", isNeutral: true},
	Serious: {name: "Serious", isNeutral: true},
	Bashful: {name: "Bashful", isNeutral: true},
	Quirky:  {name: "Quirky", isNeutral: true},
	Lonely:  {name: "Lonely", up: Attack, down: Defense},
	Brave:   {name: "Brave", up: Attack, down: Speed},
	Adamant: {name: "Adamant", up: Attack, down: SpAttack},
	Naughty: {name: "Naughty", up: Attack, down: SpDefense},
	Bold:    {name: "Bold", up: Defense, down: Attack},
	Relaxed: {name: "Relaxed", up: Defense, down: Speed},
	Impish:  {name: "Impish", up: Defense, down: SpAttack},
	Lax:     {name: "Lax", up: Defense, down: SpDefense},
	Timid:   {name: "Timid", up: Speed, down: Attack},
	Hasty:   {name: "Hasty", up: Speed, down: Defense},
	Jolly:   {name: "Jolly", up: Speed, down: SpAttack},
	Naive:   {name: "Naive", up: Speed, down: SpDefense},
	Modest:  {name: "Modest", up: SpAttack, down: Attack},
	Mild:    {name: "Mild", up: SpAttack, down: Defense},
	Rash:    {name: "Rash", up: SpAttack, down: SpDefense},
	Quiet:   {name: "Quiet", up: SpAttack, down: Speed},
	Calm:    {name: "Calm", up: SpDefense, down: Attack},
	Gentle:  {name: "Gentle", up: SpDefense, down: Defense},
	Sassy:   {name: "Sassy", up: SpDefense, down: Speed},
	Careful: {name: "Careful", up: SpDefense, down: SpAttack},
}

// DefaultNature is the nature assigned when none is specified.
const DefaultNature = Hardy

func (n Nature) valid() bool {
	return n >= 0 && n < NatureCount
}

func (n Nature) String() string {
	if !n.valid() {
		return fmt.Sprintf("Nature(%d)", int(n))
	}
	return natures[n].name
}

// Neutral reports whether the nature leaves every stat unchanged.
func (n Nature) Neutral() bool {
	return !n.valid() || natures[n].isNeutral
}

// Raised returns the boosted stat and true, or false for neutral natures.
func (n Nature) Raised() (Kind, bool) {
	if n.Neutral() {
		return HP, false
	}
	return natures[n].up, true
}

// Lowered returns the hindered stat and true, or false for neutral natures.
func (n Nature) Lowered() (Kind, bool) {
	if n.Neutral() {
		return HP, false
	}
	return natures[n].down, true
}

// Multiplier returns 1.1, 0.9, or 1.0 for stat k.
//
// Postcondition: Multiplier(HP) == 1.0 for every nature.
func (n Nature) Multiplier(k Kind) float64 {
	if n.Neutral() || k == HP {
		return 1.0
	}
	switch k {
	case natures[n].up:
		return 1.1
	case natures[n].down:
		return 0.9
	}
	return 1.0
}

// RandomNature draws uniformly over all 25 natures.
func RandomNature(src IVSource) Nature {
	return Nature(src.Intn(NatureCount))
}

// ParseNature converts a case-insensitive name to a Nature.
func ParseNature(s string) (Nature, error) {
	for i, info := range natures {
		if strings.EqualFold(info.name, strings.TrimSpace(s)) {
			return Nature(i), nil
		}
	}
	return DefaultNature, fmt.Errorf("unknown nature %q", s)
}

// UnmarshalYAML decodes a nature from its name.
func (n *Nature) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseNature(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalYAML encodes a nature as its name.
func (n Nature) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}
