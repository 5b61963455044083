// Package element defines the eighteen elemental types and the effectiveness
// chart consulted by the damage resolver.
package element

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is an elemental type. The zero value None marks an absent secondary type.
type Type int

const (
	None Type = iota
	Normal
	Fire
	Water
	Grass
	Electric
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy
)

// Count is the number of real types, excluding None.
const Count = 18

var typeNames = [...]string{
	None:     "None",
	Normal:   "Normal",
	Fire:     "Fire",
	Water:    "Water",
	Grass:    "Grass",
	Electric: "Electric",
	Ice:      "Ice",
	Fighting: "Fighting",
	Poison:   "Poison",
	Ground:   "Ground",
	Flying:   "Flying",
	Psychic:  "Psychic",
	Bug:      "Bug",
	Rock:     "Rock",
	Ghost:    "Ghost",
	Dragon:   "Dragon",
	Dark:     "Dark",
	Steel:    "Steel",
	Fairy:    "Fairy",
}

// All returns the eighteen real types in declaration order.
func All() []Type {
	out := make([]Type, 0, Count)
	for t := Normal; t <= Fairy; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is one of the eighteen real types.
func (t Type) Valid() bool {
	return t >= Normal && t <= Fairy
}

func (t Type) String() string {
	if t < None || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Parse converts a case-insensitive type name to a Type.
//
// Postcondition: Returns a valid Type or a non-nil error.
func Parse(s string) (Type, error) {
	for i, name := range typeNames {
		if i == int(None) {
			continue
		}
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("unknown type %q", s)
}

// UnmarshalYAML decodes a type from its name.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a type as its name.
func (t Type) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// Typing is a combatant's primary type and optional secondary type.
//
// Invariant: Primary is valid; Secondary is None or valid and distinct from Primary.
type Typing struct {
	Primary   Type
	Secondary Type
}

// Single returns a one-type Typing.
func Single(t Type) Typing {
	return Typing{Primary: t}
}

// Dual returns a two-type Typing.
func Dual(primary, secondary Type) Typing {
	return Typing{Primary: primary, Secondary: secondary}
}

// Types returns the present types, primary first.
func (ty Typing) Types() []Type {
	if ty.Secondary == None || ty.Secondary == ty.Primary {
		return []Type{ty.Primary}
	}
	return []Type{ty.Primary, ty.Secondary}
}

// Has reports whether t is one of the typing's types.
func (ty Typing) Has(t Type) bool {
	return ty.Primary == t || (ty.Secondary != None && ty.Secondary == t)
}

func (ty Typing) String() string {
	if ty.Secondary == None {
		return ty.Primary.String()
	}
	return ty.Primary.String() + "/" + ty.Secondary.String()
}

// ParseTyping builds a Typing from one or two type names.
//
// Precondition: 1 <= len(names) <= 2.
func ParseTyping(names []string) (Typing, error) {
	if len(names) < 1 || len(names) > 2 {
		return Typing{}, fmt.Errorf("typing needs 1 or 2 types, got %d", len(names))
	}
	primary, err := Parse(names[0])
	if err != nil {
		return Typing{}, err
	}
	ty := Single(primary)
	if len(names) == 2 {
		secondary, err := Parse(names[1])
		if err != nil {
			return Typing{}, err
		}
		if secondary == primary {
			return Typing{}, fmt.Errorf("duplicate type %s", primary)
		}
		ty.Secondary = secondary
	}
	return ty, nil
}
