// Package stats implements the stat model: base-stat scaling by level,
// individual values, natures, and environment multipliers.
package stats

import "fmt"

// Kind identifies one of the six stats.
type Kind int

const (
	HP Kind = iota
	Attack
	Defense
	SpAttack
	SpDefense
	Speed
)

// Kinds lists every stat in canonical order.
var Kinds = [...]Kind{HP, Attack, Defense, SpAttack, SpDefense, Speed}

// NonHP lists the five stats that personality and environment multipliers affect.
var NonHP = [...]Kind{Attack, Defense, SpAttack, SpDefense, Speed}

func (k Kind) String() string {
	switch k {
	case HP:
		return "HP"
	case Attack:
		return "Attack"
	case Defense:
		return "Defense"
	case SpAttack:
		return "Sp. Attack"
	case SpDefense:
		return "Sp. Defense"
	case Speed:
		return "Speed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Block holds one value per stat. It is used for base stats, individual
// values, and computed stat lines.
type Block struct {
	HP        int `yaml:"hp"`
	Attack    int `yaml:"attack"`
	Defense   int `yaml:"defense"`
	SpAttack  int `yaml:"sp_attack"`
	SpDefense int `yaml:"sp_defense"`
	Speed     int `yaml:"speed"`
}

// Get returns the value for k. Unknown kinds return 0.
func (b Block) Get(k Kind) int {
	switch k {
	case HP:
		return b.HP
	case Attack:
		return b.Attack
	case Defense:
		return b.Defense
	case SpAttack:
		return b.SpAttack
	case SpDefense:
		return b.SpDefense
	case Speed:
		return b.Speed
	}
	return 0
}

// Set stores v for k. Unknown kinds are ignored.
func (b *Block) Set(k Kind, v int) {
	switch k {
	case HP:
		b.HP = v
	case Attack:
		b.Attack = v
	case Defense:
		b.Defense = v
	case SpAttack:
		b.SpAttack = v
	case SpDefense:
		b.SpDefense = v
	case Speed:
		b.Speed = v
	}
}

// Total returns the sum of all six values.
func (b Block) Total() int {
	return b.HP + b.Attack + b.Defense + b.SpAttack + b.SpDefense + b.Speed
}

// Uniform returns a Block with every stat set to v.
func Uniform(v int) Block {
	return Block{HP: v, Attack: v, Defense: v, SpAttack: v, SpDefense: v, Speed: v}
}

// MaxIV is the inclusive upper bound of an individual value.
const MaxIV = 31

// IVSource draws uniform ints. dice.Source satisfies it.
type IVSource interface {
	Intn(n int) int
}

// RandomIVs draws six independent individual values in [0, MaxIV].
//
// Postcondition: every field is in [0, 31].
func RandomIVs(src IVSource) Block {
	var b Block
	for _, k := range Kinds {
		b.Set(k, src.Intn(MaxIV+1))
	}
	return b
}

// ValidateIVs returns an error if any value is outside [0, MaxIV].
func ValidateIVs(b Block) error {
	for _, k := range Kinds {
		if v := b.Get(k); v < 0 || v > MaxIV {
			return fmt.Errorf("individual value %s=%d out of range [0,%d]", k, v, MaxIV)
		}
	}
	return nil
}
