package element

import "fmt"

// Multipliers permitted in a chart entry.
const (
	Immune           = 0.0
	NotVeryEffective = 0.5
	Neutral          = 1.0
	SuperEffective   = 2.0
)

// Chart maps (attacking, defending) type pairs to a multiplier.
//
// Invariant: every entry is one of 0, 0.5, 1, 2. The None row and column are neutral.
type Chart struct {
	m [Count + 1][Count + 1]float64
}

type pair struct{ atk, def Type }

var superEffective = []pair{
	{Fire, Grass}, {Fire, Ice}, {Fire, Bug}, {Fire, Steel},
	{Water, Fire}, {Water, Ground}, {Water, Rock},
	{Grass, Water}, {Grass, Ground}, {Grass, Rock},
	{Electric, Water}, {Electric, Flying},
	{Ice, Grass}, {Ice, Flying}, {Ice, Ground}, {Ice, Dragon},
	{Fighting, Normal}, {Fighting, Ice}, {Fighting, Rock}, {Fighting, Dark}, {Fighting, Steel},
	{Poison, Fairy},
	{Ground, Fire}, {Ground, Electric}, {Ground, Poison}, {Ground, Rock}, {Ground, Steel},
	{Flying, Grass}, {Flying, Fighting}, {Flying, Bug},
	{Psychic, Fighting}, {Psychic, Poison},
	{Bug, Grass}, {Bug, Psychic}, {Bug, Dark},
	{Rock, Fire}, {Rock, Ice}, {Rock, Flying}, {Rock, Bug},
	{Ghost, Ghost}, {Ghost, Psychic},
	{Dragon, Dragon},
	{Dark, Ghost}, {Dark, Psychic},
	{Steel, Ice}, {Steel, Rock}, {Steel, Fairy},
}

var resisted = []pair{
	{Fire, Fire}, {Fire, Water}, {Fire, Rock},
	{Water, Water}, {Water, Grass},
	{Grass, Fire}, {Grass, Poison}, {Grass, Flying},
	{Electric, Grass}, {Electric, Electric}, {Electric, Dragon},
	{Ice, Fire}, {Ice, Water}, {Ice, Ice},
	{Fighting, Flying}, {Fighting, Poison}, {Fighting, Psychic},
	{Poison, Grass}, {Poison, Poison}, {Poison, Ground}, {Poison, Rock},
	{Ground, Grass}, {Ground, Bug},
	{Flying, Electric}, {Flying, Rock}, {Flying, Steel},
	{Psychic, Steel}, {Psychic, Psychic}, {Psychic, Dark},
	{Bug, Fire}, {Bug, Fighting}, {Bug, Flying}, {Bug, Poison}, {Bug, Ghost}, {Bug, Steel},
	{Rock, Fighting}, {Rock, Ground}, {Rock, Steel},
	{Ghost, Dark},
	{Dragon, Steel},
	{Dark, Dark}, {Dark, Steel},
	{Steel, Water}, {Steel, Electric}, {Steel, Steel},
}

// DefaultChart returns the baseline chart. It contains no immunities;
// overrides may add them.
//
// Postcondition: Fire→Grass == 2, Fire→Fire == 0.5, unlisted pairs == 1.
func DefaultChart() *Chart {
	c := &Chart{}
	for i := range c.m {
		for j := range c.m[i] {
			c.m[i][j] = Neutral
		}
	}
	for _, p := range superEffective {
		c.m[p.atk][p.def] = SuperEffective
	}
	for _, p := range resisted {
		c.m[p.atk][p.def] = NotVeryEffective
	}
	return c
}

// Override is one chart entry replacing the baseline.
type Override struct {
	Attacking  Type    `yaml:"attacking"`
	Defending  Type    `yaml:"defending"`
	Multiplier float64 `yaml:"multiplier"`
}

// Validate checks that both types are real and the multiplier is permitted.
func (o Override) Validate() error {
	if !o.Attacking.Valid() {
		return fmt.Errorf("override attacking type %s is not valid", o.Attacking)
	}
	if !o.Defending.Valid() {
		return fmt.Errorf("override defending type %s is not valid", o.Defending)
	}
	switch o.Multiplier {
	case Immune, NotVeryEffective, Neutral, SuperEffective:
		return nil
	}
	return fmt.Errorf("override %s→%s multiplier %v must be one of 0, 0.5, 1, 2",
		o.Attacking, o.Defending, o.Multiplier)
}

// WithOverrides returns a copy of c with the given entries replaced.
//
// Postcondition: c is unchanged; returns an error if any override is invalid.
func (c *Chart) WithOverrides(overrides []Override) (*Chart, error) {
	out := *c
	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		out.m[o.Attacking][o.Defending] = o.Multiplier
	}
	return &out, nil
}

// Single returns the multiplier for one attacking type against one defending type.
// Out-of-range types and None are neutral.
func (c *Chart) Single(attacking, defending Type) float64 {
	if attacking < None || attacking > Fairy || defending < None || defending > Fairy {
		return Neutral
	}
	return c.m[attacking][defending]
}

// Effectiveness returns the product of single-type multipliers over every
// type the defender has.
//
// Postcondition: result is in {0, 0.25, 0.5, 1, 2, 4}.
func (c *Chart) Effectiveness(attacking Type, defending Typing) float64 {
	mult := 1.0
	for _, t := range defending.Types() {
		mult *= c.Single(attacking, t)
	}
	return mult
}
