package stats

// BattleStat is the simplified in-battle formula: floor(2*base*level/100) + 5.
// Individual values and nature are ignored.
func BattleStat(base, level int) int {
	return 2*base*level/100 + 5
}

// FullStat is the generation/display formula for a non-HP stat:
// floor((2*base+iv)*level/100) + 5, multiplied by personality then by
// environment, each product rounded half up.
func FullStat(base, iv, level int, personality, environment float64) int {
	raw := (2*base+iv)*level/100 + 5
	withPersonality := roundHalfUp(float64(raw) * personality)
	return roundHalfUp(float64(withPersonality) * environment)
}

// FullHP is the HP formula: floor((2*base+iv)*level/100) + level + 5.
//
// Postcondition: FullHP >= level + 5 for non-negative inputs.
func FullHP(base, iv, level int) int {
	return (2*base+iv)*level/100 + level + 5
}

// Mode selects which tier of the stat model a caller wants.
type Mode int

const (
	// ModeBattle is used for live combat math. Only base stat and level matter.
	ModeBattle Mode = iota
	// ModeDisplay is used for generation and display. Individual values and nature apply.
	ModeDisplay
)

func (m Mode) String() string {
	if m == ModeBattle {
		return "battle"
	}
	return "display"
}

// Profile is everything the stat model needs to compute a combatant's stats.
type Profile struct {
	Base   Block
	IVs    Block
	Nature Nature
	Level  int
}

// Effective returns stat k under the given mode with a neutral environment.
// HP is the same in both modes: the full HP formula with the profile's IV.
func (p Profile) Effective(mode Mode, k Kind) int {
	return p.EffectiveIn(mode, k, NeutralEnvironment())
}

// EffectiveIn returns stat k under the given mode with an environment applied.
// ModeBattle ignores the environment.
func (p Profile) EffectiveIn(mode Mode, k Kind, env Environment) int {
	if k == HP {
		return FullHP(p.Base.HP, p.IVs.HP, p.Level)
	}
	if mode == ModeBattle {
		return BattleStat(p.Base.Get(k), p.Level)
	}
	return FullStat(p.Base.Get(k), p.IVs.Get(k), p.Level, p.Nature.Multiplier(k), env.Multiplier(k))
}

// Line computes all six stats under mode with env applied.
func (p Profile) Line(mode Mode, env Environment) Block {
	var b Block
	for _, k := range Kinds {
		b.Set(k, p.EffectiveIn(mode, k, env))
	}
	return b
}
