// Package monster defines combatant instances, their moves, and the species
// templates they are created from.
package monster

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// MaxMoves is the number of moves a combatant may know.
const MaxMoves = 4

// MaxCatchRate is the upper bound of a species' catch rate.
const MaxCatchRate = 255

// Talent is a cosmetic trait rolled at generation time.
type Talent int

const (
	TalentNormal Talent = iota
	TalentHidden
)

func (t Talent) String() string {
	if t == TalentHidden {
		return "Hidden"
	}
	return "Normal"
}

// Provenance records how a combatant joined a party. It never affects battle math.
type Provenance struct {
	Ball       string
	LocationID string
	CaughtAt   time.Time
}

// Combatant is one monster instance.
//
// Invariant: 0 <= HP <= MaxHP; Level >= 1; len(Moves) <= MaxMoves.
type Combatant struct {
	ID         string
	SpeciesID  string
	Name       string
	Typing     element.Typing
	Level      int
	Experience int
	HP         int
	MaxHP      int
	Base       stats.Block
	IVs        stats.Block
	Nature     stats.Nature
	Talent     Talent
	Moves      []Move
	CatchRate  int
	Provenance Provenance
}

// New creates a combatant with full HP at the given level.
//
// Precondition: level >= 1.
// Postcondition: HP == MaxHP == FullHP(base.HP, ivs.HP, level).
func New(speciesID, name string, typing element.Typing, base stats.Block, catchRate, level int, ivs stats.Block, nature stats.Nature) *Combatant {
	if level < 1 {
		level = 1
	}
	c := &Combatant{
		ID:        uuid.NewString(),
		SpeciesID: speciesID,
		Name:      name,
		Typing:    typing,
		Level:     level,
		Base:      base,
		IVs:       ivs,
		Nature:    nature,
		CatchRate: catchRate,
	}
	c.MaxHP = c.computeMaxHP()
	c.HP = c.MaxHP
	return c
}

func (c *Combatant) computeMaxHP() int {
	return stats.FullHP(c.Base.HP, c.IVs.HP, c.Level)
}

// Profile exposes the combatant's stat inputs.
func (c *Combatant) Profile() stats.Profile {
	return stats.Profile{Base: c.Base, IVs: c.IVs, Nature: c.Nature, Level: c.Level}
}

// EffectiveStat returns stat k in the requested mode.
func (c *Combatant) EffectiveStat(mode stats.Mode, k stats.Kind) int {
	return c.Profile().Effective(mode, k)
}

// IsFainted reports whether HP is zero.
func (c *Combatant) IsFainted() bool {
	return c.HP == 0
}

// TakeDamage reduces HP, saturating at zero.
//
// Postcondition: 0 <= HP.
func (c *Combatant) TakeDamage(amount int) {
	if amount < 0 {
		return
	}
	if amount >= c.HP {
		c.HP = 0
		return
	}
	c.HP -= amount
}

// Heal raises HP by amount, capped at MaxHP. Fainted combatants can be healed;
// callers that forbid this check IsFainted first.
//
// Postcondition: HP <= MaxHP.
func (c *Combatant) Heal(amount int) {
	if amount < 0 {
		return
	}
	c.HP = min(c.HP+amount, c.MaxHP)
}

// Revive sets HP to round(MaxHP*fraction), clamped to [1, MaxHP] for a positive fraction.
//
// Postcondition: fraction > 0 implies !IsFainted().
func (c *Combatant) Revive(fraction float64) {
	if fraction <= 0 {
		return
	}
	hp := int(math.Round(float64(c.MaxHP) * fraction))
	c.HP = max(1, min(hp, c.MaxHP))
}

// RestoreAll heals to full and refills every move's PP.
func (c *Combatant) RestoreAll() {
	c.HP = c.MaxHP
	for i := range c.Moves {
		c.Moves[i].PP = c.Moves[i].MaxPP
	}
}

// LevelUp raises the level by one and recomputes MaxHP.
// Current HP is raised to the new maximum and never lowered.
func (c *Combatant) LevelUp() {
	c.Level++
	c.MaxHP = c.computeMaxHP()
	if c.HP < c.MaxHP {
		c.HP = c.MaxHP
	}
}

// ExperienceThreshold is the experience needed to leave the current level.
func (c *Combatant) ExperienceThreshold() int {
	return c.Level * 100
}

// GainExperience adds amount and levels up as many times as the
// per-level threshold allows. Returns the number of levels gained.
//
// Postcondition: Experience < Level*100 on return.
func (c *Combatant) GainExperience(amount int) int {
	if amount > 0 {
		c.Experience += amount
	}
	gained := 0
	for c.Experience >= c.ExperienceThreshold() {
		c.LevelUp()
		gained++
	}
	return gained
}

// AddMove appends a move if fewer than MaxMoves are known.
//
// Postcondition: Returns false and leaves Moves unchanged when already full.
func (c *Combatant) AddMove(m Move) bool {
	if len(c.Moves) >= MaxMoves {
		return false
	}
	c.Moves = append(c.Moves, m)
	return true
}

// HPRatio returns HP/MaxHP in [0, 1].
func (c *Combatant) HPRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// SetCaught records the capture provenance.
func (c *Combatant) SetCaught(ball, locationID string, at time.Time) {
	c.Provenance = Provenance{Ball: ball, LocationID: locationID, CaughtAt: at}
}

// Clone returns a deep copy so callers can read a stable snapshot while the original mutates.
func (c *Combatant) Clone() *Combatant {
	out := *c
	out.Moves = append([]Move(nil), c.Moves...)
	return &out
}

func (c *Combatant) String() string {
	return fmt.Sprintf("%s (Lv.%d) HP: %d/%d", c.Name, c.Level, c.HP, c.MaxHP)
}
