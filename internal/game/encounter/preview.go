package encounter

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// Preview is a display-only view of a combatant under a location's environment.
// Building one never mutates the combatant.
type Preview struct {
	Combatant    *monster.Combatant
	LocationName string
	Environment  stats.EnvironmentKind
	Base         stats.Block
	Boosted      stats.Block
	Bonus        string
}

// NewPreview computes display-mode stats with and without the location's bonus.
func NewPreview(c *monster.Combatant, loc *Location) Preview {
	p := c.Profile()
	bonus := loc.StatBonus()
	return Preview{
		Combatant:    c,
		LocationName: loc.Name,
		Environment:  loc.Environment,
		Base:         p.Line(stats.ModeDisplay, stats.NeutralEnvironment()),
		Boosted:      p.Line(stats.ModeDisplay, bonus),
		Bonus:        bonus.Describe(),
	}
}

// String renders a short multi-line summary.
func (p Preview) String() string {
	var b strings.Builder
	c := p.Combatant
	fmt.Fprintf(&b, "A wild %s (Lv.%d, %s) appeared in %s!\n", c.Name, c.Level, c.Typing, p.LocationName)
	fmt.Fprintf(&b, "Nature: %s  Talent: %s\n", c.Nature, c.Talent)
	for _, k := range stats.Kinds {
		base, boosted := p.Base.Get(k), p.Boosted.Get(k)
		if base == boosted {
			fmt.Fprintf(&b, "  %-11s %d\n", k, base)
			continue
		}
		fmt.Fprintf(&b, "  %-11s %d -> %d\n", k, base, boosted)
	}
	if p.Bonus != "" {
		fmt.Fprintf(&b, "%s bonus: %s\n", p.Environment, p.Bonus)
	}
	return b.String()
}
