package combat

import (
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

// Side identifies one half of a battle.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "opponent"
	}
	return "player"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideOpponent
	}
	return SidePlayer
}

// Roster is one side's ordered team and the index of its active member.
//
// Invariant: 0 <= ActiveIndex < len(Members) whenever Members is non-empty.
type Roster struct {
	Members     []*monster.Combatant
	ActiveIndex int
}

// NewRoster builds a roster whose active member is the first conscious one.
//
// Postcondition: ActiveIndex is 0 when every member is fainted.
func NewRoster(members []*monster.Combatant) *Roster {
	r := &Roster{Members: members}
	if idx := r.FirstAvailable(-1); idx >= 0 {
		r.ActiveIndex = idx
	}
	return r
}

// Active returns the member in the active slot, fainted or not.
//
// Postcondition: Returns nil only for an empty roster.
func (r *Roster) Active() *monster.Combatant {
	if r.ActiveIndex < 0 || r.ActiveIndex >= len(r.Members) {
		return nil
	}
	return r.Members[r.ActiveIndex]
}

// Conscious returns the active member when it can act.
func (r *Roster) Conscious() (*monster.Combatant, bool) {
	c := r.Active()
	if c == nil || c.IsFainted() {
		return nil, false
	}
	return c, true
}

// AllFainted reports whether no member can battle. An empty roster counts as fainted.
func (r *Roster) AllFainted() bool {
	for _, m := range r.Members {
		if !m.IsFainted() {
			return false
		}
	}
	return true
}

// FirstAvailable returns the lowest index of a conscious member other than
// exclude, or -1 when there is none.
func (r *Roster) FirstAvailable(exclude int) int {
	for i, m := range r.Members {
		if i != exclude && !m.IsFainted() {
			return i
		}
	}
	return -1
}

// Len returns the number of members.
func (r *Roster) Len() int { return len(r.Members) }
