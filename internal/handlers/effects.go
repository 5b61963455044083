// Package handlers drives battles and encounters on behalf of a player,
// sequencing the engine operations the way an interactive client would.
package handlers

import (
	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/scripting"
)

// ScriptEffects resolves status moves through the Lua on_status_move hook.
type ScriptEffects struct {
	mgr *scripting.Manager
}

// NewScriptEffects wraps mgr as a combat.StatusEffects.
//
// Precondition: mgr must be non-nil and loaded.
func NewScriptEffects(mgr *scripting.Manager) *ScriptEffects {
	return &ScriptEffects{mgr: mgr}
}

// ApplyStatusMove implements combat.StatusEffects.
func (e *ScriptEffects) ApplyStatusMove(b *combat.Battle, mv monster.Move, user combat.Side) error {
	bindings := scripting.Bindings{
		Heal: func(side string, amount int) int {
			s := combat.SidePlayer
			if side == combat.SideOpponent.String() {
				s = combat.SideOpponent
			}
			return b.Heal(s, amount)
		},
		Log: b.AppendLog,
	}
	info := scripting.MoveInfo{
		ID:       mv.ID,
		Name:     mv.Name,
		Type:     mv.Type.String(),
		Script:   mv.Script,
		Accuracy: mv.Accuracy,
	}
	_, err := e.mgr.CallStatusMove(info, combatantInfo(user, b.Active(user)), combatantInfo(user.Other(), b.Active(user.Other())), bindings)
	return err
}

func combatantInfo(side combat.Side, c *monster.Combatant) scripting.CombatantInfo {
	if c == nil {
		return scripting.CombatantInfo{Side: side.String()}
	}
	return scripting.CombatantInfo{
		Side:    side.String(),
		Name:    c.Name,
		Species: c.SpeciesID,
		Level:   c.Level,
		HP:      c.HP,
		MaxHP:   c.MaxHP,
	}
}
