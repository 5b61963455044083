// Package combat implements the turn-based battle state machine, damage
// resolution, and the registry of live battles.
package combat

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
)

// Status is the lifecycle state of a battle.
type Status string

const (
	StatusActive     Status = "active"
	StatusPlayerWon  Status = "player_won"
	StatusPlayerLost Status = "player_lost"
	StatusEscaped    Status = "escaped"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s != StatusActive
}

const (
	eventWin    = "win"
	eventLose   = "lose"
	eventEscape = "escape"
)

// StatusEffects applies the non-damage effect of a Status move that hit.
// Implementations may heal via Battle.Heal and narrate via Battle.AppendLog.
type StatusEffects interface {
	ApplyStatusMove(b *Battle, mv monster.Move, user Side) error
}

// Options configures a Battle.
type Options struct {
	// Source supplies every random draw. Required.
	Source dice.Source
	// Chart resolves type effectiveness; nil uses DefaultChart.
	Chart *element.Chart
	// Logger receives transition and status-change events; nil disables logging.
	Logger *zap.Logger
	// ConsumePP decrements a move's PP each time it is attempted.
	ConsumePP bool
	// Effects handles Status moves; nil makes them narration only.
	Effects StatusEffects
}

// Battle is the state of one encounter between the player and an opponent.
//
// A Battle has a single writer. Callers must invoke CheckBattleEnd after every
// HP-affecting action and should stop issuing actions once Status is terminal.
type Battle struct {
	ID       string
	player   *Roster
	opponent *Roster
	wild     bool
	turn     int
	log      []string

	machine *fsm.FSM
	src     dice.Source
	chart   *element.Chart
	logger  *zap.Logger
	consume bool
	effects StatusEffects
}

// NewBattle creates an Active battle between the two teams.
//
// Precondition: opts.Source must be non-nil.
// Postcondition: Returns ErrNoActiveCombatant when either team is empty.
func NewBattle(id string, player, opponent []*monster.Combatant, wild bool, opts Options) (*Battle, error) {
	if len(player) == 0 || len(opponent) == 0 {
		return nil, fmt.Errorf("starting battle %q: %w", id, ErrNoActiveCombatant)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("starting battle %q: randomness source is required", id)
	}
	chart := opts.Chart
	if chart == nil {
		chart = element.DefaultChart()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Battle{
		ID:       id,
		player:   NewRoster(player),
		opponent: NewRoster(opponent),
		wild:     wild,
		src:      opts.Source,
		chart:    chart,
		logger:   logger.With(zap.String("battle", id)),
		consume:  opts.ConsumePP,
		effects:  opts.Effects,
	}
	active := string(StatusActive)
	b.machine = fsm.NewFSM(active,
		fsm.Events{
			{Name: eventWin, Src: []string{active}, Dst: string(StatusPlayerWon)},
			{Name: eventLose, Src: []string{active}, Dst: string(StatusPlayerLost)},
			{Name: eventEscape, Src: []string{active}, Dst: string(StatusEscaped)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.logger.Info("battle status changed",
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
					zap.Int("turn", b.turn),
				)
			},
		},
	)

	if c := b.opponent.Active(); c != nil {
		if wild {
			b.AppendLog(fmt.Sprintf("A wild %s appeared!", c.Name))
		} else {
			b.AppendLog(fmt.Sprintf("The opponent sent out %s!", c.Name))
		}
	}
	if c := b.player.Active(); c != nil {
		b.AppendLog(fmt.Sprintf("Go, %s!", c.Name))
	}
	return b, nil
}

// Status returns the current lifecycle state.
func (b *Battle) Status() Status {
	return Status(b.machine.Current())
}

// Log returns a copy of the narration appended so far.
func (b *Battle) Log() []string {
	return append([]string(nil), b.log...)
}

// LastLog returns the most recent narration line, or "" when the log is empty.
func (b *Battle) LastLog() string {
	if len(b.log) == 0 {
		return ""
	}
	return b.log[len(b.log)-1]
}

// AppendLog adds one narration line.
func (b *Battle) AppendLog(msg string) {
	b.log = append(b.log, msg)
}

// Chart returns the type chart used for damage.
func (b *Battle) Chart() *element.Chart { return b.chart }

// Wild reports whether the opponent is a wild combatant.
func (b *Battle) Wild() bool { return b.wild }

// Turn returns the number of completed turns.
func (b *Battle) Turn() int { return b.turn }

// AdvanceTurn increments the turn counter.
func (b *Battle) AdvanceTurn() { b.turn++ }

// Player returns the player's roster.
func (b *Battle) Player() *Roster { return b.player }

// Opponent returns the opponent's roster.
func (b *Battle) Opponent() *Roster { return b.opponent }

// Roster returns the roster for side.
func (b *Battle) Roster(side Side) *Roster {
	if side == SideOpponent {
		return b.opponent
	}
	return b.player
}

// Active returns the active member of side, fainted or not.
func (b *Battle) Active(side Side) *monster.Combatant {
	return b.Roster(side).Active()
}

func sideOf(isPlayer bool) Side {
	if isPlayer {
		return SidePlayer
	}
	return SideOpponent
}

func label(side Side, c *monster.Combatant) string {
	if side == SideOpponent {
		return "The opposing " + c.Name
	}
	return c.Name
}

// CanUseMove reports why the active member of one side could not use the
// move at index right now, or nil if it could. It draws no randomness.
func (b *Battle) CanUseMove(index int, isPlayer bool) error {
	_, _, err := b.moveParticipants(index, sideOf(isPlayer))
	return err
}

func (b *Battle) moveParticipants(index int, side Side) (attacker, defender *monster.Combatant, err error) {
	attacker, ok := b.Roster(side).Conscious()
	if !ok {
		return nil, nil, fmt.Errorf("%s cannot act: %w", side, ErrNoActiveCombatant)
	}
	defender, ok = b.Roster(side.Other()).Conscious()
	if !ok {
		return nil, nil, fmt.Errorf("%s has no target: %w", side, ErrNoActiveCombatant)
	}
	if index < 0 || index >= len(attacker.Moves) {
		return nil, nil, fmt.Errorf("move %d of %s: %w", index, attacker.Name, ErrInvalidIndex)
	}
	if attacker.Moves[index].PP <= 0 {
		return nil, nil, fmt.Errorf("%s: %w", attacker.Moves[index].Name, ErrNoPP)
	}
	return attacker, defender, nil
}

// UseMove makes the active member of one side use its move at index against
// the other side's active member. A miss only narrates and is not an error.
//
// Precondition: both sides have a conscious active member.
// Postcondition: On a damaging hit the defender loses Damage(...) HP computed
// against its state before the hit.
func (b *Battle) UseMove(index int, isPlayer bool) error {
	side := sideOf(isPlayer)
	attacker, defender, err := b.moveParticipants(index, side)
	if err != nil {
		return err
	}
	mv := attacker.Moves[index]
	if b.consume {
		attacker.Moves[index].PP--
	}

	if !Hits(mv.Accuracy, b.src) {
		b.AppendLog(fmt.Sprintf("%s's %s missed!", label(side, attacker), mv.Name))
		b.logger.Debug("move missed", zap.String("side", side.String()), zap.String("move", mv.ID))
		return nil
	}

	if mv.Category == monster.Status {
		b.AppendLog(fmt.Sprintf("%s used %s!", label(side, attacker), mv.Name))
		if b.effects != nil {
			if err := b.effects.ApplyStatusMove(b, mv, side); err != nil {
				b.logger.Warn("status move effect failed", zap.String("move", mv.ID), zap.Error(err))
			}
		}
		return nil
	}

	effectiveness := b.chart.Effectiveness(mv.Type, defender.Typing)
	if effectiveness == 0 {
		b.AppendLog(fmt.Sprintf("%s used %s! It doesn't affect %s...", label(side, attacker), mv.Name, defender.Name))
		return nil
	}

	snapshot := defender.Clone()
	dmg := Damage(attacker, snapshot, mv, b.chart, b.src)
	defender.TakeDamage(dmg)
	b.AppendLog(fmt.Sprintf("%s used %s, dealing %d damage!", label(side, attacker), mv.Name, dmg))
	switch {
	case effectiveness > 1:
		b.AppendLog("It's super effective!")
	case effectiveness < 1:
		b.AppendLog("It's not very effective...")
	}
	b.logger.Debug("move resolved",
		zap.String("side", side.String()),
		zap.String("move", mv.ID),
		zap.Int("damage", dmg),
		zap.Float64("effectiveness", effectiveness),
		zap.Int("defender_hp", defender.HP),
	)
	return nil
}

// SwitchPlayer makes the player's member at index active.
//
// Postcondition: Returns ErrInvalidIndex or ErrIllegalSwitch without changing state on failure.
func (b *Battle) SwitchPlayer(index int) error {
	return b.switchTo(SidePlayer, index)
}

// SwitchOpponent makes the opponent's member at index active.
func (b *Battle) SwitchOpponent(index int) error {
	return b.switchTo(SideOpponent, index)
}

func (b *Battle) switchTo(side Side, index int) error {
	r := b.Roster(side)
	if index < 0 || index >= r.Len() {
		return fmt.Errorf("switching %s to %d: %w", side, index, ErrInvalidIndex)
	}
	target := r.Members[index]
	if target.IsFainted() {
		return fmt.Errorf("%s has fainted: %w", target.Name, ErrIllegalSwitch)
	}
	if index == r.ActiveIndex {
		return fmt.Errorf("%s is already in battle: %w", target.Name, ErrIllegalSwitch)
	}
	r.ActiveIndex = index
	if side == SideOpponent {
		b.AppendLog(fmt.Sprintf("The opponent sent out %s!", target.Name))
	} else {
		b.AppendLog(fmt.Sprintf("Go, %s!", target.Name))
	}
	b.logger.Debug("switched", zap.String("side", side.String()), zap.Int("index", index))
	return nil
}

// AttemptEscape tries to flee. Trainer battles always refuse.
//
// Postcondition: Status is Escaped iff true is returned.
func (b *Battle) AttemptEscape() bool {
	if !b.wild {
		b.AppendLog("There's no running from a trainer battle!")
		return false
	}
	if !dice.Chance(b.src, EscapeChance) {
		b.AppendLog("Couldn't get away!")
		return false
	}
	b.transition(eventEscape)
	b.AppendLog("Got away safely!")
	return true
}

// CheckBattleEnd settles the outcome after an HP-affecting action. When a
// side's active member fainted but teammates remain, the lowest-index
// conscious teammate is sent out automatically.
//
// Postcondition: Returns true iff the battle reached PlayerWon or PlayerLost.
func (b *Battle) CheckBattleEnd() bool {
	if b.player.AllFainted() {
		b.transition(eventLose)
		b.AppendLog("All of your combatants fainted! You lost!")
		return true
	}
	if b.opponent.AllFainted() {
		b.transition(eventWin)
		b.AppendLog("You won!")
		return true
	}
	if c := b.player.Active(); c != nil && c.IsFainted() {
		b.AppendLog(fmt.Sprintf("%s fainted!", c.Name))
		if idx := b.player.FirstAvailable(b.player.ActiveIndex); idx >= 0 {
			_ = b.switchTo(SidePlayer, idx)
		}
		return false
	}
	if c := b.opponent.Active(); c != nil && c.IsFainted() {
		b.AppendLog(fmt.Sprintf("The opposing %s fainted!", c.Name))
		if idx := b.opponent.FirstAvailable(b.opponent.ActiveIndex); idx >= 0 {
			_ = b.switchTo(SideOpponent, idx)
		}
		return false
	}
	return false
}

// UseItem applies kind to the active member of the target side. A positive
// amount overrides the fixed heal of Potion and Super Potion.
//
// Postcondition: Returns ErrUnknownItemKind for an unrecognized kind and
// ErrNoActiveCombatant when a heal item targets a fainted member. A revive
// item on a conscious member returns ErrIllegalItem and changes nothing.
func (b *Battle) UseItem(kind ItemKind, targetIsPlayer bool, amount int) error {
	if !kind.Valid() {
		return fmt.Errorf("using %s: %w", kind, ErrUnknownItemKind)
	}
	side := sideOf(targetIsPlayer)
	target := b.Active(side)
	if target == nil {
		return fmt.Errorf("using %s on %s: %w", kind, side, ErrNoActiveCombatant)
	}

	if kind.IsRevive() {
		if !target.IsFainted() {
			return fmt.Errorf("%s on conscious %s: %w", kind, target.Name, ErrIllegalItem)
		}
		target.Revive(kind.ReviveFraction())
		b.AppendLog(fmt.Sprintf("%s was revived with %s!", label(side, target), kind))
		return nil
	}

	if target.IsFainted() {
		return fmt.Errorf("%s on fainted %s: %w", kind, target.Name, ErrNoActiveCombatant)
	}
	heal := kind.HealAmount()
	if amount > 0 {
		heal = amount
	}
	before := target.HP
	target.Heal(heal)
	b.AppendLog(fmt.Sprintf("%s used %s and recovered %d HP!", label(side, target), kind, target.HP-before))
	return nil
}

// Heal restores up to amount HP to the conscious active member of side and
// returns the HP actually restored.
func (b *Battle) Heal(side Side, amount int) int {
	c, ok := b.Roster(side).Conscious()
	if !ok || amount <= 0 {
		return 0
	}
	before := c.HP
	c.Heal(amount)
	return c.HP - before
}

// AwardExperience grants every conscious player member
// baseExp*opponentLevel/7 experience, where opponentLevel is the level of
// the opponent's active member, and applies any resulting level-ups.
//
// Postcondition: Returns the experience granted to each member.
func (b *Battle) AwardExperience(baseExp int) int {
	opp := b.opponent.Active()
	if opp == nil {
		return 0
	}
	gained := baseExp * opp.Level / 7
	for _, c := range b.player.Members {
		if c.IsFainted() {
			continue
		}
		from := c.Level
		c.GainExperience(gained)
		for lvl := from + 1; lvl <= c.Level; lvl++ {
			b.AppendLog(fmt.Sprintf("%s grew to Lv.%d!", c.Name, lvl))
		}
	}
	b.AppendLog(fmt.Sprintf("Gained %d experience!", gained))
	b.logger.Debug("experience awarded", zap.Int("amount", gained))
	return gained
}

// RewardMoney is the prize for defeating the opponent's active member.
func (b *Battle) RewardMoney() int {
	opp := b.opponent.Active()
	if opp == nil {
		return 0
	}
	return opp.Level * 10
}

// DetermineTurnOrder returns the side that should act first this turn,
// comparing battle-mode speed. Ties go to the player. The battle does not
// enforce the order.
func (b *Battle) DetermineTurnOrder() Side {
	p, o := b.player.Active(), b.opponent.Active()
	if p == nil || o == nil {
		return SidePlayer
	}
	if p.EffectiveStat(stats.ModeBattle, stats.Speed) >= o.EffectiveStat(stats.ModeBattle, stats.Speed) {
		return SidePlayer
	}
	return SideOpponent
}

// transition fires event on the status machine. Events from a terminal state
// are ignored.
func (b *Battle) transition(event string) {
	if err := b.machine.Event(context.Background(), event); err != nil {
		b.logger.Debug("status transition ignored", zap.String("event", event), zap.Error(err))
	}
}
