package handlers

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/stats"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
)

// ErrNoConsciousMember is returned when a battle is requested for a player who cannot fight.
var ErrNoConsciousMember = errors.New("no party member can battle")

// ActionKind selects what the player does on a turn.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionItem
	ActionSwitch
	ActionEscape
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionItem:
		return "item"
	case ActionSwitch:
		return "switch"
	case ActionEscape:
		return "escape"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is one player decision. Index is the move slot for ActionMove and
// the party position for ActionSwitch; Item is used by ActionItem.
type Action struct {
	Kind  ActionKind
	Index int
	Item  combat.ItemKind
}

// Policy chooses the player's action for the current state of a session.
type Policy func(s *Session) Action

// Session couples a live battle with the player it belongs to.
type Session struct {
	Battle  *combat.Battle
	Player  *trainer.Player
	Trainer *encounter.TrainerDef
}

// Result summarizes a finished battle.
type Result struct {
	Status     combat.Status
	Turns      int
	Experience int
	Money      int
}

// Won reports whether the player won.
func (r Result) Won() bool { return r.Status == combat.StatusPlayerWon }

// BattleHandler runs turns: the player's action, the opponent's response,
// the end check, and rewards once the battle is over.
//
// Party members are shared with the battle, so HP, experience and levels
// carry back to the player without copying.
type BattleHandler struct {
	engine  *combat.Engine
	src     dice.Source
	logger  *zap.Logger
	baseExp int
	// MaxTurns bounds Run. Zero means 200.
	MaxTurns int
}

// NewBattleHandler creates a BattleHandler.
//
// Precondition: engine and src must be non-nil; baseExp >= 0.
// Postcondition: Returns a non-nil BattleHandler.
func NewBattleHandler(engine *combat.Engine, src dice.Source, logger *zap.Logger, baseExp int) *BattleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleHandler{engine: engine, src: src, logger: logger, baseExp: baseExp}
}

// StartWild begins a wild battle against a single combatant.
func (h *BattleHandler) StartWild(p *trainer.Player, wild *monster.Combatant) (*Session, error) {
	return h.start(p, []*monster.Combatant{wild}, nil)
}

// StartTrainer begins a battle against def's team, given already generated.
func (h *BattleHandler) StartTrainer(p *trainer.Player, def *encounter.TrainerDef, team []*monster.Combatant) (*Session, error) {
	return h.start(p, team, def)
}

func (h *BattleHandler) start(p *trainer.Player, opponent []*monster.Combatant, def *encounter.TrainerDef) (*Session, error) {
	if p.AllFainted() {
		return nil, fmt.Errorf("starting battle for %s: %w", p.Name, ErrNoConsciousMember)
	}
	b, err := h.engine.Start(p.Party, opponent, def == nil)
	if err != nil {
		return nil, fmt.Errorf("starting battle for %s: %w", p.Name, err)
	}
	if def != nil {
		b.AppendLog(fmt.Sprintf("%s wants to battle!", def.FullName()))
	}
	h.logger.Debug("battle session started",
		zap.String("battle", b.ID),
		zap.String("player", p.Name),
		zap.Bool("wild", def == nil),
	)
	return &Session{Battle: b, Player: p, Trainer: def}, nil
}

// Turn resolves one player action plus the opponent's response.
// A failed player action returns its error and consumes no turn.
//
// Postcondition: Returns true once the battle's status is terminal.
func (h *BattleHandler) Turn(s *Session, a Action) (bool, error) {
	b := s.Battle
	if b.Status().Terminal() {
		return true, nil
	}

	switch a.Kind {
	case ActionMove:
		if err := h.exchange(b, a.Index); err != nil {
			return false, err
		}
	case ActionItem:
		if s.Player.Bag.Count(a.Item) <= 0 {
			return false, fmt.Errorf("%s: %w", a.Item, trainer.ErrOutOfStock)
		}
		if err := b.UseItem(a.Item, true, 0); err != nil {
			return false, err
		}
		if err := s.Player.TakeItem(a.Item); err != nil {
			return false, err
		}
		h.respond(b)
	case ActionSwitch:
		if err := b.SwitchPlayer(a.Index); err != nil {
			return false, err
		}
		h.respond(b)
	case ActionEscape:
		if b.AttemptEscape() {
			return true, nil
		}
		h.respond(b)
	default:
		return false, fmt.Errorf("unknown action %s", a.Kind)
	}

	b.AdvanceTurn()
	return b.Status().Terminal(), nil
}

// exchange makes both sides attack in DetermineTurnOrder order. The second
// side only acts if its active member survived the first hit.
func (h *BattleHandler) exchange(b *combat.Battle, moveIndex int) error {
	if err := b.CanUseMove(moveIndex, true); err != nil {
		return err
	}
	if b.DetermineTurnOrder() == combat.SidePlayer {
		if err := b.UseMove(moveIndex, true); err != nil {
			return err
		}
		h.respond(b)
		return nil
	}

	player := b.Active(combat.SidePlayer)
	h.opponentMove(b)
	if b.CheckBattleEnd() || player.IsFainted() {
		return nil
	}
	if err := b.UseMove(moveIndex, true); err != nil {
		return err
	}
	b.CheckBattleEnd()
	return nil
}

// respond runs the end check and, if the opponent's active member is still
// standing, lets it act. A replacement sent in by the end check waits for the
// next turn.
func (h *BattleHandler) respond(b *combat.Battle) {
	before := b.Active(combat.SideOpponent)
	if b.CheckBattleEnd() {
		return
	}
	if c := b.Active(combat.SideOpponent); c == nil || c != before || c.IsFainted() {
		return
	}
	h.opponentMove(b)
	b.CheckBattleEnd()
}

// opponentMove picks a random known move with PP left.
func (h *BattleHandler) opponentMove(b *combat.Battle) {
	c, ok := b.Opponent().Conscious()
	if !ok {
		return
	}
	var usable []int
	for i, mv := range c.Moves {
		if mv.PP > 0 {
			usable = append(usable, i)
		}
	}
	if len(usable) == 0 {
		b.AppendLog(fmt.Sprintf("The opposing %s has no moves left!", c.Name))
		return
	}
	idx := usable[h.src.Intn(len(usable))]
	if err := b.UseMove(idx, false); err != nil {
		h.logger.Warn("opponent move failed", zap.String("battle", b.ID), zap.Error(err))
	}
}

// Finish applies rewards for a won battle and unregisters it.
//
// Precondition: the battle's status is terminal.
// Postcondition: On a win the player has gained experience and money.
func (h *BattleHandler) Finish(s *Session) Result {
	b := s.Battle
	res := Result{Status: b.Status(), Turns: b.Turn()}
	if res.Won() {
		res.Experience = b.AwardExperience(h.baseExp)
		res.Money = b.RewardMoney()
		if s.Trainer != nil {
			res.Money += s.Trainer.RewardMoney
		}
		s.Player.AddMoney(res.Money)
		b.AppendLog(fmt.Sprintf("You got %d for winning!", res.Money))
	}
	h.engine.End(b.ID)
	h.logger.Info("battle finished",
		zap.String("battle", b.ID),
		zap.String("status", string(res.Status)),
		zap.Int("turns", res.Turns),
		zap.Int("money", res.Money),
	)
	return res
}

// Run drives a session to completion with policy choosing every action.
// Rejected actions fall back to the first usable move; if nothing is usable
// the player attempts to flee.
func (h *BattleHandler) Run(s *Session, policy Policy) Result {
	limit := h.MaxTurns
	if limit <= 0 {
		limit = 200
	}
	for i := 0; i < limit; i++ {
		done, err := h.Turn(s, policy(s))
		if err != nil {
			h.logger.Debug("action rejected", zap.Error(err))
			done, err = h.Turn(s, fallbackAction(s))
			if err != nil {
				h.logger.Warn("fallback action rejected", zap.Error(err))
			}
		}
		if done {
			break
		}
	}
	return h.Finish(s)
}

func fallbackAction(s *Session) Action {
	if c, ok := s.Battle.Player().Conscious(); ok {
		for i, mv := range c.Moves {
			if mv.PP > 0 {
				return Action{Kind: ActionMove, Index: i}
			}
		}
	}
	return Action{Kind: ActionEscape}
}

// AutoPilot is a Policy that heals a badly hurt lead when it can and
// otherwise uses the usable move with the best expected damage.
func AutoPilot(s *Session) Action {
	b := s.Battle
	c, ok := b.Player().Conscious()
	if !ok {
		return Action{Kind: ActionEscape}
	}
	if c.HPRatio() < 0.25 {
		for _, kind := range []combat.ItemKind{combat.SuperPotion, combat.Potion} {
			if s.Player.Bag.Count(kind) > 0 {
				return Action{Kind: ActionItem, Item: kind}
			}
		}
	}

	opp := b.Active(combat.SideOpponent)
	best, bestScore := -1, -1.0
	for i, mv := range c.Moves {
		if mv.PP <= 0 {
			continue
		}
		score := expectedPower(b.Chart(), c, mv, opp)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Action{Kind: ActionEscape}
	}
	return Action{Kind: ActionMove, Index: best}
}

func expectedPower(chart *element.Chart, c *monster.Combatant, mv monster.Move, opp *monster.Combatant) float64 {
	if mv.Category == monster.Status {
		return 0
	}
	eff := 1.0
	if opp != nil {
		eff = chart.Effectiveness(mv.Type, opp.Typing)
	}
	atk := stats.Attack
	if mv.Category == monster.Special {
		atk = stats.SpAttack
	}
	return float64(mv.Power) * eff * float64(mv.Accuracy) / 100 * float64(c.EffectiveStat(stats.ModeBattle, atk))
}
