// Package trainer defines the player's persistent state: party, bag and wallet.
package trainer

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

// DefaultPartyCap is the maximum party size.
const DefaultPartyCap = 6

// CenterCost is the undiscounted price of reviving one member at a center.
const CenterCost = 200

var (
	ErrPartyFull         = errors.New("party is full")
	ErrInvalidMember     = errors.New("no party member at that position")
	ErrNeedsRevive       = errors.New("a fainted member needs a revive item")
	ErrOutOfStock        = errors.New("item not in bag")
	ErrInsufficientFunds = errors.New("not enough money")
	ErrNothingToRevive   = errors.New("no fainted members")
)

// Bag holds consumable counts.
type Bag struct {
	Balls int
	Items map[combat.ItemKind]int
}

// StarterBag is the bag a new trainer begins with.
func StarterBag() Bag {
	return Bag{
		Balls: 5,
		Items: map[combat.ItemKind]int{
			combat.Potion:      3,
			combat.SuperPotion: 1,
			combat.Revive:      1,
		},
	}
}

// Count returns how many of kind are held.
func (b Bag) Count(kind combat.ItemKind) int {
	return b.Items[kind]
}

// Player is a trainer's persistent state.
//
// ID is set by the persistence layer; zero indicates an unsaved player.
type Player struct {
	ID   int64
	Name string

	Party    []*monster.Combatant
	PartyCap int
	Bag      Bag
	Money    int
	// VisitedCenter grants the half-price center discount.
	VisitedCenter bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPlayer creates a trainer with an empty party and the starter bag.
//
// Precondition: partyCap >= 1; values below 1 use DefaultPartyCap.
func NewPlayer(name string, partyCap int) *Player {
	if partyCap < 1 {
		partyCap = DefaultPartyCap
	}
	return &Player{
		Name:     name,
		PartyCap: partyCap,
		Bag:      StarterBag(),
	}
}

// AddToParty appends c to the party.
//
// Postcondition: Returns ErrPartyFull and leaves the party unchanged when at capacity.
func (p *Player) AddToParty(c *monster.Combatant) error {
	if len(p.Party) >= p.PartyCap {
		return fmt.Errorf("adding %s: %w", c.Name, ErrPartyFull)
	}
	p.Party = append(p.Party, c)
	return nil
}

// Lead returns the first conscious party member, or nil.
func (p *Player) Lead() *monster.Combatant {
	for _, c := range p.Party {
		if !c.IsFainted() {
			return c
		}
	}
	return nil
}

// ConsciousCount returns the number of members able to battle.
func (p *Player) ConsciousCount() int {
	n := 0
	for _, c := range p.Party {
		if !c.IsFainted() {
			n++
		}
	}
	return n
}

// FaintedCount returns the number of fainted members.
func (p *Player) FaintedCount() int {
	return len(p.Party) - p.ConsciousCount()
}

// AllFainted reports whether the trainer can no longer battle.
func (p *Player) AllFainted() bool {
	return p.ConsciousCount() == 0
}

// HighestLevel returns the level of the strongest member, or 1 for an empty party.
func (p *Player) HighestLevel() int {
	best := 1
	for _, c := range p.Party {
		best = max(best, c.Level)
	}
	return best
}

// AddItem puts n of kind in the bag.
func (p *Player) AddItem(kind combat.ItemKind, n int) {
	if n <= 0 {
		return
	}
	if p.Bag.Items == nil {
		p.Bag.Items = make(map[combat.ItemKind]int)
	}
	p.Bag.Items[kind] += n
}

// TakeItem removes one of kind from the bag.
//
// Postcondition: Returns ErrOutOfStock and leaves the bag unchanged when none are held.
func (p *Player) TakeItem(kind combat.ItemKind) error {
	if p.Bag.Items[kind] <= 0 {
		return fmt.Errorf("%s: %w", kind, ErrOutOfStock)
	}
	p.Bag.Items[kind]--
	return nil
}

// TakeBall removes one ball from the bag.
func (p *Player) TakeBall() error {
	if p.Bag.Balls <= 0 {
		return fmt.Errorf("ball: %w", ErrOutOfStock)
	}
	p.Bag.Balls--
	return nil
}

// AddMoney credits the wallet. Negative amounts are ignored.
func (p *Player) AddMoney(amount int) {
	if amount > 0 {
		p.Money += amount
	}
}

// ReviveWithItem uses one item from the bag on the party member at idx.
// Potions restore a share of max HP (half for Potion, all for Super Potion)
// and refuse fainted members; Revive and Full Restore bring a member back at
// half or full HP.
//
// Postcondition: On error neither the bag nor the member changes.
func (p *Player) ReviveWithItem(idx int, kind combat.ItemKind) (string, error) {
	if idx < 0 || idx >= len(p.Party) {
		return "", fmt.Errorf("position %d: %w", idx, ErrInvalidMember)
	}
	c := p.Party[idx]

	var share float64
	switch kind {
	case combat.Potion:
		share = 0.5
	case combat.SuperPotion:
		share = 1.0
	case combat.Revive, combat.FullRestore:
		share = kind.ReviveFraction()
	default:
		return "", fmt.Errorf("%s: %w", kind, combat.ErrUnknownItemKind)
	}
	if !kind.IsRevive() && c.IsFainted() {
		return "", fmt.Errorf("%s on %s: %w", kind, c.Name, ErrNeedsRevive)
	}
	if kind.IsRevive() && !c.IsFainted() {
		return "", fmt.Errorf("%s on conscious %s: %w", kind, c.Name, combat.ErrIllegalItem)
	}
	if err := p.TakeItem(kind); err != nil {
		return "", err
	}

	if kind.IsRevive() {
		c.Revive(share)
		return fmt.Sprintf("%s was revived! HP %d/%d", c.Name, c.HP, c.MaxHP), nil
	}
	c.Heal(int(float64(c.MaxHP) * share))
	return fmt.Sprintf("%s recovered! HP %d/%d", c.Name, c.HP, c.MaxHP), nil
}

// CenterPrice returns what reviving n members costs at a center.
func (p *Player) CenterPrice(n int) int {
	total := n * CenterCost
	if p.VisitedCenter {
		total /= 2
	}
	return total
}

// ReviveAtCenter fully restores the member at idx for a fee.
func (p *Player) ReviveAtCenter(idx int) (string, error) {
	if idx < 0 || idx >= len(p.Party) {
		return "", fmt.Errorf("position %d: %w", idx, ErrInvalidMember)
	}
	cost := p.CenterPrice(1)
	if p.Money < cost {
		return "", fmt.Errorf("need %d, have %d: %w", cost, p.Money, ErrInsufficientFunds)
	}
	p.Money -= cost
	c := p.Party[idx]
	c.Revive(1.0)
	p.VisitedCenter = true
	return fmt.Sprintf("Paid %d. %s is fully restored! (%d left)", cost, c.Name, p.Money), nil
}

// ReviveAllAtCenter fully restores every fainted member for a fee per member.
//
// Postcondition: Returns ErrNothingToRevive when no member is fainted.
func (p *Player) ReviveAllAtCenter() (string, error) {
	fainted := p.FaintedCount()
	if fainted == 0 {
		return "", ErrNothingToRevive
	}
	cost := p.CenterPrice(fainted)
	if p.Money < cost {
		return "", fmt.Errorf("need %d, have %d: %w", cost, p.Money, ErrInsufficientFunds)
	}
	p.Money -= cost
	for _, c := range p.Party {
		if c.IsFainted() {
			c.Revive(1.0)
		}
	}
	p.VisitedCenter = true
	return fmt.Sprintf("Paid %d. Your party is fully restored! (%d left)", cost, p.Money), nil
}
