package combat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

// Engine tracks every live battle by id. It is safe for concurrent use; the
// battles it hands out are not.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Battle
	opts    Options
}

// NewEngine creates an Engine whose battles share opts.
//
// Precondition: opts.Source must be non-nil.
// Postcondition: Returns a non-nil Engine with no battles.
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		battles: make(map[string]*Battle),
		opts:    opts,
	}
}

// Start begins a battle between the two teams under a fresh id.
//
// Precondition: both teams must be non-empty.
// Postcondition: Returns the registered Battle or an error.
func (e *Engine) Start(player, opponent []*monster.Combatant, wild bool) (*Battle, error) {
	return e.StartWithID(uuid.NewString(), player, opponent, wild)
}

// StartWithID begins a battle registered under id.
//
// Postcondition: Returns an error if a battle with id is already live.
func (e *Engine) StartWithID(id string, player, opponent []*monster.Combatant, wild bool) (*Battle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.battles[id]; exists {
		return nil, fmt.Errorf("battle %q already active", id)
	}
	b, err := NewBattle(id, player, opponent, wild, e.opts)
	if err != nil {
		return nil, err
	}
	e.battles[id] = b
	e.opts.Logger.Debug("battle started", zap.String("battle", id), zap.Bool("wild", wild))
	return b, nil
}

// Get returns the live battle registered under id.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.battles[id]
	return b, ok
}

// End removes the battle registered under id.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.battles, id)
}

// Count returns the number of live battles.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}
