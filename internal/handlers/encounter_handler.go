package handlers

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
)

// DefaultBall is the ball recorded on captured combatants.
const DefaultBall = "Poké Ball"

// ErrUnknownTrainer is returned when a location names a trainer the catalog lacks.
var ErrUnknownTrainer = errors.New("unknown trainer")

// TrainerLookup resolves trainer definitions by id.
type TrainerLookup interface {
	Trainer(id string) (*encounter.TrainerDef, bool)
}

// Encounter is a wild combatant met while exploring, before the player decides
// to fight, capture, or flee.
type Encounter struct {
	Location *encounter.Location
	Wild     *monster.Combatant
	Preview  encounter.Preview
}

// CaptureOutcome reports the result of one capture attempt.
type CaptureOutcome struct {
	Caught  bool
	Message string
}

// EncounterHandler walks a player through wild encounters and trainer battles.
type EncounterHandler struct {
	gen      *encounter.Generator
	battles  *BattleHandler
	trainers TrainerLookup
	src      dice.Source
	logger   *zap.Logger
	now      func() time.Time
}

// NewEncounterHandler creates an EncounterHandler.
//
// Precondition: gen, battles and src must be non-nil.
func NewEncounterHandler(gen *encounter.Generator, battles *BattleHandler, trainers TrainerLookup, src dice.Source, logger *zap.Logger) *EncounterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EncounterHandler{
		gen:      gen,
		battles:  battles,
		trainers: trainers,
		src:      src,
		logger:   logger,
		now:      time.Now,
	}
}

// Explore rolls the location's encounter rate and, on a hit, generates a wild
// combatant with its preview.
//
// Postcondition: Returns (nil, nil) when nothing appears.
func (h *EncounterHandler) Explore(loc *encounter.Location) (*Encounter, error) {
	if !loc.ShouldEncounter(h.src) {
		h.logger.Debug("no encounter", zap.String("location", loc.ID))
		return nil, nil
	}
	wild, err := h.gen.Generate(loc)
	if err != nil {
		return nil, fmt.Errorf("exploring %s: %w", loc.ID, err)
	}
	h.logger.Debug("wild encounter",
		zap.String("location", loc.ID),
		zap.String("species", wild.SpeciesID),
		zap.Int("level", wild.Level),
	)
	return &Encounter{Location: loc, Wild: wild, Preview: encounter.NewPreview(wild, loc)}, nil
}

// Capture throws one ball at the encounter's combatant. A full party refuses
// before a ball is spent.
//
// Postcondition: On success the combatant carries capture provenance and is
// the last party member.
func (h *EncounterHandler) Capture(p *trainer.Player, enc *Encounter) (CaptureOutcome, error) {
	if len(p.Party) >= p.PartyCap {
		return CaptureOutcome{}, fmt.Errorf("capturing %s: %w", enc.Wild.Name, trainer.ErrPartyFull)
	}
	if err := p.TakeBall(); err != nil {
		return CaptureOutcome{}, fmt.Errorf("capturing %s: %w", enc.Wild.Name, err)
	}
	if !combat.CaptureSuccess(enc.Wild, h.src) {
		return CaptureOutcome{Message: fmt.Sprintf("Oh no! The wild %s broke free!", enc.Wild.Name)}, nil
	}
	enc.Wild.SetCaught(DefaultBall, enc.Location.ID, h.now())
	if err := p.AddToParty(enc.Wild); err != nil {
		return CaptureOutcome{}, err
	}
	h.logger.Info("combatant captured",
		zap.String("player", p.Name),
		zap.String("species", enc.Wild.SpeciesID),
		zap.String("location", enc.Location.ID),
	)
	return CaptureOutcome{Caught: true, Message: fmt.Sprintf("Gotcha! %s was caught!", enc.Wild.Name)}, nil
}

// Flee tries to leave the encounter before a battle starts.
func (h *EncounterHandler) Flee(enc *Encounter) (bool, string) {
	if combat.EscapeSuccess(h.src) {
		return true, "Got away safely!"
	}
	return false, fmt.Sprintf("Couldn't get away from the wild %s!", enc.Wild.Name)
}

// Fight starts a wild battle against the encounter's combatant.
func (h *EncounterHandler) Fight(p *trainer.Player, enc *Encounter) (*Session, error) {
	return h.battles.StartWild(p, enc.Wild)
}

// ChallengeTrainer starts a battle against the trainer registered under id,
// scaling its team to the player's strongest member.
func (h *EncounterHandler) ChallengeTrainer(p *trainer.Player, id string) (*Session, error) {
	if h.trainers == nil {
		return nil, fmt.Errorf("challenging %q: %w", id, ErrUnknownTrainer)
	}
	def, ok := h.trainers.Trainer(id)
	if !ok {
		return nil, fmt.Errorf("challenging %q: %w", id, ErrUnknownTrainer)
	}
	team, err := h.gen.TrainerTeam(def, p.HighestLevel())
	if err != nil {
		return nil, fmt.Errorf("challenging %q: %w", id, err)
	}
	return h.battles.StartTrainer(p, def, team)
}
