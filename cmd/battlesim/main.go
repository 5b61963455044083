// Package main provides battlesim, a command that explores every location
// with an automated trainer, fighting and capturing what it meets, and
// prints the battle narration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/config"
	"github.com/cory-johannsen/monbattle/internal/game/combat"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/trainer"
	"github.com/cory-johannsen/monbattle/internal/gamedata"
	"github.com/cory-johannsen/monbattle/internal/handlers"
	"github.com/cory-johannsen/monbattle/internal/observability"
	"github.com/cory-johannsen/monbattle/internal/scripting"
	"github.com/cory-johannsen/monbattle/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and MONBATTLE_ env vars")
	name := flag.String("trainer", "Red", "trainer name")
	starter := flag.String("starter", "charmander", "species of the starting party member")
	starterLevel := flag.Int("starter-level", 8, "level of the starting party member")
	rounds := flag.Int("rounds", 3, "explorations per location")
	challenge := flag.Bool("challenge", true, "battle each location's trainers after exploring it")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	data, err := loadData(cfg.Engine.DataDir)
	if err != nil {
		logger.Fatal("loading game data", zap.Error(err))
	}
	logger.Info("game data loaded",
		zap.Int("species", len(data.SpeciesIDs())),
		zap.Int("locations", len(data.Locations())),
	)

	src := dice.NewLoggedSource(dice.NewSource(cfg.Engine.Seed), observability.Component(logger, "dice"))

	scripts := scripting.NewManager(src, observability.Component(logger, "scripting"), cfg.Engine.InstructionLimit)
	defer scripts.Close()
	if cfg.Engine.ScriptDir != "" {
		err = scripts.LoadDir(cfg.Engine.ScriptDir)
	} else {
		err = scripts.Load(scripting.DefaultFS())
	}
	if err != nil {
		logger.Fatal("loading status-move scripts", zap.Error(err))
	}

	engine := combat.NewEngine(combat.Options{
		Source:    src,
		Chart:     data.Chart(),
		Logger:    observability.Component(logger, "combat"),
		ConsumePP: cfg.Engine.ConsumePP,
		Effects:   handlers.NewScriptEffects(scripts),
	})
	gen := encounter.NewGenerator(data, src, observability.Component(logger, "encounter"))
	battles := handlers.NewBattleHandler(engine, src, observability.Component(logger, "battle"), cfg.Engine.BaseExperience)
	explorer := handlers.NewEncounterHandler(gen, battles, data, src, observability.Component(logger, "explore"))

	ctx := context.Background()
	var repo *postgres.TrainerRepository
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = postgres.NewTrainerRepository(pool.DB(), data)
	}

	p, err := loadPlayer(ctx, repo, gen, *name, *starter, *starterLevel, cfg.Engine.PartyCap)
	if err != nil {
		logger.Fatal("preparing trainer", zap.Error(err))
	}

	sim := &simulation{explorer: explorer, battles: battles, player: p, logger: logger}
	for _, loc := range data.Locations() {
		if !sim.visit(loc, *rounds, *challenge) {
			break
		}
	}

	if repo != nil {
		if err := repo.Save(ctx, p); err != nil {
			logger.Error("saving trainer", zap.Error(err))
		}
	}
	sim.summary()
	logger.Info("simulation finished", zap.Duration("elapsed", time.Since(start)))
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadFromViper(config.New())
	}
	return config.Load(path)
}

func loadData(dir string) (*gamedata.GameData, error) {
	if dir == "" {
		return gamedata.LoadDefault()
	}
	return gamedata.LoadDir(dir)
}

// loadPlayer returns the stored trainer named name, or a new one with a
// single starter when persistence is off or the trainer is new.
func loadPlayer(ctx context.Context, repo *postgres.TrainerRepository, gen *encounter.Generator, name, starter string, level, partyCap int) (*trainer.Player, error) {
	if repo != nil {
		p, err := repo.GetByName(ctx, name)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, postgres.ErrTrainerNotFound) {
			return nil, err
		}
	}

	p := trainer.NewPlayer(name, partyCap)
	first, err := gen.Perfect(starter, level)
	if err != nil {
		return nil, err
	}
	if err := p.AddToParty(first); err != nil {
		return nil, err
	}
	if repo != nil {
		if err := repo.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type simulation struct {
	explorer *handlers.EncounterHandler
	battles  *handlers.BattleHandler
	player   *trainer.Player
	logger   *zap.Logger

	wins, losses, escapes, caught int
}

// visit explores loc and challenges its trainers. It reports false once the
// party is down and cannot be restored.
func (s *simulation) visit(loc *encounter.Location, rounds int, challenge bool) bool {
	fmt.Printf("\n== %s ==\n", loc.Name)
	for i := 0; i < rounds; i++ {
		enc, err := s.explorer.Explore(loc)
		if err != nil {
			s.logger.Warn("exploring", zap.String("location", loc.ID), zap.Error(err))
			return true
		}
		if enc == nil {
			fmt.Println("Nothing but tall grass...")
			continue
		}
		fmt.Print(enc.Preview)
		s.meet(enc)
		if !s.recover() {
			return false
		}
	}
	if !challenge {
		return true
	}
	for _, id := range loc.Trainers {
		session, err := s.explorer.ChallengeTrainer(s.player, id)
		if err != nil {
			s.logger.Warn("challenging trainer", zap.String("trainer", id), zap.Error(err))
			continue
		}
		s.fight(session)
		if !s.recover() {
			return false
		}
	}
	return true
}

// meet throws a ball while the party has room and fights otherwise or when
// the capture fails.
func (s *simulation) meet(enc *handlers.Encounter) {
	p := s.player
	if len(p.Party) < p.PartyCap && p.Bag.Balls > 0 {
		out, err := s.explorer.Capture(p, enc)
		if err == nil {
			fmt.Println(out.Message)
			if out.Caught {
				s.caught++
				return
			}
		}
	}
	session, err := s.explorer.Fight(p, enc)
	if err != nil {
		s.logger.Warn("starting wild battle", zap.Error(err))
		return
	}
	s.fight(session)
}

func (s *simulation) fight(session *handlers.Session) {
	res := s.battles.Run(session, handlers.AutoPilot)
	for _, line := range session.Battle.Log() {
		fmt.Println("  " + line)
	}
	switch res.Status {
	case combat.StatusPlayerWon:
		s.wins++
	case combat.StatusPlayerLost:
		s.losses++
	case combat.StatusEscaped:
		s.escapes++
	}
}

// recover revives fainted members at a center, falling back to Revive items.
func (s *simulation) recover() bool {
	p := s.player
	if p.FaintedCount() == 0 {
		return true
	}
	if msg, err := p.ReviveAllAtCenter(); err == nil {
		fmt.Println(msg)
		return true
	}
	for i, c := range p.Party {
		if !c.IsFainted() {
			continue
		}
		if msg, err := p.ReviveWithItem(i, combat.Revive); err == nil {
			fmt.Println(msg)
		}
	}
	return !p.AllFainted()
}

func (s *simulation) summary() {
	p := s.player
	fmt.Printf("\n%s: %d wins, %d losses, %d escapes, %d caught, %d money\n",
		p.Name, s.wins, s.losses, s.escapes, s.caught, p.Money)
	for _, c := range p.Party {
		fmt.Printf("  %s\n", c)
	}
}
