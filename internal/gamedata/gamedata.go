package gamedata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/monbattle/internal/game/element"
	"github.com/cory-johannsen/monbattle/internal/game/encounter"
	"github.com/cory-johannsen/monbattle/internal/game/monster"
)

// File names read from a data filesystem.
const (
	SpeciesFile   = "species.yaml"
	MovesFile     = "moves.yaml"
	LocationsFile = "locations.yaml"
	TrainersFile  = "trainers.yaml"
	TypeChartFile = "type_chart.yaml"
)

type speciesFile struct {
	Species []*monster.Species `yaml:"species"`
}

type movesFile struct {
	Moves []monster.Move `yaml:"moves"`
}

type locationsFile struct {
	Locations []*encounter.Location `yaml:"locations"`
}

type trainersFile struct {
	Trainers []*encounter.TrainerDef `yaml:"trainers"`
}

type chartFile struct {
	Overrides []element.Override `yaml:"overrides"`
}

// GameData is the immutable catalog the engine reads. It is built once at
// startup and passed to the components that need it.
//
// Invariant: every species move, spawn species, location trainer, and trainer
// team member resolves to a loaded definition.
type GameData struct {
	species   map[string]*monster.Species
	moves     map[string]monster.Move
	locations map[string]*encounter.Location
	trainers  map[string]*encounter.TrainerDef
	chart     *element.Chart

	locationOrder []string
}

// LoadDefault builds GameData from the embedded content.
func LoadDefault() (*GameData, error) {
	return Load(DefaultFS())
}

// LoadDir builds GameData from YAML files in dir.
//
// Precondition: dir must be a readable directory containing the data files.
func LoadDir(dir string) (*GameData, error) {
	return Load(os.DirFS(dir))
}

// Load builds GameData from the files in fsys. The type chart file is
// optional; the other four are required.
//
// Postcondition: Returns a fully cross-validated GameData or a non-nil error.
func Load(fsys fs.FS) (*GameData, error) {
	var sf speciesFile
	if err := decodeFile(fsys, SpeciesFile, &sf); err != nil {
		return nil, err
	}
	var mf movesFile
	if err := decodeFile(fsys, MovesFile, &mf); err != nil {
		return nil, err
	}
	var lf locationsFile
	if err := decodeFile(fsys, LocationsFile, &lf); err != nil {
		return nil, err
	}
	var tf trainersFile
	if err := decodeFile(fsys, TrainersFile, &tf); err != nil {
		return nil, err
	}
	var cf chartFile
	if err := decodeFile(fsys, TypeChartFile, &cf); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	chart, err := element.DefaultChart().WithOverrides(cf.Overrides)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TypeChartFile, err)
	}
	return New(sf.Species, mf.Moves, lf.Locations, tf.Trainers, chart)
}

// New assembles GameData from already-decoded definitions and validates
// every definition and cross reference.
//
// Postcondition: Returns an error naming the first invalid or duplicate definition.
func New(species []*monster.Species, moves []monster.Move, locations []*encounter.Location, trainers []*encounter.TrainerDef, chart *element.Chart) (*GameData, error) {
	if chart == nil {
		chart = element.DefaultChart()
	}
	gd := &GameData{
		species:   make(map[string]*monster.Species, len(species)),
		moves:     make(map[string]monster.Move, len(moves)),
		locations: make(map[string]*encounter.Location, len(locations)),
		trainers:  make(map[string]*encounter.TrainerDef, len(trainers)),
		chart:     chart,
	}

	for _, m := range moves {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, dup := gd.moves[m.ID]; dup {
			return nil, fmt.Errorf("duplicate move %q", m.ID)
		}
		gd.moves[m.ID] = m
	}
	for _, s := range species {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := gd.species[s.ID]; dup {
			return nil, fmt.Errorf("duplicate species %q", s.ID)
		}
		for _, id := range s.Moves {
			if _, ok := gd.moves[id]; !ok {
				return nil, fmt.Errorf("species %q: unknown move %q", s.ID, id)
			}
		}
		gd.species[s.ID] = s
	}
	for _, t := range trainers {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := gd.trainers[t.ID]; dup {
			return nil, fmt.Errorf("duplicate trainer %q", t.ID)
		}
		for _, id := range t.Team {
			if _, ok := gd.species[id]; !ok {
				return nil, fmt.Errorf("trainer %q: %w: %q", t.ID, encounter.ErrUnknownSpecies, id)
			}
		}
		gd.trainers[t.ID] = t
	}
	for _, l := range locations {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := gd.locations[l.ID]; dup {
			return nil, fmt.Errorf("duplicate location %q", l.ID)
		}
		for _, e := range l.SpawnTable {
			if _, ok := gd.species[e.SpeciesID]; !ok {
				return nil, fmt.Errorf("location %q: %w: %q", l.ID, encounter.ErrUnknownSpecies, e.SpeciesID)
			}
		}
		for _, id := range l.Trainers {
			if _, ok := gd.trainers[id]; !ok {
				return nil, fmt.Errorf("location %q: unknown trainer %q", l.ID, id)
			}
		}
		gd.locations[l.ID] = l
		gd.locationOrder = append(gd.locationOrder, l.ID)
	}
	return gd, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %q: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %q: %w", name, err)
	}
	return nil
}

// Species returns the species with id.
func (g *GameData) Species(id string) (*monster.Species, bool) {
	s, ok := g.species[id]
	return s, ok
}

// Move returns a copy of the move with id.
func (g *GameData) Move(id string) (monster.Move, bool) {
	m, ok := g.moves[id]
	return m, ok
}

// Location returns the location with id.
func (g *GameData) Location(id string) (*encounter.Location, bool) {
	l, ok := g.locations[id]
	return l, ok
}

// Locations returns every location in file order.
func (g *GameData) Locations() []*encounter.Location {
	out := make([]*encounter.Location, 0, len(g.locationOrder))
	for _, id := range g.locationOrder {
		out = append(out, g.locations[id])
	}
	return out
}

// Trainer returns the trainer with id.
func (g *GameData) Trainer(id string) (*encounter.TrainerDef, bool) {
	t, ok := g.trainers[id]
	return t, ok
}

// SpeciesIDs returns every species ID sorted.
func (g *GameData) SpeciesIDs() []string {
	ids := make([]string, 0, len(g.species))
	for id := range g.species {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Chart returns the type chart.
func (g *GameData) Chart() *element.Chart {
	return g.chart
}
