package multiworld

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"voxelcraft.ai/barrierview/internal/sim/catalogs"
	"voxelcraft.ai/barrierview/internal/sim/tuning"
	"voxelcraft.ai/barrierview/internal/sim/world"
)

var ErrWorldNotFound = errors.New("world not found")

// Manager owns one running world per configured spec.
type Manager struct {
	log       *log.Logger
	worlds    map[string]*world.World
	ids       []string
	defaultID string

	stopOnce sync.Once
}

func NewManager(cfg Config, tune tuning.Tuning, cats *catalogs.Catalogs, logger *log.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		log:       logger,
		worlds:    map[string]*world.World{},
		defaultID: cfg.DefaultWorldID,
	}
	for _, spec := range cfg.Worlds {
		fixtures := make([]world.Fixture, 0, len(spec.Fixtures))
		for _, f := range spec.Fixtures {
			fixtures = append(fixtures, world.Fixture{Block: f.Block, Min: f.Min, Max: f.Max})
		}
		w, err := world.New(world.WorldConfig{
			ID:         spec.ID,
			Seed:       spec.Seed,
			MinY:       tune.Scan.MinY,
			MaxY:       tune.Scan.MaxY,
			ChunkSize:  tune.Scan.ChunkSize,
			GroundY:    spec.GroundY,
			BoundaryR:  spec.BoundaryR,
			Fixtures:   fixtures,
			TaskQueue:  tune.World.TaskQueue,
			LoadRadius: tune.World.LoadRadiusChunks,
		}, cats, logger)
		if err != nil {
			return nil, fmt.Errorf("create world (%s): %w", spec.ID, err)
		}
		m.worlds[spec.ID] = w
		m.ids = append(m.ids, spec.ID)
	}
	sort.Strings(m.ids)
	return m, nil
}

func (m *Manager) WorldIDs() []string {
	return append([]string(nil), m.ids...)
}

func (m *Manager) World(id string) *world.World {
	return m.worlds[id]
}

func (m *Manager) DefaultWorldID() string { return m.defaultID }

// Pick returns the preferred world, or the default when pref is empty.
func (m *Manager) Pick(pref string) (*world.World, error) {
	id := strings.TrimSpace(pref)
	if id == "" {
		id = m.defaultID
	}
	w := m.worlds[id]
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, id)
	}
	return w, nil
}

// Run runs every world until ctx is done or Stop is called.
func (m *Manager) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, id := range m.ids {
		w := m.worlds[id]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && m.log != nil {
				m.log.Printf("world %s stopped: %v", w.ID(), err)
			}
		}()
	}
	wg.Wait()
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		for _, w := range m.worlds {
			w.Stop()
		}
	})
}
