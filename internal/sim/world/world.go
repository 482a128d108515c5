package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/sim/catalogs"
)

var (
	ErrStopped        = errors.New("world stopped")
	ErrBusy           = errors.New("world task queue full")
	ErrChunkNotLoaded = errors.New("chunk not loaded")
	ErrOutOfBounds    = errors.New("position out of bounds")
	ErrUnknownViewer  = errors.New("unknown viewer")
)

// World owns a chunk store and a viewer roster. Block state is only touched
// on the goroutine running Run; other goroutines reach it through Execute.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	log      *log.Logger

	chunks *ChunkStore

	tasks    chan func()
	stop     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	viewers map[uuid.UUID]*Viewer
}

func New(cfg WorldConfig, cats *catalogs.Catalogs, logger *log.Logger) (*World, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = catalogs.Defaults()
	}

	pal, err := resolvePalette(&cats.Blocks)
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", cfg.ID, err)
	}
	fixed := make([]placedFixture, 0, len(cfg.Fixtures))
	for i, f := range cfg.Fixtures {
		id, ok := cats.Blocks.ID(f.Block)
		if !ok {
			return nil, fmt.Errorf("world %s: fixture %d: unknown block %q", cfg.ID, i, f.Block)
		}
		fixed = append(fixed, placedFixture{Fixture: f, id: id})
	}

	return &World{
		cfg:      cfg,
		catalogs: cats,
		log:      logger,
		chunks:   newChunkStore(cfg, pal, fixed),
		tasks:    make(chan func(), cfg.TaskQueue),
		stop:     make(chan struct{}),
		viewers:  map[uuid.UUID]*Viewer{},
	}, nil
}

func resolvePalette(b *catalogs.BlockCatalog) (terrainPalette, error) {
	var p terrainPalette
	for _, r := range []struct {
		name string
		dst  *uint16
	}{
		{catalogs.Air, &p.Air},
		{catalogs.Stone, &p.Stone},
		{catalogs.Dirt, &p.Dirt},
		{catalogs.Grass, &p.Grass},
		{catalogs.Sand, &p.Sand},
		{catalogs.Log, &p.Log},
	} {
		id, ok := b.ID(r.name)
		if !ok {
			return p, fmt.Errorf("block palette is missing %s", r.name)
		}
		*r.dst = id
	}
	return p, nil
}

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Name() string { return w.ID() }

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case task := <-w.tasks:
			w.runTask(task)
		}
	}
}

func (w *World) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil && w.log != nil {
			w.log.Printf("world %s: task panic: %v", w.cfg.ID, r)
		}
	}()
	task()
}

func (w *World) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// Execute queues task to run on the world goroutine. It never blocks: a full
// queue returns ErrBusy.
func (w *World) Execute(task func()) error {
	select {
	case <-w.stop:
		return ErrStopped
	default:
	}
	select {
	case w.tasks <- task:
		return nil
	default:
		return ErrBusy
	}
}

// Join adds a viewer. out may be nil for viewers that receive nothing.
func (w *World) Join(name string, out chan []byte) *Viewer {
	v := &Viewer{id: uuid.New(), name: name, out: out}
	w.mu.Lock()
	w.viewers[v.id] = v
	w.mu.Unlock()
	return v
}

// Leave removes a viewer and unloads chunks nobody is near any more.
func (w *World) Leave(id uuid.UUID) bool {
	w.mu.Lock()
	_, ok := w.viewers[id]
	delete(w.viewers, id)
	w.mu.Unlock()
	if ok {
		_ = w.Execute(w.pruneChunks)
	}
	return ok
}

func (w *World) Viewer(id uuid.UUID) *Viewer {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.viewers[id]
}

// Viewers returns the present viewers ordered by id.
func (w *World) Viewers() []host.Viewer {
	w.mu.RLock()
	vs := make([]*Viewer, 0, len(w.viewers))
	for _, v := range w.viewers {
		vs = append(vs, v)
	}
	w.mu.RUnlock()
	sort.Slice(vs, func(i, j int) bool { return vs[i].id.String() < vs[j].id.String() })
	out := make([]host.Viewer, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func (w *World) ViewerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.viewers)
}

// MoveViewer records a new position, loads the chunks around it and unloads
// the ones no viewer is near any more. Positions outside the world boundary
// are rejected with ErrOutOfBounds and leave the old position in place.
func (w *World) MoveViewer(id uuid.UUID, pos host.Vec3) error {
	v := w.Viewer(id)
	if v == nil {
		return ErrUnknownViewer
	}
	if !w.InBounds(pos) {
		return ErrOutOfBounds
	}
	v.setPosition(pos)
	x, _, z := pos.Floor()
	return w.Execute(func() {
		w.chunks.LoadAround(x, z, w.cfg.LoadRadius)
		w.pruneChunks()
	})
}

// InBounds reports whether a viewer may stand at pos. Horizontally the world
// ends at BoundaryR; vertically a viewer may be up to BoundaryR cells beyond
// the block range.
func (w *World) InBounds(pos host.Vec3) bool {
	r := float64(w.cfg.BoundaryR)
	for _, c := range [3]float64{pos.X, pos.Y, pos.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	if pos.X < -r || pos.X >= r+1 || pos.Z < -r || pos.Z >= r+1 {
		return false
	}
	return pos.Y >= float64(w.cfg.MinY)-r && pos.Y < float64(w.cfg.MaxY)+r+1
}

func (w *World) pruneChunks() {
	keep := map[ChunkKey]bool{}
	for _, hv := range w.Viewers() {
		pos, ok := hv.Position()
		if !ok {
			continue
		}
		x, _, z := pos.Floor()
		c := w.chunks.keyFor(x, z)
		for dz := -w.cfg.LoadRadius; dz <= w.cfg.LoadRadius; dz++ {
			for dx := -w.cfg.LoadRadius; dx <= w.cfg.LoadRadius; dx++ {
				keep[ChunkKey{CX: c.CX + dx, CZ: c.CZ + dz}] = true
			}
		}
	}
	w.chunks.Retain(keep)
}

// BlockTypeAt returns the block type id at a cell. World goroutine only.
func (w *World) BlockTypeAt(x, y, z int) (string, error) {
	id, err := w.chunks.Get(x, y, z)
	if err != nil {
		return "", err
	}
	name, ok := w.catalogs.Blocks.Name(id)
	if !ok {
		return "", fmt.Errorf("palette id %d not in catalog", id)
	}
	return name, nil
}

// SetBlock writes a block by type id. World goroutine only.
func (w *World) SetBlock(x, y, z int, block string) error {
	id, ok := w.catalogs.Blocks.ID(block)
	if !ok {
		return fmt.Errorf("unknown block %q", block)
	}
	return w.chunks.Set(x, y, z, id)
}

// LoadedChunks lists loaded chunk keys. World goroutine only.
func (w *World) LoadedChunks() []ChunkKey { return w.chunks.LoadedChunkKeys() }
