package world

import (
	"sort"

	"voxelcraft.ai/barrierview/internal/sim/world/logic/mathx"
)

type ChunkKey struct {
	CX int
	CZ int
}

// Chunk is one full-height column of blocks.
type Chunk struct {
	CX, CZ int
	// x fastest, then z, then y.
	Blocks []uint16
}

type terrainPalette struct {
	Air, Stone, Dirt, Grass, Sand, Log uint16
}

type placedFixture struct {
	Fixture
	id uint16
}

type ChunkStore struct {
	seed    int64
	size    int
	minY    int
	maxY    int
	groundY int
	pal     terrainPalette
	fixed   []placedFixture

	// Accessed only from the world loop goroutine.
	chunks map[ChunkKey]*Chunk
}

func newChunkStore(cfg WorldConfig, pal terrainPalette, fixed []placedFixture) *ChunkStore {
	return &ChunkStore{
		seed:    cfg.Seed,
		size:    cfg.ChunkSize,
		minY:    cfg.MinY,
		maxY:    cfg.MaxY,
		groundY: cfg.GroundY,
		pal:     pal,
		fixed:   fixed,
		chunks:  map[ChunkKey]*Chunk{},
	}
}

func (s *ChunkStore) height() int { return s.maxY - s.minY + 1 }

func (s *ChunkStore) index(lx, y, lz int) int {
	return lx + lz*s.size + (y-s.minY)*s.size*s.size
}

func (s *ChunkStore) keyFor(x, z int) ChunkKey {
	return ChunkKey{CX: mathx.FloorDiv(x, s.size), CZ: mathx.FloorDiv(z, s.size)}
}

func (s *ChunkStore) inHeight(y int) bool { return y >= s.minY && y <= s.maxY }

// Get returns the palette id at a cell.
func (s *ChunkStore) Get(x, y, z int) (uint16, error) {
	if !s.inHeight(y) {
		return 0, ErrOutOfBounds
	}
	ch := s.chunks[s.keyFor(x, z)]
	if ch == nil {
		return 0, ErrChunkNotLoaded
	}
	return ch.Blocks[s.index(mathx.Mod(x, s.size), y, mathx.Mod(z, s.size))], nil
}

func (s *ChunkStore) Set(x, y, z int, id uint16) error {
	if !s.inHeight(y) {
		return ErrOutOfBounds
	}
	ch := s.chunks[s.keyFor(x, z)]
	if ch == nil {
		return ErrChunkNotLoaded
	}
	ch.Blocks[s.index(mathx.Mod(x, s.size), y, mathx.Mod(z, s.size))] = id
	return nil
}

func (s *ChunkStore) Loaded(cx, cz int) bool {
	_, ok := s.chunks[ChunkKey{CX: cx, CZ: cz}]
	return ok
}

// Load returns the chunk, generating it if needed.
func (s *ChunkStore) Load(cx, cz int) *Chunk {
	k := ChunkKey{CX: cx, CZ: cz}
	if ch, ok := s.chunks[k]; ok {
		return ch
	}
	ch := &Chunk{CX: cx, CZ: cz, Blocks: make([]uint16, s.size*s.size*s.height())}
	s.generate(ch)
	s.chunks[k] = ch
	return ch
}

// LoadAround loads every chunk within radius chunks of the column holding
// (x, z) and returns how many were newly generated.
func (s *ChunkStore) LoadAround(x, z, radius int) int {
	center := s.keyFor(x, z)
	n := 0
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if !s.Loaded(center.CX+dx, center.CZ+dz) {
				s.Load(center.CX+dx, center.CZ+dz)
				n++
			}
		}
	}
	return n
}

// Retain unloads every chunk not in keep and returns how many were dropped.
func (s *ChunkStore) Retain(keep map[ChunkKey]bool) int {
	n := 0
	for k := range s.chunks {
		if !keep[k] {
			delete(s.chunks, k)
			n++
		}
	}
	return n
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

func (s *ChunkStore) generate(ch *Chunk) {
	for lz := 0; lz < s.size; lz++ {
		for lx := 0; lx < s.size; lx++ {
			wx := ch.CX*s.size + lx
			wz := ch.CZ*s.size + lz
			s.generateColumn(ch, lx, lz, wx, wz)
		}
	}
	for _, f := range s.fixed {
		s.applyFixture(ch, f)
	}
}

func (s *ChunkStore) generateColumn(ch *Chunk, lx, lz, wx, wz int) {
	h := mathx.Hash2(s.seed, wx, wz)
	top := mathx.ClampInt(s.groundY+int(h%3), s.minY, s.maxY)
	sandy := mathx.Hash2(s.seed+1, mathx.FloorDiv(wx, 64), mathx.FloorDiv(wz, 64))%4 == 0

	for y := s.minY; y <= top; y++ {
		b := s.pal.Stone
		switch {
		case y == top && sandy:
			b = s.pal.Sand
		case y == top:
			b = s.pal.Grass
		case y >= top-3:
			b = s.pal.Dirt
		}
		ch.Blocks[s.index(lx, y, lz)] = b
	}

	// Sparse tree trunks.
	if !sandy && (h>>8)%1000 < 6 {
		trunk := 3 + int((h>>20)%3)
		for y := top + 1; y <= top+trunk && y <= s.maxY; y++ {
			ch.Blocks[s.index(lx, y, lz)] = s.pal.Log
		}
	}
}

func (s *ChunkStore) applyFixture(ch *Chunk, f placedFixture) {
	x0, z0 := ch.CX*s.size, ch.CZ*s.size
	minX, maxX := max(f.Min[0], x0), min(f.Max[0], x0+s.size-1)
	minZ, maxZ := max(f.Min[2], z0), min(f.Max[2], z0+s.size-1)
	minY, maxY := max(f.Min[1], s.minY), min(f.Max[1], s.maxY)
	for y := minY; y <= maxY; y++ {
		for z := minZ; z <= maxZ; z++ {
			for x := minX; x <= maxX; x++ {
				ch.Blocks[s.index(x-x0, y, z-z0)] = f.id
			}
		}
	}
}
