package scan

import (
	"math"

	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/outline"
	"voxelcraft.ai/barrierview/internal/sim/world/logic/mathx"
)

type Config struct {
	// ChunkSize is the horizontal grid the window snaps to.
	ChunkSize int
	// VerticalBand is how far above and below the viewer to look.
	VerticalBand int
	MinY         int
	MaxY         int
	// Marker is the block type id that counts as occupied.
	Marker string
}

func DefaultConfig() Config {
	return Config{ChunkSize: 32, VerticalBand: 32, MinY: 0, MaxY: 255, Marker: "Barrier"}
}

// Window is an inclusive cell range.
type Window struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

func (w Window) Empty() bool {
	return w.MinX > w.MaxX || w.MinY > w.MaxY || w.MinZ > w.MaxZ
}

// Volume is the cell count of w, saturating at math.MaxInt.
func (w Window) Volume() int {
	if w.Empty() {
		return 0
	}
	v := 1
	for _, ext := range w.extents() {
		if ext <= 0 || v > math.MaxInt/ext {
			return math.MaxInt
		}
		v *= ext
	}
	return v
}

func (w Window) extents() [3]int {
	return [3]int{w.MaxX - w.MinX + 1, w.MaxY - w.MinY + 1, w.MaxZ - w.MinZ + 1}
}

// WindowAt derives the scan window for a viewer at pos: the chunk column
// holding the viewer, clamped vertically to the world range and the band.
func WindowAt(cfg Config, pos host.Vec3) Window {
	x, y, z := pos.Floor()
	size := cfg.ChunkSize
	if size <= 0 {
		size = 32
	}
	cx := mathx.FloorDiv(x, size) * size
	cz := mathx.FloorDiv(z, size) * size
	return Window{
		MinX: cx,
		MaxX: cx + size - 1,
		MinZ: cz,
		MaxZ: cz + size - 1,
		MinY: max(cfg.MinY, y-cfg.VerticalBand),
		MaxY: min(cfg.MaxY, y+cfg.VerticalBand),
	}
}

// BlockLookup resolves the block type at a cell. Errors mean "unknown".
type BlockLookup interface {
	BlockTypeAt(x, y, z int) (string, error)
}

type Result struct {
	Window Window
	Cells  outline.CellSet
	// Failed counts lookups that errored and were treated as unoccupied.
	Failed int
	// Oversized is set when the window exceeded MaxVolume and was skipped.
	Oversized bool
}

func (r Result) Empty() bool { return len(r.Cells) == 0 }

type Scanner struct {
	cfg Config
}

func NewScanner(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

func (s *Scanner) Config() Config { return s.cfg }

func (s *Scanner) Window(pos host.Vec3) Window { return WindowAt(s.cfg, pos) }

// MaxVolume is the largest window WindowAt can produce.
func (s *Scanner) MaxVolume() int {
	size := s.cfg.ChunkSize
	if size <= 0 {
		size = 32
	}
	return size * size * (2*s.cfg.VerticalBand + 1)
}

// Scan collects every marker cell inside win. A failed lookup leaves that
// cell out and the scan goes on. Windows larger than MaxVolume are not
// scanned.
func (s *Scanner) Scan(lookup BlockLookup, win Window) Result {
	res := Result{Window: win, Cells: outline.CellSet{}}
	if win.Empty() {
		return res
	}
	if win.Volume() > s.MaxVolume() {
		res.Oversized = true
		return res
	}
	// Offsets keep the loops finite at the edges of the int range.
	ext := win.extents()
	for dx := 0; dx < ext[0]; dx++ {
		x := win.MinX + dx
		for dz := 0; dz < ext[2]; dz++ {
			z := win.MinZ + dz
			for dy := 0; dy < ext[1]; dy++ {
				y := win.MinY + dy
				id, err := lookup.BlockTypeAt(x, y, z)
				if err != nil {
					res.Failed++
					continue
				}
				if id == s.cfg.Marker {
					res.Cells.Add(outline.Cell{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return res
}
