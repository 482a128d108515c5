package render

import (
	"voxelcraft.ai/barrierview/internal/barrierview/color"
	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/outline"
)

const (
	DefaultEdgeThickness = 0.04
	DefaultLineWidth     = 2.0
)

type Shape string

const ShapeCube Shape = "CUBE"

// Primitive is one debug shape: a unit cube translated to Center and scaled
// per axis.
type Primitive struct {
	Shape     Shape
	Center    [3]float64
	Scale     [3]float64
	Color     [3]float32
	LineWidth float32
	// Persist keeps the shape on the client until it is cleared.
	Persist bool
}

// Sink delivers primitives to a viewer's client. Delivery is best effort.
type Sink interface {
	Draw(v host.Viewer, p Primitive)
	Clear(v host.Viewer)
}

type Config struct {
	EdgeThickness float64
	LineWidth     float32
	Persist       bool
}

func DefaultConfig() Config {
	return Config{EdgeThickness: DefaultEdgeThickness, LineWidth: DefaultLineWidth, Persist: true}
}

type Renderer struct {
	cfg  Config
	sink Sink
}

func NewRenderer(cfg Config, sink Sink) *Renderer {
	if cfg.EdgeThickness <= 0 {
		cfg.EdgeThickness = DefaultEdgeThickness
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = DefaultLineWidth
	}
	return &Renderer{cfg: cfg, sink: sink}
}

// EdgePrimitive is a thin prism along e: full length on the edge axis,
// EdgeThickness on the other two.
func (r *Renderer) EdgePrimitive(e outline.Edge, c color.Color) Primitive {
	t := r.cfg.EdgeThickness
	scale := [3]float64{t, t, t}
	scale[e.Axis] = 1
	return Primitive{
		Shape:     ShapeCube,
		Center:    e.Midpoint(),
		Scale:     scale,
		Color:     c.Array(),
		LineWidth: r.cfg.LineWidth,
		Persist:   r.cfg.Persist,
	}
}

// Individual draws the full twelve-edge wireframe of one cell.
func (r *Renderer) Individual(v host.Viewer, cell outline.Cell, c color.Color) int {
	edges := outline.CubeEdges(cell)
	for _, e := range edges {
		r.sink.Draw(v, r.EdgePrimitive(e, c))
	}
	return len(edges)
}

func (r *Renderer) OutlineEdge(v host.Viewer, e outline.Edge, c color.Color) {
	r.sink.Draw(v, r.EdgePrimitive(e, c))
}

// Outline draws every edge in order and returns how many were sent.
func (r *Renderer) Outline(v host.Viewer, edges []outline.Edge, c color.Color) int {
	for _, e := range edges {
		r.OutlineEdge(v, e, c)
	}
	return len(edges)
}

func (r *Renderer) ClearViewer(v host.Viewer) {
	if v == nil {
		return
	}
	r.sink.Clear(v)
}

// ClearWorld clears every viewer currently present in w.
func (r *Renderer) ClearWorld(w host.World) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, v := range w.Viewers() {
		if v == nil {
			continue
		}
		r.sink.Clear(v)
		n++
	}
	return n
}
