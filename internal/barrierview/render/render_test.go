package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/outline"
)

type testViewer struct{ id uuid.UUID }

func (v testViewer) ID() uuid.UUID               { return v.id }
func (v testViewer) Position() (host.Vec3, bool) { return host.Vec3{}, true }

type recordingSink struct {
	mu     sync.Mutex
	draws  map[uuid.UUID][]Primitive
	clears map[uuid.UUID]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{draws: map[uuid.UUID][]Primitive{}, clears: map[uuid.UUID]int{}}
}

func (s *recordingSink) Draw(v host.Viewer, p Primitive) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws[v.ID()] = append(s.draws[v.ID()], p)
}

func (s *recordingSink) Clear(v host.Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears[v.ID()]++
}

type testWorld struct{ viewers []host.Viewer }

func (w testWorld) Name() string                            { return "test" }
func (w testWorld) Viewers() []host.Viewer                  { return w.viewers }
func (w testWorld) Execute(task func()) error               { task(); return nil }
func (w testWorld) BlockTypeAt(x, y, z int) (string, error) { return "", errors.New("unused") }

func centers(ps []Primitive) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, fmt.Sprint(p.Center, p.Scale))
	}
	sort.Strings(out)
	return out
}

func TestEdgePrimitive_ScaleAndCenter(t *testing.T) {
	r := NewRenderer(DefaultConfig(), newRecordingSink())
	gold, _ := color.Preset("gold")
	p := r.EdgePrimitive(outline.Edge{X: 2, Y: 3, Z: 4, Axis: outline.AxisY}, gold)
	if p.Center != [3]float64{2, 3.5, 4} {
		t.Fatalf("center %v", p.Center)
	}
	if p.Scale != [3]float64{0.04, 1, 0.04} {
		t.Fatalf("scale %v", p.Scale)
	}
	if p.Color != [3]float32{1, 0.84, 0} {
		t.Fatalf("color %v", p.Color)
	}
	if p.LineWidth != 2 || !p.Persist || p.Shape != ShapeCube {
		t.Fatalf("unexpected primitive flags %+v", p)
	}
}

func TestIndividual_EmitsTwelveEdges(t *testing.T) {
	sink := newRecordingSink()
	r := NewRenderer(DefaultConfig(), sink)
	v := testViewer{id: uuid.New()}
	if n := r.Individual(v, outline.Cell{}, color.Red); n != 12 {
		t.Fatalf("Individual returned %d", n)
	}
	got := sink.draws[v.id]
	if len(got) != 12 {
		t.Fatalf("expected 12 primitives, got %d", len(got))
	}
	for _, p := range got {
		for i := 0; i < 3; i++ {
			if p.Center[i] < 0 || p.Center[i] > 1 {
				t.Fatalf("primitive outside unit cube: %+v", p)
			}
		}
	}
}

func TestOutline_SingleCellMatchesIndividual(t *testing.T) {
	cell := outline.Cell{X: 7, Y: 64, Z: -3}

	indiv := newRecordingSink()
	v := testViewer{id: uuid.New()}
	NewRenderer(DefaultConfig(), indiv).Individual(v, cell, color.Red)

	grouped := newRecordingSink()
	edges := outline.Resolve(outline.NewCellSet(cell)).Sorted()
	if n := NewRenderer(DefaultConfig(), grouped).Outline(v, edges, color.Red); n != 12 {
		t.Fatalf("Outline returned %d", n)
	}

	a, b := centers(indiv.draws[v.id]), centers(grouped.draws[v.id])
	if len(a) != len(b) {
		t.Fatalf("count mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("primitive mismatch at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestClear(t *testing.T) {
	sink := newRecordingSink()
	r := NewRenderer(DefaultConfig(), sink)
	v1 := testViewer{id: uuid.New()}
	v2 := testViewer{id: uuid.New()}
	r.ClearViewer(v1)
	if sink.clears[v1.id] != 1 {
		t.Fatalf("expected a clear for v1")
	}
	if n := r.ClearWorld(testWorld{viewers: []host.Viewer{v1, v2}}); n != 2 {
		t.Fatalf("ClearWorld returned %d", n)
	}
	if sink.clears[v1.id] != 2 || sink.clears[v2.id] != 1 {
		t.Fatalf("unexpected clears %+v", sink.clears)
	}
	r.ClearViewer(nil)
	if r.ClearWorld(nil) != 0 {
		t.Fatalf("nil world should be a no-op")
	}
}

func TestNewRenderer_FillsDefaults(t *testing.T) {
	r := NewRenderer(Config{}, newRecordingSink())
	p := r.EdgePrimitive(outline.Edge{Axis: outline.AxisX}, color.Red)
	if p.Scale != [3]float64{1, DefaultEdgeThickness, DefaultEdgeThickness} || p.LineWidth != DefaultLineWidth {
		t.Fatalf("defaults not applied: %+v", p)
	}
}
