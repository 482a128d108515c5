package outline

import "sort"

type Cell struct {
	X int
	Y int
	Z int
}

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	default:
		return "Z"
	}
}

// Edge is a unit segment starting at its lowest corner and running one unit
// along Axis. Every cube sharing the segment produces the same Edge value.
type Edge struct {
	X    int
	Y    int
	Z    int
	Axis Axis
}

// Midpoint is the centre of the segment in world coordinates.
func (e Edge) Midpoint() [3]float64 {
	p := [3]float64{float64(e.X), float64(e.Y), float64(e.Z)}
	p[e.Axis] += 0.5
	return p
}

type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c Cell) { s[c] = struct{}{} }

func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the cells ordered by (Y, Z, X).
func (s CellSet) Sorted() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return lessCell(out[i], out[j]) })
	return out
}

type EdgeSet map[Edge]struct{}

func (s EdgeSet) Has(e Edge) bool {
	_, ok := s[e]
	return ok
}

// Sorted returns edges ordered by (Axis, Y, Z, X) so emission order is stable.
func (s EdgeSet) Sorted() []Edge {
	out := make([]Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Axis != b.Axis {
			return a.Axis < b.Axis
		}
		return lessCell(Cell{a.X, a.Y, a.Z}, Cell{b.X, b.Y, b.Z})
	})
	return out
}

func lessCell(a, b Cell) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}

// CubeEdges lists the twelve edges of the unit cube at c: four along each axis.
func CubeEdges(c Cell) [12]Edge {
	x, y, z := c.X, c.Y, c.Z
	return [12]Edge{
		{x, y, z, AxisY}, {x + 1, y, z, AxisY}, {x, y, z + 1, AxisY}, {x + 1, y, z + 1, AxisY},
		{x, y, z, AxisX}, {x, y + 1, z, AxisX}, {x, y, z + 1, AxisX}, {x, y + 1, z + 1, AxisX},
		{x, y, z, AxisZ}, {x + 1, y, z, AxisZ}, {x, y + 1, z, AxisZ}, {x + 1, y + 1, z, AxisZ},
	}
}

// Around returns the four cells sharing e as a 2x2 grid a-b / c-d, so that
// (a,d) and (b,c) are the diagonal pairs. d is always the cell whose lowest
// corner is the edge anchor.
func Around(e Edge) [4]Cell {
	x, y, z := e.X, e.Y, e.Z
	switch e.Axis {
	case AxisX:
		return [4]Cell{{x, y - 1, z - 1}, {x, y, z - 1}, {x, y - 1, z}, {x, y, z}}
	case AxisY:
		return [4]Cell{{x - 1, y, z - 1}, {x, y, z - 1}, {x - 1, y, z}, {x, y, z}}
	default:
		return [4]Cell{{x - 1, y - 1, z}, {x, y - 1, z}, {x - 1, y, z}, {x, y, z}}
	}
}

// ShouldDraw classifies an edge from the occupancy of its 2x2 neighbourhood.
// Empty or fully surrounded edges are hidden, as is an edge lying flat on a
// face (two side-by-side cells). Corners, concave corners and diagonal
// saddles are drawn.
func ShouldDraw(a, b, c, d bool) bool {
	n := 0
	for _, v := range [4]bool{a, b, c, d} {
		if v {
			n++
		}
	}
	switch n {
	case 1, 3:
		return true
	case 2:
		return (a && d) || (b && c)
	default:
		return false
	}
}

// Resolve returns the outline of the union of cells: every edge for which
// ShouldDraw holds. Each distinct edge is classified once.
func Resolve(cells CellSet) EdgeSet {
	out := EdgeSet{}
	if len(cells) == 0 {
		return out
	}
	seen := make(map[Edge]struct{}, len(cells)*6)
	for c := range cells {
		for _, e := range CubeEdges(c) {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			n := Around(e)
			if ShouldDraw(cells.Has(n[0]), cells.Has(n[1]), cells.Has(n[2]), cells.Has(n[3])) {
				out[e] = struct{}{}
			}
		}
	}
	return out
}
