// Package host declares what the overlay needs from the voxel server that
// embeds it: a roster of viewers per world, block lookups, and a serialized
// task context per world.
package host

import (
	"math"

	"github.com/google/uuid"
)

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Floor returns the integer cell containing v.
func (v Vec3) Floor() (x, y, z int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))
}

type Viewer interface {
	ID() uuid.UUID
	// Position reports false once the viewer has no valid transform
	// (not spawned yet, or torn down mid-tick).
	Position() (Vec3, bool)
}

type World interface {
	Name() string
	// Viewers is safe to call from any goroutine.
	Viewers() []Viewer
	// Execute queues task on the world's own goroutine. Tasks run in
	// submission order. It never blocks.
	Execute(task func()) error
	// BlockTypeAt returns the block type id at the cell. It must only be
	// called from a task passed to Execute.
	BlockTypeAt(x, y, z int) (string, error)
}
