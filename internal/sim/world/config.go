package world

import (
	"fmt"
	"strings"
)

type WorldConfig struct {
	ID   string
	Seed int64

	// Vertical extent of the world, inclusive.
	MinY int
	MaxY int
	// ChunkSize is the horizontal edge length of a chunk column.
	ChunkSize int
	// GroundY is the base terrain height.
	GroundY int
	// BoundaryR is the horizontal half-extent of the world: cells with
	// |x| or |z| above it do not exist.
	BoundaryR int

	Fixtures []Fixture

	// TaskQueue bounds pending Execute calls.
	TaskQueue int
	// LoadRadius is how many chunks around a viewer stay loaded.
	LoadRadius int
}

// Fixture fills an inclusive box with one block type at generation time.
type Fixture struct {
	Block string
	Min   [3]int
	Max   [3]int
}

func (c *WorldConfig) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 32
	}
	if c.MinY == 0 && c.MaxY == 0 {
		c.MaxY = 255
	}
	if c.BoundaryR <= 0 {
		c.BoundaryR = 4000
	}
	if c.TaskQueue <= 0 {
		c.TaskQueue = 1024
	}
	if c.LoadRadius < 0 {
		c.LoadRadius = 0
	}
}

func (c WorldConfig) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("world id must not be empty")
	}
	if c.MinY > c.MaxY {
		return fmt.Errorf("world %s: min_y must be <= max_y", c.ID)
	}
	for i, f := range c.Fixtures {
		if f.Min[0] > f.Max[0] || f.Min[1] > f.Max[1] || f.Min[2] > f.Max[2] {
			return fmt.Errorf("world %s: fixture %d has min > max", c.ID, i)
		}
	}
	return nil
}
