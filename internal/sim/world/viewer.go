package world

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/host"
)

// Viewer is a connected client present in a world. Position and Send are
// safe from any goroutine.
type Viewer struct {
	id   uuid.UUID
	name string
	out  chan []byte

	mu     sync.Mutex
	pos    host.Vec3
	hasPos bool

	dropped atomic.Uint64
}

func (v *Viewer) ID() uuid.UUID { return v.id }

func (v *Viewer) Name() string { return v.name }

// Position is false until the client has reported one.
func (v *Viewer) Position() (host.Vec3, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos, v.hasPos
}

func (v *Viewer) setPosition(p host.Vec3) {
	v.mu.Lock()
	v.pos = p
	v.hasPos = true
	v.mu.Unlock()
}

// Send queues b for the client without blocking. A full queue drops b.
func (v *Viewer) Send(b []byte) bool {
	if v.out == nil {
		v.dropped.Add(1)
		return false
	}
	select {
	case v.out <- b:
		return true
	default:
		v.dropped.Add(1)
		return false
	}
}

func (v *Viewer) Out() <-chan []byte { return v.out }

func (v *Viewer) Dropped() uint64 { return v.dropped.Load() }
