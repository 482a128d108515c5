package prefs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
)

type Mode uint8

const (
	ModeGrouped Mode = iota
	ModeIndividual
)

func (m Mode) String() string {
	switch m {
	case ModeIndividual:
		return "INDIVIDUAL"
	default:
		return "GROUPED"
	}
}

// Title is the mode name shown to viewers.
func (m Mode) Title() string {
	if m == ModeIndividual {
		return "Individual"
	}
	return "Grouped"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "GROUPED":
		return ModeGrouped, nil
	case "INDIVIDUAL":
		return ModeIndividual, nil
	}
	return ModeGrouped, fmt.Errorf("unknown display mode %q", s)
}

// Snapshot is a consistent copy of one viewer's preferences.
type Snapshot struct {
	Enabled bool
	Mode    Mode
	Color   color.Color
}

type entry struct {
	mu sync.Mutex
	Snapshot
}

// Store holds per-viewer overlay preferences. Each viewer's entry has its own
// lock; there is no store-wide lock on the read or write path.
type Store struct {
	defaults Snapshot
	entries  sync.Map // uuid.UUID -> *entry
}

func NewStore(defaultMode Mode, defaultColor color.Color) *Store {
	return &Store{defaults: Snapshot{Mode: defaultMode, Color: defaultColor}}
}

// Defaults returns the preferences of a viewer that has never been seen.
func (s *Store) Defaults() Snapshot { return s.defaults }

func (s *Store) load(id uuid.UUID) *entry {
	if v, ok := s.entries.Load(id); ok {
		return v.(*entry)
	}
	return nil
}

func (s *Store) loadOrCreate(id uuid.UUID) *entry {
	if e := s.load(id); e != nil {
		return e
	}
	v, _ := s.entries.LoadOrStore(id, &entry{Snapshot: s.defaults})
	return v.(*entry)
}

// Get never creates state; unknown viewers read as defaults (disabled).
func (s *Store) Get(id uuid.UUID) Snapshot {
	e := s.load(id)
	if e == nil {
		return s.defaults
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Snapshot
}

func (s *Store) Enabled(id uuid.UUID) bool { return s.Get(id).Enabled }

// Toggle flips the enabled flag and returns the new value.
func (s *Store) Toggle(id uuid.UUID) bool {
	e := s.loadOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Enabled = !e.Enabled
	return e.Enabled
}

func (s *Store) Mode(id uuid.UUID) Mode { return s.Get(id).Mode }

// CycleMode flips between GROUPED and INDIVIDUAL and returns the new mode.
func (s *Store) CycleMode(id uuid.UUID) Mode {
	e := s.loadOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Mode == ModeIndividual {
		e.Mode = ModeGrouped
	} else {
		e.Mode = ModeIndividual
	}
	return e.Mode
}

func (s *Store) Color(id uuid.UUID) color.Color { return s.Get(id).Color }

func (s *Store) SetColor(id uuid.UUID, c color.Color) {
	c = color.New(c.R, c.G, c.B)
	e := s.loadOrCreate(id)
	e.mu.Lock()
	e.Color = c
	e.mu.Unlock()
}

// SetPreset sets a named preset. Unknown names leave state untouched.
func (s *Store) SetPreset(id uuid.UUID, name string) bool {
	c, ok := color.Preset(name)
	if !ok {
		return false
	}
	s.SetColor(id, c)
	return true
}

// Remove drops every preference of the viewer in one step.
func (s *Store) Remove(id uuid.UUID) {
	s.entries.Delete(id)
}

// Reset drops all viewers.
func (s *Store) Reset() {
	s.entries.Range(func(k, _ any) bool {
		s.entries.Delete(k)
		return true
	})
}

// Len counts viewers with stored state.
func (s *Store) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
