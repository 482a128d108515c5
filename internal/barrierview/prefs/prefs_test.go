package prefs

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
)

func newStore() *Store { return NewStore(ModeGrouped, color.Red) }

func TestToggle_TwiceRestores(t *testing.T) {
	s := newStore()
	id := uuid.New()
	if s.Enabled(id) {
		t.Fatalf("viewers start disabled")
	}
	if !s.Toggle(id) {
		t.Fatalf("first toggle should enable")
	}
	if s.Toggle(id) {
		t.Fatalf("second toggle should disable")
	}
	if s.Enabled(id) {
		t.Fatalf("expected original state")
	}
}

func TestCycleMode_TwiceRestores(t *testing.T) {
	s := newStore()
	id := uuid.New()
	if got := s.Mode(id); got != ModeGrouped {
		t.Fatalf("default mode: %v", got)
	}
	if got := s.CycleMode(id); got != ModeIndividual {
		t.Fatalf("first cycle: %v", got)
	}
	if got := s.CycleMode(id); got != ModeGrouped {
		t.Fatalf("second cycle: %v", got)
	}
}

func TestColor_DefaultsAndPresets(t *testing.T) {
	s := newStore()
	id := uuid.New()
	if got := s.Color(id); got != color.Red {
		t.Fatalf("default color: %+v", got)
	}
	if !s.SetPreset(id, "GOLD") {
		t.Fatalf("GOLD preset should exist")
	}
	got := s.Color(id)
	if got != (color.Color{R: 1, G: 0.84, B: 0}) {
		t.Fatalf("gold: %+v", got)
	}
	if color.ToHex(got) != "#FFD700" {
		t.Fatalf("gold hex: %s", color.ToHex(got))
	}
	if s.SetPreset(id, "mauve") {
		t.Fatalf("unknown preset accepted")
	}
	if s.Color(id) != got {
		t.Fatalf("rejected preset must not mutate state")
	}
}

func TestGet_DoesNotCreateState(t *testing.T) {
	s := newStore()
	id := uuid.New()
	_ = s.Get(id)
	_ = s.Enabled(id)
	if s.Len() != 0 {
		t.Fatalf("reads must not create entries, got %d", s.Len())
	}
	s.Toggle(id)
	if s.Len() != 1 {
		t.Fatalf("expected lazily created entry")
	}
}

func TestRemove_DropsEverything(t *testing.T) {
	s := newStore()
	id := uuid.New()
	s.Toggle(id)
	s.CycleMode(id)
	s.SetPreset(id, "blue")
	s.Remove(id)
	got := s.Get(id)
	if got != s.Defaults() {
		t.Fatalf("expected defaults after remove, got %+v", got)
	}
}

func TestReset(t *testing.T) {
	s := newStore()
	for i := 0; i < 5; i++ {
		s.Toggle(uuid.New())
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newStore()
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
	}
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Toggle(id)
				s.CycleMode(id)
				s.SetPreset(id, "cyan")
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = s.Get(id)
			}
		}()
	}
	wg.Wait()
	for _, id := range ids {
		got := s.Get(id)
		if got.Enabled {
			t.Fatalf("even number of toggles should leave viewer disabled")
		}
		if got.Mode != ModeGrouped {
			t.Fatalf("even number of cycles should leave GROUPED")
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("individual"); err != nil || m != ModeIndividual {
		t.Fatalf("ParseMode(individual) = %v %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeGrouped {
		t.Fatalf("ParseMode(\"\") = %v %v", m, err)
	}
	if _, err := ParseMode("merged"); err == nil {
		t.Fatalf("expected error")
	}
}
