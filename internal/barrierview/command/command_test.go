package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
	"voxelcraft.ai/barrierview/internal/barrierview/display"
	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/prefs"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	"voxelcraft.ai/barrierview/internal/barrierview/scan"
	"voxelcraft.ai/barrierview/internal/protocol"
)

type stubViewer struct{ id uuid.UUID }

func (v stubViewer) ID() uuid.UUID               { return v.id }
func (v stubViewer) Position() (host.Vec3, bool) { return host.Vec3{}, true }

type stubWorld struct{ name string }

func (w stubWorld) Name() string                            { return w.name }
func (w stubWorld) Viewers() []host.Viewer                  { return nil }
func (w stubWorld) Execute(task func()) error               { task(); return nil }
func (w stubWorld) BlockTypeAt(x, y, z int) (string, error) { return "", errors.New("unused") }

type clearSink struct{ clears int }

func (s *clearSink) Draw(host.Viewer, render.Primitive) {}
func (s *clearSink) Clear(host.Viewer)                  { s.clears++ }

func newHandler() (*Handler, *display.Scheduler, *clearSink) {
	sink := &clearSink{}
	sched := display.New(
		display.Config{Scan: scan.DefaultConfig()},
		prefs.NewStore(prefs.ModeGrouped, color.Red),
		render.NewRenderer(render.DefaultConfig(), sink),
		nil,
	)
	return NewHandler(sched), sched, sink
}

func TestShowBarrier_TogglesAndRegistersWorld(t *testing.T) {
	h, sched, sink := newHandler()
	v := stubViewer{id: uuid.New()}

	res := h.Handle(v, stubWorld{name: "OVERWORLD"}, "showbarrier", nil)
	if !res.OK || !res.Enabled || !strings.Contains(res.Lines[0], "ENABLED") {
		t.Fatalf("enable: %+v", res)
	}
	if got := sched.Worlds(); len(got) != 1 || got[0] != "OVERWORLD" {
		t.Fatalf("world not registered: %v", got)
	}
	if sink.clears != 0 {
		t.Fatalf("enable must not clear")
	}

	res = h.Handle(v, stubWorld{name: "OVERWORLD"}, "BarrierView", nil)
	if !res.OK || res.Enabled || !strings.Contains(res.Lines[0], "DISABLED") {
		t.Fatalf("disable via alias: %+v", res)
	}
	if sink.clears != 1 {
		t.Fatalf("disable should clear the viewer, got %d clears", sink.clears)
	}
}

func TestBarrierMode_Cycles(t *testing.T) {
	h, _, _ := newHandler()
	v := stubViewer{id: uuid.New()}
	res := h.Handle(v, nil, "barriermode", nil)
	if res.Mode != prefs.ModeIndividual || res.Lines[0] != prefix+"Display mode: Individual" {
		t.Fatalf("first cycle: %+v", res)
	}
	res = h.Handle(v, nil, "barriermode", nil)
	if res.Mode != prefs.ModeGrouped || res.Lines[0] != prefix+"Display mode: Grouped" {
		t.Fatalf("second cycle: %+v", res)
	}
}

func TestBarrierColor(t *testing.T) {
	h, sched, _ := newHandler()
	v := stubViewer{id: uuid.New()}

	res := h.Handle(v, nil, "barriercolor", nil)
	if !res.OK || res.Color != "#FF0000" || len(res.Lines) != 3 {
		t.Fatalf("show current: %+v", res)
	}
	if res.Lines[0] != prefix+"Current color: #FF0000 (red)" {
		t.Fatalf("current colour line: %q", res.Lines[0])
	}
	if !strings.Contains(res.Lines[2], "gold") {
		t.Fatalf("preset list missing: %q", res.Lines[2])
	}
	if sched.Prefs().Len() != 0 {
		t.Fatalf("reading the colour must not create state")
	}

	res = h.Handle(v, nil, "barriercolor", []string{"GOLD"})
	if !res.OK || res.Color != "#FFD700" || res.Lines[0] != prefix+"Color set to: gold" {
		t.Fatalf("preset: %+v", res)
	}

	res = h.Handle(v, nil, "barriercolor", []string{"#00ff00"})
	if !res.OK || res.Lines[0] != prefix+"Color set to: #00FF00 (green)" {
		t.Fatalf("hex matching a preset: %+v", res)
	}

	res = h.Handle(v, nil, "barriercolor", []string{"#0f8"})
	if !res.OK || res.Color != "#00FF88" || res.Lines[0] != prefix+"Color set to: #00FF88" {
		t.Fatalf("hex: %+v", res)
	}

	res = h.Handle(v, nil, "barriercolor", []string{"notacolor"})
	if res.OK || res.Code != protocol.ErrBadColor {
		t.Fatalf("expected bad colour, got %+v", res)
	}
	if got := color.ToHex(sched.Prefs().Color(v.id)); got != "#00FF88" {
		t.Fatalf("rejected input must not change colour, got %s", got)
	}
}

func TestHandle_Unknown(t *testing.T) {
	h, _, _ := newHandler()
	res := h.Handle(stubViewer{id: uuid.New()}, nil, "fly", nil)
	if res.OK || res.Code != protocol.ErrUnknownCommand {
		t.Fatalf("unexpected %+v", res)
	}
	if res := h.Handle(nil, nil, "showbarrier", nil); res.OK || res.Code != protocol.ErrBadRequest {
		t.Fatalf("nil viewer: %+v", res)
	}
	for _, n := range Names() {
		if !protocol.IsKnownCode(h.Handle(stubViewer{id: uuid.New()}, nil, n, nil).Code) {
			t.Fatalf("%s returned an unknown code", n)
		}
	}
}
