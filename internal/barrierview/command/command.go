package command

import (
	"fmt"
	"strings"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/prefs"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	"voxelcraft.ai/barrierview/internal/protocol"
)

const (
	ShowBarrier  = "showbarrier"
	BarrierView  = "barrierview"
	BarrierMode  = "barriermode"
	BarrierColor = "barriercolor"
)

const prefix = "[BarrierView] "

// Display is the part of the scheduler the commands need.
type Display interface {
	Prefs() *prefs.Store
	Renderer() *render.Renderer
	RegisterWorld(w host.World)
}

// Result is the reply to one command. Lines are human readable; the other
// fields carry the resulting state for clients that want it.
type Result struct {
	OK      bool
	Code    string
	Lines   []string
	Enabled bool
	Mode    prefs.Mode
	Color   string
}

type Handler struct {
	display Display
}

func NewHandler(d Display) *Handler {
	return &Handler{display: d}
}

// Names lists every accepted command name, aliases included.
func Names() []string {
	return []string{ShowBarrier, BarrierView, BarrierMode, BarrierColor}
}

// Handle runs one command for v, which is currently in w.
func (h *Handler) Handle(v host.Viewer, w host.World, name string, args []string) Result {
	if v == nil {
		return fail(protocol.ErrBadRequest, "no viewer")
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ShowBarrier, BarrierView:
		return h.toggle(v, w)
	case BarrierMode:
		return h.cycleMode(v)
	case BarrierColor:
		return h.setColor(v, args)
	default:
		return fail(protocol.ErrUnknownCommand, fmt.Sprintf("Unknown command: %s", name))
	}
}

func (h *Handler) toggle(v host.Viewer, w host.World) Result {
	store := h.display.Prefs()
	snap := store.Get(v.ID())
	enabled := store.Toggle(v.ID())
	res := Result{OK: true, Enabled: enabled, Mode: snap.Mode, Color: color.ToHex(snap.Color)}
	if enabled {
		if w != nil {
			h.display.RegisterWorld(w)
		}
		res.Lines = []string{prefix + "Barrier outlines ENABLED"}
		return res
	}
	h.display.Renderer().ClearViewer(v)
	res.Lines = []string{prefix + "Barrier outlines DISABLED"}
	return res
}

func (h *Handler) cycleMode(v host.Viewer) Result {
	store := h.display.Prefs()
	mode := store.CycleMode(v.ID())
	snap := store.Get(v.ID())
	return Result{
		OK:      true,
		Enabled: snap.Enabled,
		Mode:    mode,
		Color:   color.ToHex(snap.Color),
		Lines:   []string{prefix + "Display mode: " + mode.Title()},
	}
}

// describe renders c as hex, naming the preset it matches.
func describe(c color.Color) string {
	hex := color.ToHex(c)
	if name, ok := color.PresetName(c); ok {
		return hex + " (" + name + ")"
	}
	return hex
}

func (h *Handler) setColor(v host.Viewer, args []string) Result {
	store := h.display.Prefs()
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		snap := store.Get(v.ID())
		hex := color.ToHex(snap.Color)
		return Result{
			OK:      true,
			Enabled: snap.Enabled,
			Mode:    snap.Mode,
			Color:   hex,
			Lines: []string{
				prefix + "Current color: " + describe(snap.Color),
				prefix + "Usage: /barriercolor <preset|#hex>",
				prefix + "Presets: " + strings.Join(color.PresetNames(), ", "),
			},
		}
	}

	var label string
	if store.SetPreset(v.ID(), input) {
		label = strings.ToLower(input)
	} else {
		c, err := color.ParseHex(input)
		if err != nil {
			return fail(protocol.ErrBadColor, "Invalid color! Use a preset name or hex value (e.g., #FF0000)")
		}
		store.SetColor(v.ID(), c)
		label = describe(c)
	}
	snap := store.Get(v.ID())
	return Result{
		OK:      true,
		Enabled: snap.Enabled,
		Mode:    snap.Mode,
		Color:   color.ToHex(snap.Color),
		Lines:   []string{prefix + "Color set to: " + label},
	}
}

func fail(code, msg string) Result {
	return Result{Code: code, Lines: []string{prefix + msg}}
}
