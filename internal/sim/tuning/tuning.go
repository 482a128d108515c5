package tuning

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"voxelcraft.ai/barrierview/internal/barrierview/color"
	"voxelcraft.ai/barrierview/internal/barrierview/prefs"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	"voxelcraft.ai/barrierview/internal/barrierview/scan"
)

type Tuning struct {
	TickIntervalMs int    `yaml:"tick_interval_ms"`
	MarkerBlock    string `yaml:"marker_block"`

	Scan     ScanTuning     `yaml:"scan"`
	Render   RenderTuning   `yaml:"render"`
	Defaults DefaultsTuning `yaml:"defaults"`
	World    WorldTuning    `yaml:"world"`
}

type ScanTuning struct {
	ChunkSize    int `yaml:"chunk_size"`
	VerticalBand int `yaml:"vertical_band"`
	MinY         int `yaml:"min_y"`
	MaxY         int `yaml:"max_y"`
}

type RenderTuning struct {
	EdgeThickness float64 `yaml:"edge_thickness"`
	LineWidth     float32 `yaml:"line_width"`
	Persist       bool    `yaml:"persist"`
}

type DefaultsTuning struct {
	Color string `yaml:"color"`
	Mode  string `yaml:"mode"`
}

type WorldTuning struct {
	TaskQueue        int `yaml:"task_queue"`
	LoadRadiusChunks int `yaml:"load_radius_chunks"`
}

func Defaults() Tuning {
	return Tuning{
		TickIntervalMs: 1500,
		MarkerBlock:    "Barrier",
		Scan:           ScanTuning{ChunkSize: 32, VerticalBand: 32, MinY: 0, MaxY: 255},
		Render:         RenderTuning{EdgeThickness: render.DefaultEdgeThickness, LineWidth: render.DefaultLineWidth, Persist: true},
		Defaults:       DefaultsTuning{Color: "red", Mode: "GROUPED"},
		World:          WorldTuning{TaskQueue: 1024, LoadRadiusChunks: 1},
	}
}

// Load reads barrierview.yaml over the defaults. An empty path yields the
// defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("barrierview.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("barrierview.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	if t == nil {
		return
	}
	d := Defaults()
	if t.TickIntervalMs <= 0 {
		t.TickIntervalMs = d.TickIntervalMs
	}
	t.MarkerBlock = strings.TrimSpace(t.MarkerBlock)
	if t.MarkerBlock == "" {
		t.MarkerBlock = d.MarkerBlock
	}
	if t.Scan.ChunkSize <= 0 {
		t.Scan.ChunkSize = d.Scan.ChunkSize
	}
	if t.Render.EdgeThickness <= 0 {
		t.Render.EdgeThickness = d.Render.EdgeThickness
	}
	if t.Render.LineWidth <= 0 {
		t.Render.LineWidth = d.Render.LineWidth
	}
	t.Defaults.Color = strings.TrimSpace(t.Defaults.Color)
	if t.Defaults.Color == "" {
		t.Defaults.Color = d.Defaults.Color
	}
	t.Defaults.Mode = strings.ToUpper(strings.TrimSpace(t.Defaults.Mode))
	if t.Defaults.Mode == "" {
		t.Defaults.Mode = d.Defaults.Mode
	}
	if t.World.TaskQueue <= 0 {
		t.World.TaskQueue = d.World.TaskQueue
	}
}

func (t Tuning) Validate() error {
	if t.TickIntervalMs < 50 {
		return fmt.Errorf("tick_interval_ms must be >= 50")
	}
	if t.MarkerBlock == "" {
		return fmt.Errorf("marker_block must not be empty")
	}
	if t.Scan.ChunkSize <= 0 || t.Scan.ChunkSize > 256 {
		return fmt.Errorf("scan.chunk_size must be in [1, 256]")
	}
	if t.Scan.VerticalBand < 0 {
		return fmt.Errorf("scan.vertical_band must be >= 0")
	}
	if t.Scan.MinY > t.Scan.MaxY {
		return fmt.Errorf("scan.min_y must be <= scan.max_y")
	}
	if t.Render.EdgeThickness <= 0 || t.Render.EdgeThickness > 0.5 {
		return fmt.Errorf("render.edge_thickness must be in (0, 0.5]")
	}
	if t.Render.LineWidth <= 0 {
		return fmt.Errorf("render.line_width must be > 0")
	}
	if _, err := color.Parse(t.Defaults.Color); err != nil {
		return fmt.Errorf("defaults.color: %w", err)
	}
	if _, err := prefs.ParseMode(t.Defaults.Mode); err != nil {
		return fmt.Errorf("defaults.mode: %w", err)
	}
	if t.World.TaskQueue <= 0 {
		return fmt.Errorf("world.task_queue must be > 0")
	}
	if t.World.LoadRadiusChunks < 0 || t.World.LoadRadiusChunks > 8 {
		return fmt.Errorf("world.load_radius_chunks must be in [0, 8]")
	}
	return nil
}

func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.TickIntervalMs) * time.Millisecond
}

func (t Tuning) ScanConfig() scan.Config {
	return scan.Config{
		ChunkSize:    t.Scan.ChunkSize,
		VerticalBand: t.Scan.VerticalBand,
		MinY:         t.Scan.MinY,
		MaxY:         t.Scan.MaxY,
		Marker:       t.MarkerBlock,
	}
}

func (t Tuning) RenderConfig() render.Config {
	return render.Config{
		EdgeThickness: t.Render.EdgeThickness,
		LineWidth:     t.Render.LineWidth,
		Persist:       t.Render.Persist,
	}
}

// DefaultPrefs returns the mode and colour new viewers start with. Call it
// on a validated Tuning.
func (t Tuning) DefaultPrefs() (prefs.Mode, color.Color, error) {
	m, err := prefs.ParseMode(t.Defaults.Mode)
	if err != nil {
		return prefs.ModeGrouped, color.Red, err
	}
	c, err := color.Parse(t.Defaults.Color)
	if err != nil {
		return m, color.Red, err
	}
	return m, c, nil
}
