package multiworld

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultWorldID string      `yaml:"default_world_id"`
	Worlds         []WorldSpec `yaml:"worlds"`
}

type WorldSpec struct {
	ID      string `yaml:"id"`
	Seed    int64  `yaml:"seed"`
	GroundY int    `yaml:"ground_y"`
	// BoundaryR is the horizontal half-extent; 0 means the world default.
	BoundaryR int           `yaml:"boundary_r,omitempty"`
	Fixtures  []FixtureSpec `yaml:"fixtures,omitempty"`
}

// FixtureSpec is an inclusive box of one block type placed at generation.
type FixtureSpec struct {
	Block string `yaml:"block"`
	Min   [3]int `yaml:"min"`
	Max   [3]int `yaml:"max"`
}

func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg = Config{}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("worlds.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("worlds.yaml: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	cfg := defaults()
	cfg.Normalize()
	return cfg
}

func defaults() Config {
	return Config{
		DefaultWorldID: "OVERWORLD",
		Worlds: []WorldSpec{
			{
				ID:      "OVERWORLD",
				Seed:    1337,
				GroundY: 64,
				Fixtures: []FixtureSpec{
					// An L-shaped wall with a step, so grouped mode has concave edges to show.
					{Block: "Barrier", Min: [3]int{4, 66, 4}, Max: [3]int{12, 69, 4}},
					{Block: "Barrier", Min: [3]int{4, 66, 5}, Max: [3]int{4, 69, 12}},
					{Block: "Barrier", Min: [3]int{8, 70, 4}, Max: [3]int{12, 70, 4}},
				},
			},
		},
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.DefaultWorldID = strings.TrimSpace(c.DefaultWorldID)
	for i := range c.Worlds {
		c.Worlds[i].ID = strings.TrimSpace(c.Worlds[i].ID)
		for j := range c.Worlds[i].Fixtures {
			f := &c.Worlds[i].Fixtures[j]
			f.Block = strings.TrimSpace(f.Block)
			for k := 0; k < 3; k++ {
				if f.Min[k] > f.Max[k] {
					f.Min[k], f.Max[k] = f.Max[k], f.Min[k]
				}
			}
		}
	}
	if c.DefaultWorldID == "" && len(c.Worlds) > 0 {
		c.DefaultWorldID = c.Worlds[0].ID
	}
}

func (c Config) Validate() error {
	if len(c.Worlds) == 0 {
		return fmt.Errorf("worlds must not be empty")
	}
	seen := map[string]bool{}
	for _, w := range c.Worlds {
		if w.ID == "" {
			return fmt.Errorf("world id must not be empty")
		}
		if w.BoundaryR < 0 {
			return fmt.Errorf("world %s: boundary_r must be >= 0", w.ID)
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate world id: %s", w.ID)
		}
		seen[w.ID] = true
		for i, f := range w.Fixtures {
			if f.Block == "" {
				return fmt.Errorf("world %s fixture %d: block must not be empty", w.ID, i)
			}
		}
	}
	if !seen[c.DefaultWorldID] {
		return fmt.Errorf("default_world_id %q is not a configured world", c.DefaultWorldID)
	}
	return nil
}
