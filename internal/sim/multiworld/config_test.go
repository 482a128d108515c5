package multiworld

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWorlds(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "worlds.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaults_HaveBarrierFixtures(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.DefaultWorldID != "OVERWORLD" || len(cfg.Worlds) != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Worlds[0].Fixtures) == 0 {
		t.Fatalf("default world should carry a demo wall")
	}
}

func TestLoad_FileAndNormalize(t *testing.T) {
	p := writeWorlds(t, `
worlds:
  - id: " A "
    seed: 7
    ground_y: 10
    fixtures:
      - block: Barrier
        min: [5, 12, 5]
        max: [1, 11, 1]
  - id: B
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultWorldID != "A" {
		t.Fatalf("default should fall back to first world, got %q", cfg.DefaultWorldID)
	}
	f := cfg.Worlds[0].Fixtures[0]
	if f.Min != [3]int{1, 11, 1} || f.Max != [3]int{5, 12, 5} {
		t.Fatalf("fixture box not normalized: %+v", f)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []string{
		"worlds: []\n",
		"worlds:\n  - id: A\n  - id: A\n",
		"default_world_id: Z\nworlds:\n  - id: A\n",
		"worlds:\n  - id: A\n    fixtures:\n      - block: ''\n",
		"worlds: [\n",
		"worlds:\n  - id: A\n    boundary_r: -5\n",
	}
	for _, body := range cases {
		if _, err := Load(writeWorlds(t, body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "worlds.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultWorldID != "OVERWORLD" || len(cfg.Worlds) != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	def := Defaults()
	if len(cfg.Worlds[0].Fixtures) != len(def.Worlds[0].Fixtures) {
		t.Fatalf("overworld fixtures drifted from defaults")
	}
	for i, f := range cfg.Worlds[0].Fixtures {
		if f != def.Worlds[0].Fixtures[i] {
			t.Fatalf("fixture %d: %+v != %+v", i, f, def.Worlds[0].Fixtures[i])
		}
	}
}
