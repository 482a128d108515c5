package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FallsBackToDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Blocks.Palette[0] != Air {
		t.Fatalf("air must be palette id 0, got %v", c.Blocks.Palette)
	}
	id, ok := c.Blocks.ID(Barrier)
	if !ok {
		t.Fatalf("barrier missing from default palette")
	}
	if name, _ := c.Blocks.Name(id); name != Barrier {
		t.Fatalf("round trip: %q", name)
	}
	if !c.Blocks.Defs[Barrier].Invisible {
		t.Fatalf("barrier should be invisible")
	}
	if c.Blocks.PaletteDigest != Defaults().Blocks.PaletteDigest {
		t.Fatalf("defaults digest mismatch")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"Glass","solid":true},{"id":"Air"},{"id":"Barrier","solid":true,"invisible":true}]`
	if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"Air", "Barrier", "Glass"}
	if len(c.Blocks.Palette) != len(want) {
		t.Fatalf("palette %v", c.Blocks.Palette)
	}
	for i := range want {
		if c.Blocks.Palette[i] != want[i] {
			t.Fatalf("palette %v want %v", c.Blocks.Palette, want)
		}
	}
	if _, ok := c.Blocks.Name(99); ok {
		t.Fatalf("out of range id should not resolve")
	}
}

func TestLoad_Rejects(t *testing.T) {
	for _, raw := range []string{`[{"id":"Stone"}]`, `[{"id":""},{"id":"Air"}]`, `{`} {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, d := range DefaultBlocks() {
		if _, ok := c.Blocks.ID(d.ID); !ok {
			t.Fatalf("shipped blocks.json is missing %s", d.ID)
		}
	}
	if !c.Blocks.Defs[Barrier].Invisible {
		t.Fatalf("barrier should be invisible")
	}
}
