package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	Air     = "Air"
	Stone   = "Stone"
	Dirt    = "Dirt"
	Grass   = "Grass"
	Sand    = "Sand"
	Log     = "Log"
	Barrier = "Barrier"
)

type Catalogs struct {
	Blocks BlockCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID    string `json:"id"`
	Solid bool   `json:"solid"`
	// Invisible blocks are not drawn by clients; they are what the overlay
	// exists to reveal.
	Invisible bool `json:"invisible,omitempty"`
}

// DefaultBlocks is the palette used when no blocks.json is present.
func DefaultBlocks() []BlockDef {
	return []BlockDef{
		{ID: Air},
		{ID: Stone, Solid: true},
		{ID: Dirt, Solid: true},
		{ID: Grass, Solid: true},
		{ID: Sand, Solid: true},
		{ID: Log, Solid: true},
		{ID: Barrier, Solid: true, Invisible: true},
	}
}

// Load reads configDir/blocks.json, falling back to DefaultBlocks when the
// file does not exist.
func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	p := filepath.Join(configDir, "blocks.json")
	raw, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
		raw, _ = json.Marshal(DefaultBlocks())
	case err != nil:
		return nil, err
	}
	if err := loadBlocks(raw, &c.Blocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// Defaults builds the catalogs from the built-in palette.
func Defaults() *Catalogs {
	var c Catalogs
	raw, _ := json.Marshal(DefaultBlocks())
	if err := loadBlocks(raw, &c.Blocks); err != nil {
		panic(err)
	}
	return &c
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(raw []byte, out *BlockCatalog) error {
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	// Air must exist and be palette id 0.
	if _, ok := out.Defs[Air]; !ok {
		return fmt.Errorf("blocks.json: missing %s", Air)
	}
	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		if id != Air {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	ids = append([]string{Air}, ids...)
	if len(ids) > 1<<16 {
		return fmt.Errorf("blocks.json: %d blocks exceeds palette size", len(ids))
	}

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

// Name returns the block type id for a palette index.
func (b *BlockCatalog) Name(id uint16) (string, bool) {
	if int(id) >= len(b.Palette) {
		return "", false
	}
	return b.Palette[id], true
}

func (b *BlockCatalog) ID(name string) (uint16, bool) {
	id, ok := b.Index[name]
	return id, ok
}
