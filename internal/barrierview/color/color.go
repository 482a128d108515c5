package color

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	ErrBadHex        = errors.New("bad hex color")
	ErrUnknownPreset = errors.New("unknown color preset")
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R float32
	G float32
	B float32
}

// Red is the default outline color.
var Red = Color{R: 1, G: 0, B: 0}

// New clamps each component into [0,1]. NaN maps to 0.
func New(r, g, b float32) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

func (c Color) Array() [3]float32 { return [3]float32{c.R, c.G, c.B} }

func (c Color) String() string { return ToHex(c) }

var presets = map[string]Color{
	"RED":     {1, 0, 0},
	"GREEN":   {0, 1, 0},
	"BLUE":    {0, 0, 1},
	"YELLOW":  {1, 1, 0},
	"CYAN":    {0, 1, 1},
	"MAGENTA": {1, 0, 1},
	"ORANGE":  {1, 0.5, 0},
	"PINK":    {1, 0.4, 0.7},
	"PURPLE":  {0.6, 0, 1},
	"LIME":    {0.5, 1, 0},
	"AQUA":    {0, 0.8, 0.8},
	"WHITE":   {1, 1, 1},
	"GRAY":    {0.5, 0.5, 0.5},
	"BLACK":   {0, 0, 0},
	"GOLD":    {1, 0.84, 0},
}

// presetOrder is the listing order shown to viewers.
var presetOrder = []string{
	"RED", "GREEN", "BLUE", "YELLOW", "CYAN", "MAGENTA", "ORANGE", "PINK",
	"PURPLE", "LIME", "AQUA", "WHITE", "GRAY", "BLACK", "GOLD",
}

// Preset looks up a named preset, ignoring case and surrounding space.
func Preset(name string) (Color, bool) {
	c, ok := presets[strings.ToUpper(strings.TrimSpace(name))]
	return c, ok
}

// PresetNames returns the lower-case preset names in listing order.
func PresetNames() []string {
	out := make([]string, 0, len(presetOrder))
	for _, n := range presetOrder {
		out = append(out, strings.ToLower(n))
	}
	return out
}

// PresetName returns the preset name matching c exactly, if any.
func PresetName(c Color) (string, bool) {
	names := make([]string, 0, len(presets))
	for n, p := range presets {
		if p == c {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return strings.ToLower(names[0]), true
}

// Parse accepts a preset name or a hex string.
func Parse(s string) (Color, error) {
	if c, ok := Preset(s); ok {
		return c, nil
	}
	c, err := ParseHex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
	return c, nil
}

// ParseHex parses "#RRGGBB", "RRGGBB", "#RGB" or "RGB". The 3-digit form
// doubles each digit.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(h[2*i])
		lo, ok2 := hexDigit(h[2*i+1])
		if !ok1 || !ok2 {
			return Color{}, fmt.Errorf("%w: %q", ErrBadHex, s)
		}
		v[i] = hi<<4 | lo
	}
	return Color{
		R: float32(v[0]) / 255,
		G: float32(v[1]) / 255,
		B: float32(v[2]) / 255,
	}, nil
}

// ToHex formats c as "#RRGGBB" with upper-case digits.
func ToHex(c Color) string {
	return fmt.Sprintf("#%02X%02X%02X", toByte(c.R), toByte(c.G), toByte(c.B))
}

// toByte maps [0,1] onto 0..255 by floor(v*256). Every value produced by
// ParseHex maps back to the byte it came from.
func toByte(v float32) uint8 {
	f := math.Floor(float64(clamp01(v)) * 256)
	if f > 255 {
		return 255
	}
	return uint8(f)
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
