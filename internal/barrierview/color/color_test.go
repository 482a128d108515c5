package color

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseHex_ShorthandMatchesLongForm(t *testing.T) {
	short, err := ParseHex("F00")
	if err != nil {
		t.Fatalf("ParseHex(F00): %v", err)
	}
	long, err := ParseHex("FF0000")
	if err != nil {
		t.Fatalf("ParseHex(FF0000): %v", err)
	}
	if short != long {
		t.Fatalf("shorthand mismatch: %+v vs %+v", short, long)
	}
	if long != Red {
		t.Fatalf("expected red, got %+v", long)
	}
	withHash, err := ParseHex("#f00")
	if err != nil || withHash != long {
		t.Fatalf("expected #f00 == FF0000, got %+v err=%v", withHash, err)
	}
}

func TestParseHex_Rejects(t *testing.T) {
	for _, s := range []string{"", "#", "F0", "FF00", "FF000", "FF00000", "GG0000", "#12345Z", "##F00", "+F0000", " 0x0F0"} {
		if _, err := ParseHex(s); !errors.Is(err, ErrBadHex) {
			t.Fatalf("ParseHex(%q): expected ErrBadHex, got %v", s, err)
		}
	}
}

func TestToHex_RoundTripsEveryByte(t *testing.T) {
	for v := 0; v < 256; v++ {
		s := fmt.Sprintf("#%02X%02X%02X", v, 255-v, v/2)
		c, err := ParseHex(s)
		if err != nil {
			t.Fatalf("ParseHex(%s): %v", s, err)
		}
		if got := ToHex(c); got != s {
			t.Fatalf("round trip: got %s want %s", got, s)
		}
		again, _ := ParseHex(ToHex(c))
		if ToHex(again) != s {
			t.Fatalf("not idempotent for %s", s)
		}
	}
}

func TestPreset_GoldHex(t *testing.T) {
	c, ok := Preset("GOLD")
	if !ok {
		t.Fatalf("gold preset missing")
	}
	if c != (Color{R: 1, G: 0.84, B: 0}) {
		t.Fatalf("unexpected gold %+v", c)
	}
	if got := ToHex(c); got != "#FFD700" {
		t.Fatalf("gold hex: got %s", got)
	}
	if _, ok := Preset("  gold "); !ok {
		t.Fatalf("preset lookup should ignore case and space")
	}
	if _, ok := Preset("chartreuse"); ok {
		t.Fatalf("unexpected preset")
	}
}

func TestPresetNames(t *testing.T) {
	names := PresetNames()
	if len(names) != 15 {
		t.Fatalf("expected 15 presets, got %d", len(names))
	}
	if names[0] != "red" || names[len(names)-1] != "gold" {
		t.Fatalf("unexpected order: %v", names)
	}
	for _, n := range names {
		if _, ok := Preset(n); !ok {
			t.Fatalf("listed preset %q not found", n)
		}
	}
}

func TestParse_PresetThenHex(t *testing.T) {
	c, err := Parse("Orange")
	if err != nil || c != (Color{R: 1, G: 0.5, B: 0}) {
		t.Fatalf("Parse(Orange): %+v %v", c, err)
	}
	c, err = Parse("#00FF00")
	if err != nil || c != (Color{R: 0, G: 1, B: 0}) {
		t.Fatalf("Parse(#00FF00): %+v %v", c, err)
	}
	if _, err := Parse("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestNew_Clamps(t *testing.T) {
	nan := float32(0)
	nan = nan / nan
	c := New(-1, 2, nan)
	if c != (Color{R: 0, G: 1, B: 0}) {
		t.Fatalf("unexpected clamp %+v", c)
	}
	if got := ToHex(Color{R: 5, G: -3, B: 0.5}); got != "#FF0080" {
		t.Fatalf("out of range components should clamp, got %s", got)
	}
}

func TestPresetName(t *testing.T) {
	if n, ok := PresetName(Red); !ok || n != "red" {
		t.Fatalf("PresetName(red) = %q %v", n, ok)
	}
	if _, ok := PresetName(Color{R: 0.1}); ok {
		t.Fatalf("unexpected preset match")
	}
}
