package main

import (
	"flag"
	"io"
	"path/filepath"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.ConfigDir != "./configs" || cfg.DataDir != "./data" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TuningPath != filepath.Join("./configs", "barrierview.yaml") {
		t.Fatalf("tuning path: %q", cfg.TuningPath)
	}
	if cfg.WorldsPath != filepath.Join("./configs", "worlds.yaml") {
		t.Fatalf("worlds path: %q", cfg.WorldsPath)
	}
	if cfg.TickLog {
		t.Fatalf("tick log should default off")
	}
}

func TestParseConfig_EnvThenFlags(t *testing.T) {
	t.Setenv("BV_ADDR", ":9000")
	t.Setenv("BV_CONFIGS", "/etc/bv")
	t.Setenv("BV_TICK_LOG", "true")

	cfg, err := parseConfig(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":9000" || !cfg.TickLog {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.WorldsPath != filepath.Join("/etc/bv", "worlds.yaml") {
		t.Fatalf("worlds path should follow BV_CONFIGS, got %q", cfg.WorldsPath)
	}

	cfg, err = parseConfig(newFlagSet(), []string{"-addr", ":7000", "-tuning", "/tmp/t.yaml"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.TuningPath != "/tmp/t.yaml" || !cfg.TickLog {
		t.Fatalf("flags should override env: %+v", cfg)
	}
}

func TestParseConfig_BadEnv(t *testing.T) {
	t.Setenv("BV_TICK_LOG", "maybe")
	if _, err := parseConfig(newFlagSet(), nil); err == nil {
		t.Fatalf("expected env parse error")
	}
}

func TestParseConfig_EmptyAddr(t *testing.T) {
	if _, err := parseConfig(newFlagSet(), []string{"-addr", " "}); err == nil {
		t.Fatalf("expected empty addr error")
	}
}
