package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// serverConfig is read from BV_* environment variables first; flags given on
// the command line win over the environment.
type serverConfig struct {
	Addr       string `env:"BV_ADDR" envDefault:":8080"`
	ConfigDir  string `env:"BV_CONFIGS" envDefault:"./configs"`
	TuningPath string `env:"BV_TUNING"`
	WorldsPath string `env:"BV_WORLDS"`
	DataDir    string `env:"BV_DATA" envDefault:"./data"`

	// TickLog turns on the compressed per-tick operational log under DataDir.
	// Viewer preferences are never written.
	TickLog     bool `env:"BV_TICK_LOG"`
	TickLogKeep int  `env:"BV_TICK_LOG_KEEP" envDefault:"24"`
}

func parseConfig(fs *flag.FlagSet, args []string) (serverConfig, error) {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "http listen address")
	fs.StringVar(&cfg.ConfigDir, "configs", cfg.ConfigDir, "config directory")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "path to barrierview.yaml (default: <configs>/barrierview.yaml)")
	fs.StringVar(&cfg.WorldsPath, "worlds", cfg.WorldsPath, "path to worlds.yaml (default: <configs>/worlds.yaml)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "runtime data directory")
	fs.BoolVar(&cfg.TickLog, "tick_log", cfg.TickLog, "write per-tick stats to <data>/ticks")
	fs.IntVar(&cfg.TickLogKeep, "tick_log_keep", cfg.TickLogKeep, "hourly tick log files to retain")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return cfg, fmt.Errorf("addr is required")
	}
	if strings.TrimSpace(cfg.TuningPath) == "" {
		cfg.TuningPath = filepath.Join(cfg.ConfigDir, "barrierview.yaml")
	}
	if strings.TrimSpace(cfg.WorldsPath) == "" {
		cfg.WorldsPath = filepath.Join(cfg.ConfigDir, "worlds.yaml")
	}
	return cfg, nil
}
