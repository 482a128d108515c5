package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxelcraft.ai/barrierview/internal/barrierview/display"
	"voxelcraft.ai/barrierview/internal/barrierview/prefs"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	persistlog "voxelcraft.ai/barrierview/internal/persistence/log"
	"voxelcraft.ai/barrierview/internal/protocol"
	"voxelcraft.ai/barrierview/internal/sim/catalogs"
	"voxelcraft.ai/barrierview/internal/sim/multiworld"
	"voxelcraft.ai/barrierview/internal/sim/tuning"
	"voxelcraft.ai/barrierview/internal/transport/ws"
)

type serverRuntime struct {
	tune    tuning.Tuning
	worlds  *multiworld.Manager
	display *display.Scheduler
	tickLog *persistlog.TickLogger
	mux     *http.ServeMux
	log     *log.Logger
}

func newRuntime(cfg serverConfig, logger *log.Logger) (*serverRuntime, error) {
	cats, err := catalogs.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	tune, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load tuning: %w", err)
		}
		logger.Printf("tuning not found (%s); using defaults", cfg.TuningPath)
		tune = tuning.Defaults()
	}

	wcfg, err := multiworld.Load(cfg.WorldsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load worlds config: %w", err)
		}
		logger.Printf("worlds config not found (%s); using defaults", cfg.WorldsPath)
		wcfg = multiworld.Defaults()
	}

	m, err := multiworld.NewManager(wcfg, tune, cats, logger)
	if err != nil {
		return nil, fmt.Errorf("init worlds: %w", err)
	}

	mode, col, err := tune.DefaultPrefs()
	if err != nil {
		return nil, fmt.Errorf("default prefs: %w", err)
	}
	sched := display.New(
		display.Config{Interval: tune.TickInterval(), Scan: tune.ScanConfig()},
		prefs.NewStore(mode, col),
		render.NewRenderer(tune.RenderConfig(), ws.NewSink()),
		logger,
	)

	rt := &serverRuntime{tune: tune, worlds: m, display: sched, log: logger}
	if cfg.TickLog {
		rt.tickLog = persistlog.NewTickLogger(cfg.DataDir, cfg.TickLogKeep)
		sched.SetTickLogger(rt.tickLog)
	}

	params := protocol.WorldParams{
		ChunkSize:      tune.Scan.ChunkSize,
		MinY:           tune.Scan.MinY,
		MaxY:           tune.Scan.MaxY,
		TickIntervalMs: tune.TickIntervalMs,
		Marker:         tune.MarkerBlock,
	}
	srv := ws.NewServer(m, sched, params, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/ws", srv.Handler())
	rt.mux = mux
	return rt, nil
}

// Close stops the display first so its final clears reach viewers whose
// worlds are still running.
func (rt *serverRuntime) Close() {
	rt.display.Stop()
	rt.worlds.Stop()
	if rt.tickLog != nil {
		if err := rt.tickLog.Close(); err != nil {
			rt.log.Printf("close tick log: %v", err)
		}
	}
}
