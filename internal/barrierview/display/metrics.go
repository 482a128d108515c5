package display

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"
	modeLabel    = "mode"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrierview_ticks_total",
		Help: "The number of display ticks run.",
	})

	registeredWorlds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barrierview_registered_worlds",
		Help: "The number of worlds registered with the display scheduler.",
	})

	dispatchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrierview_dispatch_outcomes_total",
		Help: "Per-viewer results of the dispatch pass on the scheduler goroutine.",
	}, []string{outcomeLabel})

	renderOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrierview_render_outcomes_total",
		Help: "Per-viewer results of render tasks run on world goroutines.",
	}, []string{outcomeLabel})

	worldFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrierview_world_faults_total",
		Help: "World passes abandoned because the world panicked.",
	})

	primitivesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrierview_primitives_total",
		Help: "The number of draw primitives emitted.",
	}, []string{modeLabel})

	lookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barrierview_lookup_failures_total",
		Help: "Block lookups that failed during scans and were treated as empty.",
	})

	scanSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barrierview_scan_seconds",
		Help:    "Time spent scanning one viewer's window.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)
