package display

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/outline"
	"voxelcraft.ai/barrierview/internal/barrierview/prefs"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	"voxelcraft.ai/barrierview/internal/barrierview/scan"
)

const DefaultInterval = 1500 * time.Millisecond

type Config struct {
	Interval time.Duration
	Scan     scan.Config
}

type Outcome uint8

const (
	OutcomeDisabled Outcome = iota
	OutcomeNoPosition
	OutcomeDispatched
	OutcomeDispatchFailed
	OutcomeEmpty
	OutcomeRendered
	// OutcomeFaulted means work for the viewer panicked and was abandoned.
	OutcomeFaulted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeNoPosition:
		return "no_position"
	case OutcomeDispatched:
		return "dispatched"
	case OutcomeDispatchFailed:
		return "dispatch_failed"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRendered:
		return "rendered"
	case OutcomeFaulted:
		return "faulted"
	}
	return "unknown"
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// TickLogEntry summarizes the dispatch side of one tick. Rendering happens
// later on each world's goroutine and is not part of the entry.
type TickLogEntry struct {
	Tick   uint64           `json:"tick"`
	Time   time.Time        `json:"time"`
	Worlds []WorldTickStats `json:"worlds,omitempty"`
}

type WorldTickStats struct {
	World      string `json:"world"`
	Viewers    int    `json:"viewers"`
	Dispatched int    `json:"dispatched"`
	Disabled   int    `json:"disabled,omitempty"`
	NoPosition int    `json:"no_position,omitempty"`
	Failed     int    `json:"failed,omitempty"`
	Faulted    int    `json:"faulted,omitempty"`
	// WorldFault is set when the world itself faulted and its viewers could
	// not all be visited.
	WorldFault bool `json:"world_fault,omitempty"`
}

func (st *WorldTickStats) count(o Outcome) {
	switch o {
	case OutcomeDispatched:
		st.Dispatched++
	case OutcomeDisabled:
		st.Disabled++
	case OutcomeNoPosition:
		st.NoPosition++
	case OutcomeDispatchFailed:
		st.Failed++
	case OutcomeFaulted:
		st.Faulted++
	}
}

// RenderReport describes the work done for one viewer on its world's goroutine.
type RenderReport struct {
	Outcome       Outcome
	Mode          prefs.Mode
	Cells         int
	Primitives    int
	FailedLookups int
}

// Scheduler runs the periodic scan and render pass over every registered
// world. Stop is a full reset: worlds and viewer preferences are dropped.
type Scheduler struct {
	cfg      Config
	prefs    *prefs.Store
	scanner  *scan.Scanner
	renderer *render.Renderer
	log      *log.Logger
	tickLog  TickLogger

	tick atomic.Uint64

	mu     sync.Mutex
	worlds map[string]host.World
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config, store *prefs.Store, renderer *render.Renderer, logger *log.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{
		cfg:      cfg,
		prefs:    store,
		scanner:  scan.NewScanner(cfg.Scan),
		renderer: renderer,
		log:      logger,
		worlds:   map[string]host.World{},
	}
}

// SetTickLogger must be called before Start.
func (s *Scheduler) SetTickLogger(l TickLogger) { s.tickLog = l }

func (s *Scheduler) Prefs() *prefs.Store { return s.prefs }

func (s *Scheduler) Renderer() *render.Renderer { return s.renderer }

func (s *Scheduler) RegisterWorld(w host.World) {
	if w == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worlds[w.Name()] = w
	registeredWorlds.Set(float64(len(s.worlds)))
}

func (s *Scheduler) Worlds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.worlds))
	for name := range s.worlds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Start begins ticking; the first tick runs immediately. Calling Start on a
// running scheduler does nothing and returns false.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(ctx, done)
	return true
}

// Done is closed when the current run loop exits. It returns nil when the
// scheduler is not running.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	if ctx.Err() != nil {
		return
	}
	s.safeTick()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.safeTick()
		}
	}
}

// safeTick keeps the loop alive through a fault outside any one world.
func (s *Scheduler) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			s.logf("tick panic: %v", r)
		}
	}()
	s.Tick()
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// Stop cancels the schedule without waiting for an in-flight tick, clears
// every viewer of every registered world and drops all state.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	worlds := s.worlds
	s.cancel = nil
	s.done = nil
	s.worlds = map[string]host.World{}
	registeredWorlds.Set(0)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, nw := range sortWorlds(worlds) {
		s.clearWorld(nw.name, nw.world)
	}
	s.prefs.Reset()
}

func (s *Scheduler) clearWorld(name string, w host.World) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("world %s: clear panic: %v", name, r)
		}
	}()
	if n := s.renderer.ClearWorld(w); n > 0 {
		s.logf("cleared %d viewers in world %s", n, name)
	}
}

// Tick runs one dispatch pass and returns its summary.
func (s *Scheduler) Tick() TickLogEntry {
	entry := TickLogEntry{Tick: s.tick.Add(1), Time: time.Now().UTC()}
	ticksTotal.Inc()

	s.mu.Lock()
	worlds := sortWorlds(s.worlds)
	s.mu.Unlock()

	for _, nw := range worlds {
		st := s.tickWorld(nw.name, nw.world)
		if st.Viewers == 0 && !st.WorldFault {
			continue
		}
		if st.Failed > 0 || st.Faulted > 0 {
			s.logf("world %s: %d of %d viewer dispatches failed, %d faulted", st.World, st.Failed, st.Viewers, st.Faulted)
		}
		entry.Worlds = append(entry.Worlds, st)
	}

	if s.tickLog != nil {
		if err := s.tickLog.WriteTick(entry); err != nil {
			s.logf("tick log: %v", err)
		}
	}
	return entry
}

// tickWorld dispatches every viewer of one world. A fault in the world
// itself ends this world's pass only.
func (s *Scheduler) tickWorld(name string, w host.World) (st WorldTickStats) {
	st.World = name
	defer func() {
		if r := recover(); r != nil {
			st.WorldFault = true
			worldFaults.Inc()
			s.logf("world %s: tick panic: %v", name, r)
		}
	}()
	viewers := w.Viewers()
	st.Viewers = len(viewers)
	for _, v := range viewers {
		o := s.dispatch(w, v)
		st.count(o)
		dispatchOutcomes.WithLabelValues(o.String()).Inc()
	}
	return st
}

// dispatch queues the render task for one viewer. A panic while inspecting
// the viewer is reported as OutcomeFaulted.
func (s *Scheduler) dispatch(w host.World, v host.Viewer) (o Outcome) {
	if v == nil {
		return OutcomeNoPosition
	}
	defer func() {
		if recover() != nil {
			o = OutcomeFaulted
		}
	}()
	if !s.prefs.Enabled(v.ID()) {
		return OutcomeDisabled
	}
	pos, ok := v.Position()
	if !ok {
		return OutcomeNoPosition
	}
	win := s.scanner.Window(pos)
	err := w.Execute(func() {
		ro := s.safeRender(w, v, win)
		renderOutcomes.WithLabelValues(ro.String()).Inc()
	})
	if err != nil {
		return OutcomeDispatchFailed
	}
	return OutcomeDispatched
}

// RenderViewer scans win and draws the result for v. It reads the world's
// blocks, so it must run on w's goroutine. Preferences are re-read here; a
// viewer that was disabled or removed after dispatch gets nothing.
func (s *Scheduler) RenderViewer(w host.World, v host.Viewer, win scan.Window) RenderReport {
	p := s.prefs.Get(v.ID())
	rep := RenderReport{Mode: p.Mode}
	if !p.Enabled {
		rep.Outcome = OutcomeDisabled
		return rep
	}

	start := time.Now()
	res := s.scanner.Scan(w, win)
	scanSeconds.Observe(time.Since(start).Seconds())
	if res.Failed > 0 {
		lookupFailures.Add(float64(res.Failed))
	}
	if res.Oversized {
		s.logf("viewer %s: scan window %+v exceeds %d cells", v.ID(), win, s.scanner.MaxVolume())
	}
	rep.FailedLookups = res.Failed
	rep.Cells = len(res.Cells)
	if res.Empty() {
		rep.Outcome = OutcomeEmpty
		return rep
	}

	switch p.Mode {
	case prefs.ModeIndividual:
		for _, c := range res.Cells.Sorted() {
			rep.Primitives += s.renderer.Individual(v, c, p.Color)
		}
	default:
		rep.Primitives = s.renderer.Outline(v, outline.Resolve(res.Cells).Sorted(), p.Color)
	}
	primitivesTotal.WithLabelValues(p.Mode.String()).Add(float64(rep.Primitives))
	rep.Outcome = OutcomeRendered
	return rep
}

// safeRender runs RenderViewer on the world goroutine. The world's own task
// loop may not recover panics, so the fault stops here.
func (s *Scheduler) safeRender(w host.World, v host.Viewer, win scan.Window) (o Outcome) {
	defer func() {
		if recover() != nil {
			o = OutcomeFaulted
		}
	}()
	return s.RenderViewer(w, v, win).Outcome
}

type namedWorld struct {
	name  string
	world host.World
}

// sortWorlds snapshots the registry in name order. Names come from the
// registry keys so a faulty world is never asked for its own.
func sortWorlds(m map[string]host.World) []namedWorld {
	out := make([]namedWorld, 0, len(m))
	for name, w := range m {
		out = append(out, namedWorld{name: name, world: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
