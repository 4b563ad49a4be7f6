// Package app wires the render pipeline together and hosts the
// orchestration core: resolving the active integration for a
// buffer, clearing stale images, dispatching diagrams to their
// renderers, and materializing the results as inline images.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/inkline/internal/config"
	"github.com/dshills/inkline/internal/diagram"
	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/event"
	"github.com/dshills/inkline/internal/host"
	"github.com/dshills/inkline/internal/image"
	"github.com/dshills/inkline/internal/integration"
	"github.com/dshills/inkline/internal/integration/markdown"
	"github.com/dshills/inkline/internal/integration/org"
	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/d2"
	"github.com/dshills/inkline/internal/render/gnuplot"
	"github.com/dshills/inkline/internal/render/mermaid"
	"github.com/dshills/inkline/internal/render/plantuml"
	"github.com/dshills/inkline/internal/render/poll"
	"github.com/dshills/inkline/internal/render/process"
)

// shutdownTimeout bounds how long Shutdown waits for outstanding
// renderer processes.
const shutdownTimeout = 5 * time.Second

// Session owns the orchestration state for one plugin session: the
// diagram registry, the job poller, the image manager, and the
// integration set. It is created with New and torn down with
// Shutdown; there is no process-wide instance.
type Session struct {
	cfg          *config.Config
	log          *Logger
	registry     *diagram.Registry
	integrations *integration.Manager
	images       *image.Manager
	supervisor   *process.Supervisor
	watcher      *poll.Watcher
	sched        *host.Scheduler
	bus          *event.Bus

	// generations tracks a per-buffer render pass counter. When
	// stale job discarding is on, async completions carrying an
	// older generation are dropped.
	genMu       sync.Mutex
	generations map[buffer.ID]uint64

	closed atomic.Bool
}

// Options configures a session.
type Options struct {
	// Config is the merged configuration. Nil uses defaults.
	Config *config.Config

	// Backend is the terminal graphics backend. Required.
	Backend image.Backend

	// Logger receives session logs. Nil discards them.
	Logger *Logger

	// Integrations overrides the built-in integration set. Used by
	// tests; when nil the set is built from Config.Integrations.
	Integrations []integration.Integration

	// PollInterval overrides the job polling period. Zero keeps
	// the default.
	PollInterval time.Duration
}

// New creates and starts a session.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.Backend == nil {
		return nil, ErrNoImageBackend
	}
	if err := cfg.EnsureCacheDir(); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = NullLogger
	} else {
		log.SetLevel(ParseLogLevel(cfg.LogLevel))
	}

	s := &Session{
		cfg:          cfg,
		log:          log,
		registry:     diagram.NewRegistry(),
		integrations: integration.NewManager(),
		images:       image.NewManager(opts.Backend),
		supervisor:   process.NewSupervisor(),
		generations:  make(map[buffer.ID]uint64),
	}

	s.sched = host.NewScheduler(host.WithPanicHandler(func(r any) {
		log.Error("panic in host callback: %v", r)
	}))
	s.sched.Start()

	var pollOpts []poll.Option
	if opts.PollInterval > 0 {
		pollOpts = append(pollOpts, poll.WithInterval(opts.PollInterval))
	}
	s.watcher = poll.NewWatcher(s.supervisor, s.sched, pollOpts...)

	s.bus = event.NewBus(s.sched)
	for _, topic := range cfg.ClearTopics() {
		s.bus.Subscribe(topic, func(ev event.Event) {
			s.registry.Clear(ev.Buffer)
			s.supersede(ev.Buffer)
		})
	}

	integrations := opts.Integrations
	if integrations == nil {
		integrations = s.buildIntegrations()
	}
	for _, in := range integrations {
		if err := s.integrations.Register(in); err != nil {
			return nil, fmt.Errorf("register integration %s: %w", in.ID(), err)
		}
	}

	return s, nil
}

// buildIntegrations constructs the configured integration set with
// the full renderer complement.
func (s *Session) buildIntegrations() []integration.Integration {
	renderers := []render.Renderer{
		mermaid.New(s.supervisor, s.cfg.CacheDir),
		plantuml.New(s.supervisor, s.cfg.CacheDir),
		d2.New(s.cfg.CacheDir),
		gnuplot.New(s.cfg.CacheDir),
	}

	var out []integration.Integration
	for _, id := range s.cfg.Integrations {
		switch id {
		case "markdown":
			out = append(out, markdown.New(renderers...))
		case "org":
			out = append(out, org.New(renderers...))
		default:
			s.log.Warn("unknown integration %q in configuration", id)
		}
	}
	return out
}

// Bus returns the buffer-activity event bus the host publishes to.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Registry returns the diagram registry.
func (s *Session) Registry() *diagram.Registry {
	return s.registry
}

// Scheduler returns the serialized host scheduler.
func (s *Session) Scheduler() *host.Scheduler {
	return s.sched
}

// RenderBuffer discovers the buffer's diagrams and renders each in
// discovery order. Previously shown images for the buffer are
// cleared first, so repeated calls never accumulate leaked images.
//
// A buffer whose filetype matches no integration returns
// integration.ErrNoIntegration after logging a warning; callers
// treat it as a no-op. An unresolvable renderer id aborts the pass:
// that is a configuration invariant violation. Failures local to
// one diagram skip it silently and never abort siblings.
func (s *Session) RenderBuffer(buf *buffer.Buffer, win host.Window) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	in, err := s.integrations.ForFiletype(buf.Filetype())
	if err != nil {
		s.log.Warn("no integration for filetype %q", buf.Filetype())
		return err
	}

	diagrams, err := in.Diagrams(buf)
	if err != nil {
		return fmt.Errorf("discover diagrams: %w", err)
	}

	// The discovery snapshot supersedes everything shown so far.
	s.registry.Clear(buf.ID())
	gen := s.supersede(buf.ID())

	for _, d := range diagrams {
		renderer, err := integration.ResolveRenderer(in, d.RendererID)
		if err != nil {
			return fmt.Errorf("diagram at %s references renderer %q: %w", d.Range, d.RendererID, err)
		}

		result, err := renderer.Render(d.Source, s.cfg.OptionsFor(d.RendererID))
		if err != nil {
			// Best effort: a broken diagram must not block siblings.
			s.log.Debug("render dispatch failed for %s: %v", d, err)
			continue
		}

		if result.Async() {
			err := s.watcher.Watch(result.JobID, func() {
				s.materialize(d, in, result.Path, win, gen)
				s.supervisor.Release(result.JobID)
			})
			if err != nil {
				s.log.Debug("job watch failed for %s: %v", d, err)
			}
			continue
		}
		s.materialize(d, in, result.Path, win, gen)
	}
	return nil
}

// ClearBuffer disposes and removes every image shown for the
// buffer. Clearing an already-clear buffer is a no-op.
func (s *Session) ClearBuffer(bufID buffer.ID) {
	s.registry.Clear(bufID)
	s.supersede(bufID)
}

// materialize attaches an image to a discovered diagram and records
// it. An unreadable output file means the renderer failed or
// produced nothing; the diagram is skipped without an error.
func (s *Session) materialize(d *diagram.Diagram, in integration.Integration, path string, win host.Window, gen uint64) {
	if s.closed.Load() {
		return
	}
	if s.cfg.DiscardStaleJobs && s.generation(d.BufferID) != gen {
		s.log.Debug("discarding stale completion for %s", d)
		return
	}
	if !render.Readable(path) {
		return
	}

	anchor := d.Range.Start.Shifted(in.AnchorOffset())
	handle, err := s.images.Materialize(path, d.BufferID, win.ID, anchor, win.Width)
	if err != nil {
		s.log.Debug("image creation failed for %s: %v", d, err)
		return
	}

	d.Image = handle
	if err := s.registry.Record(d); err != nil {
		_ = s.images.Dispose(handle)
		d.Image = nil
		s.log.Debug("record rejected for %s: %v", d, err)
		return
	}

	if err := handle.Render(); err != nil {
		s.log.Debug("image paint failed for %s: %v", d, err)
	}
}

// supersede bumps and returns the buffer's render generation.
func (s *Session) supersede(bufID buffer.ID) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[bufID]++
	return s.generations[bufID]
}

// generation reads the buffer's current render generation.
func (s *Session) generation(bufID buffer.ID) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[bufID]
}

// PendingJobs reports how many async renders are still awaited.
func (s *Session) PendingJobs() int {
	return s.watcher.Outstanding()
}

// Shutdown tears the session down: stops polling, closes the bus,
// terminates outstanding renderer processes, and stops the
// scheduler. Safe to call twice.
func (s *Session) Shutdown() {
	if s.closed.Swap(true) {
		return
	}
	s.watcher.Stop()
	s.bus.Close()
	s.supervisor.Shutdown(shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.sched.Stop(ctx)
}
