package hit

import (
	"sync"
	"sync/atomic"

	"github.com/grindlemire/go-hit/internal/debug"
)

// queueSize bounds the session event queue. Triggers beyond it are
// dropped, which is safe: every trigger is an identical full-recompute
// request and the single-flight gate collapses bursts anyway.
const queueSize = 64

// Session is one live monitoring run: it watches a container for
// structural, size, scroll, and viewport changes and reports what sits
// under the configured logical offset whenever the stabilized answer
// changes.
//
// All evaluation side effects happen on the session's own goroutine, so
// at most one evaluation's callback is visible at a time. Triggers may
// arrive from any goroutine.
type Session struct {
	container Node
	surface   Surface
	registry  Registry

	resolver   *Resolver
	tester     *Tester
	stabilizer *stabilizer
	monitor    *monitor

	queue    chan func()
	stopCh   chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	cfg config

	// Single-flight gate: set while an evaluation is scheduled or
	// running. Redundant triggers are no-ops, not queued.
	pending atomic.Bool
}

// StartMonitoring begins continuous detection under container and
// returns the running session. The container must stay valid for the
// monitoring lifetime; if it detaches, evaluation aborts silently and
// monitoring goes quiet until Stop. A nil container returns a session
// that never evaluates, since mount races make this a common transient
// state rather than an error.
func StartMonitoring(container Node, surface Surface, registry Registry, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	resolver := NewResolver(surface)
	s := &Session{
		container:  container,
		surface:    surface,
		registry:   registry,
		resolver:   resolver,
		tester:     NewTester(registry, WithArtifactFilter(resolver.isArtifact)),
		stabilizer: newStabilizer(registry),
		queue:      make(chan func(), queueSize),
		stopCh:     make(chan struct{}),
		cfg:        cfg,
	}
	s.monitor = newMonitor(surface, cfg.debounce, s.scheduleEvaluate)

	go s.run()

	if container != nil && cfg.enabled {
		s.monitor.activate(container, s.resolveScrollFrame(cfg))
		s.scheduleEvaluate()
	}
	return s
}

// Stop ends monitoring: observers detach, the loop exits, and queued
// triggers are discarded. An evaluation already past its stop check may
// still complete its callback. Idempotent.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		// Deactivation and the close share the config mutex so an
		// Update can never reattach observers after Stop.
		s.mu.Lock()
		s.monitor.deactivate()
		close(s.stopCh)
		s.mu.Unlock()
	})
}

// Update swaps the session configuration atomically and re-evaluates.
// Observer attachment follows the new enabled state and scroll frame.
// After Stop, Update is a no-op.
func (s *Session) Update(opts ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
		return
	default:
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	cfg := s.cfg

	if s.container == nil {
		return
	}
	if cfg.enabled {
		s.monitor.setDebounce(cfg.debounce)
		s.monitor.activate(s.container, s.resolveScrollFrame(cfg))
		// A reconfigured session reports the current answer even if it
		// matches the last one emitted under the old configuration.
		// Posted so the stabilizer is only touched on the loop goroutine.
		s.post(s.stabilizer.reset)
		// Posted directly, not through scheduleEvaluate: an in-flight
		// evaluation still holds the single-flight gate and would
		// swallow the request, leaving the old answer standing. The
		// loop runs the reset first, then this evaluation.
		s.post(s.evaluate)
	} else {
		s.monitor.deactivate()
	}
}

// Refresh requests a re-evaluation outside the observed triggers, for
// hosts whose change signals are incomplete.
func (s *Session) Refresh() {
	s.scheduleEvaluate()
}

// run drains the event queue until Stop. Every trigger and evaluation
// executes here. The stop channel is checked before each drain so a
// queued trigger never wins the select against an observed stop.
func (s *Session) run() {
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}
		select {
		case fn := <-s.queue:
			fn()
		case <-s.stopCh:
			return
		}
	}
}

// post enqueues fn onto the session loop. Returns false if the session
// is stopping or the queue is full.
func (s *Session) post(fn func()) bool {
	select {
	case s.queue <- fn:
		return true
	case <-s.stopCh:
		return false
	default:
		debug.Log("session queue full; trigger dropped")
		return false
	}
}

// scheduleEvaluate is the single re-evaluation entry point shared by
// every trigger. While an evaluation is in flight the call is a no-op:
// the next genuine change will call it again. The actual work is
// deferred by one extra queue hop so a burst of host mutations settles
// before geometry is read.
func (s *Session) scheduleEvaluate() {
	if !s.pending.CompareAndSwap(false, true) {
		return
	}
	ok := s.post(func() {
		if !s.post(s.evaluate) {
			s.pending.Store(false)
		}
	})
	if !ok {
		s.pending.Store(false)
	}
}

// evaluate performs one full detection cycle: resolve the offset,
// hit-test, stabilize, notify. Runs on the session goroutine only.
func (s *Session) evaluate() {
	defer s.pending.Store(false)

	// A stop that raced a queued evaluation wins.
	select {
	case <-s.stopCh:
		return
	default:
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if !cfg.enabled || s.container == nil {
		return
	}

	// The deferred hop means the tree may have changed since the
	// trigger; a detached container is a benign race, not an error.
	if !s.surface.Attached(s.container) {
		debug.Log("container detached mid-evaluation; aborting")
		return
	}

	rel, ok := s.resolver.ResolvePosition(s.container, cfg.offset.X, cfg.offset.Y)
	if !ok {
		return
	}

	var target Point
	if frame := s.resolveScrollFrame(cfg); frame != nil {
		target = frame.Bounds().Min().Add(rel).Sub(frame.ScrollOffset())
	} else {
		target = s.container.Bounds().Min().Add(rel)
	}

	node, bounds, distance := s.tester.FindWithDistance(s.container, target, s.surface)
	result := Result{Node: node, Bounds: bounds, Distance: distance}
	if node != nil {
		if meta, ok := s.registry.MetadataOf(node); ok {
			result.Metadata = meta
		}
	}

	if s.stabilizer.shouldEmit(result) && cfg.onDetect != nil {
		cfg.onDetect(result)
	}
}

// resolveScrollFrame picks the active scroll frame of reference:
// explicit override, then the container itself when it scrolls, then
// the host's global scrolling root. Resolved fresh per call because the
// caller may swap frames between evaluations.
func (s *Session) resolveScrollFrame(cfg config) Node {
	if cfg.scrollFrame != nil {
		return cfg.scrollFrame
	}
	if s.container != nil && s.container.Scrollable() {
		return s.container
	}
	return s.surface.ScrollRoot()
}
