package hit

import (
	"sync"
	"time"

	"github.com/grindlemire/go-hit/internal/debug"
)

// DefaultScrollDebounce is the quiescence window applied to scroll
// triggers: re-evaluation waits for scrolling to pause rather than
// firing on every intermediate frame.
const DefaultScrollDebounce = 150 * time.Millisecond

// monitor attaches the four change observers for one monitoring session
// and funnels every signal into a single "recompute requested" trigger.
// No observer carries payload: the consumer always recomputes fully.
//
// States are Idle and Active. Deactivation tears down every observer
// that activation attached, unconditionally; partial cleanup is never
// acceptable.
type monitor struct {
	surface  Surface
	trigger  func()
	debounce time.Duration

	// stops is touched only by activate and deactivate, which the
	// owning session serializes under its own mutex.
	stops []func()

	mu          sync.Mutex
	scrollTimer *time.Timer
	active      bool
}

func newMonitor(surface Surface, debounce time.Duration, trigger func()) *monitor {
	if debounce <= 0 {
		debounce = DefaultScrollDebounce
	}
	return &monitor{surface: surface, trigger: trigger, debounce: debounce}
}

// setDebounce updates the scroll quiescence window for future scroll
// signals.
func (m *monitor) setDebounce(d time.Duration) {
	if d <= 0 {
		d = DefaultScrollDebounce
	}
	m.mu.Lock()
	m.debounce = d
	m.mu.Unlock()
}

// activate attaches all observers for container against the given scroll
// frame. Hosts without a Notifier degrade to manual refresh only. Safe
// to call on an active monitor: it re-attaches against current state.
func (m *monitor) activate(container Node, scrollFrame Node) {
	m.deactivate()

	notifier, ok := m.surface.(Notifier)
	if !ok {
		debug.Log("surface has no Notifier; monitoring limited to manual refresh")
		return
	}

	m.mu.Lock()
	m.active = true
	m.mu.Unlock()

	// Structural: child-list and visually relevant attribute changes
	// anywhere under the container.
	m.stops = append(m.stops, notifier.OnMutation(container, m.trigger))

	// Size: the container and every current descendant individually.
	// Any descendant's resize can shift what sits under a fixed point.
	m.stops = append(m.stops, notifier.OnResize(container, m.trigger))
	walk(container, func(n Node) {
		m.stops = append(m.stops, notifier.OnResize(n, m.trigger))
	})

	// Scroll: the active frame, debounced to scroll quiescence.
	if scrollFrame != nil {
		m.stops = append(m.stops, notifier.OnScroll(scrollFrame, m.onScroll))
	}

	// Viewport resize.
	m.stops = append(m.stops, notifier.OnViewportResize(m.trigger))

	debug.Log("monitor active: %d observers attached", len(m.stops))
}

// deactivate detaches every observer attached by activate, symmetric to
// how they were attached. Idempotent.
func (m *monitor) deactivate() {
	m.mu.Lock()
	m.active = false
	if m.scrollTimer != nil {
		m.scrollTimer.Stop()
		m.scrollTimer = nil
	}
	m.mu.Unlock()

	stops := m.stops
	m.stops = nil
	for _, stop := range stops {
		if stop != nil {
			stop()
		}
	}
}

// onScroll restarts the quiescence timer; the trigger fires only once
// scrolling has paused for the debounce window.
func (m *monitor) onScroll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active {
		return
	}
	if m.scrollTimer != nil {
		m.scrollTimer.Stop()
	}
	m.scrollTimer = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		active := m.active
		m.mu.Unlock()
		if active {
			m.trigger()
		}
	})
}

// walk calls fn for every strict descendant of root in document order.
func walk(root Node, fn func(Node)) {
	for _, child := range root.Children() {
		fn(child)
		walk(child, fn)
	}
}
