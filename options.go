package hit

import "time"

// config is the mutable monitoring context: one struct holding the
// latest caller-supplied settings, swapped atomically by Update and read
// once at the top of each evaluation. This keeps observer callbacks from
// ever seeing a half-applied configuration.
type config struct {
	offset      Offset
	onDetect    func(Result)
	enabled     bool
	scrollFrame Node
	debounce    time.Duration
}

func defaultConfig() config {
	return config{
		offset:   Offset{X: Abs(0), Y: Abs(0)},
		enabled:  true,
		debounce: DefaultScrollDebounce,
	}
}

// Option configures a monitoring session.
type Option func(*config)

// WithOffset sets the logical target point, re-resolved on every
// evaluation against the container's current layout.
func WithOffset(x, y Unit) Option {
	return func(c *config) {
		c.offset = Offset{X: x, Y: y}
	}
}

// WithOffsetStrings sets the target point from coordinate strings
// ("50%", "2rem", "10vw", "120"). Parsing is best-effort; see Parse.
func WithOffsetStrings(x, y string) Option {
	return func(c *config) {
		c.offset = Offset{X: Parse(x), Y: Parse(y)}
	}
}

// OnDetect sets the callback invoked with each stabilized Result.
func OnDetect(fn func(Result)) Option {
	return func(c *config) {
		c.onDetect = fn
	}
}

// WithEnabled toggles monitoring. A disabled session keeps its
// configuration but attaches no observers and evaluates nothing.
func WithEnabled(enabled bool) Option {
	return func(c *config) {
		c.enabled = enabled
	}
}

// WithScrollFrame overrides scroll frame resolution with an explicit
// element whose scroll position anchors coordinate conversion.
func WithScrollFrame(n Node) Option {
	return func(c *config) {
		c.scrollFrame = n
	}
}

// WithScrollDebounce sets the scroll quiescence window. Non-positive
// values fall back to DefaultScrollDebounce.
func WithScrollDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}
