package hit

// Node is a handle into the host's visual tree. The detection core never
// owns nodes: hosts hand out live references and remain responsible for
// their lifecycle. A Node may become stale after removal; implementations
// must tolerate queries against stale handles by reporting them invisible
// rather than panicking.
type Node interface {
	// Parent returns the parent node, or nil at the tree root.
	Parent() Node

	// Children returns the child nodes in document order.
	Children() []Node

	// Bounds returns the node's border box in absolute viewport coordinates.
	Bounds() Rect

	// Visible reports whether the node currently renders: non-zero area,
	// not hidden by the host, and intersecting the viewport.
	Visible() bool

	// Scrollable reports whether the node has non-default overflow
	// handling on either axis.
	Scrollable() bool

	// ScrollOffset returns the node's current scroll position.
	ScrollOffset() Point
}

// Surface is the host root the detection core operates against. It
// answers viewport and font queries; optional capabilities (PointQuerier,
// ProbeHost, Positioner, Notifier) are discovered by interface assertion
// and degrade gracefully when absent.
type Surface interface {
	// Viewport returns the current visible viewport size.
	Viewport() Size

	// Attached reports whether n is still part of the host tree.
	// Deferred evaluations use this to self-abort when their container
	// was removed after scheduling.
	Attached(n Node) bool

	// ScrollRoot returns the nearest global scrolling element, used as
	// the scroll frame when neither an override nor a scrollable
	// container applies. May return nil for hosts that never scroll.
	ScrollRoot() Node

	// RootFontSize returns the root font size, for rem resolution.
	RootFontSize() float64

	// FontSize returns the effective font size of a node, for em
	// resolution.
	FontSize(n Node) float64
}

// PointQuerier is an optional Surface capability: a native point query
// against the visual stack, returning every node rendered at p ordered
// topmost-first. Hosts without it fall back to geometric hit testing.
type PointQuerier interface {
	NodesAt(p Point) []Node
}

// Probe is a transient invisible node materialized by a ProbeHost to
// resolve logical units through the host's own layout engine.
type Probe interface {
	// Node returns the probe's tree handle, so hit testing can exclude
	// probe artifacts while one is alive.
	Node() Node

	// Origin returns the probe's resolved absolute position after layout.
	Origin() Point

	// Destroy removes the probe from the tree. Idempotent.
	Destroy()
}

// ProbeHost is an optional Surface capability: materialize a zero-size,
// non-interactive node inside container at the given logical position,
// forcing a layout pass so relative units are resolved by the host
// rather than re-derived. Hosts without it get arithmetic resolution.
type ProbeHost interface {
	CreateProbe(container Node, x, y Unit) (Probe, error)
}

// Positioner is an optional Surface capability: force a statically
// placed container into a positioned mode so an absolute probe resolves
// against it, returning a restore func that reinstates the original
// mode. Hosts whose containers are always positioned can omit it.
type Positioner interface {
	EnsurePositioned(container Node) (restore func())
}

// Notifier is an optional Surface capability supplying the four change
// signals monitoring subscribes to. Each subscription returns a stop
// func; stops must be safe to call exactly once in any order. Hosts
// without a Notifier get the initial evaluation and manual Refresh only.
type Notifier interface {
	// OnMutation fires when root's subtree changes structurally or a
	// visually relevant attribute changes.
	OnMutation(root Node, fn func()) (stop func())

	// OnResize fires when n's rendered size changes.
	OnResize(n Node, fn func()) (stop func())

	// OnScroll fires when n scrolls.
	OnScroll(n Node, fn func()) (stop func())

	// OnViewportResize fires when the viewport changes size.
	OnViewportResize(fn func()) (stop func())
}

// Registry is the injected registration table: which nodes are
// detectable targets and what opaque metadata they carry. The core only
// reads it; registration lifecycle belongs to the host.
type Registry interface {
	// IsRegistered reports whether n is a detectable target.
	IsRegistered(n Node) bool

	// MetadataOf returns the opaque metadata attached at registration,
	// if any. The core never interprets its shape.
	MetadataOf(n Node) (any, bool)

	// KeyOf returns a stable identifier for a registered node, used to
	// fingerprint detection results. Must be stable for the lifetime of
	// the registration.
	KeyOf(n Node) string
}

// contains reports whether n is node or one of node's descendants,
// walking parent links. Nil-safe on both sides.
func contains(container, n Node) bool {
	if container == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur == container {
			return true
		}
	}
	return false
}

// directChildIndex returns the index of the container's direct child
// through which n's ancestor chain passes, or -1 if n is not a strict
// descendant of container.
func directChildIndex(container, n Node) int {
	if container == nil || n == nil || n == container {
		return -1
	}
	child := n
	for child.Parent() != nil && child.Parent() != container {
		child = child.Parent()
	}
	if child.Parent() != container {
		return -1
	}
	for i, c := range container.Children() {
		if c == child {
			return i
		}
	}
	return -1
}
