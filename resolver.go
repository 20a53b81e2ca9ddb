package hit

import (
	"github.com/grindlemire/go-hit/internal/debug"
)

// Resolver converts logical offsets into absolute positions within a
// container. When the surface implements ProbeHost, resolution is
// delegated to the host layout engine through a transient probe node;
// otherwise units are resolved arithmetically against the container,
// viewport, and font metrics.
//
// A Resolver keeps at most one probe alive at a time: each resolution
// destroys the previous probe before creating its own, and always
// destroys its own before returning.
type Resolver struct {
	surface Surface

	// Live probe, if any. Tracked so hit testing can skip the artifact
	// should a host ever report it from a point query mid-resolution.
	probe Probe
}

// NewResolver creates a Resolver bound to the given surface.
func NewResolver(surface Surface) *Resolver {
	return &Resolver{surface: surface}
}

// ResolvePosition converts the logical coordinates (x, y) into an
// absolute position relative to container's origin. Returns false only
// when no container is bound; unit ambiguity never fails (see Parse).
//
// Resolution is a pure function of the offset and the container's
// current layout: identical inputs against unchanged layout yield
// identical output, and no probe node remains in the tree afterward.
func (r *Resolver) ResolvePosition(container Node, x, y Unit) (Point, bool) {
	if container == nil {
		return Point{}, false
	}

	// Zero-cost path: nothing to resolve.
	if x.IsAbs() && y.IsAbs() {
		return Point{X: x.Amount, Y: y.Amount}, true
	}

	if ph, ok := r.surface.(ProbeHost); ok {
		if p, ok := r.resolveViaProbe(ph, container, x, y); ok {
			return p, true
		}
		// Probe failed; fall through to arithmetic resolution.
	}

	return r.resolveArithmetic(container, x, y), true
}

// resolveViaProbe materializes an invisible probe at (x, y) inside
// container and reads back the host-computed position. The probe is
// destroyed before returning, success or failure.
func (r *Resolver) resolveViaProbe(ph ProbeHost, container Node, x, y Unit) (Point, bool) {
	// Last-writer-wins: never two probes at once.
	r.destroyProbe()

	if pos, ok := r.surface.(Positioner); ok {
		restore := pos.EnsurePositioned(container)
		if restore != nil {
			defer restore()
		}
	}

	probe, err := ph.CreateProbe(container, x, y)
	if err != nil || probe == nil {
		debug.Log("probe creation failed: %v", err)
		return Point{}, false
	}
	r.probe = probe
	defer r.destroyProbe()

	origin := container.Bounds().Min()
	return probe.Origin().Sub(origin), true
}

// resolveArithmetic re-derives unit math directly, for hosts without a
// layout engine to delegate to.
func (r *Resolver) resolveArithmetic(container Node, x, y Unit) Point {
	bounds := container.Bounds()
	vp := r.surface.Viewport()
	m := metrics{
		containerWidth:  bounds.Width,
		containerHeight: bounds.Height,
		viewportWidth:   vp.Width,
		viewportHeight:  vp.Height,
		rootFontSize:    r.surface.RootFontSize(),
		fontSize:        r.surface.FontSize(container),
	}
	return Point{X: x.resolve(m, true), Y: y.resolve(m, false)}
}

// isArtifact reports whether n is the resolver's live probe node.
func (r *Resolver) isArtifact(n Node) bool {
	return r.probe != nil && r.probe.Node() == n
}

func (r *Resolver) destroyProbe() {
	if r.probe != nil {
		r.probe.Destroy()
		r.probe = nil
	}
}
