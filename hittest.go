package hit

import (
	"github.com/grindlemire/go-hit/internal/debug"
)

// tieEpsilon is the distance delta below which two fallback candidates
// are considered equally far from the target.
const tieEpsilon = 0.1

// Tester finds the best registered descendant of a container at a point.
//
// Two tiers: a native point query against the visual stack (respects real
// stacking order, viewport-bound), then a geometric scan over all
// descendants (universal, stacking-agnostic). The two can disagree on
// overlapping elements; the fallback's later-sibling tie-break only
// approximates paint order.
type Tester struct {
	registry Registry

	// isArtifact filters transient internal nodes (unit-resolution
	// probes) out of both tiers. Nil means no filtering.
	isArtifact func(Node) bool
}

// NewTester creates a Tester that consults registry for target lookup.
func NewTester(registry Registry, opts ...TesterOption) *Tester {
	t := &Tester{registry: registry}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TesterOption configures a Tester.
type TesterOption func(*Tester)

// WithArtifactFilter excludes nodes for which fn returns true from hit
// testing. Used to hide unit-resolution probes.
func WithArtifactFilter(fn func(Node) bool) TesterOption {
	return func(t *Tester) {
		t.isArtifact = fn
	}
}

// Find returns the best-matching registered descendant of container at
// target (absolute viewport coordinates), or nil if nothing qualifies.
func (t *Tester) Find(container Node, target Point, surface Surface) Node {
	n, _, _ := t.FindWithDistance(container, target, surface)
	return n
}

// FindWithDistance is Find plus the match's bounds snapshot and the
// Euclidean distance from target to the match's bounds center. A nil
// match reports zero bounds and zero distance.
func (t *Tester) FindWithDistance(container Node, target Point, surface Surface) (Node, Rect, float64) {
	if container == nil {
		return nil, Rect{}, 0
	}

	// Fast path only applies inside the visible viewport: native point
	// queries cannot see offscreen coordinates.
	vp := surface.Viewport()
	inViewport := target.X >= 0 && target.X <= vp.Width && target.Y >= 0 && target.Y <= vp.Height
	if inViewport {
		if pq, ok := surface.(PointQuerier); ok {
			if n := t.findFromStack(pq, container, target); n != nil {
				bounds := n.Bounds()
				return n, bounds, target.DistanceTo(bounds.Center())
			}
		}
	}

	if n := t.findGeometric(container, target); n != nil {
		bounds := n.Bounds()
		return n, bounds, target.DistanceTo(bounds.Center())
	}
	return nil, Rect{}, 0
}

// findFromStack queries the visual stack at target and walks each hit's
// ancestor chain for the nearest registered, visible node inside
// container. Stack entries belonging to other containers are skipped
// rather than terminating the search.
func (t *Tester) findFromStack(pq PointQuerier, container Node, target Point) Node {
	for _, hitNode := range pq.NodesAt(target) {
		for cur := hitNode; cur != nil; cur = cur.Parent() {
			if t.isArtifact != nil && t.isArtifact(cur) {
				continue
			}
			if cur == container {
				// Only strict descendants qualify; walking higher
				// cannot re-enter the container.
				break
			}
			if !contains(container, cur) {
				// Chain has escaped the container; the rest of it
				// cannot come back inside. Try the next stack entry.
				break
			}
			if t.registry.IsRegistered(cur) && cur.Visible() {
				return cur
			}
		}
	}
	return nil
}

// fallbackCandidate is one surviving descendant in the geometric scan.
type fallbackCandidate struct {
	node       Node
	distance   float64
	childIndex int
}

// findGeometric scans every descendant of container, keeps registered,
// visible ones whose bounds contain target, and ranks them by distance
// from target to bounds center. Near-ties prefer the candidate under the
// later direct child of container, approximating rendered-later-on-top.
func (t *Tester) findGeometric(container Node, target Point) Node {
	var candidates []fallbackCandidate

	t.walkDescendants(container, func(n Node) {
		if !t.registry.IsRegistered(n) || !n.Visible() {
			return
		}
		bounds := n.Bounds()
		if !bounds.ContainsPoint(target) {
			return
		}
		candidates = append(candidates, fallbackCandidate{
			node:       n,
			distance:   target.DistanceTo(bounds.Center()),
			childIndex: directChildIndex(container, n),
		})
	})

	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.distance < best.distance-tieEpsilon:
			best = c
		case c.distance <= best.distance+tieEpsilon && c.childIndex > best.childIndex:
			// Equidistant: later sibling order wins.
			best = c
		}
	}
	debug.Log("geometric fallback matched node (distance=%.2f, childIndex=%d, candidates=%d)",
		best.distance, best.childIndex, len(candidates))
	return best.node
}

// walkDescendants calls fn for every strict descendant of root in
// document order, skipping artifact subtrees.
func (t *Tester) walkDescendants(root Node, fn func(Node)) {
	for _, child := range root.Children() {
		if t.isArtifact != nil && t.isArtifact(child) {
			continue
		}
		fn(child)
		t.walkDescendants(child, fn)
	}
}
