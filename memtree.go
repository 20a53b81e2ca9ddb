package hit

import (
	"fmt"
	"sync"
)

// MemNode is an in-memory Node implementation backing MemSurface. It is
// used by this package's own tests and is exported as a test double for
// consumers wiring up detection without a real host.
type MemNode struct {
	surface *MemSurface

	parent   *MemNode
	children []*MemNode

	bounds     Rect
	hidden     bool
	scrollable bool
	scroll     Point

	// z lifts a node above its paint-order position in point queries,
	// letting tests make the fast path and the fallback disagree.
	z int

	fontSize   float64
	positioned bool
	probe      bool
}

// Ensure MemNode implements Node.
var _ Node = (*MemNode)(nil)

// NewMemNode creates a detached node with the given bounds.
func NewMemNode(bounds Rect) *MemNode {
	return &MemNode{bounds: bounds}
}

// Parent returns the parent node, or nil at the root.
func (n *MemNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children returns the child nodes in document order.
func (n *MemNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Bounds returns the node's border box in viewport coordinates.
func (n *MemNode) Bounds() Rect {
	return n.bounds
}

// Visible reports whether the node renders: not hidden, positive area,
// and intersecting the viewport when attached to a surface.
func (n *MemNode) Visible() bool {
	if n.hidden || n.bounds.Empty() {
		return false
	}
	if n.surface == nil {
		return true
	}
	vp := n.surface.Viewport()
	return n.bounds.Intersects(NewRect(0, 0, vp.Width, vp.Height))
}

// Scrollable reports whether the node scrolls its content.
func (n *MemNode) Scrollable() bool {
	return n.scrollable
}

// ScrollOffset returns the current scroll position.
func (n *MemNode) ScrollOffset() Point {
	return n.scroll
}

// AddChild appends children and notifies mutation observers up the tree.
func (n *MemNode) AddChild(children ...*MemNode) {
	for _, child := range children {
		child.parent = n
		child.setSurfaceRecursive(n.surface)
		n.children = append(n.children, child)
	}
	if n.surface != nil {
		n.surface.notifyMutation(n)
	}
}

// RemoveChild removes a child, preserving sibling order. Returns true if
// the child was found.
func (n *MemNode) RemoveChild(child *MemNode) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.setSurfaceRecursive(nil)
			if n.surface != nil {
				n.surface.notifyMutation(n)
			}
			return true
		}
	}
	return false
}

// SetBounds moves or resizes the node and notifies resize observers.
func (n *MemNode) SetBounds(bounds Rect) {
	n.bounds = bounds
	if n.surface != nil {
		n.surface.notifyResize(n)
	}
}

// SetHidden toggles visibility and notifies mutation observers, the way
// a host reports an attribute change.
func (n *MemNode) SetHidden(hidden bool) {
	n.hidden = hidden
	if n.surface != nil {
		n.surface.notifyMutation(n)
	}
}

// SetScrollable marks the node as owning scrollable overflow.
func (n *MemNode) SetScrollable(scrollable bool) {
	n.scrollable = scrollable
}

// SetScroll updates the scroll position and notifies scroll observers.
func (n *MemNode) SetScroll(p Point) {
	n.scroll = p
	if n.surface != nil {
		n.surface.notifyScroll(n)
	}
}

// SetZ lifts the node in point-query stacking without changing sibling
// order.
func (n *MemNode) SetZ(z int) {
	n.z = z
}

// SetFontSize sets the node's effective font size for em resolution.
func (n *MemNode) SetFontSize(size float64) {
	n.fontSize = size
}

// SetPositioned marks the node as a positioned ancestor for absolute
// probe placement.
func (n *MemNode) SetPositioned(positioned bool) {
	n.positioned = positioned
}

func (n *MemNode) setSurfaceRecursive(s *MemSurface) {
	n.surface = s
	for _, c := range n.children {
		c.setSurfaceRecursive(s)
	}
}

// MemSurface is an in-memory Surface implementing every optional
// capability: point queries, layout probes with positioned-ancestor
// semantics, positioning overrides, and change notification fan-out.
type MemSurface struct {
	root         *MemNode
	viewport     Size
	rootFontSize float64
	scrollRoot   *MemNode

	mu           sync.Mutex
	nextSubID    int
	mutationSubs map[int]nodeSub
	resizeSubs   map[int]nodeSub
	scrollSubs   map[int]nodeSub
	viewportSubs map[int]func()
}

type nodeSub struct {
	node *MemNode
	fn   func()
}

// Ensure MemSurface implements the full capability set.
var (
	_ Surface      = (*MemSurface)(nil)
	_ PointQuerier = (*MemSurface)(nil)
	_ ProbeHost    = (*MemSurface)(nil)
	_ Positioner   = (*MemSurface)(nil)
	_ Notifier     = (*MemSurface)(nil)
)

// NewMemSurface creates a surface with the given viewport whose root
// node spans the viewport and acts as the global scrolling element.
func NewMemSurface(viewport Size) *MemSurface {
	s := &MemSurface{
		viewport:     viewport,
		rootFontSize: 16,
		mutationSubs: make(map[int]nodeSub),
		resizeSubs:   make(map[int]nodeSub),
		scrollSubs:   make(map[int]nodeSub),
		viewportSubs: make(map[int]func()),
	}
	s.root = NewMemNode(NewRect(0, 0, viewport.Width, viewport.Height))
	s.root.scrollable = true
	s.root.positioned = true
	s.root.surface = s
	s.scrollRoot = s.root
	return s
}

// Root returns the surface's root node.
func (s *MemSurface) Root() *MemNode {
	return s.root
}

// Viewport returns the visible viewport size.
func (s *MemSurface) Viewport() Size {
	return s.viewport
}

// SetViewport resizes the viewport and notifies viewport observers.
func (s *MemSurface) SetViewport(size Size) {
	s.viewport = size

	s.mu.Lock()
	fns := make([]func(), 0, len(s.viewportSubs))
	for _, fn := range s.viewportSubs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Attached reports whether n is reachable from the root.
func (s *MemSurface) Attached(n Node) bool {
	return contains(s.root, n)
}

// ScrollRoot returns the global scrolling element.
func (s *MemSurface) ScrollRoot() Node {
	if s.scrollRoot == nil {
		return nil
	}
	return s.scrollRoot
}

// RootFontSize returns the root font size.
func (s *MemSurface) RootFontSize() float64 {
	return s.rootFontSize
}

// SetRootFontSize sets the root font size used for rem resolution.
func (s *MemSurface) SetRootFontSize(size float64) {
	s.rootFontSize = size
}

// FontSize returns n's effective font size, inheriting up the tree and
// defaulting to the root font size.
func (s *MemSurface) FontSize(n Node) float64 {
	for cur := n; cur != nil; cur = cur.Parent() {
		if mn, ok := cur.(*MemNode); ok && mn.fontSize > 0 {
			return mn.fontSize
		}
	}
	return s.rootFontSize
}

// NodesAt returns every visible node rendered at p, topmost first.
// Stacking is paint order (document order, later siblings on top) lifted
// by explicit Z values, mirroring how a host's native point query
// respects real stacking context.
func (s *MemSurface) NodesAt(p Point) []Node {
	type stacked struct {
		node  *MemNode
		z     int
		paint int
	}
	var hits []stacked
	paint := 0
	var visit func(n *MemNode)
	visit = func(n *MemNode) {
		if n.probe {
			return // probe artifacts never participate in point queries
		}
		paint++
		if n.Visible() && n.bounds.ContainsPoint(p) {
			hits = append(hits, stacked{node: n, z: n.z, paint: paint})
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	if s.root != nil {
		visit(s.root)
	}

	// Topmost first: higher z wins, then later paint order.
	out := make([]Node, 0, len(hits))
	for len(hits) > 0 {
		best := 0
		for i, h := range hits[1:] {
			if h.z > hits[best].z || (h.z == hits[best].z && h.paint > hits[best].paint) {
				best = i + 1
			}
		}
		out = append(out, hits[best].node)
		hits = append(hits[:best], hits[best+1:]...)
	}
	return out
}

// memProbe is the transient probe node MemSurface materializes for unit
// resolution.
type memProbe struct {
	node   *MemNode
	origin Point
}

func (p *memProbe) Node() Node {
	return p.node
}

func (p *memProbe) Origin() Point {
	return p.origin
}

func (p *memProbe) Destroy() {
	if p.node == nil || p.node.parent == nil {
		return
	}
	parent := p.node.parent
	for i, c := range parent.children {
		if c == p.node {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	p.node.parent = nil
	p.node.surface = nil
}

// CreateProbe materializes a zero-size hidden node inside container at
// the logical position (x, y), resolved the way the surface's layout
// engine would: absolutely, against the nearest positioned ancestor.
func (s *MemSurface) CreateProbe(container Node, x, y Unit) (Probe, error) {
	mc, ok := container.(*MemNode)
	if !ok {
		return nil, fmt.Errorf("container is not a MemNode")
	}

	// Absolute placement anchors to the nearest positioned ancestor,
	// falling back to the root. An unpositioned container therefore
	// yields an origin the caller did not intend, which is why the
	// resolver wraps probing in EnsurePositioned.
	anchor := s.root
	for cur := mc; cur != nil; cur = cur.parent {
		if cur.positioned {
			anchor = cur
			break
		}
	}

	m := metrics{
		containerWidth:  anchor.bounds.Width,
		containerHeight: anchor.bounds.Height,
		viewportWidth:   s.viewport.Width,
		viewportHeight:  s.viewport.Height,
		rootFontSize:    s.rootFontSize,
		fontSize:        s.FontSize(mc),
	}
	origin := anchor.bounds.Min().Add(Point{X: x.resolve(m, true), Y: y.resolve(m, false)})

	// Inserted directly, not via AddChild: probe churn must never feed
	// the mutation observers.
	probeNode := NewMemNode(NewRect(origin.X, origin.Y, 0, 0))
	probeNode.hidden = true
	probeNode.probe = true
	probeNode.parent = mc
	probeNode.surface = s
	mc.children = append(mc.children, probeNode)

	return &memProbe{node: probeNode, origin: origin}, nil
}

// EnsurePositioned forces container into positioned mode for the
// duration of a probe, restoring its original mode afterward.
func (s *MemSurface) EnsurePositioned(container Node) (restore func()) {
	mc, ok := container.(*MemNode)
	if !ok || mc.positioned {
		return nil
	}
	mc.positioned = true
	return func() {
		mc.positioned = false
	}
}

// OnMutation subscribes to structural and attribute changes under root.
func (s *MemSurface) OnMutation(root Node, fn func()) (stop func()) {
	return s.subscribe(s.mutationSubs, root, fn)
}

// OnResize subscribes to size changes of n.
func (s *MemSurface) OnResize(n Node, fn func()) (stop func()) {
	return s.subscribe(s.resizeSubs, n, fn)
}

// OnScroll subscribes to scroll changes of n.
func (s *MemSurface) OnScroll(n Node, fn func()) (stop func()) {
	return s.subscribe(s.scrollSubs, n, fn)
}

// OnViewportResize subscribes to viewport size changes.
func (s *MemSurface) OnViewportResize(fn func()) (stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.viewportSubs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.viewportSubs, id)
	}
}

func (s *MemSurface) subscribe(subs map[int]nodeSub, n Node, fn func()) (stop func()) {
	mn, ok := n.(*MemNode)
	if !ok {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	subs[id] = nodeSub{node: mn, fn: fn}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(subs, id)
	}
}

// notifyMutation fires mutation subscribers whose subtree contains n.
func (s *MemSurface) notifyMutation(n *MemNode) {
	s.fanOut(s.mutationSubs, func(sub nodeSub) bool {
		return contains(sub.node, n)
	})
}

// notifyResize fires resize subscribers watching exactly n.
func (s *MemSurface) notifyResize(n *MemNode) {
	s.fanOut(s.resizeSubs, func(sub nodeSub) bool {
		return sub.node == n
	})
}

// notifyScroll fires scroll subscribers watching exactly n.
func (s *MemSurface) notifyScroll(n *MemNode) {
	s.fanOut(s.scrollSubs, func(sub nodeSub) bool {
		return sub.node == n
	})
}

func (s *MemSurface) fanOut(subs map[int]nodeSub, match func(nodeSub) bool) {
	s.mu.Lock()
	fns := make([]func(), 0, len(subs))
	for _, sub := range subs {
		if match(sub) {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// MemRegistry is an in-memory Registry: an explicit registration table
// mapping nodes to stable keys and opaque metadata.
type MemRegistry struct {
	mu      sync.RWMutex
	entries map[Node]regEntry
}

type regEntry struct {
	key  string
	meta any
}

// Ensure MemRegistry implements Registry.
var _ Registry = (*MemRegistry)(nil)

// NewMemRegistry creates an empty registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{entries: make(map[Node]regEntry)}
}

// Register marks n as a detectable target with a stable key and
// optional opaque metadata.
func (r *MemRegistry) Register(n Node, key string, meta any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[n] = regEntry{key: key, meta: meta}
}

// Unregister removes n from the table.
func (r *MemRegistry) Unregister(n Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, n)
}

// IsRegistered reports whether n is a detectable target.
func (r *MemRegistry) IsRegistered(n Node) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[n]
	return ok
}

// MetadataOf returns n's registration metadata, if any.
func (r *MemRegistry) MetadataOf(n Node) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[n]
	if !ok || e.meta == nil {
		return nil, false
	}
	return e.meta, true
}

// KeyOf returns n's stable registration key, or "" if unregistered.
func (r *MemRegistry) KeyOf(n Node) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[n].key
}
