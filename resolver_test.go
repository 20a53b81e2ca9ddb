package hit

import (
	"math"
	"testing"
)

// plainSurface exposes only the required Surface methods, hiding the
// MemSurface's optional capabilities.
type plainSurface struct {
	inner *MemSurface
}

func (s plainSurface) Viewport() Size          { return s.inner.Viewport() }
func (s plainSurface) Attached(n Node) bool    { return s.inner.Attached(n) }
func (s plainSurface) ScrollRoot() Node        { return s.inner.ScrollRoot() }
func (s plainSurface) RootFontSize() float64   { return s.inner.RootFontSize() }
func (s plainSurface) FontSize(n Node) float64 { return s.inner.FontSize(n) }

func newTestContainer(surface *MemSurface, bounds Rect) *MemNode {
	container := NewMemNode(bounds)
	surface.Root().AddChild(container)
	return container
}

func TestResolver_AbsoluteFastPath(t *testing.T) {
	surface := NewMemSurface(Size{Width: 1000, Height: 800})
	container := newTestContainer(surface, NewRect(10, 10, 400, 300))

	r := NewResolver(surface)
	got, ok := r.ResolvePosition(container, Abs(25), Abs(75))
	if !ok {
		t.Fatal("ResolvePosition returned false for a bound container")
	}
	if got != (Point{X: 25, Y: 75}) {
		t.Errorf("ResolvePosition = %+v, want {25 75}", got)
	}

	// Absolute inputs never materialize a probe.
	if len(container.Children()) != 0 {
		t.Errorf("absolute path created %d children, want 0", len(container.Children()))
	}
}

func TestResolver_NilContainer(t *testing.T) {
	surface := NewMemSurface(Size{Width: 100, Height: 100})
	r := NewResolver(surface)

	if _, ok := r.ResolvePosition(nil, Pct(50), Pct(50)); ok {
		t.Error("ResolvePosition(nil, ...) should return false")
	}
}

// Scenario: "50%"/"50%" on a 400x300 container resolves to (200, 150).
func TestResolver_PercentViaProbe(t *testing.T) {
	surface := NewMemSurface(Size{Width: 1000, Height: 800})
	container := newTestContainer(surface, NewRect(20, 40, 400, 300))

	r := NewResolver(surface)
	got, ok := r.ResolvePosition(container, Parse("50%"), Parse("50%"))
	if !ok {
		t.Fatal("ResolvePosition returned false")
	}
	if math.Abs(got.X-200) > 0.5 || math.Abs(got.Y-150) > 0.5 {
		t.Errorf("ResolvePosition = %+v, want (200, 150)", got)
	}
}

func TestResolver_Idempotent_NoResidualProbe(t *testing.T) {
	surface := NewMemSurface(Size{Width: 1000, Height: 800})
	container := newTestContainer(surface, NewRect(0, 0, 200, 100))

	r := NewResolver(surface)
	first, ok1 := r.ResolvePosition(container, Pct(25), VH(10))
	second, ok2 := r.ResolvePosition(container, Pct(25), VH(10))

	if !ok1 || !ok2 {
		t.Fatal("ResolvePosition returned false")
	}
	if first != second {
		t.Errorf("resolution not idempotent: %+v then %+v", first, second)
	}
	if len(container.Children()) != 0 {
		t.Errorf("%d residual probe nodes left in tree, want 0", len(container.Children()))
	}
}

func TestResolver_RestoresPositioningMode(t *testing.T) {
	surface := NewMemSurface(Size{Width: 1000, Height: 800})
	container := newTestContainer(surface, NewRect(50, 50, 200, 200))
	if container.positioned {
		t.Fatal("test container should start unpositioned")
	}

	r := NewResolver(surface)
	got, ok := r.ResolvePosition(container, Pct(50), Pct(50))
	if !ok {
		t.Fatal("ResolvePosition returned false")
	}

	// Probe placement anchors to the container only because the
	// resolver forced it into positioned mode for the probe's lifetime.
	if got != (Point{X: 100, Y: 100}) {
		t.Errorf("ResolvePosition = %+v, want {100 100}", got)
	}
	if container.positioned {
		t.Error("container positioning mode was not restored")
	}
}

func TestResolver_ArithmeticFallbackWithoutProbeHost(t *testing.T) {
	mem := NewMemSurface(Size{Width: 1000, Height: 500})
	container := newTestContainer(mem, NewRect(0, 0, 400, 300))
	mem.SetRootFontSize(16)
	container.SetFontSize(20)

	r := NewResolver(plainSurface{inner: mem})

	tests := []struct {
		name string
		x, y Unit
		want Point
	}{
		{"percent", Pct(50), Pct(50), Point{X: 200, Y: 150}},
		{"viewport units", VW(10), VH(10), Point{X: 100, Y: 50}},
		{"font units", Rem(2), Em(2), Point{X: 32, Y: 40}},
		{"mixed", Abs(10), Pct(100), Point{X: 10, Y: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.ResolvePosition(container, tt.x, tt.y)
			if !ok {
				t.Fatal("ResolvePosition returned false")
			}
			if got != tt.want {
				t.Errorf("ResolvePosition = %+v, want %+v", got, tt.want)
			}
		})
	}
}
