package hit

import "testing"

func newStabNode(reg *MemRegistry, key string) *MemNode {
	n := NewMemNode(NewRect(0, 0, 10, 10))
	reg.Register(n, key, nil)
	return n
}

func TestStabilizer_SuppressesIdenticalResults(t *testing.T) {
	registry := NewMemRegistry()
	node := newStabNode(registry, "target")
	s := newStabilizer(registry)

	r := Result{Node: node, Distance: 12.34}

	if !s.shouldEmit(r) {
		t.Fatal("first result must emit")
	}
	if s.shouldEmit(r) {
		t.Error("identical consecutive result must be suppressed")
	}
	if s.shouldEmit(r) {
		t.Error("suppression must hold across repeated evaluations")
	}
}

func TestStabilizer_RoundingAbsorbsSubPixelJitter(t *testing.T) {
	registry := NewMemRegistry()
	node := newStabNode(registry, "target")
	s := newStabilizer(registry)

	if !s.shouldEmit(Result{Node: node, Distance: 12.3400001}) {
		t.Fatal("first result must emit")
	}
	// Repeated layout reads wobble below a tenth of a unit; that noise
	// must never re-notify.
	if s.shouldEmit(Result{Node: node, Distance: 12.3399998}) {
		t.Error("sub-pixel jitter retriggered a notification")
	}
	// A real move past the rounding step does notify.
	if !s.shouldEmit(Result{Node: node, Distance: 12.5}) {
		t.Error("genuine distance change was suppressed")
	}
}

func TestStabilizer_DistinguishesMatchIdentity(t *testing.T) {
	registry := NewMemRegistry()
	a := newStabNode(registry, "a")
	b := newStabNode(registry, "b")
	s := newStabilizer(registry)

	if !s.shouldEmit(Result{Node: a, Distance: 5}) {
		t.Fatal("first result must emit")
	}
	if !s.shouldEmit(Result{Node: b, Distance: 5}) {
		t.Error("different matched node must emit despite equal distance")
	}
}

func TestStabilizer_EmptyResultIsAStateToo(t *testing.T) {
	registry := NewMemRegistry()
	node := newStabNode(registry, "target")
	s := newStabilizer(registry)

	if !s.shouldEmit(Result{}) {
		t.Fatal("initial empty result must emit")
	}
	if s.shouldEmit(Result{}) {
		t.Error("repeated empty result must be suppressed")
	}
	if !s.shouldEmit(Result{Node: node, Distance: 1}) {
		t.Error("transition empty -> match must emit")
	}
	if !s.shouldEmit(Result{}) {
		t.Error("transition match -> empty must emit")
	}
}

func TestStabilizer_ResetForcesNextEmit(t *testing.T) {
	registry := NewMemRegistry()
	node := newStabNode(registry, "target")
	s := newStabilizer(registry)

	r := Result{Node: node, Distance: 3}
	if !s.shouldEmit(r) {
		t.Fatal("first result must emit")
	}
	s.reset()
	if !s.shouldEmit(r) {
		t.Error("reset must let the unchanged result through once")
	}
}
