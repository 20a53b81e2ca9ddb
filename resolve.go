package hit

// ResolvePosition is the standalone one-shot form of unit resolution:
// convert logical coordinates to an absolute position within container
// without starting a monitoring session.
func ResolvePosition(surface Surface, container Node, x, y Unit) (Point, bool) {
	return NewResolver(surface).ResolvePosition(container, x, y)
}
