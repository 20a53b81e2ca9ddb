package hit

// Result is the outcome of one evaluation cycle. A Result with no
// matched node is the steady-state "nothing at this point" signal, not
// an error. Results are built fresh each cycle and never mutated; each
// supersedes the previous one wholesale.
type Result struct {
	// Node is a live reference into the host tree, or nil when nothing
	// matched. It may go stale if the host later removes the node.
	Node Node

	// Metadata is the opaque registration metadata of the match, if any.
	Metadata any

	// Bounds is the match's bounds snapshot at match time.
	Bounds Rect

	// Distance is the Euclidean distance from the target point to the
	// match's bounds center. Zero when there is no match.
	Distance float64
}

// Matched reports whether the evaluation found a target.
func (r Result) Matched() bool {
	return r.Node != nil
}
