package hit

import "math"

// fingerprint is the structural digest of a Result used for suppression.
// Comparable by value, so equality is the digest check. Distance is
// rounded to one decimal before fingerprinting: repeated layout reads
// jitter below that, and without the rounding a notification that itself
// triggers a layout read could loop forever on floating point noise.
type fingerprint struct {
	hasMatch bool
	key      string
	distance float64
}

// stabilizer deduplicates evaluation outcomes so semantically identical
// results do not retrigger downstream notification.
type stabilizer struct {
	registry Registry

	emitted bool
	last    fingerprint
}

func newStabilizer(registry Registry) *stabilizer {
	return &stabilizer{registry: registry}
}

// fingerprintOf computes the digest for a result.
func (s *stabilizer) fingerprintOf(r Result) fingerprint {
	fp := fingerprint{
		hasMatch: r.Matched(),
		distance: math.Round(r.Distance*10) / 10,
	}
	if r.Matched() {
		fp.key = s.registry.KeyOf(r.Node)
	}
	return fp
}

// shouldEmit reports whether r differs from the last emitted result and,
// if so, records it as emitted. A suppressed result updates nothing.
func (s *stabilizer) shouldEmit(r Result) bool {
	fp := s.fingerprintOf(r)
	if s.emitted && fp == s.last {
		return false
	}
	s.emitted = true
	s.last = fp
	return true
}

// reset clears the emitted state, forcing the next result through.
func (s *stabilizer) reset() {
	s.emitted = false
	s.last = fingerprint{}
}
