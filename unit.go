package hit

import (
	"strconv"
	"strings"
)

// UnitKind specifies how a Unit's amount is interpreted.
type UnitKind uint8

const (
	// KindAbs is an absolute distance in host units.
	KindAbs UnitKind = iota
	// KindPercent is a percentage of the container's size on that axis (0-100 scale).
	KindPercent
	// KindVW is a percentage of the viewport width.
	KindVW
	// KindVH is a percentage of the viewport height.
	KindVH
	// KindRem is a multiple of the root font size.
	KindRem
	// KindEm is a multiple of the container's font size.
	KindEm
)

// Unit represents one logical coordinate: an absolute distance or a
// value relative to the container, viewport, or font size.
type Unit struct {
	Amount float64
	Kind   UnitKind
}

// Abs returns an absolute-distance Unit.
func Abs(n float64) Unit {
	return Unit{Amount: n, Kind: KindAbs}
}

// Pct returns a Unit representing a percentage of the container's size.
// The value is on a 0-100 scale (50.0 = 50%).
func Pct(p float64) Unit {
	return Unit{Amount: p, Kind: KindPercent}
}

// VW returns a Unit representing a percentage of the viewport width.
func VW(p float64) Unit {
	return Unit{Amount: p, Kind: KindVW}
}

// VH returns a Unit representing a percentage of the viewport height.
func VH(p float64) Unit {
	return Unit{Amount: p, Kind: KindVH}
}

// Rem returns a Unit in multiples of the root font size.
func Rem(n float64) Unit {
	return Unit{Amount: n, Kind: KindRem}
}

// Em returns a Unit in multiples of the container's font size.
func Em(n float64) Unit {
	return Unit{Amount: n, Kind: KindEm}
}

// IsAbs returns true if the unit is an absolute distance.
func (u Unit) IsAbs() bool {
	return u.Kind == KindAbs
}

// suffixes ordered longest-first so "rem" wins over "em".
var unitSuffixes = []struct {
	text string
	kind UnitKind
}{
	{"rem", KindRem},
	{"em", KindEm},
	{"vw", KindVW},
	{"vh", KindVH},
	{"px", KindAbs},
	{"%", KindPercent},
}

// Parse converts a coordinate string into a Unit. Parsing is best-effort
// and never fails: a bare number is absolute, an unknown suffix degrades
// to a numeric prefix read, and a fully unparseable string is Abs(0).
// Detection must keep running with a deterministic value rather than
// abort the cycle on bad input.
func Parse(s string) Unit {
	s = strings.TrimSpace(s)
	for _, suf := range unitSuffixes {
		if rest, ok := strings.CutSuffix(s, suf.text); ok {
			return Unit{Amount: bestEffortFloat(rest), Kind: suf.kind}
		}
	}
	return Abs(bestEffortFloat(s))
}

// bestEffortFloat reads the longest numeric prefix of s, returning 0 if
// there is none.
func bestEffortFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// Offset is a logical coordinate pair, re-resolved on every evaluation.
type Offset struct {
	X, Y Unit
}

// metrics holds the reference values needed to resolve relative units
// without delegating to a host layout engine.
type metrics struct {
	containerWidth  float64
	containerHeight float64
	viewportWidth   float64
	viewportHeight  float64
	rootFontSize    float64
	fontSize        float64
}

// resolve converts the unit to an absolute distance along one axis.
// axisContainer and axisViewport are the container/viewport extents for
// the axis being resolved; percent units use the container, vw/vh always
// use their own viewport axis.
func (u Unit) resolve(m metrics, horizontal bool) float64 {
	switch u.Kind {
	case KindAbs:
		return u.Amount
	case KindPercent:
		if horizontal {
			return m.containerWidth * u.Amount / 100
		}
		return m.containerHeight * u.Amount / 100
	case KindVW:
		return m.viewportWidth * u.Amount / 100
	case KindVH:
		return m.viewportHeight * u.Amount / 100
	case KindRem:
		return m.rootFontSize * u.Amount
	case KindEm:
		return m.fontSize * u.Amount
	default:
		return u.Amount
	}
}
