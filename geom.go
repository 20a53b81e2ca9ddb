// Geometry re-exports from internal/geom. Any changes to the internal
// types must be mirrored here.

package hit

import "github.com/grindlemire/go-hit/internal/geom"

// Point represents an (X, Y) coordinate in continuous viewport space.
type Point = geom.Point

// Size represents a width/height pair.
type Size = geom.Size

// Rect represents a rectangle with position and dimensions in viewport space.
type Rect = geom.Rect

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height float64) Rect {
	return geom.NewRect(x, y, width, height)
}
