// Package geom provides float64 geometry primitives for hit detection.
//
// Coordinates are continuous viewport units rather than discrete cells:
// hosts report fractional positions and distance ranking needs sub-unit
// precision. Types are consumed through the root hit package.
package geom
