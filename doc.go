// Package hit resolves which registered element of a live visual tree
// occupies a given logical coordinate, and keeps that answer current as
// layout, scroll position, and viewport size change.
//
// Hosts integrate by implementing the Node, Surface, and Registry
// interfaces; optional capabilities (native point queries, layout-engine
// probes, change notification) are picked up automatically when the
// surface provides them. StartMonitoring runs the continuous detection
// loop; Resolver offers one-shot logical-to-absolute coordinate
// conversion.
package hit
