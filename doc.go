// Package fractalpad implements a buffered fractal viewport for small
// fixed-resolution displays.
//
// # Overview
//
// fractalpad renders an interactively navigable Mandelbrot view the way a
// memory-constrained handheld does it: the escape-time fractal is computed
// once into an oversized indexed-color buffer, and the visible viewport is
// a window scrolled inside that buffer. Small pan motions are served by
// moving the window (cheap); only zooming, or panning close to the buffer
// edge, forces the expensive full recomputation, re-centered on whatever
// the user is currently looking at.
//
// # Quick Start
//
//	cfg := fractalpad.DefaultConfig(160, 128)
//	vp, err := fractalpad.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Pan right one step; a recompute happens automatically near the edge.
//	res, err := vp.Pan(1, 0)
//
//	// Zoom in on the current view center.
//	res, err = vp.ZoomIn()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Viewport, Region, Bitmap, Palette, Indicator, Loop
//   - Evaluation: Mandelbrot escape-time kernel, parallel Renderer,
//     optional compute Accelerator (gpu/)
//   - Presentation: Surface interface with pluggable backends (backend/)
//   - Input: button events and analog axis samples (input/)
//   - Simulation: Conway's Game of Life companion program (life/)
//
// # Coordinate Spaces
//
// Three coordinate spaces are in play and never conflated:
//   - complex plane: real/imaginary extents held in a Region
//   - buffer pixels: the oversized precomputed Bitmap, row 0 at the
//     maximum-imaginary (top) edge
//   - viewport pixels: the visible crop, positioned by an Offset inside
//     the buffer
//
// # Precision
//
// Coordinates use float64 throughout. Deep zoom is bounded by floating
// point precision; the library does not attempt arbitrary-precision
// arithmetic.
package fractalpad

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
