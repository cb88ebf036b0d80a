// Package backend provides pluggable presentation surfaces.
//
// The backend package lets the viewport loop drive different display
// targets through the fractalpad.Surface interface. The image surface is
// always available; the gpu surface (see backend/gpu) presents through a
// gogpu texture pipeline when a device is available.
//
// # Surface Registration
//
// Surfaces are registered via init() functions and selected at runtime.
// The image surface is automatically registered on import:
//
//	import _ "github.com/colonwq/fractalpad/backend"
//
// # Surface Selection
//
// Use Default() to get the best available surface, or Get() to request
// a specific surface by name:
//
//	// Get the default (best available) surface
//	s := backend.Default()
//
//	// Or request a specific surface
//	s := backend.Get("image")
//
// # Usage with the Loop
//
//	surface, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer surface.Close()
//
//	loop := fractalpad.NewLoop(vp, src, surface)
//
// # Available Surfaces
//
// - "image": CPU frame composition into an in-memory RGBA image (always available)
// - "gpu": texture upload and draw via gogpu/gpucontext (needs a device)
package backend
