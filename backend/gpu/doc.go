// Package gpu presents viewport frames through a gogpu texture pipeline.
//
// The surface uploads the full oversized buffer as a single texture and
// draws it at the negated view offset, so panning costs one draw call and
// no texture traffic. The indicator overlay and the status line are small
// separate textures composited on top.
//
// # Wiring
//
// The surface needs a device provider and a texture drawer from a running
// gogpu application:
//
//	surface, err := gpu.New(gpu.Config{
//		Provider:   app.GPUContextProvider(),
//		Drawer:     dc.AsTextureDrawer(),
//		ViewWidth:  160,
//		ViewHeight: 128,
//	})
//
// Because that plumbing only exists after the window is up, the surface
// cannot self-register in init(); call RegisterWith once the application
// is running to make it the registry default.
package gpu
