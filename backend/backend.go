package backend

import (
	"errors"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested surface backend
	// is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Surface name constants.
const (
	// SurfaceImage is the name of the CPU-based image surface.
	SurfaceImage = "image"
	// SurfaceGPU is the name of the GPU-textured surface (gogpu/gpucontext).
	SurfaceGPU = "gpu"
)
