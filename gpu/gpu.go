//go:build !nogpu

// Package gpu registers a wgpu compute accelerator for escape-time
// evaluation.
//
// Import this package to evaluate buffers on the GPU, one compute
// invocation per pixel. If GPU initialization fails (no Vulkan
// available), the registration is silently skipped and evaluation falls
// back to the CPU worker pool.
//
// Usage:
//
//	import _ "github.com/colonwq/fractalpad/gpu" // enable GPU evaluation
//
// The shader works in f32; once the per-pixel step drops below what f32
// can resolve the accelerator declines the request and deep zooms stay
// on the CPU's f64 path.
package gpu

import (
	"github.com/colonwq/fractalpad"
)

func init() {
	if err := fractalpad.RegisterAccelerator(New()); err != nil {
		fractalpad.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a
// separate GPU instance and enables efficient device sharing with a
// presentation surface.
//
// The provider must expose HalDevice() and HalQueue() returning the HAL
// device and queue, as gogpu's gpucontext.HalProvider does.
func SetDeviceProvider(provider any) error {
	a, ok := fractalpad.GetAccelerator().(*Accelerator)
	if !ok {
		return ErrNotRegistered
	}
	return a.SetDeviceProvider(provider)
}
