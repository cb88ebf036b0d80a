package fractalpad

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this request.
// The caller should transparently fall back to CPU evaluation.
var ErrFallbackToCPU = errors.New("fractalpad: falling back to CPU evaluation")

// EvalRequest describes one full-buffer escape-time evaluation.
type EvalRequest struct {
	// Region is the complex-plane extent covered by the raster.
	Region Region

	// Width, Height are the raster dimensions in pixels.
	Width, Height int

	// MaxIter is the iteration budget per pixel. Results are iteration
	// counts in [0, MaxIter], with MaxIter meaning inside the set.
	MaxIter int
}

// Accelerator is an optional batch evaluation provider.
//
// When registered via RegisterAccelerator, the Renderer tries the
// accelerator first for every buffer fill. If the accelerator returns
// ErrFallbackToCPU or any error, evaluation transparently falls back to
// the CPU worker pool.
//
// Implementations are provided by compute backend packages (gpu/). Users
// opt in via explicit registration:
//
//	accel, err := gpu.New(gpu.Config{Device: dev, Queue: q})
//	if err == nil {
//		fractalpad.RegisterAccelerator(accel)
//	}
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-compute").
	Name() string

	// Init initializes accelerator resources. Called once during
	// registration.
	Init() error

	// Close releases accelerator resources.
	Close()

	// Evaluate fills dst (len Width*Height, row-major) with the palette
	// index for every pixel of the request. Returns ErrFallbackToCPU if
	// the request cannot be accelerated.
	Evaluate(req EvalRequest, dst []uint8) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers an evaluation accelerator.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration; if Init() fails, the accelerator is not registered and
// the error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("fractalpad: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("accelerator registered", "name", a.Name())
	return nil
}

// GetAccelerator returns the currently registered accelerator, or nil.
func GetAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// CloseAccelerator closes and unregisters the current accelerator, if any.
// Call at application shutdown to release compute resources.
func CloseAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}
