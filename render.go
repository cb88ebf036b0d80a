package fractalpad

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Renderer fills an indexed bitmap by evaluating the escape-time function
// once per pixel. The per-pixel evaluations share no mutable state, so
// the fill is split into row strips across a worker pool.
//
// A registered Accelerator is tried first for every fill; any error from
// it falls back to the CPU path, so a partially capable accelerator never
// produces a partial buffer.
type Renderer struct {
	// Workers is the number of parallel row strips. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
}

// NewRenderer creates a renderer using one worker per available CPU.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render fills every pixel of dst with the iteration count of the
// corresponding complex-plane point of region, clamped to the palette
// index range. Iteration count maxIter (inside the set) maps to the
// reserved final palette index.
//
// This is the dominant cost center of the whole system: worst case
// O(width × height × maxIter). Callers defer it as long as possible.
func (r *Renderer) Render(dst *Bitmap, region Region, maxIter int) error {
	if dst == nil {
		return errors.New("fractalpad: render target must not be nil")
	}
	if !region.Valid() {
		return fmt.Errorf("fractalpad: invalid render region %+v", region)
	}
	if maxIter < 1 || maxIter > 255 {
		return fmt.Errorf("fractalpad: max iterations %d outside [1, 255]", maxIter)
	}

	start := time.Now()
	if a := GetAccelerator(); a != nil {
		req := EvalRequest{
			Region:  region,
			Width:   dst.Width(),
			Height:  dst.Height(),
			MaxIter: maxIter,
		}
		err := a.Evaluate(req, dst.Pix())
		if err == nil {
			Logger().Debug("buffer rendered",
				"accelerator", a.Name(),
				"size", fmt.Sprintf("%dx%d", dst.Width(), dst.Height()),
				"elapsed", time.Since(start))
			return nil
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("accelerator failed, using CPU", "name", a.Name(), "err", err)
		}
	}

	r.renderCPU(dst, region, maxIter)
	Logger().Debug("buffer rendered",
		"accelerator", "cpu",
		"size", fmt.Sprintf("%dx%d", dst.Width(), dst.Height()),
		"elapsed", time.Since(start))
	return nil
}

// renderCPU evaluates the buffer on the CPU, one goroutine per row strip.
func (r *Renderer) renderCPU(dst *Bitmap, region Region, maxIter int) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	height := dst.Height()
	if workers > height {
		workers = height
	}

	var wg sync.WaitGroup
	rows := height / workers
	for w := 0; w < workers; w++ {
		y0 := w * rows
		y1 := y0 + rows
		if w == workers-1 {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			renderRows(dst, region, maxIter, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// renderRows fills rows [y0, y1). Each worker owns a disjoint row range,
// so no synchronization is needed on the pixel data.
func renderRows(dst *Bitmap, region Region, maxIter, y0, y1 int) {
	width := dst.Width()
	height := dst.Height()

	for y := y0; y < y1; y++ {
		row := dst.Row(y)
		for x := 0; x < width; x++ {
			cr, ci := region.PlaneAt(x, y, width, height)
			row[x] = uint8(Mandelbrot(cr, ci, maxIter))
		}
	}
}

// RenderBuffer allocates a bitmap of the given dimensions and fills it
// over region with the default renderer. It is a convenience wrapper for
// one-shot rendering; interactive callers reuse a Renderer.
func RenderBuffer(region Region, width, height, maxIter int) (*Bitmap, error) {
	bmp, err := NewBitmap(width, height)
	if err != nil {
		return nil, err
	}
	if err := NewRenderer().Render(bmp, region, maxIter); err != nil {
		return nil, err
	}
	return bmp, nil
}
