//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/colonwq/fractalpad"
)

func TestPackParams(t *testing.T) {
	req := fractalpad.EvalRequest{
		Region:  fractalpad.RegionAround(-0.5, 0, 3.0, 2.4),
		Width:   240,
		Height:  192,
		MaxIter: 30,
	}
	realStep := req.Region.RealRange() / float64(req.Width)
	imagStep := req.Region.ImagRange() / float64(req.Height)

	buf := packParams(req, realStep, imagStep)
	if len(buf) != paramsSize {
		t.Fatalf("params size = %d, want %d", len(buf), paramsSize)
	}

	if got := binary.LittleEndian.Uint32(buf[0:]); got != 240 {
		t.Errorf("width = %d, want 240", got)
	}
	if got := binary.LittleEndian.Uint32(buf[4:]); got != 192 {
		t.Errorf("height = %d, want 192", got)
	}
	if got := binary.LittleEndian.Uint32(buf[8:]); got != 30 {
		t.Errorf("max_iter = %d, want 30", got)
	}
	if got := binary.LittleEndian.Uint32(buf[12:]); got != 0 {
		t.Errorf("padding = %d, want 0", got)
	}

	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if got := f32(16); got != float32(req.Region.RealMin) {
		t.Errorf("real_min = %g, want %g", got, float32(req.Region.RealMin))
	}
	if got := f32(20); got != float32(req.Region.ImagMax) {
		t.Errorf("imag_max = %g, want %g", got, float32(req.Region.ImagMax))
	}
	if got := f32(24); got != float32(realStep) {
		t.Errorf("real_step = %g, want %g", got, float32(realStep))
	}
	if got := f32(28); got != float32(imagStep) {
		t.Errorf("imag_step = %g, want %g", got, float32(imagStep))
	}
}

func TestUnpackIterations(t *testing.T) {
	packed := make([]byte, 4*4)
	binary.LittleEndian.PutUint32(packed[0:], 0)
	binary.LittleEndian.PutUint32(packed[4:], 17)
	binary.LittleEndian.PutUint32(packed[8:], 30)
	binary.LittleEndian.PutUint32(packed[12:], 4_000_000) // garbage clamps to budget

	dst := make([]uint8, 4)
	unpackIterations(packed, dst, 4, 30)

	want := []uint8{0, 17, 30, 30}
	for i, w := range want {
		if dst[i] != w {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], w)
		}
	}
}

func TestAccelerator_EvaluateNotReady(t *testing.T) {
	// A fresh accelerator that never saw a device must decline so the
	// renderer falls back to the CPU path.
	a := New()
	dst := make([]uint8, 16)
	err := a.Evaluate(fractalpad.EvalRequest{
		Region:  fractalpad.RegionAround(-0.5, 0, 3.0, 3.0),
		Width:   4,
		Height:  4,
		MaxIter: 30,
	}, dst)
	if err != fractalpad.ErrFallbackToCPU {
		t.Errorf("Evaluate on uninitialized accelerator: %v, want ErrFallbackToCPU", err)
	}
}
