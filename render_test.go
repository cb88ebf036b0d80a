package fractalpad

import (
	"errors"
	"testing"
)

func testRegion() Region {
	return RegionAround(-0.5, 0, 4.5, 3.6)
}

func TestRenderer_RenderMatchesDirectEvaluation(t *testing.T) {
	const w, h, maxIter = 48, 36, 30
	bmp, err := NewBitmap(w, h)
	if err != nil {
		t.Fatal(err)
	}
	region := testRegion()

	if err := NewRenderer().Render(bmp, region, maxIter); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			re, im := region.PlaneAt(x, y, w, h)
			want := uint8(Mandelbrot(re, im, maxIter))
			if got := bmp.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestRenderer_WorkerCountsAgree(t *testing.T) {
	const w, h, maxIter = 40, 33, 20
	region := testRegion()

	reference, err := NewBitmap(w, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := (&Renderer{Workers: 1}).Render(reference, region, maxIter); err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 3, 7, 64} {
		bmp, err := NewBitmap(w, h)
		if err != nil {
			t.Fatal(err)
		}
		if err := (&Renderer{Workers: workers}).Render(bmp, region, maxIter); err != nil {
			t.Fatal(err)
		}
		for i, v := range bmp.Pix() {
			if v != reference.Pix()[i] {
				t.Fatalf("workers=%d: pixel %d = %d, want %d", workers, i, v, reference.Pix()[i])
			}
		}
	}
}

func TestRenderer_Validation(t *testing.T) {
	bmp, err := NewBitmap(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer()

	if err := r.Render(nil, testRegion(), 30); err == nil {
		t.Error("nil target accepted")
	}
	if err := r.Render(bmp, Region{1, 1, 0, 1}, 30); err == nil {
		t.Error("degenerate region accepted")
	}
	if err := r.Render(bmp, testRegion(), 0); err == nil {
		t.Error("zero iteration budget accepted")
	}
	if err := r.Render(bmp, testRegion(), 256); err == nil {
		t.Error("iteration budget past index range accepted")
	}
}

// fakeAccelerator fills every pixel with a constant or declines.
type fakeAccelerator struct {
	fill    uint8
	initErr error
	evalErr error
	calls   int
}

func (f *fakeAccelerator) Name() string { return "fake" }
func (f *fakeAccelerator) Init() error  { return f.initErr }
func (f *fakeAccelerator) Close()       {}

func (f *fakeAccelerator) Evaluate(req EvalRequest, dst []uint8) error {
	f.calls++
	if f.evalErr != nil {
		return f.evalErr
	}
	for i := range dst[:req.Width*req.Height] {
		dst[i] = f.fill
	}
	return nil
}

func TestRegisterAccelerator(t *testing.T) {
	t.Cleanup(CloseAccelerator)

	if err := RegisterAccelerator(nil); err == nil {
		t.Error("nil accelerator accepted")
	}
	if err := RegisterAccelerator(&fakeAccelerator{initErr: errors.New("no device")}); err == nil {
		t.Error("failing Init accepted")
	}
	if GetAccelerator() != nil {
		t.Fatal("failed registration left an accelerator installed")
	}

	fake := &fakeAccelerator{fill: 7}
	if err := RegisterAccelerator(fake); err != nil {
		t.Fatal(err)
	}
	if GetAccelerator() != Accelerator(fake) {
		t.Fatal("registered accelerator not returned")
	}

	CloseAccelerator()
	if GetAccelerator() != nil {
		t.Fatal("CloseAccelerator left an accelerator installed")
	}
}

func TestRenderer_UsesAccelerator(t *testing.T) {
	t.Cleanup(CloseAccelerator)

	fake := &fakeAccelerator{fill: 9}
	if err := RegisterAccelerator(fake); err != nil {
		t.Fatal(err)
	}

	bmp, err := NewBitmap(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewRenderer().Render(bmp, testRegion(), 30); err != nil {
		t.Fatal(err)
	}
	if fake.calls != 1 {
		t.Errorf("accelerator called %d times, want 1", fake.calls)
	}
	for _, v := range bmp.Pix() {
		if v != 9 {
			t.Fatal("accelerator result not used")
		}
	}
}

func TestRenderer_FallsBackToCPU(t *testing.T) {
	t.Cleanup(CloseAccelerator)

	for _, evalErr := range []error{ErrFallbackToCPU, errors.New("dispatch failed")} {
		fake := &fakeAccelerator{evalErr: evalErr}
		if err := RegisterAccelerator(fake); err != nil {
			t.Fatal(err)
		}

		const w, h, maxIter = 16, 16, 20
		bmp, err := NewBitmap(w, h)
		if err != nil {
			t.Fatal(err)
		}
		region := testRegion()
		if err := NewRenderer().Render(bmp, region, maxIter); err != nil {
			t.Fatalf("fallback render failed: %v", err)
		}

		re, im := region.PlaneAt(w/2, h/2, w, h)
		want := uint8(Mandelbrot(re, im, maxIter))
		if got := bmp.At(w/2, h/2); got != want {
			t.Errorf("fallback pixel = %d, want CPU result %d", got, want)
		}
	}
}

func BenchmarkRenderer_Buffer240x192(b *testing.B) {
	bmp, err := NewBitmap(240, 192)
	if err != nil {
		b.Fatal(err)
	}
	r := NewRenderer()
	region := testRegion()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Render(bmp, region, 30); err != nil {
			b.Fatal(err)
		}
	}
}
