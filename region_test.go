package fractalpad

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRegionAround(t *testing.T) {
	r := RegionAround(-0.5, 0, 3.0, 2.4)

	if !r.Valid() {
		t.Fatalf("RegionAround produced invalid region %+v", r)
	}
	if !approxEqual(r.RealMin, -2.0, 1e-12) || !approxEqual(r.RealMax, 1.0, 1e-12) {
		t.Errorf("real extent [%v, %v], want [-2, 1]", r.RealMin, r.RealMax)
	}
	if !approxEqual(r.ImagMin, -1.2, 1e-12) || !approxEqual(r.ImagMax, 1.2, 1e-12) {
		t.Errorf("imag extent [%v, %v], want [-1.2, 1.2]", r.ImagMin, r.ImagMax)
	}

	re, im := r.Center()
	if !approxEqual(re, -0.5, 1e-12) || !approxEqual(im, 0, 1e-12) {
		t.Errorf("Center() = (%v, %v), want (-0.5, 0)", re, im)
	}
}

func TestRegion_Valid(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{"normal", Region{-2, 1, -1.2, 1.2}, true},
		{"tiny but positive", Region{0, 1e-300, 0, 1e-300}, true},
		{"zero real extent", Region{1, 1, 0, 1}, false},
		{"inverted real", Region{1, -1, 0, 1}, false},
		{"zero imag extent", Region{0, 1, 1, 1}, false},
		{"nan bound", Region{math.NaN(), 1, 0, 1}, false},
		{"infinite bound", Region{0, math.Inf(1), 0, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.Valid(); got != tt.want {
				t.Errorf("Valid(%+v) = %v, want %v", tt.region, got, tt.want)
			}
		})
	}
}

func TestRegion_PlaneAtPixelAtRoundTrip(t *testing.T) {
	r := Region{-2, 1, -1.2, 1.2}
	const w, h = 240, 192

	pixels := []struct{ px, py int }{
		{0, 0}, {w - 1, h - 1}, {w / 2, h / 2}, {17, 103}, {239, 0},
	}
	for _, p := range pixels {
		re, im := r.PlaneAt(p.px, p.py, w, h)
		px, py := r.PixelAt(re, im, w, h)
		if px != p.px || py != p.py {
			t.Errorf("round trip (%d,%d) -> (%v,%v) -> (%d,%d)",
				p.px, p.py, re, im, px, py)
		}
	}
}

func TestRegion_PlaneAtOrientation(t *testing.T) {
	r := Region{-2, 1, -1.2, 1.2}

	// Row 0 is the top edge and carries the maximum imaginary value.
	_, imTop := r.PlaneAt(0, 0, 240, 192)
	if !approxEqual(imTop, 1.2, 1e-12) {
		t.Errorf("top row imag = %v, want 1.2", imTop)
	}
	reLeft, _ := r.PlaneAt(0, 0, 240, 192)
	if !approxEqual(reLeft, -2, 1e-12) {
		t.Errorf("left column real = %v, want -2", reLeft)
	}
}

func TestRegion_ViewCenter(t *testing.T) {
	r := Region{-2, 1, -1.2, 1.2}
	const bufW, bufH = 240, 192
	const viewW, viewH = 160, 128

	// A centered view shares the buffer's own center.
	off := Offset{X: (bufW - viewW) / 2, Y: (bufH - viewH) / 2}
	re, im := r.ViewCenter(off, viewW, viewH, bufW, bufH)
	wantRe, wantIm := r.Center()
	if !approxEqual(re, wantRe, 1e-12) || !approxEqual(im, wantIm, 1e-12) {
		t.Errorf("centered ViewCenter = (%v, %v), want (%v, %v)", re, im, wantRe, wantIm)
	}

	// Moving the offset right moves the center right; down moves it down
	// (lower imaginary values).
	re2, im2 := r.ViewCenter(Offset{X: off.X + 10, Y: off.Y + 10}, viewW, viewH, bufW, bufH)
	if re2 <= re {
		t.Errorf("offset right should increase real center: %v <= %v", re2, re)
	}
	if im2 >= im {
		t.Errorf("offset down should decrease imag center: %v >= %v", im2, im)
	}
}

func TestRegion_ViewRegion(t *testing.T) {
	r := Region{-2, 1, -1.2, 1.2}
	const bufW, bufH = 240, 192
	const viewW, viewH = 160, 128

	vr := r.ViewRegion(Offset{X: 40, Y: 32}, viewW, viewH, bufW, bufH)
	if !vr.Valid() {
		t.Fatalf("ViewRegion produced invalid region %+v", vr)
	}

	// The view covers view/buf of the buffer's extent.
	wantReal := r.RealRange() * float64(viewW) / float64(bufW)
	wantImag := r.ImagRange() * float64(viewH) / float64(bufH)
	if !approxEqual(vr.RealRange(), wantReal, 1e-12) {
		t.Errorf("view real range = %v, want %v", vr.RealRange(), wantReal)
	}
	if !approxEqual(vr.ImagRange(), wantImag, 1e-12) {
		t.Errorf("view imag range = %v, want %v", vr.ImagRange(), wantImag)
	}

	// Its center agrees with ViewCenter.
	re, im := vr.Center()
	wantRe, wantIm := r.ViewCenter(Offset{X: 40, Y: 32}, viewW, viewH, bufW, bufH)
	if !approxEqual(re, wantRe, 1e-12) || !approxEqual(im, wantIm, 1e-12) {
		t.Errorf("view region center (%v, %v) disagrees with ViewCenter (%v, %v)",
			re, im, wantRe, wantIm)
	}
}
