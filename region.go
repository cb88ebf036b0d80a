package fractalpad

import "math"

// Region is a rectangular extent of the complex plane mapped onto a pixel
// rectangle. Depending on context it describes either the full buffer or
// the visible viewport; the two are never interchangeable without an
// explicit mapping through a view Offset.
//
// Invariant: RealMax > RealMin and ImagMax > ImagMin.
type Region struct {
	RealMin, RealMax float64
	ImagMin, ImagMax float64
}

// RegionAround builds a Region centered on (re, im) spanning the given
// real and imaginary ranges.
func RegionAround(re, im, realRange, imagRange float64) Region {
	imagMin := im - imagRange/2
	return Region{
		RealMin: re - realRange/2,
		RealMax: re + realRange/2,
		ImagMin: imagMin,
		ImagMax: imagMin + imagRange,
	}
}

// Valid reports whether the region has positive extent on both axes and
// all bounds are finite.
func (r Region) Valid() bool {
	if math.IsNaN(r.RealMin) || math.IsInf(r.RealMin, 0) ||
		math.IsNaN(r.RealMax) || math.IsInf(r.RealMax, 0) ||
		math.IsNaN(r.ImagMin) || math.IsInf(r.ImagMin, 0) ||
		math.IsNaN(r.ImagMax) || math.IsInf(r.ImagMax, 0) {
		return false
	}
	return r.RealMax > r.RealMin && r.ImagMax > r.ImagMin
}

// RealRange returns the extent along the real axis.
func (r Region) RealRange() float64 {
	return r.RealMax - r.RealMin
}

// ImagRange returns the extent along the imaginary axis.
func (r Region) ImagRange() float64 {
	return r.ImagMax - r.ImagMin
}

// Center returns the midpoint of the region.
func (r Region) Center() (re, im float64) {
	return r.RealMin + r.RealRange()/2, r.ImagMin + r.ImagRange()/2
}

// PlaneAt maps a pixel coordinate of a w×h raster covering this region to
// its complex-plane point. Pixel row 0 is the top edge, which carries the
// maximum imaginary value.
func (r Region) PlaneAt(px, py, w, h int) (re, im float64) {
	re = r.RealMin + float64(px)*r.RealRange()/float64(w)
	im = r.ImagMax - float64(py)*r.ImagRange()/float64(h)
	return re, im
}

// PixelAt is the inverse of PlaneAt: it maps a complex-plane point to the
// nearest pixel coordinate of a w×h raster covering this region. The
// result is not clamped; callers mapping points outside the region get
// out-of-range pixels.
func (r Region) PixelAt(re, im float64, w, h int) (px, py int) {
	px = int(math.Round((re - r.RealMin) * float64(w) / r.RealRange()))
	py = int(math.Round((r.ImagMax - im) * float64(h) / r.ImagRange()))
	return px, py
}

// ViewCenter returns the complex-plane center of a viewW×viewH viewport
// whose top-left pixel sits at off inside a bufW×bufH raster covering
// this region. This is the pivot point for zoom: zooming converges on
// what the user is looking at, not on the buffer's own center.
func (r Region) ViewCenter(off Offset, viewW, viewH, bufW, bufH int) (re, im float64) {
	realPerPixel := r.RealRange() / float64(bufW)
	imagPerPixel := r.ImagRange() / float64(bufH)

	topLeftRe := r.RealMin + float64(off.X)*realPerPixel
	topLeftIm := r.ImagMax - float64(off.Y)*imagPerPixel

	re = topLeftRe + float64(viewW)/2*realPerPixel
	im = topLeftIm - float64(viewH)/2*imagPerPixel
	return re, im
}

// ViewRegion returns the complex-plane extent of a viewW×viewH viewport
// positioned at off inside a bufW×bufH raster covering this region.
func (r Region) ViewRegion(off Offset, viewW, viewH, bufW, bufH int) Region {
	realPerPixel := r.RealRange() / float64(bufW)
	imagPerPixel := r.ImagRange() / float64(bufH)

	realMin := r.RealMin + float64(off.X)*realPerPixel
	imagMax := r.ImagMax - float64(off.Y)*imagPerPixel
	return Region{
		RealMin: realMin,
		RealMax: realMin + float64(viewW)*realPerPixel,
		ImagMin: imagMax - float64(viewH)*imagPerPixel,
		ImagMax: imagMax,
	}
}

// Offset is the integer top-left coordinate of the viewport rectangle
// inside the buffer.
//
// Invariant: 0 <= X <= bufferWidth-viewportWidth, symmetric for Y. The
// Viewport maintains this; a violation is a programming error.
type Offset struct {
	X, Y int
}
