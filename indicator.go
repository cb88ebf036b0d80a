package fractalpad

import "image"

// DefaultIndicatorSize is the edge length of the square overlay bitmap.
const DefaultIndicatorSize = 24

// Overlay palette indices.
const (
	indicatorBackground = 0
	indicatorFrame      = 1
	indicatorBox        = 2
)

// Indicator derives a miniature box-in-box view of the viewport's
// position and extent inside the buffer: the overlay's outer frame
// stands for the full buffer, the inner box for the visible window.
//
// The indicator holds no independent truth — it is a pure function of
// the viewport's offset and dimensions — but it remembers the last inner
// box it drew so each frame only repaints what changed.
type Indicator struct {
	size int
	bmp  *Bitmap

	// last is the previously drawn inner box; valid only when drawn is
	// true. drawn doubles as the "undrawn" sentinel: after a buffer
	// recompute the whole overlay, frame included, is repainted.
	last  image.Rectangle
	drawn bool

	generation uint64
}

// NewIndicator creates an overlay of the given edge length; sizes below 8
// fall back to DefaultIndicatorSize.
func NewIndicator(size int) *Indicator {
	if size < 8 {
		size = DefaultIndicatorSize
	}
	// The overlay bitmap is tiny; allocation cannot hit the area guard.
	bmp, err := NewBitmap(size, size)
	if err != nil {
		panic("fractalpad: indicator allocation failed: " + err.Error())
	}
	return &Indicator{size: size, bmp: bmp}
}

// Bitmap returns the overlay's pixel buffer, indexed by IndicatorPalette.
func (in *Indicator) Bitmap() *Bitmap {
	return in.bmp
}

// Size returns the overlay edge length.
func (in *Indicator) Size() int {
	return in.size
}

// Invalidate resets the indicator to undrawn, forcing the next Update to
// repaint the outer frame as well. Call after every buffer recompute.
func (in *Indicator) Invalidate() {
	in.drawn = false
}

// Update recomputes the inner box from the viewport state and redraws
// the overlay if anything changed. It reports whether the overlay bitmap
// was modified, so redundant presents can be skipped.
func (in *Indicator) Update(vp *Viewport) bool {
	if vp.Generation() != in.generation {
		in.generation = vp.Generation()
		in.drawn = false
	}

	box := in.innerBox(vp.Offset(), vp.Buffer().Width(), vp.Buffer().Height(),
		vp.Config().ViewWidth, vp.Config().ViewHeight)

	if in.drawn && box == in.last {
		return false
	}

	if !in.drawn {
		in.bmp.Fill(indicatorBackground)
	} else {
		// Clear only the stale perimeter, then restore whatever part of
		// the outer frame it may have overlapped.
		in.bmp.DrawRectOutline(in.last, indicatorBackground)
	}
	in.bmp.DrawRectOutline(in.bmp.Bounds(), indicatorFrame)
	in.bmp.DrawRectOutline(box, indicatorBox)

	in.last = box
	in.drawn = true
	return true
}

// innerBox scales the viewport rectangle from buffer-pixel space into
// overlay space, clamped so the box never leaves the overlay bounds.
func (in *Indicator) innerBox(off Offset, bufW, bufH, viewW, viewH int) image.Rectangle {
	w := max(1, viewW*in.size/bufW)
	h := max(1, viewH*in.size/bufH)
	x := off.X * in.size / bufW
	y := off.Y * in.size / bufH
	x = min(x, in.size-w)
	y = min(y, in.size-h)
	return image.Rect(x, y, x+w, y+h)
}
