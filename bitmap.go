package fractalpad

import (
	"errors"
	"fmt"
	"image"
)

// Bitmap size guard. A 1.5× oversized buffer for even a large simulated
// display stays far below this; anything bigger indicates a miscomputed
// configuration rather than a legitimate request.
const maxBitmapArea = 1 << 24 // 16M indexed pixels (~16 MiB)

// ErrBufferTooLarge is returned when a requested bitmap would exceed the
// allocation guard. Callers keep their last-good buffer when this happens.
var ErrBufferTooLarge = errors.New("fractalpad: bitmap exceeds maximum area")

// Bitmap is a fixed-size indexed-color pixel buffer. Each pixel holds a
// palette index; the palette itself lives separately (see Palette) so a
// buffer can be recolored without re-evaluation.
//
// Bitmap is not safe for concurrent mutation. The renderer's parallel
// fill is safe because each worker writes a disjoint row range.
type Bitmap struct {
	width  int
	height int
	pix    []uint8
}

// NewBitmap creates a bitmap with the given dimensions. It returns
// ErrBufferTooLarge when the dimensions exceed the allocation guard, so a
// failed resize never leaves the caller with a partial buffer.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("fractalpad: invalid bitmap dimensions %dx%d", width, height)
	}
	if width*height > maxBitmapArea {
		return nil, fmt.Errorf("%w: %dx%d", ErrBufferTooLarge, width, height)
	}
	return &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}, nil
}

// Width returns the width of the bitmap.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the height of the bitmap.
func (b *Bitmap) Height() int {
	return b.height
}

// Pix returns the raw index data, one byte per pixel, row by row.
func (b *Bitmap) Pix() []uint8 {
	return b.pix
}

// Set stores a palette index at (x, y). Out-of-bounds writes are ignored.
func (b *Bitmap) Set(x, y int, v uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = v
}

// At returns the palette index at (x, y), or 0 when out of bounds.
func (b *Bitmap) At(x, y int) uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.width+x]
}

// Row returns the index slice for row y. The slice aliases the bitmap's
// storage; writing to it writes to the bitmap.
func (b *Bitmap) Row(y int) []uint8 {
	return b.pix[y*b.width : (y+1)*b.width]
}

// Fill sets every pixel to the given index.
func (b *Bitmap) Fill(v uint8) {
	for i := range b.pix {
		b.pix[i] = v
	}
}

// FillRect sets every pixel inside r (clipped to the bitmap) to v.
func (b *Bitmap) FillRect(r image.Rectangle, v uint8) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = v
		}
	}
}

// DrawRectOutline draws the 1-pixel perimeter of r (clipped to the
// bitmap) using index v. The interior is untouched.
func (b *Bitmap) DrawRectOutline(r image.Rectangle, v uint8) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		b.Set(x, r.Min.Y, v)
		b.Set(x, r.Max.Y-1, v)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		b.Set(r.Min.X, y, v)
		b.Set(r.Max.X-1, y, v)
	}
}

// Bounds returns the bitmap's bounding rectangle.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// RGBA renders the sub-rectangle r of the bitmap through the palette into
// a new RGBA image. r is clipped to the bitmap bounds.
func (b *Bitmap) RGBA(pal Palette, r image.Rectangle) *image.RGBA {
	r = r.Intersect(b.Bounds())
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := pal.At(row[x])
			i := img.PixOffset(x-r.Min.X, y-r.Min.Y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
