package fractalpad

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label renders short status strings ("Calculating...") into an RGBA
// frame with a fixed bitmap face. The device status line is plain ASCII
// on a low-resolution display, so the 7x13 face is used as-is with no
// shaping or scaling.
type Label struct {
	face  font.Face
	color color.RGBA
}

// NewLabel creates a white status label.
func NewLabel() *Label {
	return &Label{
		face:  basicfont.Face7x13,
		color: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
}

// SetColor changes the text color.
func (l *Label) SetColor(c color.RGBA) {
	l.color = c
}

// Measure returns the advance width of s in pixels.
func (l *Label) Measure(s string) int {
	return font.MeasureString(l.face, s).Ceil()
}

// Height returns the face height in pixels.
func (l *Label) Height() int {
	return l.face.Metrics().Height.Ceil()
}

// Draw renders s with its baseline at (x, y).
func (l *Label) Draw(dst *image.RGBA, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(l.color),
		Face: l.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// DrawCentered renders s horizontally centered in dst with its baseline
// at y.
func (l *Label) DrawCentered(dst *image.RGBA, s string, y int) {
	x := (dst.Bounds().Dx() - l.Measure(s)) / 2
	if x < 0 {
		x = 0
	}
	l.Draw(dst, s, x, y)
}
