package fractalpad

import (
	"image"
	"image/draw"
)

// overlayMargin is the gap in pixels between the indicator overlay and
// the frame's top-right corner.
const overlayMargin = 2

// Compositor assembles the final visible frame: the viewport crop of the
// indexed buffer, the indicator overlay in the top-right corner, and the
// status line. Both presentation backends share it so the composed frame
// is identical regardless of how it is shown.
type Compositor struct {
	viewW, viewH int
	label        *Label
}

// NewCompositor creates a compositor for a viewW×viewH viewport.
func NewCompositor(viewW, viewH int) *Compositor {
	return &Compositor{viewW: viewW, viewH: viewH, label: NewLabel()}
}

// Compose renders one frame. buf/pal are the full oversized buffer and
// its palette, off the view offset; overlay (optional) is drawn with
// opal in the top-right corner; status (optional) is centered mid-frame.
func (c *Compositor) Compose(buf *Bitmap, pal Palette, off Offset, overlay *Bitmap, opal Palette, status string) *image.RGBA {
	crop := image.Rect(off.X, off.Y, off.X+c.viewW, off.Y+c.viewH)
	frame := buf.RGBA(pal, crop)

	if overlay != nil {
		ov := overlay.RGBA(opal, overlay.Bounds())
		at := image.Pt(c.viewW-overlay.Width()-overlayMargin, overlayMargin)
		draw.Draw(frame, ov.Bounds().Add(at), ov, image.Point{}, draw.Over)
	}

	if status != "" {
		c.label.DrawCentered(frame, status, c.viewH/2)
	}
	return frame
}
