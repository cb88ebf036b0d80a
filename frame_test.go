package fractalpad

import (
	"image/color"
	"testing"
)

func TestCompositor_CropsAtOffset(t *testing.T) {
	buf, err := NewBitmap(12, 10)
	if err != nil {
		t.Fatal(err)
	}
	pal := Palette{{A: 0xFF}, {R: 0xFF, A: 0xFF}}
	buf.Set(5, 4, 1)

	c := NewCompositor(6, 5)
	frame := c.Compose(buf, pal, Offset{X: 3, Y: 2}, nil, nil, "")

	if frame.Bounds().Dx() != 6 || frame.Bounds().Dy() != 5 {
		t.Fatalf("frame bounds %v, want 6x5", frame.Bounds())
	}
	// Buffer pixel (5,4) lands at frame (2,2).
	if got := frame.RGBAAt(2, 2); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("frame (2,2) = %v, want red", got)
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("frame (0,0) = %v, want black", got)
	}
}

func TestCompositor_OverlayTopRight(t *testing.T) {
	buf, err := NewBitmap(120, 100)
	if err != nil {
		t.Fatal(err)
	}
	pal := Palette{{A: 0xFF}}

	overlay, err := NewBitmap(24, 24)
	if err != nil {
		t.Fatal(err)
	}
	overlay.Fill(1)
	opal := Palette{{A: 0xFF}, {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}}

	c := NewCompositor(100, 80)
	frame := c.Compose(buf, pal, Offset{}, overlay, opal, "")

	// Overlay occupies x [100-24-2, 100-2), y [2, 26).
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if got := frame.RGBAAt(74, 2); got != white {
		t.Errorf("overlay corner (74,2) = %v, want white", got)
	}
	if got := frame.RGBAAt(97, 25); got != white {
		t.Errorf("overlay corner (97,25) = %v, want white", got)
	}
	if got := frame.RGBAAt(73, 2); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("pixel left of overlay = %v, want black", got)
	}
	if got := frame.RGBAAt(74, 26); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("pixel below overlay = %v, want black", got)
	}
}

func TestCompositor_StatusLine(t *testing.T) {
	buf, err := NewBitmap(240, 192)
	if err != nil {
		t.Fatal(err)
	}
	pal := Palette{{A: 0xFF}}
	c := NewCompositor(160, 128)

	blank := c.Compose(buf, pal, Offset{}, nil, nil, "")
	status := c.Compose(buf, pal, Offset{}, nil, nil, StatusCalculating)

	// The status frame differs from the blank frame somewhere around the
	// vertical midline.
	changed := 0
	for y := 50; y < 70; y++ {
		for x := 0; x < 160; x++ {
			if status.RGBAAt(x, y) != blank.RGBAAt(x, y) {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("status text did not render any pixels")
	}
}

func TestLabel_Measure(t *testing.T) {
	l := NewLabel()
	if got := l.Measure(""); got != 0 {
		t.Errorf("Measure(\"\") = %d, want 0", got)
	}
	// Face7x13 advances 7 pixels per glyph.
	if got := l.Measure("abc"); got != 21 {
		t.Errorf("Measure(\"abc\") = %d, want 21", got)
	}
	if l.Height() <= 0 {
		t.Errorf("Height() = %d, want positive", l.Height())
	}
}

func TestLabel_DrawCenteredLongString(t *testing.T) {
	// Strings wider than the frame left-clamp instead of going negative.
	l := NewLabel()
	buf, err := NewBitmap(40, 20)
	if err != nil {
		t.Fatal(err)
	}
	img := buf.RGBA(Palette{{A: 0xFF}}, buf.Bounds())
	l.DrawCentered(img, "a string much wider than forty pixels", 10)

	lit := false
	for x := 0; x < 40 && !lit; x++ {
		for y := 0; y < 20; y++ {
			if img.RGBAAt(x, y).R > 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("clamped draw rendered nothing")
	}
}
