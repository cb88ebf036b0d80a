package fractalpad

import (
	"image/color"
	"math/rand"
)

// Palette maps color indices to display colors. Index len(Palette)-1 of
// an iteration palette is reserved for points inside the set.
type Palette []color.RGBA

// At returns the color for index i. Indices past the end of the palette
// clamp to the last entry, so a short palette never causes a panic.
func (p Palette) At(i uint8) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{}
	}
	if int(i) >= len(p) {
		return p[len(p)-1]
	}
	return p[i]
}

// IterationPalette builds the escape-time palette: maxIter+1 entries where
// entry i colors points escaping on iteration i and the final entry —
// points that never escape — is black. Low iterations ramp through red,
// the mid band through green, the rest through blue.
func IterationPalette(maxIter int) Palette {
	if maxIter < 1 {
		maxIter = 1
	}
	p := make(Palette, maxIter+1)
	for i := 0; i < maxIter; i++ {
		switch {
		case i < 10:
			p[i] = color.RGBA{R: clampChan(i * 25), A: 0xFF}
		case i < 30:
			p[i] = color.RGBA{G: clampChan((i - 10) * 12), A: 0xFF}
		default:
			p[i] = color.RGBA{B: clampChan((i-30)*8 + 50), A: 0xFF}
		}
	}
	p[maxIter] = color.RGBA{A: 0xFF} // inside the set
	return p
}

// LifePalette builds the two-entry Game of Life palette: index 0 is the
// dead (black) cell, index 1 the live cell.
func LifePalette(alive color.RGBA) Palette {
	return Palette{{A: 0xFF}, alive}
}

// IndicatorPalette builds the three-entry overlay palette: background,
// outer frame, and position box.
func IndicatorPalette() Palette {
	return Palette{
		{A: 0xFF},                            // background
		{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}, // outer frame
		{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, // position box
	}
}

// RandomBright returns a random color with every channel at least 50,
// bright enough to stay visible on a small backlit display.
func RandomBright(rnd *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(50 + rnd.Intn(206)),
		G: uint8(50 + rnd.Intn(206)),
		B: uint8(50 + rnd.Intn(206)),
		A: 0xFF,
	}
}

// clampChan restricts a channel value to [0, 255].
func clampChan(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
