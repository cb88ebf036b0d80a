package backend

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/colonwq/fractalpad"
)

// Default display dimensions, matching the simulated handheld's screen.
const (
	DefaultViewWidth  = 160
	DefaultViewHeight = 128
)

// init registers the image surface on package import.
func init() {
	Register(SurfaceImage, func() fractalpad.Surface {
		return NewImageSurface(DefaultViewWidth, DefaultViewHeight)
	})
}

// ImageSurface is a CPU-based presentation surface. It composes frames
// into an in-memory RGBA image, suitable for headless runs, tests, and
// dumping frames to PNG files. It is the always-available fallback when
// no GPU device is present.
type ImageSurface struct {
	mu          sync.Mutex
	initialized bool

	viewW, viewH int
	scale        int
	compositor   *fractalpad.Compositor

	buf     *fractalpad.Bitmap
	pal     fractalpad.Palette
	offX    int
	offY    int
	overlay *fractalpad.Bitmap
	opal    fractalpad.Palette
	status  string
}

// NewImageSurface creates an image surface for a viewW×viewH viewport.
func NewImageSurface(viewW, viewH int) *ImageSurface {
	return &ImageSurface{
		viewW:      viewW,
		viewH:      viewH,
		scale:      1,
		compositor: fractalpad.NewCompositor(viewW, viewH),
	}
}

// SetScale sets an integer upscale factor applied to composed frames.
// Factors below 1 are treated as 1. Useful when dumping frames sized for
// a small device screen to files meant for desktop viewing.
func (s *ImageSurface) SetScale(scale int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scale < 1 {
		scale = 1
	}
	s.scale = scale
}

// Name returns the surface identifier.
func (s *ImageSurface) Name() string {
	return SurfaceImage
}

// Init prepares the surface for presentation.
func (s *ImageSurface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

// Close releases surface resources.
func (s *ImageSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.buf = nil
	s.overlay = nil
}

// Present installs a newly rendered buffer and its palette.
func (s *ImageSurface) Present(buf *fractalpad.Bitmap, pal fractalpad.Palette) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	s.buf = buf
	s.pal = pal
	return nil
}

// SetOffset repositions the visible crop inside the installed buffer.
func (s *ImageSurface) SetOffset(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	s.offX, s.offY = x, y
	return nil
}

// SetOverlay installs the indicator overlay. A nil bitmap removes it.
func (s *ImageSurface) SetOverlay(bmp *fractalpad.Bitmap, pal fractalpad.Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = bmp
	s.opal = pal
}

// SetStatus shows a status line; the empty string hides it.
func (s *ImageSurface) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Frame composes and returns the current visible frame. It returns nil
// before the first Present.
func (s *ImageSurface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	frame := s.compositor.Compose(s.buf, s.pal,
		fractalpad.Offset{X: s.offX, Y: s.offY},
		s.overlay, s.opal, s.status)
	if s.scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, s.viewW*s.scale, s.viewH*s.scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
		frame = scaled
	}
	return frame
}

// EncodePNG composes the current frame and writes it as PNG to w.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	frame := s.Frame()
	if frame == nil {
		return fmt.Errorf("backend: %s surface has no frame to encode", SurfaceImage)
	}
	return png.Encode(w, frame)
}

// SavePNG composes the current frame and writes it to the given path.
func (s *ImageSurface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("backend: create %s: %w", path, err)
	}
	if err := s.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
