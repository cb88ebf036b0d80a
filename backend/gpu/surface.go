package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/colonwq/fractalpad"
	"github.com/colonwq/fractalpad/backend"
)

// Common errors returned by Surface operations.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpu: nil DeviceProvider")

	// ErrNilDrawer is returned when a nil TextureDrawer is passed.
	ErrNilDrawer = errors.New("gpu: nil TextureDrawer")

	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("gpu: drawer has no TextureCreator")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")
)

// overlayMargin matches the compositor's indicator placement.
const overlayMargin = 2

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Config holds the device plumbing for a GPU surface.
type Config struct {
	// Provider supplies the GPU device (gogpu.App.GPUContextProvider()).
	Provider gpucontext.DeviceProvider

	// Drawer is the per-frame texture drawer
	// (gogpu.Context.AsTextureDrawer()).
	Drawer gpucontext.TextureDrawer

	// ViewWidth, ViewHeight are the visible viewport dimensions.
	ViewWidth, ViewHeight int
}

// Surface presents viewport frames through a gogpu texture pipeline.
//
// The full oversized buffer is uploaded as one texture; panning draws the
// same texture at a shifted position, so the cheap pan path never touches
// texture memory. Only a recompute (Present) re-uploads.
//
// Surface is NOT safe for concurrent use; drive it from the frame loop
// goroutine.
type Surface struct {
	cfg Config

	buffer  texSlot
	overlay texSlot
	status  texSlot

	bufW, bufH  int
	offX, offY  int
	statusText  string
	closed      bool
	initialized bool
}

// texSlot pairs a live texture with one awaiting deferred destruction.
// The old texture may still be referenced by in-flight GPU command
// buffers; it is destroyed only after the next upload, which waits for
// the GPU internally.
type texSlot struct {
	tex    any
	old    any
	width  int
	height int
}

func (s *texSlot) retire() {
	if s.old != nil {
		if d, ok := s.old.(textureDestroyer); ok {
			d.Destroy()
		}
		s.old = nil
	}
}

func (s *texSlot) replace(tex any, w, h int) {
	s.old = s.tex
	s.tex = tex
	s.width, s.height = w, h
}

func (s *texSlot) destroy() {
	s.retire()
	if s.tex != nil {
		if d, ok := s.tex.(textureDestroyer); ok {
			d.Destroy()
		}
		s.tex = nil
	}
}

// New creates a GPU surface. Returns an error if the config is missing a
// provider or drawer, or the dimensions are invalid.
func New(cfg Config) (*Surface, error) {
	if cfg.Provider == nil {
		return nil, ErrNilProvider
	}
	if cfg.Drawer == nil {
		return nil, ErrNilDrawer
	}
	if cfg.ViewWidth <= 0 || cfg.ViewHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cfg.ViewWidth, cfg.ViewHeight)
	}
	return &Surface{cfg: cfg}, nil
}

// RegisterWith registers a factory for this surface under the "gpu" name,
// capturing the given config. Unlike the image surface, registration
// cannot happen in init() because the device plumbing only exists once
// the application window is up.
func RegisterWith(cfg Config) error {
	s, err := New(cfg)
	if err != nil {
		return err
	}
	backend.Register(backend.SurfaceGPU, func() fractalpad.Surface {
		return s
	})
	return nil
}

// Name returns the surface identifier.
func (s *Surface) Name() string {
	return backend.SurfaceGPU
}

// Init prepares the surface for presentation. If a compute accelerator
// is registered and accepts an external device, the surface's provider
// is handed over so compute and presentation share one GPU device.
func (s *Surface) Init() error {
	if s.closed {
		return backend.ErrNotInitialized
	}
	s.shareDevice()
	s.initialized = true
	return nil
}

// shareDevice offers the surface's device provider to the registered
// accelerator. Best effort: an accelerator that cannot adopt the device
// keeps its own instance.
func (s *Surface) shareDevice() {
	type providerSetter interface {
		SetDeviceProvider(provider any) error
	}
	setter, ok := fractalpad.GetAccelerator().(providerSetter)
	if !ok {
		return
	}
	if err := setter.SetDeviceProvider(s.cfg.Provider); err != nil {
		fractalpad.Logger().Warn("accelerator device sharing declined", "error", err)
	}
}

// Close destroys all textures. The surface must not be used afterwards.
func (s *Surface) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.initialized = false
	s.buffer.destroy()
	s.overlay.destroy()
	s.status.destroy()
}

// Present uploads a newly rendered buffer as a full-size texture.
func (s *Surface) Present(buf *fractalpad.Bitmap, pal fractalpad.Palette) error {
	if !s.initialized || s.closed {
		return backend.ErrNotInitialized
	}
	img := buf.RGBA(pal, buf.Bounds())
	if err := s.upload(&s.buffer, img); err != nil {
		return err
	}
	s.bufW, s.bufH = buf.Width(), buf.Height()
	return nil
}

// SetOffset repositions the visible crop. No texture traffic: the next
// Draw simply shifts where the buffer texture lands.
func (s *Surface) SetOffset(x, y int) error {
	if !s.initialized || s.closed {
		return backend.ErrNotInitialized
	}
	if s.bufW > 0 && (x < 0 || y < 0 ||
		x > s.bufW-s.cfg.ViewWidth || y > s.bufH-s.cfg.ViewHeight) {
		return fmt.Errorf("gpu: offset (%d,%d) outside %dx%d buffer", x, y, s.bufW, s.bufH)
	}
	s.offX, s.offY = x, y
	return nil
}

// SetOverlay uploads the indicator bitmap as a small texture. A nil
// bitmap removes the overlay.
func (s *Surface) SetOverlay(bmp *fractalpad.Bitmap, pal fractalpad.Palette) {
	if !s.initialized || s.closed {
		return
	}
	if bmp == nil {
		s.overlay.destroy()
		return
	}
	img := bmp.RGBA(pal, bmp.Bounds())
	if err := s.upload(&s.overlay, img); err != nil {
		fractalpad.Logger().Warn("overlay upload failed", "error", err)
	}
}

// SetStatus renders the status line into a text strip texture; the empty
// string hides it.
func (s *Surface) SetStatus(status string) {
	if !s.initialized || s.closed {
		return
	}
	s.statusText = status
	if status == "" {
		return
	}
	label := fractalpad.NewLabel()
	strip := image.NewRGBA(image.Rect(0, 0, label.Measure(status), label.Height()))
	label.Draw(strip, status, 0, label.Height()-3)
	if err := s.upload(&s.status, strip); err != nil {
		fractalpad.Logger().Warn("status upload failed", "error", err)
	}
}

// Draw issues the frame's texture draws: the buffer at the negated view
// offset, then the overlay in the top-right corner, then the status line
// centered mid-frame. Call once per presented frame from the draw
// callback.
func (s *Surface) Draw() error {
	if !s.initialized || s.closed {
		return backend.ErrNotInitialized
	}
	if s.buffer.tex == nil {
		return nil
	}

	bufTex, ok := s.buffer.tex.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("gpu: buffer texture is not a gpucontext.Texture")
	}
	if err := s.cfg.Drawer.DrawTexture(bufTex, float32(-s.offX), float32(-s.offY)); err != nil {
		return fmt.Errorf("gpu: draw buffer: %w", err)
	}

	if s.overlay.tex != nil {
		ovTex, ok := s.overlay.tex.(gpucontext.Texture)
		if ok {
			x := float32(s.cfg.ViewWidth - s.overlay.width - overlayMargin)
			if err := s.cfg.Drawer.DrawTexture(ovTex, x, overlayMargin); err != nil {
				return fmt.Errorf("gpu: draw overlay: %w", err)
			}
		}
	}

	if s.statusText != "" && s.status.tex != nil {
		stTex, ok := s.status.tex.(gpucontext.Texture)
		if ok {
			x := float32((s.cfg.ViewWidth - s.status.width) / 2)
			y := float32(s.cfg.ViewHeight/2 - s.status.height)
			if err := s.cfg.Drawer.DrawTexture(stTex, x, y); err != nil {
				return fmt.Errorf("gpu: draw status: %w", err)
			}
		}
	}
	return nil
}

// upload creates or updates the slot's texture from img.
//
// NewTextureFromRGBA calls WriteTexture which waits for the GPU
// internally, so after a create returns it is safe to destroy the
// previous texture: its descriptor heap entries are no longer in use.
func (s *Surface) upload(slot *texSlot, img *image.RGBA) error {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	if slot.tex != nil && slot.width == w && slot.height == h {
		if updater, ok := slot.tex.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(img.Pix); err != nil {
				return fmt.Errorf("gpu: texture update failed: %w", err)
			}
			return nil
		}
	}

	creator := s.cfg.Drawer.TextureCreator()
	if creator == nil {
		return ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(w, h, img.Pix)
	if err != nil {
		return fmt.Errorf("gpu: NewTextureFromRGBA failed: %w", err)
	}
	slot.replace(tex, w, h)
	slot.retire()
	return nil
}
