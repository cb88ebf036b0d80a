package fractalpad

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidConfig is returned when a viewport configuration fails
// validation. The wrapped message names the offending field.
var ErrInvalidConfig = errors.New("fractalpad: invalid config")

// Phase identifies the viewport state machine's current state. Pan and
// zoom operations are synchronous, so external observers only ever see
// PhaseIdle between calls; the other phases exist for the transition
// logic and for log/debug output.
type Phase uint8

const (
	// PhaseIdle means no operation is in progress.
	PhaseIdle Phase = iota

	// PhasePanning means a view offset adjustment is being applied.
	PhasePanning

	// PhaseZooming means a scale change is being applied.
	PhaseZooming

	// PhaseRecomputing means the buffer is being regenerated. The full
	// recompute blocks for its entire duration; there is no cancellation.
	PhaseRecomputing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePanning:
		return "panning"
	case PhaseZooming:
		return "zooming"
	case PhaseRecomputing:
		return "recomputing"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Config holds the viewport's tunable constants. The zero value is not
// usable; start from DefaultConfig and override as needed.
type Config struct {
	// ViewWidth, ViewHeight are the visible viewport dimensions in pixels.
	ViewWidth, ViewHeight int

	// OversizeFactor is the ratio of buffer dimensions to viewport
	// dimensions. Values above 1 give the pan headroom that makes small
	// motions cheap. Default 1.5.
	OversizeFactor float64

	// MaxIter is the per-pixel iteration budget. Must fit the indexed
	// color range: [1, 255]. Default 30.
	MaxIter int

	// ZoomFactor is the per-step scale ratio. Zooming in divides the
	// viewport's plane extent by this, zooming out multiplies. Must be
	// greater than 1. Default 1.1.
	ZoomFactor float64

	// PanStep is the offset change per pan tick, in buffer pixels.
	// Default 1.
	PanStep int

	// EdgeThreshold is the distance from the offset range's extremes, in
	// pixels, at which a pan triggers a recompute. Zero derives the
	// original behavior: 10% of the smaller viewport dimension.
	EdgeThreshold int

	// CenterReal, CenterImag are the initial view center. Defaults
	// (-0.5, 0) frame the main cardioid.
	CenterReal, CenterImag float64

	// RealRange is the initial real-axis extent of the visible viewport.
	// The imaginary extent follows from the viewport aspect ratio.
	// Default 3.0.
	RealRange float64
}

// DefaultConfig returns the configuration used by the original handheld
// program for a viewW×viewH display.
func DefaultConfig(viewW, viewH int) Config {
	return Config{
		ViewWidth:      viewW,
		ViewHeight:     viewH,
		OversizeFactor: 1.5,
		MaxIter:        30,
		ZoomFactor:     1.1,
		PanStep:        1,
		CenterReal:     -0.5,
		CenterImag:     0,
		RealRange:      3.0,
	}
}

// Validate checks the configuration. All errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.ViewWidth <= 0 || c.ViewHeight <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidConfig, c.ViewWidth, c.ViewHeight)
	case c.OversizeFactor <= 1:
		return fmt.Errorf("%w: oversize factor %v must exceed 1", ErrInvalidConfig, c.OversizeFactor)
	case c.MaxIter < 1 || c.MaxIter > 255:
		return fmt.Errorf("%w: max iterations %d outside [1, 255]", ErrInvalidConfig, c.MaxIter)
	case c.ZoomFactor <= 1:
		return fmt.Errorf("%w: zoom factor %v must exceed 1", ErrInvalidConfig, c.ZoomFactor)
	case c.PanStep < 1:
		return fmt.Errorf("%w: pan step %d must be positive", ErrInvalidConfig, c.PanStep)
	case c.EdgeThreshold < 0:
		return fmt.Errorf("%w: edge threshold %d must not be negative", ErrInvalidConfig, c.EdgeThreshold)
	case c.RealRange <= 0:
		return fmt.Errorf("%w: real range %v must be positive", ErrInvalidConfig, c.RealRange)
	}
	bufW, bufH := c.bufferDims()
	if bufW <= c.ViewWidth || bufH <= c.ViewHeight {
		return fmt.Errorf("%w: buffer %dx%d not larger than viewport", ErrInvalidConfig, bufW, bufH)
	}
	return nil
}

// bufferDims returns the oversized buffer dimensions.
func (c Config) bufferDims() (w, h int) {
	return int(float64(c.ViewWidth) * c.OversizeFactor),
		int(float64(c.ViewHeight) * c.OversizeFactor)
}

// edgeThreshold returns the configured threshold, deriving the 10% rule
// when unset.
func (c Config) edgeThreshold() int {
	if c.EdgeThreshold > 0 {
		return c.EdgeThreshold
	}
	m := c.ViewWidth
	if c.ViewHeight < m {
		m = c.ViewHeight
	}
	return int(float64(m) * 0.1)
}

// Result reports what a viewport operation did, so the caller can pick
// the cheap presentation path (offset update) over the heavy one (buffer
// swap) whenever possible.
type Result struct {
	// Moved is true when the view offset changed.
	Moved bool

	// Recomputed is true when the buffer was regenerated. The caller
	// must re-present the buffer, not just the offset.
	Recomputed bool
}

// Option configures a Viewport during creation.
type Option func(*viewportOptions)

type viewportOptions struct {
	renderer    *Renderer
	palette     Palette
	onRecompute func()
}

// WithRenderer injects a custom renderer, e.g. one with a fixed worker
// count for deterministic benchmarks.
func WithRenderer(r *Renderer) Option {
	return func(o *viewportOptions) {
		o.renderer = r
	}
}

// WithPalette overrides the default iteration palette. The palette must
// have at least MaxIter+1 entries.
func WithPalette(p Palette) Option {
	return func(o *viewportOptions) {
		o.palette = p
	}
}

// WithRecomputeHook installs a function invoked at the start of every
// buffer recompute, before the blocking render begins. Presentation
// layers use it to show a "Calculating..." status, since nothing else
// runs while the recompute is in flight.
func WithRecomputeHook(fn func()) Option {
	return func(o *viewportOptions) {
		o.onRecompute = fn
	}
}

// Viewport owns the buffered view state: the oversized buffer, its
// complex-plane region, and the view offset inside it. It is the single
// writer of all three; presentation and overlay components only read.
//
// Viewport is not safe for concurrent use. The design is a synchronous,
// single-goroutine polling loop; an implementation driving it from
// multiple goroutines must serialize all calls.
type Viewport struct {
	cfg         Config
	renderer    *Renderer
	palette     Palette
	onRecompute func()

	bufW, bufH int
	threshold  int

	// buf, region and off are always updated together: after every
	// recompute the offset is reset to the buffer's geometric center.
	buf    *Bitmap
	region Region
	off    Offset

	phase      Phase
	generation uint64
}

// New creates a viewport and performs the initial buffer computation.
// The call blocks until the first buffer is rendered; on any failure no
// viewport is returned.
func New(cfg Config, opts ...Option) (*Viewport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o viewportOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = NewRenderer()
	}
	if o.palette == nil {
		o.palette = IterationPalette(cfg.MaxIter)
	}
	if len(o.palette) < cfg.MaxIter+1 {
		return nil, fmt.Errorf("%w: palette has %d entries, need %d",
			ErrInvalidConfig, len(o.palette), cfg.MaxIter+1)
	}

	bufW, bufH := cfg.bufferDims()
	vp := &Viewport{
		cfg:         cfg,
		renderer:    o.renderer,
		palette:     o.palette,
		onRecompute: o.onRecompute,
		bufW:        bufW,
		bufH:        bufH,
		threshold:   cfg.edgeThreshold(),
	}

	// Initial region: the configured viewport extent scaled by the
	// oversize factor, centered on the configured point.
	viewRealRange := cfg.RealRange
	viewImagRange := viewRealRange * float64(cfg.ViewHeight) / float64(cfg.ViewWidth)
	region := RegionAround(cfg.CenterReal, cfg.CenterImag,
		viewRealRange*cfg.OversizeFactor,
		viewImagRange*cfg.OversizeFactor)

	if err := vp.compute(region); err != nil {
		return nil, err
	}
	return vp, nil
}

// SetRecomputeHook replaces the recompute hook (see WithRecomputeHook).
// Pass nil to remove it.
func (vp *Viewport) SetRecomputeHook(fn func()) {
	vp.onRecompute = fn
}

// Config returns the viewport's configuration.
func (vp *Viewport) Config() Config {
	return vp.cfg
}

// Palette returns the active palette.
func (vp *Viewport) Palette() Palette {
	return vp.palette
}

// Buffer returns the current oversized buffer. Read-only for callers;
// only the viewport's own recompute replaces it.
func (vp *Viewport) Buffer() *Bitmap {
	return vp.buf
}

// Region returns the buffer's complex-plane extent.
func (vp *Viewport) Region() Region {
	return vp.region
}

// Offset returns the viewport's top-left pixel position inside the buffer.
func (vp *Viewport) Offset() Offset {
	return vp.off
}

// Phase returns the state machine phase. Outside an operation this is
// always PhaseIdle.
func (vp *Viewport) Phase() Phase {
	return vp.phase
}

// Generation returns a counter bumped on every buffer recompute. Overlay
// components compare it against their last-seen value to know the buffer
// (and their outer frame) needs a full redraw.
func (vp *Viewport) Generation() uint64 {
	return vp.generation
}

// ViewBounds returns the visible crop rectangle inside the buffer.
func (vp *Viewport) ViewBounds() image.Rectangle {
	return image.Rect(vp.off.X, vp.off.Y,
		vp.off.X+vp.cfg.ViewWidth, vp.off.Y+vp.cfg.ViewHeight)
}

// ViewRegion returns the complex-plane extent of the visible viewport.
func (vp *Viewport) ViewRegion() Region {
	return vp.region.ViewRegion(vp.off, vp.cfg.ViewWidth, vp.cfg.ViewHeight, vp.bufW, vp.bufH)
}

// Center returns the complex-plane center of the visible viewport, the
// pivot point for every zoom.
func (vp *Viewport) Center() (re, im float64) {
	return vp.region.ViewCenter(vp.off, vp.cfg.ViewWidth, vp.cfg.ViewHeight, vp.bufW, vp.bufH)
}

// Pan applies one pan tick from normalized axis samples in [-1, 1].
// Values at or inside zero are no motion on that axis (the input adapter
// applies the dead-zone before they get here); the sign selects the
// direction and the configured PanStep sets the distance. Each axis is
// clamped independently to the valid offset range.
//
// If the new offset lands within the edge threshold of either extreme on
// either axis, the pan escalates into a full recompute re-centered on the
// current view.
func (vp *Viewport) Pan(ax, ay float64) (Result, error) {
	vp.phase = PhasePanning
	defer func() { vp.phase = PhaseIdle }()

	off := vp.off
	switch {
	case ax < 0:
		off.X = max(0, off.X-vp.cfg.PanStep)
	case ax > 0:
		off.X = min(vp.bufW-vp.cfg.ViewWidth, off.X+vp.cfg.PanStep)
	}
	switch {
	case ay < 0:
		off.Y = max(0, off.Y-vp.cfg.PanStep)
	case ay > 0:
		off.Y = min(vp.bufH-vp.cfg.ViewHeight, off.Y+vp.cfg.PanStep)
	}

	if off == vp.off {
		return Result{}, nil
	}
	vp.off = off
	vp.assertOffset()

	if vp.nearEdge() {
		if err := vp.recompute(1); err != nil {
			// Recompute failed; the pan itself still happened and the
			// offset remains valid against the retained buffer.
			return Result{Moved: true}, err
		}
		return Result{Moved: true, Recomputed: true}, nil
	}
	return Result{Moved: true}, nil
}

// ZoomIn shrinks the viewport's plane extent by the zoom factor and
// recomputes the buffer around the current view center.
func (vp *Viewport) ZoomIn() (Result, error) {
	return vp.zoom(1 / vp.cfg.ZoomFactor)
}

// ZoomOut grows the viewport's plane extent by the zoom factor and
// recomputes the buffer around the current view center.
func (vp *Viewport) ZoomOut() (Result, error) {
	return vp.zoom(vp.cfg.ZoomFactor)
}

// zoom rescales the viewport extent by scale. Zoom always changes the
// buffer's pixel density, so it always recomputes.
func (vp *Viewport) zoom(scale float64) (Result, error) {
	vp.phase = PhaseZooming
	defer func() { vp.phase = PhaseIdle }()

	if err := vp.recompute(scale); err != nil {
		return Result{}, err
	}
	return Result{Moved: true, Recomputed: true}, nil
}

// nearEdge reports whether the offset sits within the edge threshold of
// either extreme of its valid range, on either axis.
func (vp *Viewport) nearEdge() bool {
	maxX := vp.bufW - vp.cfg.ViewWidth
	maxY := vp.bufH - vp.cfg.ViewHeight
	return vp.off.X <= vp.threshold || vp.off.X >= maxX-vp.threshold ||
		vp.off.Y <= vp.threshold || vp.off.Y >= maxY-vp.threshold
}

// recompute regenerates the buffer around the current view center, with
// the viewport plane extent scaled by scale (1 preserves the scale; pan
// recenters only). The new buffer is swapped in only after a fully
// successful render; on failure the last-good buffer, region and offset
// are all retained.
func (vp *Viewport) recompute(scale float64) error {
	vp.phase = PhaseRecomputing
	if vp.onRecompute != nil {
		vp.onRecompute()
	}

	// The pivot uses the pre-recompute offset and region: the view must
	// not visibly jump.
	centerRe, centerIm := vp.Center()

	viewRealRange := vp.region.RealRange() * float64(vp.cfg.ViewWidth) / float64(vp.bufW) * scale
	viewImagRange := vp.region.ImagRange() * float64(vp.cfg.ViewHeight) / float64(vp.bufH) * scale

	region := RegionAround(centerRe, centerIm,
		viewRealRange*vp.cfg.OversizeFactor,
		viewImagRange*vp.cfg.OversizeFactor)
	return vp.compute(region)
}

// compute renders a fresh buffer for region and, on success, installs it
// with the offset reset to the buffer's geometric center.
func (vp *Viewport) compute(region Region) error {
	if !region.Valid() {
		return fmt.Errorf("fractalpad: degenerate region %+v", region)
	}

	buf, err := NewBitmap(vp.bufW, vp.bufH)
	if err != nil {
		return err
	}
	if err := vp.renderer.Render(buf, region, vp.cfg.MaxIter); err != nil {
		return err
	}

	vp.buf = buf
	vp.region = region
	vp.off = Offset{
		X: (vp.bufW - vp.cfg.ViewWidth) / 2,
		Y: (vp.bufH - vp.cfg.ViewHeight) / 2,
	}
	vp.generation++
	vp.assertOffset()

	re, im := vp.Center()
	Logger().Info("buffer recomputed",
		"generation", vp.generation,
		"center", fmt.Sprintf("%g%+gi", re, im),
		"realRange", vp.ViewRegion().RealRange())
	return nil
}

// assertOffset panics when the offset invariant is violated. The
// geometry math is internal, so a violation is a programming error, not
// a recoverable condition.
func (vp *Viewport) assertOffset() {
	if vp.off.X < 0 || vp.off.X > vp.bufW-vp.cfg.ViewWidth ||
		vp.off.Y < 0 || vp.off.Y > vp.bufH-vp.cfg.ViewHeight {
		panic(fmt.Sprintf("fractalpad: view offset %+v outside buffer %dx%d (viewport %dx%d)",
			vp.off, vp.bufW, vp.bufH, vp.cfg.ViewWidth, vp.cfg.ViewHeight))
	}
}
