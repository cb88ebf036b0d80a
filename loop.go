package fractalpad

import (
	"errors"
	"time"

	"github.com/colonwq/fractalpad/input"
)

// StatusCalculating is shown while a blocking buffer recompute runs.
const StatusCalculating = "Calculating..."

// DefaultTickDelay matches the original device loop's polling interval.
const DefaultTickDelay = 10 * time.Millisecond

// Loop is the cooperative, single-goroutine main loop: each tick drains
// at most one discrete input event, samples the analog axes, applies the
// viewport transitions synchronously, and presents the outcome. A buffer
// recompute blocks the whole tick — nothing else runs concurrently, which
// is why the surface shows a status line for its duration.
type Loop struct {
	// TickDelay is slept between ticks in Run. Zero means no delay.
	TickDelay time.Duration

	vp         *Viewport
	indicator  *Indicator
	source     input.Source
	surface    Surface
	overlayPal Palette
}

// NewLoop wires a viewport, input source and surface together and
// presents the initial frame. The viewport's recompute hook is taken
// over to drive the surface status line.
func NewLoop(vp *Viewport, src input.Source, surface Surface) (*Loop, error) {
	if vp == nil || src == nil || surface == nil {
		return nil, errors.New("fractalpad: loop requires a viewport, source and surface")
	}
	l := &Loop{
		TickDelay:  DefaultTickDelay,
		vp:         vp,
		indicator:  NewIndicator(DefaultIndicatorSize),
		source:     src,
		surface:    surface,
		overlayPal: IndicatorPalette(),
	}
	vp.SetRecomputeHook(func() {
		surface.SetStatus(StatusCalculating)
	})

	if err := l.present(Result{Moved: true, Recomputed: true}); err != nil {
		return nil, err
	}
	return l, nil
}

// Indicator returns the loop's position indicator.
func (l *Loop) Indicator() *Indicator {
	return l.indicator
}

// Tick runs one loop iteration. Errors from a failed recompute are
// returned but not fatal: the viewport keeps its last-good buffer and
// the loop can keep ticking.
func (l *Loop) Tick() error {
	sample := l.source.Poll()

	var res Result
	var err error
	if sample.OK {
		switch sample.Event.Kind {
		case input.ZoomIn:
			res, err = l.vp.ZoomIn()
		case input.ZoomOut:
			res, err = l.vp.ZoomOut()
		}
	}

	// Axis panning is skipped on a tick that already recomputed: the
	// offset was just re-centered and the pre-zoom axis sample is stale.
	if !res.Recomputed {
		panRes, panErr := l.vp.Pan(sample.AxisX, sample.AxisY)
		res.Moved = res.Moved || panRes.Moved
		res.Recomputed = panRes.Recomputed
		err = errors.Join(err, panErr)
	}

	return errors.Join(err, l.present(res))
}

// Run executes n ticks, sleeping TickDelay between them. It stops early
// only on presentation errors; recompute failures are logged and the
// loop continues on the last-good buffer.
func (l *Loop) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := l.Tick(); err != nil {
			if errors.Is(err, ErrBufferTooLarge) {
				Logger().Warn("recompute failed, keeping last-good buffer", "err", err)
				continue
			}
			return err
		}
		if l.TickDelay > 0 {
			time.Sleep(l.TickDelay)
		}
	}
	return nil
}

// present pushes the tick's outcome to the surface: a full buffer swap
// after a recompute, a bare offset update after a plain pan, and an
// overlay update whenever the indicator actually changed.
func (l *Loop) present(res Result) error {
	off := l.vp.Offset()
	switch {
	case res.Recomputed:
		l.surface.SetStatus("")
		if err := l.surface.Present(l.vp.Buffer(), l.vp.Palette()); err != nil {
			return err
		}
		if err := l.surface.SetOffset(off.X, off.Y); err != nil {
			return err
		}
		l.indicator.Invalidate()
	case res.Moved:
		if err := l.surface.SetOffset(off.X, off.Y); err != nil {
			return err
		}
	}

	if l.indicator.Update(l.vp) {
		l.surface.SetOverlay(l.indicator.Bitmap(), l.overlayPal)
	}
	return nil
}
