// Package input adapts raw handheld controls — shift-register buttons
// and a two-axis analog joystick — into the discrete events and
// normalized axis samples the viewport loop consumes.
//
// Buttons arrive as edge-triggered key events (one per physical press,
// pre-debounced by the key scanner). The joystick delivers raw 16-bit
// samples centered on AxisCenter; a dead-zone around the center maps to
// no motion so a resting stick never drifts the view.
package input

import "sync"

// PyGamer shift-register key numbers.
const (
	// ButtonA zooms in.
	ButtonA = 0
	// ButtonB zooms out.
	ButtonB = 1
)

// Analog axis constants for 16-bit joystick samples.
const (
	// AxisCenter is the resting sample value.
	AxisCenter = 32768

	// DefaultDeadZone is the distance from center treated as no motion.
	DefaultDeadZone = 5000
)

// Kind identifies a discrete input event.
type Kind uint8

const (
	// ZoomIn is a zoom-in button press.
	ZoomIn Kind = iota + 1
	// ZoomOut is a zoom-out button press.
	ZoomOut
)

// Event is a single edge-triggered press event.
type Event struct {
	Kind Kind
}

// Sample is one tick's worth of input: at most one discrete event (OK
// reports whether one was present) plus the current axis values in
// [-1, 1], zero inside the dead-zone.
type Sample struct {
	Event Event
	OK    bool
	AxisX float64
	AxisY float64
}

// Source delivers one Sample per loop tick.
type Source interface {
	Poll() Sample
}

// MapKey translates a key-scanner event into a discrete input event.
// Releases and unassigned keys map to nothing.
func MapKey(keyNumber int, pressed bool) (Event, bool) {
	if !pressed {
		return Event{}, false
	}
	switch keyNumber {
	case ButtonA:
		return Event{Kind: ZoomIn}, true
	case ButtonB:
		return Event{Kind: ZoomOut}, true
	default:
		return Event{}, false
	}
}

// NormalizeAxis maps a raw 16-bit sample to [-1, 1] with the given
// dead-zone. Samples whose distance from center is at most deadZone
// yield exactly 0.
func NormalizeAxis(raw uint16, deadZone uint16) float64 {
	d := int(raw) - AxisCenter
	if d >= -int(deadZone) && d <= int(deadZone) {
		return 0
	}
	v := float64(d) / AxisCenter
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	return v
}

// State is a Source fed by a hardware driver: key events are queued (the
// loop drains one per tick, matching the key scanner's own event queue)
// and the latest axis samples are held until the next Poll.
//
// State is safe for concurrent use, so a driver goroutine can push while
// the loop polls.
type State struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	rawX     uint16
	rawY     uint16
	deadZone uint16
}

// NewState creates an input state with the given event queue capacity
// (minimum 1) and the default dead-zone.
func NewState(capacity int) *State {
	if capacity < 1 {
		capacity = 1
	}
	return &State{
		capacity: capacity,
		rawX:     AxisCenter,
		rawY:     AxisCenter,
		deadZone: DefaultDeadZone,
	}
}

// SetDeadZone overrides the axis dead-zone.
func (s *State) SetDeadZone(d uint16) {
	s.mu.Lock()
	s.deadZone = d
	s.mu.Unlock()
}

// PushKey records a key-scanner event. Events beyond the queue capacity
// are dropped oldest-first, so a stuck driver never grows memory.
func (s *State) PushKey(keyNumber int, pressed bool) {
	ev, ok := MapKey(keyNumber, pressed)
	if !ok {
		return
	}
	s.mu.Lock()
	if len(s.events) >= s.capacity {
		s.events = s.events[1:]
	}
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// SetAxes records the latest raw joystick samples.
func (s *State) SetAxes(rawX, rawY uint16) {
	s.mu.Lock()
	s.rawX, s.rawY = rawX, rawY
	s.mu.Unlock()
}

// Poll returns one queued event (if any) and the current normalized axis
// values.
func (s *State) Poll() Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sample Sample
	if len(s.events) > 0 {
		sample.Event = s.events[0]
		sample.OK = true
		s.events = s.events[1:]
	}
	sample.AxisX = NormalizeAxis(s.rawX, s.deadZone)
	sample.AxisY = NormalizeAxis(s.rawY, s.deadZone)
	return sample
}

// Script is a Source that replays a fixed sequence of samples, used by
// demos and tests to drive the loop deterministically. After the
// sequence is exhausted it returns neutral samples.
type Script struct {
	steps []Sample
	next  int
}

// NewScript creates a script from the given samples.
func NewScript(steps ...Sample) *Script {
	return &Script{steps: steps}
}

// Press returns a sample carrying one button event and centered axes.
func Press(k Kind) Sample {
	return Sample{Event: Event{Kind: k}, OK: true}
}

// Move returns an event-free sample with the given normalized axes.
func Move(ax, ay float64) Sample {
	return Sample{AxisX: ax, AxisY: ay}
}

// Poll returns the next scripted sample.
func (sc *Script) Poll() Sample {
	if sc.next >= len(sc.steps) {
		return Sample{}
	}
	s := sc.steps[sc.next]
	sc.next++
	return s
}

// Done reports whether the script has been fully consumed.
func (sc *Script) Done() bool {
	return sc.next >= len(sc.steps)
}
