package input

import (
	"testing"
)

func TestMapKey(t *testing.T) {
	tests := []struct {
		name    string
		key     int
		pressed bool
		want    Kind
		wantOK  bool
	}{
		{"A press zooms in", ButtonA, true, ZoomIn, true},
		{"B press zooms out", ButtonB, true, ZoomOut, true},
		{"A release is nothing", ButtonA, false, 0, false},
		{"B release is nothing", ButtonB, false, 0, false},
		{"unassigned key", 5, true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := MapKey(tt.key, tt.pressed)
			if ok != tt.wantOK {
				t.Fatalf("MapKey(%d, %v) ok = %v, want %v", tt.key, tt.pressed, ok, tt.wantOK)
			}
			if ok && ev.Kind != tt.want {
				t.Errorf("MapKey(%d, %v) kind = %v, want %v", tt.key, tt.pressed, ev.Kind, tt.want)
			}
		})
	}
}

func TestNormalizeAxis(t *testing.T) {
	tests := []struct {
		name string
		raw  uint16
		want float64
	}{
		{"center", AxisCenter, 0},
		{"inside dead-zone high", AxisCenter + DefaultDeadZone, 0},
		{"inside dead-zone low", AxisCenter - DefaultDeadZone, 0},
		{"just past dead-zone high", AxisCenter + DefaultDeadZone + 1, float64(DefaultDeadZone+1) / AxisCenter},
		{"just past dead-zone low", AxisCenter - DefaultDeadZone - 1, -float64(DefaultDeadZone+1) / AxisCenter},
		{"full deflection low", 0, -1},
		{"full deflection high", 65535, float64(65535-AxisCenter) / AxisCenter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAxis(tt.raw, DefaultDeadZone)
			if got != tt.want {
				t.Errorf("NormalizeAxis(%d) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeAxis_ZeroDeadZone(t *testing.T) {
	if got := NormalizeAxis(AxisCenter+1, 0); got <= 0 {
		t.Errorf("one tick off center with no dead-zone = %v, want positive", got)
	}
	if got := NormalizeAxis(AxisCenter, 0); got != 0 {
		t.Errorf("exact center = %v, want 0", got)
	}
}

func TestState_PollDrainsOneEvent(t *testing.T) {
	s := NewState(8)
	s.PushKey(ButtonA, true)
	s.PushKey(ButtonB, true)

	first := s.Poll()
	if !first.OK || first.Event.Kind != ZoomIn {
		t.Fatalf("first poll = %+v, want zoom-in event", first)
	}
	second := s.Poll()
	if !second.OK || second.Event.Kind != ZoomOut {
		t.Fatalf("second poll = %+v, want zoom-out event", second)
	}
	third := s.Poll()
	if third.OK {
		t.Fatalf("third poll = %+v, want empty queue", third)
	}
}

func TestState_ReleasesIgnored(t *testing.T) {
	s := NewState(8)
	s.PushKey(ButtonA, false)
	if s.Poll().OK {
		t.Error("release event was queued")
	}
}

func TestState_QueueDropsOldest(t *testing.T) {
	s := NewState(2)
	s.PushKey(ButtonA, true)
	s.PushKey(ButtonA, true)
	s.PushKey(ButtonB, true) // drops the first zoom-in

	first := s.Poll()
	second := s.Poll()
	if first.Event.Kind != ZoomIn || second.Event.Kind != ZoomOut {
		t.Errorf("queue = [%v %v], want [zoom-in zoom-out]", first.Event.Kind, second.Event.Kind)
	}
	if s.Poll().OK {
		t.Error("queue not empty after draining capacity")
	}
}

func TestState_Axes(t *testing.T) {
	s := NewState(1)

	// Default axes rest at center.
	if got := s.Poll(); got.AxisX != 0 || got.AxisY != 0 {
		t.Errorf("resting axes = (%v, %v), want (0, 0)", got.AxisX, got.AxisY)
	}

	s.SetAxes(65535, 0)
	got := s.Poll()
	if got.AxisX <= 0 || got.AxisY != -1 {
		t.Errorf("deflected axes = (%v, %v), want (positive, -1)", got.AxisX, got.AxisY)
	}

	// Axes are held, not consumed.
	again := s.Poll()
	if again.AxisX != got.AxisX || again.AxisY != got.AxisY {
		t.Errorf("held axes = (%v, %v), want (%v, %v)", again.AxisX, again.AxisY, got.AxisX, got.AxisY)
	}
}

func TestState_DeadZoneOverride(t *testing.T) {
	s := NewState(1)
	s.SetDeadZone(0)
	s.SetAxes(AxisCenter+1, AxisCenter)
	if got := s.Poll(); got.AxisX <= 0 {
		t.Errorf("AxisX = %v, want positive with zero dead-zone", got.AxisX)
	}
}

func TestScript_Replay(t *testing.T) {
	sc := NewScript(
		Press(ZoomIn),
		Move(0.5, -0.5),
	)

	if sc.Done() {
		t.Fatal("fresh script reports done")
	}

	first := sc.Poll()
	if !first.OK || first.Event.Kind != ZoomIn {
		t.Errorf("first sample = %+v, want zoom-in press", first)
	}
	second := sc.Poll()
	if second.OK || second.AxisX != 0.5 || second.AxisY != -0.5 {
		t.Errorf("second sample = %+v, want move (0.5, -0.5)", second)
	}
	if !sc.Done() {
		t.Error("consumed script not done")
	}

	// Exhausted scripts return neutral samples.
	neutral := sc.Poll()
	if neutral.OK || neutral.AxisX != 0 || neutral.AxisY != 0 {
		t.Errorf("exhausted sample = %+v, want neutral", neutral)
	}
}
