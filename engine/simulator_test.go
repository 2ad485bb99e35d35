package engine

import (
	"math"
	"testing"

	"github.com/cardsynth/cardsynth"
)

func TestRotorAcceleratesTowardTarget(t *testing.T) {
	r := Rotor{Speed: 40, TargetSpeed: 400, Accel: 100, Decel: 300}
	r.Advance(1)
	if r.Speed != 140 {
		t.Errorf("speed after 1s = %v, want 140", r.Speed)
	}
	for i := 0; i < 10; i++ {
		r.Advance(1)
	}
	if r.Speed != 400 {
		t.Errorf("speed should settle exactly on target, got %v", r.Speed)
	}
}

func TestRotorDecelerationIsAsymmetric(t *testing.T) {
	r := Rotor{Speed: 400, TargetSpeed: 40, Accel: 100, Decel: 300}
	r.Advance(1)
	if r.Speed != 100 {
		t.Errorf("slowing down should use Decel: speed = %v, want 100", r.Speed)
	}
}

func TestRotorAngleWraps(t *testing.T) {
	r := Rotor{Speed: 120, TargetSpeed: 120, Accel: 1, Decel: 1}
	// 120 RPM = 2 rev/s; 0.75 s = 1.5 revolutions
	r.Advance(0.75)
	if r.Angle < 0 || r.Angle >= 2*math.Pi {
		t.Fatalf("angle %v outside [0, 2π)", r.Angle)
	}
	if math.Abs(r.Angle-math.Pi) > 1e-9 {
		t.Errorf("angle = %v, want π", r.Angle)
	}
}

func TestRotorZeroDeltaIsNoOp(t *testing.T) {
	r := Rotor{Angle: 1, Speed: 100, TargetSpeed: 200, Accel: 50, Decel: 50}
	r.Advance(0)
	r.Advance(-1)
	if r.Angle != 1 || r.Speed != 100 {
		t.Errorf("non-positive delta must not move the rotor: %+v", r)
	}
}

func TestRotarySpeedSwitch(t *testing.T) {
	rot := newRotary(cardsynth.RotaryParams{
		HornSlow: 40, HornFast: 400, DrumSlow: 30, DrumFast: 340,
		HornAccel: 200, HornDecel: 400, DrumAccel: 100, DrumDecel: 200,
	})
	rot.setFast(true)
	rot.advance(10)
	if rot.horn.Speed != 400 || rot.drum.Speed != 340 {
		t.Errorf("fast targets not reached: horn %v drum %v", rot.horn.Speed, rot.drum.Speed)
	}
	rot.setFast(false)
	rot.advance(0.5)
	if rot.horn.Speed != 200 {
		t.Errorf("horn should brake at Decel: %v, want 200", rot.horn.Speed)
	}
}
