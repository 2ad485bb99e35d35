package engine

import (
	"math"

	"github.com/cardsynth/cardsynth"
)

// Rotor is an acceleration-limited speed and phase integrator: each tick
// the speed moves toward the target by at most Accel (or Decel when slowing
// down) revolutions-per-minute per second, and the angle accumulates at the
// current speed, wrapped to [0, 2π). It is the common core behind the
// rotating-speaker horn and drum and the scanner vibrato.
type Rotor struct {
	Angle       float64 // radians, 0 .. 2π
	Speed       float64 // RPM
	TargetSpeed float64 // RPM
	Accel       float64 // RPM per second
	Decel       float64 // RPM per second, used when |speed| must decrease
}

// Advance integrates the rotor by dt seconds.
func (r *Rotor) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	rate := r.Accel
	if math.Abs(r.TargetSpeed) < math.Abs(r.Speed) {
		rate = r.Decel
	}
	diff := r.TargetSpeed - r.Speed
	step := rate * dt
	if math.Abs(diff) <= step {
		r.Speed = r.TargetSpeed
	} else if diff > 0 {
		r.Speed += step
	} else {
		r.Speed -= step
	}
	r.Angle += r.Speed / 60 * 2 * math.Pi * dt
	r.Angle = math.Mod(r.Angle, 2*math.Pi)
	if r.Angle < 0 {
		r.Angle += 2 * math.Pi
	}
}

// rotary is the rotating-speaker assembly of an organ card: horn and drum
// rotors with independent speeds plus the scanner vibrato phase.
type rotary struct {
	params  cardsynth.RotaryParams
	horn    Rotor
	drum    Rotor
	scanner Rotor
	fast    bool
}

func newRotary(params cardsynth.RotaryParams) *rotary {
	r := &rotary{params: params}
	r.horn = Rotor{Speed: params.HornSlow, TargetSpeed: params.HornSlow, Accel: params.HornAccel, Decel: params.HornDecel}
	r.drum = Rotor{Speed: params.DrumSlow, TargetSpeed: params.DrumSlow, Accel: params.DrumAccel, Decel: params.DrumDecel}
	// the scanner runs at a fixed rate; RPM = Hz * 60
	scannerRPM := params.ScannerRate * 60
	r.scanner = Rotor{Speed: scannerRPM, TargetSpeed: scannerRPM, Accel: scannerRPM, Decel: scannerRPM}
	return r
}

func (r *rotary) setFast(fast bool) {
	r.fast = fast
	if fast {
		r.horn.TargetSpeed = r.params.HornFast
		r.drum.TargetSpeed = r.params.DrumFast
	} else {
		r.horn.TargetSpeed = r.params.HornSlow
		r.drum.TargetSpeed = r.params.DrumSlow
	}
}

func (r *rotary) advance(dt float64) {
	r.horn.Advance(dt)
	r.drum.Advance(dt)
	r.scanner.Advance(dt)
}

// vibrato is the scanner pitch offset in semitones at the current phase.
func (r *rotary) vibrato() float64 {
	return r.params.ScannerDepth * math.Sin(r.scanner.Angle)
}

// chokeFadeRate is how fast a choking voice fades, in units of full scale
// per second. The fade is a one-dimensional cousin of the rotor
// integration: a scalar decaying at a fixed rate until the voice is
// removed at zero. The rate is a constant and deliberately independent of
// PlayParams.ChokeTimeMs; see DESIGN.md.
const chokeFadeRate = 24.0
