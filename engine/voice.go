package engine

import (
	"math"

	"github.com/cardsynth/cardsynth"
)

// Voice is one active instance of a triggered note. The Zone and Sample
// references are non-owning: the preset outlives every voice. Consumers
// driving actual audio read Gain, Pitch and Freq off live voices after
// each tick; everything else is engine bookkeeping.
type Voice struct {
	ID       int
	Note     int
	Velocity int
	Zone     *cardsynth.Zone
	Sample   *cardsynth.Sample

	// Pitch glides toward Target when portamento is on; both are in MIDI
	// note units including zone transpose and sample tune. Freq is the
	// rendered frequency in Hz, including pitch bend and scanner vibrato.
	Pitch  float64
	Target float64
	Freq   float64

	// Gain is the control-rate output level: envelope times velocity,
	// zone and sample gains, expression and master volume.
	Gain float64

	StartTime float64
	Releasing bool
	Choking   bool

	env       envelope
	chokeFade float64
}

// EnvelopeValue is the current 0..1 envelope level.
func (v *Voice) EnvelopeValue() float64 { return v.env.value }

// advance moves the voice one tick forward and reports whether it is
// finished and should be retired. Choking voices bypass the envelope and
// fade at the fixed choke rate instead.
func (v *Voice) advance(dt, portamentoTime float64) (finished bool) {
	v.glide(dt, portamentoTime)
	if v.Choking {
		v.chokeFade -= chokeFadeRate * dt
		return v.chokeFade <= 0
	}
	return v.env.advance(dt)
}

// glide moves Pitch toward Target by dt/portamentoTime of the remaining
// distance, snapping once within a hundredth of a semitone.
func (v *Voice) glide(dt, portamentoTime float64) {
	if v.Pitch == v.Target {
		return
	}
	if portamentoTime <= 0 {
		v.Pitch = v.Target
		return
	}
	fraction := dt / portamentoTime
	if fraction > 1 {
		fraction = 1
	}
	v.Pitch += (v.Target - v.Pitch) * fraction
	if math.Abs(v.Target-v.Pitch) < 0.01 {
		v.Pitch = v.Target
	}
}

// release puts the voice on its release ramp. Idempotent.
func (v *Voice) release() {
	v.Releasing = true
	v.env.release()
}

// choke starts the fixed-rate choke fade, bypassing the normal release.
func (v *Voice) choke() {
	v.Choking = true
	v.chokeFade = 1
}

func noteToFreq(pitch float64) float64 {
	return 440 * math.Exp2((pitch-69)/12)
}
