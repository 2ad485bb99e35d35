package engine

import (
	"math"

	"github.com/cardsynth/cardsynth"
)

type envStage int

const (
	stageAttack envStage = iota
	stageDecay
	stageSustain
	stageRelease
	stageDone
)

// envelope is the ADSR stage machine driving a voice's 0..1 amplitude.
// Stage boundaries are time-driven, except for the transition to Release,
// which is forced externally through release() at any stage and value.
// Zero-length stages jump instantly, and leftover tick time carries into
// the next stage so coarse ticks do not stretch short stages.
type envelope struct {
	params      cardsynth.EnvelopeParams
	stage       envStage
	value       float64
	stageTime   float64
	releaseFrom float64
}

func newEnvelope(params cardsynth.EnvelopeParams) envelope {
	e := envelope{params: params}
	if params.Attack <= 0 {
		// instant attack starts the voice directly in Decay at full level
		e.value = 1
		e.stage = stageDecay
	}
	return e
}

// release forces the transition to the Release stage from whichever stage
// the envelope is in, ramping from the current value to 0.
func (e *envelope) release() {
	if e.stage == stageRelease || e.stage == stageDone {
		return
	}
	e.releaseFrom = e.value
	e.stageTime = 0
	e.stage = stageRelease
	if e.params.Release <= 0 {
		e.value = 0
		e.stage = stageDone
	}
}

func (e *envelope) releasing() bool { return e.stage == stageRelease || e.stage == stageDone }
func (e *envelope) finished() bool  { return e.stage == stageDone }

// advance moves the envelope forward by dt seconds and reports whether the
// release ramp has completed.
func (e *envelope) advance(dt float64) (finished bool) {
	for dt > 0 {
		switch e.stage {
		case stageAttack:
			if e.params.Attack <= 0 {
				e.value = 1
				e.stage = stageDecay
				e.stageTime = 0
				continue
			}
			e.stageTime += dt
			if e.stageTime >= e.params.Attack {
				dt = e.stageTime - e.params.Attack
				e.value = 1
				e.stage = stageDecay
				e.stageTime = 0
				continue
			}
			e.value = shape(e.stageTime/e.params.Attack, e.params.Curve)
			dt = 0
		case stageDecay:
			if e.params.Decay <= 0 {
				e.value = e.params.Sustain
				e.stage = stageSustain
				continue
			}
			e.stageTime += dt
			if e.stageTime >= e.params.Decay {
				e.value = e.params.Sustain
				e.stage = stageSustain
				continue
			}
			e.value = 1 - (1-e.params.Sustain)*shape(e.stageTime/e.params.Decay, e.params.Curve)
			dt = 0
		case stageSustain:
			e.value = e.params.Sustain
			dt = 0
		case stageRelease:
			e.stageTime += dt
			if e.stageTime >= e.params.Release {
				e.value = 0
				e.stage = stageDone
				continue
			}
			e.value = e.releaseFrom * (1 - shape(e.stageTime/e.params.Release, e.params.Curve))
			dt = 0
		case stageDone:
			e.value = 0
			dt = 0
		}
	}
	return e.stage == stageDone
}

// shape maps linear stage progress u in [0,1] to the curved progress. It
// changes the interpolation law only; stage timing is unaffected.
func shape(u float64, curve string) float64 {
	switch curve {
	case "exponential":
		return u * u
	case "logarithmic":
		return math.Sqrt(u)
	default:
		return u
	}
}
