package engine

import (
	"math"
	"testing"

	"github.com/cardsynth/cardsynth"
)

func TestEnvelopeStageTiming(t *testing.T) {
	e := newEnvelope(cardsynth.EnvelopeParams{Attack: 0.01, Decay: 0.1, Sustain: 0.5, Release: 0.2})
	e.advance(0.01)
	if e.stage != stageDecay {
		t.Fatalf("after full attack, stage = %v, want decay", e.stage)
	}
	if e.value != 1.0 {
		t.Fatalf("after full attack, value = %v, want 1.0", e.value)
	}
	for i := 0; i < 10; i++ {
		e.advance(0.01)
	}
	if e.stage != stageSustain {
		t.Errorf("after full decay, stage = %v, want sustain", e.stage)
	}
	if math.Abs(e.value-0.5) > 1e-9 {
		t.Errorf("after full decay, value = %v, want 0.5", e.value)
	}
}

func TestEnvelopeInstantStages(t *testing.T) {
	e := newEnvelope(cardsynth.EnvelopeParams{Attack: 0, Decay: 0, Sustain: 0.7, Release: 0})
	if e.stage != stageDecay || e.value != 1 {
		t.Fatalf("instant attack should start in decay at 1, got stage %v value %v", e.stage, e.value)
	}
	e.advance(0.001)
	if e.stage != stageSustain || e.value != 0.7 {
		t.Fatalf("instant decay should land on sustain level, got stage %v value %v", e.stage, e.value)
	}
	e.release()
	if !e.finished() || e.value != 0 {
		t.Fatalf("instant release should finish immediately, got stage %v value %v", e.stage, e.value)
	}
}

func TestEnvelopeReleaseFromCurrentValue(t *testing.T) {
	e := newEnvelope(cardsynth.EnvelopeParams{Attack: 1, Decay: 1, Sustain: 0.5, Release: 0.1})
	e.advance(0.25) // mid-attack
	if e.stage != stageAttack || math.Abs(e.value-0.25) > 1e-9 {
		t.Fatalf("mid-attack value = %v (stage %v), want 0.25", e.value, e.stage)
	}
	e.release()
	if e.stage != stageRelease {
		t.Fatalf("release() from attack should switch stage, got %v", e.stage)
	}
	e.advance(0.05) // halfway through release
	if math.Abs(e.value-0.125) > 1e-9 {
		t.Errorf("release should ramp from the interrupted value: got %v, want 0.125", e.value)
	}
	if finished := e.advance(0.05); !finished {
		t.Errorf("release ramp should have completed")
	}
	if e.value != 0 {
		t.Errorf("finished envelope value = %v, want 0", e.value)
	}
}

func TestEnvelopeTimeCarriesAcrossStages(t *testing.T) {
	e := newEnvelope(cardsynth.EnvelopeParams{Attack: 0.005, Decay: 0.01, Sustain: 0.5, Release: 0.2})
	// a single coarse tick spans the whole attack and half the decay
	e.advance(0.01)
	if e.stage != stageDecay {
		t.Fatalf("stage = %v, want decay", e.stage)
	}
	if math.Abs(e.value-0.75) > 1e-9 {
		t.Errorf("leftover tick time should advance the decay: value = %v, want 0.75", e.value)
	}
}

func TestEnvelopeCurveShapesEndpoints(t *testing.T) {
	for _, curve := range []string{"linear", "exponential", "logarithmic"} {
		e := newEnvelope(cardsynth.EnvelopeParams{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1, Curve: curve})
		e.advance(0.1)
		if e.stage != stageDecay || e.value != 1 {
			t.Errorf("curve %s: attack must still peak at 1 after 0.1s, got %v", curve, e.value)
		}
		prev := e.value
		for i := 0; i < 10; i++ {
			e.advance(0.01)
			if e.value > prev+1e-9 {
				t.Errorf("curve %s: decay must be non-increasing", curve)
			}
			prev = e.value
		}
		if math.Abs(e.value-0.5) > 1e-9 {
			t.Errorf("curve %s: decay must land on sustain, got %v", curve, e.value)
		}
	}
}
