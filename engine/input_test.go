package engine

import (
	"testing"

	"github.com/cardsynth/cardsynth"
)

type singleSource struct{ p *cardsynth.Preset }

func (s singleSource) Preset(id string) (*cardsynth.Preset, bool) { return s.p, id == "p" }

// TestInputsExhaustive feeds one value of every Input variant through the
// reducer. Adding a new variant without a Process case keeps this list
// honest: extend it here and the reducer together.
func TestInputsExhaustive(t *testing.T) {
	preset := &cardsynth.Preset{
		Name:     "p",
		Card:     cardsynth.Sampler,
		Envelope: cardsynth.EnvelopeParams{Attack: 0.01, Decay: 0.1, Sustain: 0.5, Release: 0.1},
		Articulations: []cardsynth.Articulation{{
			Name: "a",
			Zones: []cardsynth.Zone{{
				KeyHigh: 127, Volume: 1,
				Layers: []cardsynth.VelocityLayer{{VelHigh: 127, Samples: []cardsynth.Sample{{ID: "s", Root: 60, Gain: 1}}}},
			}},
		}},
	}
	preset.ApplyDefaults()
	inputs := []Input{
		NoteOn{Note: 60, Velocity: 100},
		NoteOff{Note: 60},
		Tick{Time: 0.01, Delta: 0.01},
		LoadPreset{ID: "p"},
		SetArticulation{Name: "a"},
		SustainPedal{Down: true},
		PitchBend{Value: 0.5},
		ModWheel{Value: 0.5},
		Expression{Value: 0.5},
		SetMasterVolume{Value: 0.5},
		SetPortamento{Enabled: true, Time: 0.1},
		SetMono{Mono: true, Legato: true},
		SetStealMode{Mode: cardsynth.StealQuietest},
		SetRotarySpeed{Fast: true},
		AllNotesOff{},
		AllSoundOff{},
		MidiCC{Controller: 64, Value: 127},
	}
	e := New(singleSource{preset})
	e.Process(LoadPreset{ID: "p"})
	for _, in := range inputs {
		e.Process(in) // must not panic for any variant, loaded or not
	}
	empty := New(nil)
	for _, in := range inputs {
		empty.Process(in)
	}
}
