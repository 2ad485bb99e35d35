package midi_test

import (
	"math"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/cardsynth/cardsynth/engine"
	"github.com/cardsynth/cardsynth/midi"
)

func TestTranslateNoteMessages(t *testing.T) {
	in, ok := midi.Translate(gomidi.NoteOn(0, 60, 100))
	if !ok {
		t.Fatal("NoteOn not translated")
	}
	on, ok := in.(engine.NoteOn)
	if !ok || on.Note != 60 || on.Velocity != 100 {
		t.Fatalf("got %#v", in)
	}

	in, ok = midi.Translate(gomidi.NoteOff(0, 60))
	if !ok {
		t.Fatal("NoteOff not translated")
	}
	if off, ok := in.(engine.NoteOff); !ok || off.Note != 60 {
		t.Fatalf("got %#v", in)
	}
}

func TestTranslateControlChange(t *testing.T) {
	in, ok := midi.Translate(gomidi.ControlChange(3, 64, 127))
	if !ok {
		t.Fatal("ControlChange not translated")
	}
	cc, ok := in.(engine.MidiCC)
	if !ok || cc.Controller != 64 || cc.Value != 127 {
		t.Fatalf("got %#v", in)
	}
}

func TestTranslatePitchBend(t *testing.T) {
	in, ok := midi.Translate(gomidi.Pitchbend(0, 8191))
	if !ok {
		t.Fatal("Pitchbend not translated")
	}
	pb, ok := in.(engine.PitchBend)
	if !ok || math.Abs(pb.Value-8191.0/8192) > 1e-9 {
		t.Fatalf("got %#v", in)
	}

	in, _ = midi.Translate(gomidi.Pitchbend(0, -8192))
	if pb := in.(engine.PitchBend); pb.Value != -1 {
		t.Fatalf("full downward bend should map to -1, got %v", pb.Value)
	}
}

func TestTranslateIgnoresOtherMessages(t *testing.T) {
	if _, ok := midi.Translate(gomidi.Activesense()); ok {
		t.Error("active sense must not translate")
	}
	if _, ok := midi.Translate(gomidi.AfterTouch(0, 50)); ok {
		t.Error("aftertouch must not translate")
	}
}
