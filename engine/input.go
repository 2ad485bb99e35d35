package engine

import "github.com/cardsynth/cardsynth"

type (
	// Input is a discrete command fed to the engine reducer. The union is
	// sealed by the unexported marker method so the reducer's type switch
	// in Process covers every variant; adding a variant without handling
	// it makes Process fall through to the no-op default, which the
	// TestInputsExhaustive test catches.
	Input interface{ input() }

	NoteOn struct {
		Note     int
		Velocity int
	}

	NoteOff struct {
		Note int
	}

	// Tick advances all engine time by Delta seconds. Time is the
	// absolute time of the tick; Delta ≤ 0 makes the tick a no-op.
	Tick struct {
		Time  float64
		Delta float64
	}

	LoadPreset struct {
		ID string
	}

	SetArticulation struct {
		Name string
	}

	SustainPedal struct {
		Down bool
	}

	// PitchBend value is -1 .. 1 of the configured bend range.
	PitchBend struct {
		Value float64
	}

	ModWheel struct {
		Value float64 // 0 .. 1
	}

	Expression struct {
		Value float64 // 0 .. 1
	}

	SetMasterVolume struct {
		Value float64 // 0 .. 1
	}

	SetPortamento struct {
		Enabled bool
		Time    float64 // seconds
	}

	SetMono struct {
		Mono   bool
		Legato bool
	}

	SetStealMode struct {
		Mode cardsynth.StealMode
	}

	// SetRotarySpeed switches the rotary simulation between its slow and
	// fast target speeds. No-op for presets without rotary parameters.
	SetRotarySpeed struct {
		Fast bool
	}

	AllNotesOff struct{}

	AllSoundOff struct{}

	// MidiCC is the generic controller input; the reducer translates the
	// controllers it knows into the typed inputs above and ignores the
	// rest.
	MidiCC struct {
		Controller int
		Value      int // 0 .. 127
	}
)

func (NoteOn) input()          {}
func (NoteOff) input()         {}
func (Tick) input()            {}
func (LoadPreset) input()      {}
func (SetArticulation) input() {}
func (SustainPedal) input()    {}
func (PitchBend) input()       {}
func (ModWheel) input()        {}
func (Expression) input()      {}
func (SetMasterVolume) input() {}
func (SetPortamento) input()   {}
func (SetMono) input()         {}
func (SetStealMode) input()    {}
func (SetRotarySpeed) input()  {}
func (AllNotesOff) input()     {}
func (AllSoundOff) input()     {}
func (MidiCC) input()          {}
