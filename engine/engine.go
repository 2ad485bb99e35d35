package engine

import (
	"fmt"
	"math/rand"

	"github.com/cardsynth/cardsynth"
)

type (
	// PresetSource is the read-only preset library the engine consults on
	// LoadPreset. It is injected at construction so the engine never
	// reaches for a global registry and tests can supply their own.
	PresetSource interface {
		Preset(id string) (*cardsynth.Preset, bool)
	}

	// Engine is the polyphonic voice engine of one card. It is a
	// single-threaded reducer: every discrete input goes through Process,
	// inputs are applied strictly in arrival order, and only Tick
	// advances time. Voices live in a pre-sized pool mutated in place;
	// finished voices are compacted out at the end of each tick.
	Engine struct {
		presets  PresetSource
		preset   *cardsynth.Preset
		presetID string
		play     cardsynth.PlayParams
		art      int

		voices       []*Voice
		held         [128]bool
		sustain      bool
		pitchBend    float64 // -1 .. 1
		modWheel     float64
		expression   float64
		masterVolume float64
		voiceCounter int
		lastPitch    float64
		haveLast     bool
		now          float64

		roundRobin map[rrKey]int
		rand       *rand.Rand
		rotary     *rotary

		outputs []Output
	}
)

// New creates an engine backed by the given preset source. The random
// source used by "random" round-robin zones is seeded deterministically;
// use SeedRandom for anything else.
func New(presets PresetSource) *Engine {
	return &Engine{
		presets:      presets,
		expression:   1,
		masterVolume: 1,
		roundRobin:   make(map[rrKey]int),
		rand:         rand.New(rand.NewSource(1)),
	}
}

// SeedRandom reseeds the RNG behind "random" round-robin selection.
func (e *Engine) SeedRandom(seed int64) {
	e.rand = rand.New(rand.NewSource(seed))
}

// LoadPresetValue installs a preset directly, bypassing the preset
// source. Mainly for tests and embedders that manage presets themselves.
func (e *Engine) LoadPresetValue(id string, preset *cardsynth.Preset) {
	e.installPreset(id, preset)
}

// Preset returns the currently loaded preset, or nil.
func (e *Engine) Preset() *cardsynth.Preset { return e.preset }

// NumVoices returns the number of voices currently in the pool, the
// releasing and choking ones included.
func (e *Engine) NumVoices() int { return len(e.voices) }

// ActiveVoices iterates over the live voices in trigger order.
func (e *Engine) ActiveVoices(yield func(*Voice) bool) {
	for _, v := range e.voices {
		if !yield(v) {
			return
		}
	}
}

// Rotary returns the horn and drum rotor state for rendering, or zero
// rotors when the preset has no rotary section.
func (e *Engine) Rotary() (horn, drum Rotor) {
	if e.rotary == nil {
		return Rotor{}, Rotor{}
	}
	return e.rotary.horn, e.rotary.drum
}

// Process applies one input and returns the lifecycle events it caused.
// The returned slice is valid until the next Process call. Malformed
// runtime input never panics: it is either silently absorbed, clamped, or
// reported through an Error output, per input kind.
func (e *Engine) Process(input Input) []Output {
	e.outputs = e.outputs[:0]
	switch in := input.(type) {
	case NoteOn:
		e.noteOn(in.Note, in.Velocity)
	case NoteOff:
		e.noteOff(in.Note)
	case Tick:
		e.tick(in.Time, in.Delta)
	case LoadPreset:
		e.loadPreset(in.ID)
	case SetArticulation:
		e.setArticulation(in.Name)
	case SustainPedal:
		e.setSustain(in.Down)
	case PitchBend:
		e.pitchBend = cardsynth.Clamp(in.Value, -1, 1)
	case ModWheel:
		e.setModWheel(cardsynth.Clamp(in.Value, 0, 1))
	case Expression:
		e.expression = cardsynth.Clamp(in.Value, 0, 1)
	case SetMasterVolume:
		e.masterVolume = cardsynth.Clamp(in.Value, 0, 1)
	case SetPortamento:
		e.play.Portamento = in.Enabled
		e.play.PortamentoTime = cardsynth.Clamp(in.Time, 0, 10)
	case SetMono:
		e.play.Mono = in.Mono
		e.play.Legato = in.Legato
	case SetStealMode:
		switch in.Mode {
		case cardsynth.StealOldest, cardsynth.StealQuietest, cardsynth.StealLowest,
			cardsynth.StealHighest, cardsynth.StealNone:
			e.play.StealMode = in.Mode
		}
	case SetRotarySpeed:
		if e.rotary != nil {
			e.rotary.setFast(in.Fast)
		}
	case AllNotesOff:
		e.allNotesOff()
	case AllSoundOff:
		e.allSoundOff()
	case MidiCC:
		e.midiCC(in.Controller, in.Value)
	}
	return e.outputs
}

func (e *Engine) emit(out Output) {
	e.outputs = append(e.outputs, out)
}

func (e *Engine) loadPreset(id string) {
	if e.presets == nil {
		e.emit(Error{Message: "no preset source"})
		return
	}
	preset, ok := e.presets.Preset(id)
	if !ok {
		e.emit(Error{Message: fmt.Sprintf("unknown preset %q", id)})
		return
	}
	e.installPreset(id, preset)
	e.emit(PresetLoaded{ID: id})
}

func (e *Engine) installPreset(id string, preset *cardsynth.Preset) {
	e.preset = preset
	e.presetID = id
	e.play = preset.Play
	e.art = 0
	e.voices = e.voices[:0]
	if cap(e.voices) < e.play.MaxPolyphony {
		e.voices = make([]*Voice, 0, e.play.MaxPolyphony)
	}
	e.roundRobin = make(map[rrKey]int)
	e.held = [128]bool{}
	e.haveLast = false
	e.rotary = nil
	if preset.Rotary != nil {
		e.rotary = newRotary(*preset.Rotary)
	}
}

func (e *Engine) setArticulation(name string) {
	if e.preset == nil {
		e.emit(Error{Message: "no preset loaded"})
		return
	}
	for i := range e.preset.Articulations {
		if e.preset.Articulations[i].Name == name {
			if e.art != i {
				e.art = i
				e.emit(ArticulationChanged{Name: name})
			}
			return
		}
	}
	e.emit(Error{Message: fmt.Sprintf("unknown articulation %q", name)})
}

// setModWheel stores the wheel position and doubles as the rotary speed
// switch on presets with a rotary section: the upper half of the wheel
// selects the fast speed.
func (e *Engine) setModWheel(v float64) {
	e.modWheel = v
	if e.rotary != nil {
		e.rotary.setFast(v >= 0.5)
	}
}

func (e *Engine) setSustain(down bool) {
	e.sustain = down
	if down {
		return
	}
	// pedal lifted: release every voice whose key is no longer held
	for _, v := range e.voices {
		if v.Note >= 0 && v.Note < 128 && e.held[v.Note] {
			continue
		}
		v.release()
	}
}

func (e *Engine) allNotesOff() {
	e.held = [128]bool{}
	for _, v := range e.voices {
		v.release()
	}
}

func (e *Engine) allSoundOff() {
	for _, v := range e.voices {
		e.emit(VoiceEnd{VoiceID: v.ID, Note: v.Note})
	}
	e.voices = e.voices[:0]
}

// midiCC translates the generic controller input into the typed inputs
// the reducer understands; unknown controllers are silently ignored.
func (e *Engine) midiCC(controller, value int) {
	v := cardsynth.Clamp(float64(value), 0, 127) / 127
	switch controller {
	case 1:
		e.setModWheel(v)
	case 5:
		e.play.PortamentoTime = v * 2 // 0 .. 2 seconds
	case 7:
		e.masterVolume = v
	case 11:
		e.expression = v
	case 64:
		e.setSustain(value >= 64)
	case 65:
		e.play.Portamento = value >= 64
	case 120:
		e.allSoundOff()
	case 123:
		e.allNotesOff()
	}
}
