package cardsynth

type (
	// CardKind tells which kind of sound generator card a preset drives.
	// The engine semantics are the same for every card; the kind only
	// selects the default playback parameters (see DefaultPlayParams).
	CardKind string

	// Sample is an immutable audio source descriptor. Samples are created
	// at preset load time and never mutated afterwards; voices keep
	// non-owning references to them.
	Sample struct {
		ID         string  `yaml:"id"`
		Root       int     `yaml:"root"`
		SampleRate int     `yaml:"samplerate,omitempty"`
		Length     int     `yaml:"length,omitempty"`
		LoopStart  int     `yaml:"loopstart,omitempty"`
		LoopEnd    int     `yaml:"loopend,omitempty"`
		LoopMode   string  `yaml:"loopmode,omitempty"` // "", "forward" or "pingpong"
		Gain       float64 `yaml:"gain,omitempty"`     // linear, 0 means 1
		Pan        float64 `yaml:"pan,omitempty"`      // -1 .. 1
		Tune       int     `yaml:"tune,omitempty"`     // cents
	}

	// VelocityLayer maps a velocity range to one or more samples. When a
	// layer has several samples, the engine rotates through them
	// (round-robin) or picks one at random, depending on the zone mode.
	// The rotation index is deliberately not stored here: it lives in a
	// side table inside the engine, keyed by zone, so the preset data
	// stays immutable and shareable.
	VelocityLayer struct {
		VelLow  int      `yaml:"vellow"`
		VelHigh int      `yaml:"velhigh"`
		Samples []Sample `yaml:"samples"`
	}

	// Zone maps a key range to velocity layers, with optional per-zone
	// mixing and envelope overrides. Zones within an articulation are
	// scanned in declaration order; the first match wins.
	Zone struct {
		KeyLow    int             `yaml:"keylow"`
		KeyHigh   int             `yaml:"keyhigh"`
		RootKey   int             `yaml:"rootkey,omitempty"`
		Layers    []VelocityLayer `yaml:"layers"`
		Volume    float64         `yaml:"volume,omitempty"` // linear, 0 means 1
		Pan       float64         `yaml:"pan,omitempty"`
		Transpose int             `yaml:"transpose,omitempty"` // semitones
		Envelope  *EnvelopeParams `yaml:"envelope,omitempty"`  // overrides Preset.Envelope

		// ChokeGroup makes voices in the same group silence each other
		// with a short fade (open vs closed hi-hat). ExclusiveGroup cuts
		// same-group voices immediately, with no fade. 0 means no group.
		ChokeGroup     int `yaml:"chokegroup,omitempty"`
		ExclusiveGroup int `yaml:"exclusivegroup,omitempty"`

		// RoundRobin selects among a layer's samples: "cycle" (default
		// when a layer has alternatives) or "random".
		RoundRobin string `yaml:"roundrobin,omitempty"`

		Muted bool `yaml:"muted,omitempty"`
		Solo  bool `yaml:"solo,omitempty"`
	}

	// Articulation is a named, key-switchable collection of zones.
	// Exactly one articulation is active per engine instance at a time.
	Articulation struct {
		Name      string `yaml:"name"`
		KeySwitch int    `yaml:"keyswitch,omitempty"` // MIDI note, 0 = none
		Zones     []Zone `yaml:"zones"`
	}

	// EnvelopeParams are the ADSR timings, in seconds, plus the curve
	// shaping law applied within each stage.
	EnvelopeParams struct {
		Attack  float64 `yaml:"attack"`
		Decay   float64 `yaml:"decay"`
		Sustain float64 `yaml:"sustain"` // level, 0 .. 1
		Release float64 `yaml:"release"`
		Curve   string  `yaml:"curve,omitempty"` // "", "linear", "exponential" or "logarithmic"
	}

	// StealMode tells which voice to retire when a new note arrives at
	// the polyphony limit.
	StealMode string

	// PlayParams are the playback parameters of a card. Zero values mean
	// "use the card kind default"; see DefaultPlayParams.
	PlayParams struct {
		MaxPolyphony   int       `yaml:"maxpolyphony,omitempty"`
		StealMode      StealMode `yaml:"stealmode,omitempty"`
		Mono           bool      `yaml:"mono,omitempty"`
		Legato         bool      `yaml:"legato,omitempty"`
		Portamento     bool      `yaml:"portamento,omitempty"`
		PortamentoTime float64   `yaml:"portamentotime,omitempty"` // seconds
		BendRange      float64   `yaml:"bendrange,omitempty"`      // semitones

		// ChokeTimeMs is kept for preset compatibility but currently
		// unused: choke fades run at a fixed rate regardless of it.
		ChokeTimeMs float64 `yaml:"choketimems,omitempty"`
	}

	// RotaryParams configure the rotating-speaker simulation of organ
	// cards: separate horn and drum rotors with slow/fast target speeds
	// in RPM and asymmetric acceleration, plus the scanner vibrato.
	RotaryParams struct {
		HornSlow    float64 `yaml:"hornslow"`
		HornFast    float64 `yaml:"hornfast"`
		DrumSlow    float64 `yaml:"drumslow"`
		DrumFast    float64 `yaml:"drumfast"`
		HornAccel   float64 `yaml:"hornaccel"`             // RPM per second
		HornDecel   float64 `yaml:"horndecel,omitempty"`   // 0 means same as accel
		DrumAccel   float64 `yaml:"drumaccel"`
		DrumDecel   float64 `yaml:"drumdecel,omitempty"`
		ScannerRate float64 `yaml:"scannerrate,omitempty"`  // Hz
		ScannerDepth float64 `yaml:"scannerdepth,omitempty"` // semitones
	}

	// Preset is the read-only data bundle a card consumes at load time.
	Preset struct {
		Name          string         `yaml:"name"`
		Card          CardKind       `yaml:"card"`
		Play          PlayParams     `yaml:"play,omitempty"`
		Envelope      EnvelopeParams `yaml:"envelope"`
		Rotary        *RotaryParams  `yaml:"rotary,omitempty"`
		Articulations []Articulation `yaml:"articulations"`
	}
)

const (
	Sampler  CardKind = "sampler"
	DrumKit  CardKind = "drumkit"
	Organ    CardKind = "organ"
	Bassline CardKind = "bassline"
)

const (
	StealOldest   StealMode = "oldest"
	StealQuietest StealMode = "quietest"
	StealLowest   StealMode = "lowest"
	StealHighest  StealMode = "highest"
	StealNone     StealMode = "none"
)

func (s *Sample) Copy() Sample {
	return *s
}

func (l *VelocityLayer) Copy() VelocityLayer {
	samples := make([]Sample, len(l.Samples))
	copy(samples, l.Samples)
	return VelocityLayer{VelLow: l.VelLow, VelHigh: l.VelHigh, Samples: samples}
}

func (z *Zone) Copy() Zone {
	ret := *z
	ret.Layers = make([]VelocityLayer, len(z.Layers))
	for i, l := range z.Layers {
		ret.Layers[i] = l.Copy()
	}
	if z.Envelope != nil {
		env := *z.Envelope
		ret.Envelope = &env
	}
	return ret
}

func (a *Articulation) Copy() Articulation {
	zones := make([]Zone, len(a.Zones))
	for i, z := range a.Zones {
		zones[i] = z.Copy()
	}
	return Articulation{Name: a.Name, KeySwitch: a.KeySwitch, Zones: zones}
}

func (p *Preset) Copy() Preset {
	ret := *p
	ret.Articulations = make([]Articulation, len(p.Articulations))
	for i, a := range p.Articulations {
		ret.Articulations[i] = a.Copy()
	}
	if p.Rotary != nil {
		rot := *p.Rotary
		ret.Rotary = &rot
	}
	return ret
}

// AudioSink is the output end of the audio rendering collaborator. The
// engine itself never writes audio; only the demo renderer in
// cmd/cardsynth-play does.
type AudioSink interface {
	WriteAudio(buffer []float32) error
	Close() error
}

type AudioContext interface {
	Output() AudioSink
	Close() error
}
