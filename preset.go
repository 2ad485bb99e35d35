package cardsynth

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultPlayParams returns the playback parameters a card kind gets when
// the preset does not set them. Unknown kinds get the sampler defaults.
func DefaultPlayParams(kind CardKind) PlayParams {
	switch kind {
	case DrumKit:
		return PlayParams{MaxPolyphony: 16, StealMode: StealOldest, BendRange: 2}
	case Bassline:
		return PlayParams{
			MaxPolyphony:   1,
			StealMode:      StealOldest,
			Mono:           true,
			Legato:         true,
			Portamento:     true,
			PortamentoTime: 0.06,
			BendRange:      12,
		}
	case Organ:
		return PlayParams{MaxPolyphony: 32, StealMode: StealOldest, BendRange: 2}
	default:
		return PlayParams{MaxPolyphony: 16, StealMode: StealOldest, BendRange: 2}
	}
}

// ApplyDefaults fills in the zero fields of the preset from the card kind
// defaults, so that the engine never has to special-case missing values.
// It is called by the preset library after unmarshaling, before Validate.
func (p *Preset) ApplyDefaults() {
	def := DefaultPlayParams(p.Card)
	if p.Play.MaxPolyphony <= 0 {
		p.Play.MaxPolyphony = def.MaxPolyphony
	}
	if p.Play.StealMode == "" {
		p.Play.StealMode = def.StealMode
	}
	if !p.Play.Mono {
		p.Play.Mono = def.Mono
		p.Play.Legato = p.Play.Legato || def.Legato
	}
	if !p.Play.Portamento {
		p.Play.Portamento = def.Portamento
	}
	if p.Play.PortamentoTime <= 0 {
		p.Play.PortamentoTime = def.PortamentoTime
	}
	if p.Play.BendRange <= 0 {
		p.Play.BendRange = def.BendRange
	}
	if p.Envelope == (EnvelopeParams{}) {
		p.Envelope = EnvelopeParams{Attack: 0.005, Decay: 0.1, Sustain: 1, Release: 0.2}
	}
	if p.Rotary != nil {
		if p.Rotary.HornDecel <= 0 {
			p.Rotary.HornDecel = p.Rotary.HornAccel
		}
		if p.Rotary.DrumDecel <= 0 {
			p.Rotary.DrumDecel = p.Rotary.DrumAccel
		}
	}
	for a := range p.Articulations {
		for z := range p.Articulations[a].Zones {
			zone := &p.Articulations[a].Zones[z]
			if zone.Volume == 0 {
				zone.Volume = 1
			}
			for l := range zone.Layers {
				for s := range zone.Layers[l].Samples {
					if zone.Layers[l].Samples[s].Gain == 0 {
						zone.Layers[l].Samples[s].Gain = 1
					}
				}
			}
		}
	}
}

// Validate checks the static configuration invariants of a preset.
// A validation error means the preset data itself is malformed; it is a
// programmer/content error, reported once at load time. The engine never
// re-checks these invariants at runtime.
func (p *Preset) Validate() error {
	if len(p.Articulations) == 0 {
		return errors.New("preset has no articulations")
	}
	for ai, a := range p.Articulations {
		if len(a.Zones) == 0 {
			return fmt.Errorf("articulation %d (%s) has no zones", ai, a.Name)
		}
		for zi, z := range a.Zones {
			if z.KeyLow < 0 || z.KeyHigh > 127 || z.KeyLow > z.KeyHigh {
				return fmt.Errorf("articulation %d zone %d: invalid key range %d..%d", ai, zi, z.KeyLow, z.KeyHigh)
			}
			if len(z.Layers) == 0 {
				return fmt.Errorf("articulation %d zone %d: no velocity layers", ai, zi)
			}
			if err := validateLayers(z.Layers); err != nil {
				return fmt.Errorf("articulation %d zone %d: %w", ai, zi, err)
			}
			if z.Envelope != nil {
				if err := z.Envelope.validate(); err != nil {
					return fmt.Errorf("articulation %d zone %d: %w", ai, zi, err)
				}
			}
			switch z.RoundRobin {
			case "", "cycle", "random":
			default:
				return fmt.Errorf("articulation %d zone %d: unknown roundrobin mode %q", ai, zi, z.RoundRobin)
			}
		}
	}
	if err := p.Envelope.validate(); err != nil {
		return err
	}
	switch p.Play.StealMode {
	case StealOldest, StealQuietest, StealLowest, StealHighest, StealNone:
	default:
		return fmt.Errorf("unknown steal mode %q", p.Play.StealMode)
	}
	return nil
}

// validateLayers checks that the velocity layers of a zone neither overlap
// nor leave gaps: every velocity a zone's key range accepts must land in
// exactly one layer, otherwise lookups silently drop valid velocities.
func validateLayers(layers []VelocityLayer) error {
	sorted := make([]VelocityLayer, len(layers))
	copy(sorted, layers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VelLow < sorted[j].VelLow })
	for i, l := range sorted {
		if l.VelLow < 0 || l.VelHigh > 127 || l.VelLow > l.VelHigh {
			return fmt.Errorf("invalid velocity range %d..%d", l.VelLow, l.VelHigh)
		}
		if len(l.Samples) == 0 {
			return errors.New("velocity layer has no samples")
		}
		if i > 0 {
			prev := sorted[i-1]
			if l.VelLow <= prev.VelHigh {
				return fmt.Errorf("velocity layers %d..%d and %d..%d overlap", prev.VelLow, prev.VelHigh, l.VelLow, l.VelHigh)
			}
			if l.VelLow > prev.VelHigh+1 {
				return fmt.Errorf("velocity gap between %d and %d", prev.VelHigh, l.VelLow)
			}
		}
	}
	// velocity 0 is a note-off, so 1..127 is the range layers must cover
	if sorted[0].VelLow > 1 {
		return fmt.Errorf("velocity gap below %d", sorted[0].VelLow)
	}
	if last := sorted[len(sorted)-1]; last.VelHigh < 127 {
		return fmt.Errorf("velocity gap above %d", last.VelHigh)
	}
	return nil
}

func (e *EnvelopeParams) validate() error {
	if e.Attack < 0 || e.Decay < 0 || e.Release < 0 {
		return fmt.Errorf("negative envelope time (attack=%g decay=%g release=%g)", e.Attack, e.Decay, e.Release)
	}
	if e.Sustain < 0 || e.Sustain > 1 {
		return fmt.Errorf("sustain level %g out of range 0..1", e.Sustain)
	}
	switch e.Curve {
	case "", "linear", "exponential", "logarithmic":
	default:
		return fmt.Errorf("unknown envelope curve %q", e.Curve)
	}
	return nil
}

// Clamp limits value to the range low..high, inclusive. All continuous
// runtime parameters go through this instead of being rejected.
func Clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
