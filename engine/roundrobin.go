package engine

import "github.com/cardsynth/cardsynth"

// rrKey identifies a zone for the round-robin side table. Rotation state
// is kept here, outside the preset data, so zones stay immutable and the
// index is shared across every future trigger of the zone, whichever
// voice it produces.
type rrKey struct {
	articulation int
	zone         int
}

// selectSample picks the sample to play from the zone's layer matching
// velocity. A single-sample layer always yields that sample. Otherwise
// "cycle" (the default) returns samples in order, advancing the shared
// index by one per call, and "random" draws from the engine's injected
// RNG. The caller invokes this exactly once per admitted trigger, so one
// logical trigger can never advance the index twice.
func (e *Engine) selectSample(zone *cardsynth.Zone, key rrKey, velocity int) *cardsynth.Sample {
	layer := layerFor(zone, velocity)
	if layer == nil {
		return nil
	}
	n := len(layer.Samples)
	if n == 1 {
		return &layer.Samples[0]
	}
	if zone.RoundRobin == "random" {
		return &layer.Samples[e.rand.Intn(n)]
	}
	index := e.roundRobin[key] % n
	e.roundRobin[key] = (index + 1) % n
	return &layer.Samples[index]
}
