package engine

import "github.com/cardsynth/cardsynth"

// resolveZone scans the articulation's zones in declaration order and
// returns the first playable zone for the note and velocity, or nil. A
// zone is playable when the note is in its key range, some velocity layer
// covers the velocity, it is not muted, and, if any zone in the
// articulation is soloed, it is one of the soloed zones. No match is not
// an error: the caller silently absorbs the note.
func resolveZone(art *cardsynth.Articulation, note, velocity int) (*cardsynth.Zone, int) {
	anySolo := false
	for i := range art.Zones {
		if art.Zones[i].Solo {
			anySolo = true
			break
		}
	}
	for i := range art.Zones {
		z := &art.Zones[i]
		if z.Muted || (anySolo && !z.Solo) {
			continue
		}
		if note < z.KeyLow || note > z.KeyHigh {
			continue
		}
		if layerFor(z, velocity) == nil {
			continue
		}
		return z, i
	}
	return nil, -1
}

// layerFor returns the zone's velocity layer covering the velocity, or
// nil. Layers neither overlap nor leave gaps (validated at preset load),
// so at most one layer matches.
func layerFor(z *cardsynth.Zone, velocity int) *cardsynth.VelocityLayer {
	for i := range z.Layers {
		l := &z.Layers[i]
		if velocity >= l.VelLow && velocity <= l.VelHigh {
			return l
		}
	}
	return nil
}
