package engine

import "github.com/cardsynth/cardsynth"

// noteOn resolves the note against the active articulation and admits a
// new voice, enforcing the polyphony budget. The admission order is:
// key-switch check, zone resolution, mono handling, stealing, voice
// creation, then choke and exclusive group processing.
func (e *Engine) noteOn(note, velocity int) {
	if note < 0 || note > 127 {
		return
	}
	if velocity <= 0 {
		// velocity 0 note-on is a note-off in disguise
		e.noteOff(note)
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	e.held[note] = true
	if e.preset == nil {
		return
	}
	if e.keySwitch(note) {
		return
	}
	art := &e.preset.Articulations[e.art]
	zone, zoneIndex := resolveZone(art, note, velocity)
	if zone == nil {
		return
	}

	if e.play.Mono {
		if e.play.Legato {
			if v := e.soundingVoice(); v != nil {
				// legato: retarget the sounding voice through the glide
				// engine instead of retriggering the envelope. The zone
				// and sample move with the note so gain, pan and group
				// membership follow the new zone.
				key := rrKey{articulation: e.art, zone: zoneIndex}
				sample := e.selectSample(zone, key, velocity)
				if sample == nil {
					return
				}
				v.Note = note
				v.Zone = zone
				v.Sample = sample
				v.Target = targetPitch(zone, note, sample)
				if !e.play.Portamento {
					v.Pitch = v.Target
				}
				e.refreshVoice(v)
				e.lastPitch = v.Target
				e.haveLast = true
				return
			}
		}
		for _, v := range e.voices {
			v.release()
		}
	}

	if len(e.voices) >= e.play.MaxPolyphony {
		if !e.steal(note) {
			return
		}
	}

	key := rrKey{articulation: e.art, zone: zoneIndex}
	sample := e.selectSample(zone, key, velocity)
	if sample == nil {
		return
	}
	env := e.preset.Envelope
	if zone.Envelope != nil {
		env = *zone.Envelope
	}
	e.voiceCounter++
	v := &Voice{
		ID:        e.voiceCounter,
		Note:      note,
		Velocity:  velocity,
		Zone:      zone,
		Sample:    sample,
		StartTime: e.now,
		env:       newEnvelope(env),
	}
	v.Target = targetPitch(zone, note, sample)
	v.Pitch = v.Target
	if e.play.Portamento && e.haveLast {
		v.Pitch = e.lastPitch
	}
	e.refreshVoice(v)
	e.lastPitch = v.Target
	e.haveLast = true

	e.voices = append(e.voices, v)
	e.emit(VoiceStart{VoiceID: v.ID, Note: note, Velocity: velocity})
	e.chokeSiblings(v, note)
	e.cutExclusive(v)
}

// noteOff releases all voices playing the note, unless the sustain pedal
// is down, in which case the release is deferred until the pedal lifts.
// An unknown note-off is a silent no-op.
func (e *Engine) noteOff(note int) {
	if note < 0 || note > 127 {
		return
	}
	e.held[note] = false
	if e.sustain {
		return
	}
	for _, v := range e.voices {
		if v.Note == note {
			v.release()
		}
	}
}

// keySwitch switches the active articulation when the note is one of the
// articulation key switches, reporting whether the note was consumed.
func (e *Engine) keySwitch(note int) bool {
	for i := range e.preset.Articulations {
		a := &e.preset.Articulations[i]
		if a.KeySwitch != 0 && a.KeySwitch == note {
			if e.art != i {
				e.art = i
				e.emit(ArticulationChanged{Name: a.Name})
			}
			return true
		}
	}
	return false
}

// soundingVoice returns a voice that is neither releasing nor choking,
// preferring the most recently started one.
func (e *Engine) soundingVoice() *Voice {
	var best *Voice
	for _, v := range e.voices {
		if v.Releasing || v.Choking {
			continue
		}
		if best == nil || v.StartTime >= best.StartTime {
			best = v
		}
	}
	return best
}

// steal retires one voice per the steal mode to make room for newNote,
// reporting whether room was made. StealNone refuses the new voice.
func (e *Engine) steal(newNote int) bool {
	if e.play.StealMode == cardsynth.StealNone || len(e.voices) == 0 {
		return e.play.StealMode != cardsynth.StealNone
	}
	victim := 0
	for i, v := range e.voices {
		switch e.play.StealMode {
		case cardsynth.StealQuietest:
			if v.Gain < e.voices[victim].Gain {
				victim = i
			}
		case cardsynth.StealLowest:
			if v.Note < e.voices[victim].Note {
				victim = i
			}
		case cardsynth.StealHighest:
			if v.Note > e.voices[victim].Note {
				victim = i
			}
		default: // oldest
			if v.StartTime < e.voices[victim].StartTime {
				victim = i
			}
		}
	}
	v := e.voices[victim]
	e.emit(VoiceStolen{VoiceID: v.ID, Note: v.Note, ByNote: newNote})
	e.removeVoice(victim)
	return true
}

// chokeSiblings puts every other voice in the new voice's choke group on
// its fade. Choking bypasses the envelope entirely.
func (e *Engine) chokeSiblings(newVoice *Voice, byNote int) {
	group := newVoice.Zone.ChokeGroup
	if group == 0 {
		return
	}
	for _, v := range e.voices {
		if v == newVoice || v.Zone.ChokeGroup != group || v.Choking {
			continue
		}
		v.choke()
		e.emit(VoiceChoked{VoiceID: v.ID, Note: v.Note, ByPad: byNote})
	}
}

// cutExclusive removes every other voice in the new voice's exclusive
// group immediately, with no fade.
func (e *Engine) cutExclusive(newVoice *Voice) {
	group := newVoice.Zone.ExclusiveGroup
	if group == 0 {
		return
	}
	for i := 0; i < len(e.voices); {
		v := e.voices[i]
		if v != newVoice && v.Zone.ExclusiveGroup == group {
			e.emit(VoiceEnd{VoiceID: v.ID, Note: v.Note})
			e.removeVoice(i)
			continue
		}
		i++
	}
}

// removeVoice drops the voice at index, preserving pool order so event
// ordering within a tick stays deterministic.
func (e *Engine) removeVoice(index int) {
	copy(e.voices[index:], e.voices[index+1:])
	e.voices[len(e.voices)-1] = nil
	e.voices = e.voices[:len(e.voices)-1]
}

// targetPitch is the pitch a note plays at in MIDI note units, including
// the zone transpose and the per-sample fine tune.
func targetPitch(zone *cardsynth.Zone, note int, sample *cardsynth.Sample) float64 {
	return float64(note+zone.Transpose) + float64(sample.Tune)/100
}
