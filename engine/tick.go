package engine

// tick advances every voice and simulator by delta seconds, retires
// finished voices and emits their VoiceEnd events. A non-positive delta is
// a no-op; time must be fed monotonically non-decreasing.
func (e *Engine) tick(time, delta float64) {
	if delta <= 0 {
		return
	}
	e.now = time
	if e.rotary != nil {
		e.rotary.advance(delta)
	}
	keep := e.voices[:0]
	for _, v := range e.voices {
		finished := v.advance(delta, e.play.PortamentoTime)
		if finished {
			e.emit(VoiceEnd{VoiceID: v.ID, Note: v.Note})
			continue
		}
		e.refreshVoice(v)
		keep = append(keep, v)
	}
	for i := len(keep); i < len(e.voices); i++ {
		e.voices[i] = nil
	}
	e.voices = keep
}

// refreshVoice recomputes the control-rate outputs the rendering
// collaborator reads off the voice: the output gain and the final
// frequency including pitch bend and scanner vibrato.
func (e *Engine) refreshVoice(v *Voice) {
	level := v.EnvelopeValue()
	if v.Choking {
		if v.chokeFade < 0 {
			level = 0
		} else {
			level *= v.chokeFade
		}
	}
	v.Gain = level * float64(v.Velocity) / 127 *
		v.Zone.Volume * v.Sample.Gain * e.expression * e.masterVolume
	pitch := v.Pitch + e.pitchBend*e.play.BendRange
	if e.rotary != nil {
		pitch += e.rotary.vibrato()
	}
	v.Freq = noteToFreq(pitch)
}
