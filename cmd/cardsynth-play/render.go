package main

import (
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/cardsynth/cardsynth/engine"
	"github.com/cardsynth/cardsynth/oto"
)

const (
	sampleRate   = oto.SampleRate
	blockSamples = 441 // one control tick per block, 10 ms at 44.1 kHz
	blockSeconds = float64(blockSamples) / sampleRate
)

// renderer turns the control-rate voice state into audio. Each block it
// advances the engine by one tick, then renders every active voice as a
// plain sine at its Freq and Gain, panned by its zone. It is a demo
// oscillator, not a sample player; it exists so presets are audible
// without any wave assets.
type renderer struct {
	engine *engine.Engine
	time   float64
	phases map[int]float64 // voice ID -> sine phase
	seen   map[int]bool

	mono, scratch []float32
	left, right   []float32
	out           []float32
	peak          float32
}

func newRenderer(e *engine.Engine) *renderer {
	return &renderer{
		engine:  e,
		phases:  make(map[int]float64),
		seen:    make(map[int]bool),
		mono:    make([]float32, blockSamples),
		scratch: make([]float32, blockSamples),
		left:    make([]float32, blockSamples),
		right:   make([]float32, blockSamples),
		out:     make([]float32, blockSamples*2),
	}
}

// renderBlock advances one tick and returns the interleaved stereo
// block plus the tick's engine outputs. The block is reused between
// calls.
func (r *renderer) renderBlock() ([]float32, []engine.Output) {
	r.time += blockSeconds
	outputs := r.engine.Process(engine.Tick{Time: r.time, Delta: blockSeconds})
	vek32.Zeros_Into(r.left, blockSamples)
	vek32.Zeros_Into(r.right, blockSamples)
	clear(r.seen)
	for voice := range r.engine.ActiveVoices {
		r.seen[voice.ID] = true
		phase := r.phases[voice.ID]
		inc := 2 * math.Pi * voice.Freq / sampleRate
		for i := range r.mono {
			r.mono[i] = float32(math.Sin(phase))
			phase += inc
		}
		r.phases[voice.ID] = math.Mod(phase, 2*math.Pi)
		gain := float32(voice.Gain)
		pan := float32(voice.Zone.Pan)
		vek32.MulNumber_Into(r.scratch, r.mono, gain*(1-pan)/2)
		vek32.Add_Inplace(r.left, r.scratch)
		vek32.MulNumber_Into(r.scratch, r.mono, gain*(1+pan)/2)
		vek32.Add_Inplace(r.right, r.scratch)
	}
	for id := range r.phases {
		if !r.seen[id] {
			delete(r.phases, id)
		}
	}
	for i := range blockSamples {
		r.out[2*i] = r.left[i]
		r.out[2*i+1] = r.right[i]
	}
	vek32.Abs_Into(r.scratch, r.left)
	if p := vek32.Max(r.scratch); p > r.peak {
		r.peak = p
	}
	vek32.Abs_Into(r.scratch, r.right)
	if p := vek32.Max(r.scratch); p > r.peak {
		r.peak = p
	}
	return r.out, outputs
}

// peakDB is the loudest sample seen so far, in dBFS.
func (r *renderer) peakDB() float64 {
	if r.peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(r.peak))
}
