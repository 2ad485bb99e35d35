package main

import (
	"math"
	"testing"

	"github.com/cardsynth/cardsynth/engine"
	"github.com/cardsynth/cardsynth/presetlib"
)

func testEngine(t *testing.T, presetID string) *engine.Engine {
	t.Helper()
	e := engine.New(presetlib.Load())
	for _, out := range e.Process(engine.LoadPreset{ID: presetID}) {
		if errOut, ok := out.(engine.Error); ok {
			t.Fatal(errOut.Message)
		}
	}
	return e
}

func TestRendererSilenceWithoutVoices(t *testing.T) {
	r := newRenderer(testEngine(t, "organ/drawbar"))
	block, _ := r.renderBlock()
	if len(block) != blockSamples*2 {
		t.Fatalf("expected %d samples, got %d", blockSamples*2, len(block))
	}
	for i, v := range block {
		if v != 0 {
			t.Fatalf("expected silence, got %v at %d", v, i)
		}
	}
	if !math.IsInf(r.peakDB(), -1) {
		t.Errorf("expected -inf peak for silence, got %v", r.peakDB())
	}
}

func TestRendererProducesAudio(t *testing.T) {
	e := testEngine(t, "organ/drawbar")
	r := newRenderer(e)
	e.Process(engine.NoteOn{Note: 69, Velocity: 100})
	var energy float64
	for range 10 {
		block, _ := r.renderBlock()
		for _, v := range block {
			energy += float64(v) * float64(v)
		}
	}
	if energy == 0 {
		t.Fatal("expected nonzero audio for a sounding voice")
	}
	if r.peak <= 0 || r.peak > 1 {
		t.Errorf("unexpected peak %v", r.peak)
	}
}

func TestRendererPhaseCleanup(t *testing.T) {
	e := testEngine(t, "drumkit/house_kit")
	r := newRenderer(e)
	e.Process(engine.NoteOn{Note: 36, Velocity: 100})
	r.renderBlock()
	if len(r.phases) != 1 {
		t.Fatalf("expected one tracked phase, got %d", len(r.phases))
	}
	e.Process(engine.AllSoundOff{})
	r.renderBlock()
	if len(r.phases) != 0 {
		t.Errorf("expected phases cleared after all sound off, got %d", len(r.phases))
	}
}
