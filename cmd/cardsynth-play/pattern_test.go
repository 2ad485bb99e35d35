package main

import (
	"math"
	"testing"

	"github.com/cardsynth/cardsynth/engine"
)

const acidPattern = `
preset: bassline/acid
bpm: 120
division: 4
loop: 2
steps:
  - {note: 36, velocity: 110}
  - {note: 36, velocity: 70, gate: 0.5}
  - {rest: true}
  - {note: 48, velocity: 127, length: 2}
`

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern([]byte(acidPattern))
	if err != nil {
		t.Fatal(err)
	}
	if p.Preset != "bassline/acid" {
		t.Errorf("expected preset bassline/acid, got %q", p.Preset)
	}
	// 5 steps worth of length per loop, 2 loops, at 8 steps per second
	want := 5.0 / 8 * 2
	if math.Abs(p.Duration()-want) > 1e-9 {
		t.Errorf("expected duration %v, got %v", want, p.Duration())
	}
}

func TestParsePatternDefaults(t *testing.T) {
	p, err := ParsePattern([]byte("steps:\n  - {note: 60}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if p.BPM != 120 || p.Division != 4 || p.Loop != 1 {
		t.Errorf("unexpected defaults: bpm %v division %v loop %v", p.BPM, p.Division, p.Loop)
	}
	s := p.Steps[0]
	if s.Velocity != 100 || s.Length != 1 || s.Gate != 0.9 {
		t.Errorf("unexpected step defaults: %+v", s)
	}
}

func TestParsePatternRejectsBadInput(t *testing.T) {
	for _, data := range []string{
		"steps: []\n",
		"steps:\n  - {note: 128}\n",
		"steps: {not: a list}\n",
	} {
		if _, err := ParsePattern([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestPatternEvents(t *testing.T) {
	p, err := ParsePattern([]byte(acidPattern))
	if err != nil {
		t.Fatal(err)
	}
	events := p.Events()
	// 3 sounding steps per loop, on and off each, 2 loops
	if len(events) != 12 {
		t.Fatalf("expected 12 events, got %d", len(events))
	}
	if on, ok := events[0].Input.(engine.NoteOn); !ok || on.Note != 36 || on.Velocity != 110 || events[0].Time != 0 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	// second step's note-off at gate 0.5: starts at 0.125 s, half of one
	// 0.125 s step held
	var sawShortGate bool
	for _, ev := range events {
		if off, ok := ev.Input.(engine.NoteOff); ok && off.Note == 36 && math.Abs(ev.Time-0.1875) < 1e-9 {
			sawShortGate = true
		}
		if ev.Time < 0 {
			t.Errorf("negative event time: %+v", ev)
		}
	}
	if !sawShortGate {
		t.Error("expected a note-off at the half-gate position")
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatal("events not sorted by time")
		}
	}
}
