package main

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cardsynth/cardsynth/engine"
)

type (
	// Pattern is a .yml step sequence: a preset id plus a list of steps
	// played back to back at the given tempo.
	Pattern struct {
		Preset   string  `yaml:"preset"`
		BPM      float64 `yaml:"bpm"`
		Division int     `yaml:"division"` // steps per beat
		Loop     int     `yaml:"loop"`     // total times the steps are played
		Steps    []Step  `yaml:"steps"`
	}

	Step struct {
		Note     int     `yaml:"note"`
		Velocity int     `yaml:"velocity"`
		Length   float64 `yaml:"length"` // in steps
		Gate     float64 `yaml:"gate"`   // fraction of the length the note is held
		Rest     bool    `yaml:"rest"`
	}

	// noteEvent is a pattern step flattened to an absolute time and the
	// engine input to fire at it.
	noteEvent struct {
		Time  float64
		Input engine.Input
	}
)

func ParsePattern(data []byte) (*Pattern, error) {
	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not parse pattern: %w", err)
	}
	if p.BPM <= 0 {
		p.BPM = 120
	}
	if p.Division <= 0 {
		p.Division = 4
	}
	if p.Loop <= 0 {
		p.Loop = 1
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("pattern has no steps")
	}
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Length <= 0 {
			s.Length = 1
		}
		if s.Gate <= 0 || s.Gate > 1 {
			s.Gate = 0.9
		}
		if s.Velocity <= 0 {
			s.Velocity = 100
		}
		if !s.Rest && (s.Note < 0 || s.Note > 127) {
			return nil, fmt.Errorf("step %d: note %d out of range", i, s.Note)
		}
	}
	return &p, nil
}

// stepSeconds is the length of one step at the pattern tempo.
func (p *Pattern) stepSeconds() float64 {
	return 60 / p.BPM / float64(p.Division)
}

// Duration is the total playback time of the pattern including loops.
func (p *Pattern) Duration() float64 {
	var steps float64
	for _, s := range p.Steps {
		steps += s.Length
	}
	return steps * p.stepSeconds() * float64(p.Loop)
}

// Events flattens the pattern into a time-sorted list of note-on and
// note-off inputs. Note-offs fire at the gate fraction of each step so
// consecutive equal notes retrigger instead of merging.
func (p *Pattern) Events() []noteEvent {
	step := p.stepSeconds()
	var events []noteEvent
	var t float64
	for range p.Loop {
		for _, s := range p.Steps {
			length := s.Length * step
			if !s.Rest {
				events = append(events,
					noteEvent{Time: t, Input: engine.NoteOn{Note: s.Note, Velocity: s.Velocity}},
					noteEvent{Time: t + length*s.Gate, Input: engine.NoteOff{Note: s.Note}})
			}
			t += length
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events
}
