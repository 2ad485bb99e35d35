// Package midi feeds live MIDI input into the engine: messages from a
// gomidi input device are translated into engine Inputs and queued on a
// buffered channel the driver loop drains between ticks.
package midi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/cardsynth/cardsynth/engine"
)

// Translate converts a MIDI message into the corresponding engine input.
// Messages the engine has no use for (clock, sysex, aftertouch...) return
// ok = false and are dropped by the caller.
func Translate(msg midi.Message) (input engine.Input, ok bool) {
	var channel, key, velocity, controller, value uint8
	var relative int16
	var absolute uint16
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		// velocity 0 note-ons are passed through as-is; the engine
		// redirects them to note-offs itself
		return engine.NoteOn{Note: int(key), Velocity: int(velocity)}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return engine.NoteOff{Note: int(key)}, true
	case msg.GetControlChange(&channel, &controller, &value):
		return engine.MidiCC{Controller: int(controller), Value: int(value)}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return engine.PitchBend{Value: float64(relative) / 8192}, true
	}
	return nil, false
}

// Context owns the rtmidi driver and the currently open input device.
type Context struct {
	driver *rtmididrv.Driver
	in     drivers.In
	inputs chan engine.Input
}

// NewContext opens the rtmidi driver. A nil driver (no MIDI support on
// the system) is not an error; the context just yields no devices.
func NewContext() *Context {
	c := &Context{inputs: make(chan engine.Input, 1024)}
	c.driver, _ = rtmididrv.New()
	return c
}

// Inputs is the queue of translated engine inputs from the open device.
func (c *Context) Inputs() <-chan engine.Input {
	return c.inputs
}

// InputDevices iterates the names of the available MIDI input devices.
func (c *Context) InputDevices(yield func(string) bool) {
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for _, in := range ins {
		if !yield(in.String()) {
			return
		}
	}
}

// Open opens the input device whose name starts with namePrefix, or the
// first available device when takeFirst is set.
func (c *Context) Open(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if !takeFirst && !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if c.in != nil && c.in.IsOpen() {
			c.in.Close()
		}
		c.in = in
		if err := in.Open(); err != nil {
			c.in = nil
			return fmt.Errorf("opening MIDI input %s: %w", in, err)
		}
		if _, err := midi.ListenTo(in, c.handleMessage); err != nil {
			in.Close()
			c.in = nil
			return fmt.Errorf("listening to MIDI input %s: %w", in, err)
		}
		return nil
	}
	return fmt.Errorf("no MIDI input matching %q", namePrefix)
}

func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	input, ok := Translate(msg)
	if !ok {
		return
	}
	select {
	case c.inputs <- input: // if the queue is full, drop the message
	default:
	}
}

func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.in != nil && c.in.IsOpen() {
		c.in.Close()
	}
	c.driver.Close()
}
