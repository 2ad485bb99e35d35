// Package oto outputs audio through github.com/ebitengine/oto/v3,
// implementing the cardsynth AudioContext/AudioSink interfaces. The oto
// player pulls from a pipe; WriteAudio pushes converted samples into it
// and blocks when the device is far enough ahead, which paces the
// rendering loop to real time.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cardsynth/cardsynth"
)

const SampleRate = 44100

type (
	Context struct {
		ctx *oto.Context
	}

	Output struct {
		player    *oto.Player
		pipeOut   *io.PipeWriter
		tmpBuffer []byte
	}
)

// NewContext initializes the audio device for stereo 16-bit output.
func NewContext() (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

func (c *Context) Output() cardsynth.AudioSink {
	pipeIn, pipeOut := io.Pipe()
	player := c.ctx.NewPlayer(pipeIn)
	player.Play()
	return &Output{player: player, pipeOut: pipeOut}
}

func (c *Context) Close() error {
	return nil // oto v3 contexts cannot be closed
}

// WriteAudio converts the stereo interleaved float buffer to 16-bit
// little-endian samples and hands it to the device.
func (o *Output) WriteAudio(buffer []float32) error {
	o.tmpBuffer = FloatBufferTo16BitLE(buffer, o.tmpBuffer[:0])
	if _, err := o.pipeOut.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	o.pipeOut.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
