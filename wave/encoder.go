// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encoder writes 16-bit PCM WAVE to a seekable destination. Unlike
// WriteHeader it does not need the frame count up front; sizes are
// patched on Close.
type Encoder struct {
	enc    *wav.Encoder
	format *goaudio.Format
	ints   []int
}

// NewEncoder starts a WAVE file on ws.
func NewEncoder(ws io.WriteSeeker, sampleRate, channels int) (*Encoder, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("channels %d rate %d: %w", channels, sampleRate, ErrBadHeader)
	}
	return &Encoder{
		enc: wav.NewEncoder(ws, sampleRate, 16, channels, 1),
		format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
	}, nil
}

// Write appends interleaved samples.
func (e *Encoder) Write(samples []int16) error {
	if cap(e.ints) < len(samples) {
		e.ints = make([]int, len(samples))
	}
	e.ints = e.ints[:len(samples)]
	for i, s := range samples {
		e.ints[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         e.format,
		Data:           e.ints,
		SourceBitDepth: 16,
	}
	if err := e.enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Close patches the chunk sizes and finishes the file.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
