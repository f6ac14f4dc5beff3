// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vazrupe/endibuf"
)

// Header describes the stream a RIFF/WAVE header announces. Sizes are
// precomputed from Frames so the header can go to a pipe before any
// sample data exists.
type Header struct {
	Channels   int
	SampleRate int
	Frames     int

	// Loop emits a smpl chunk marking [LoopStart, LoopEnd] in samples.
	// LoopEnd is inclusive, per the chunk's convention.
	Loop      bool
	LoopStart int
	LoopEnd   int
}

const (
	plainHeaderSize = 0x2C
	smplChunkSize   = 0x3C + 0x08
)

// Size returns the byte length WriteHeader will produce.
func (h Header) Size() int {
	if h.Loop {
		return plainHeaderSize + smplChunkSize
	}
	return plainHeaderSize
}

// WriteHeader writes a 16-bit PCM WAVE header for h, including the smpl
// loop chunk when requested. The output needs no later size patching, so
// any io.Writer works.
func WriteHeader(w io.Writer, h Header) error {
	if h.Channels <= 0 || h.SampleRate <= 0 || h.Frames < 0 {
		return fmt.Errorf("channels %d rate %d frames %d: %w",
			h.Channels, h.SampleRate, h.Frames, ErrBadHeader)
	}
	if h.Loop && (h.LoopStart < 0 || h.LoopEnd < h.LoopStart) {
		return fmt.Errorf("loop %d..%d: %w", h.LoopStart, h.LoopEnd, ErrBadHeader)
	}

	dataSize := h.Frames * h.Channels * 2

	var buf seekBuffer
	e := endibuf.NewWriter(&buf)
	e.Endian = binary.LittleEndian

	e.WriteBytes([]byte("RIFF"))
	e.WriteUint32(uint32(h.Size() - 8 + dataSize))
	e.WriteBytes([]byte("WAVE"))

	e.WriteBytes([]byte("fmt "))
	e.WriteUint32(0x10)
	e.WriteUint16(0x0001) // PCM
	e.WriteUint16(uint16(h.Channels))
	e.WriteUint32(uint32(h.SampleRate))
	e.WriteUint32(uint32(h.SampleRate * h.Channels * 2))
	e.WriteUint16(uint16(h.Channels * 2))
	e.WriteUint16(16)

	if h.Loop {
		e.WriteBytes([]byte("smpl"))
		e.WriteUint32(0x3C)
		for range 7 {
			e.WriteUint32(0)
		}
		e.WriteUint32(1) // one loop
		for range 3 {
			e.WriteUint32(0)
		}
		e.WriteUint32(uint32(h.LoopStart))
		e.WriteUint32(uint32(h.LoopEnd))
		e.WriteUint32(0)
		e.WriteUint32(0)
	}

	e.WriteBytes([]byte("data"))
	e.WriteUint32(uint32(dataSize))

	if _, err := w.Write(buf.data); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// AppendSamples appends frames as little-endian 16-bit sample data.
func AppendSamples(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = append(dst, byte(s), byte(uint16(s)>>8))
	}
	return dst
}

// WriteSamples writes frames as little-endian 16-bit sample data.
func WriteSamples(w io.Writer, samples []int16) error {
	buf := AppendSamples(make([]byte, 0, len(samples)*2), samples)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// seekBuffer is the in-memory io.WriteSeeker the endian writer needs.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if grow := b.pos + len(p) - len(b.data); grow > 0 {
		b.data = append(b.data, make([]byte, grow)...)
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("seek whence %d: %w", whence, ErrBadHeader)
	}
	if pos < 0 {
		return 0, fmt.Errorf("seek to %d: %w", pos, ErrBadHeader)
	}
	b.pos = int(pos)
	return pos, nil
}
