// SPDX-License-Identifier: EPL-2.0

package wave

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/riff"
)

func TestWriteHeaderParsesBack(t *testing.T) {
	t.Parallel()

	h := Header{Channels: 2, SampleRate: 44100, Frames: 100}

	var out bytes.Buffer
	if err := WriteHeader(&out, h); err != nil {
		t.Fatalf("WriteHeader: %s", err)
	}
	samples := make([]int16, h.Frames*h.Channels)
	for i := range samples {
		samples[i] = int16(i - 100)
	}
	if err := WriteSamples(&out, samples); err != nil {
		t.Fatalf("WriteSamples: %s", err)
	}

	p := riff.New(bytes.NewReader(out.Bytes()))
	if err := p.ParseHeaders(); err != nil {
		t.Fatalf("ParseHeaders: %s", err)
	}
	if p.Format != riff.WavFormatID {
		t.Fatalf("format = %q, expected WAVE", p.Format)
	}

	var sawData bool
	for {
		c, err := p.NextChunk()
		if err != nil {
			break
		}
		switch c.ID {
		case riff.FmtID:
			var tag, channels uint16
			var rate, avg uint32
			var align, bits uint16
			c.ReadLE(&tag)
			c.ReadLE(&channels)
			c.ReadLE(&rate)
			c.ReadLE(&avg)
			c.ReadLE(&align)
			c.ReadLE(&bits)
			if tag != 1 || int(channels) != h.Channels || int(rate) != h.SampleRate || bits != 16 {
				t.Fatalf("fmt tag=%d channels=%d rate=%d bits=%d", tag, channels, rate, bits)
			}
			if int(align) != h.Channels*2 || int(avg) != h.SampleRate*h.Channels*2 {
				t.Fatalf("fmt align=%d avg=%d", align, avg)
			}
		case riff.DataFormatID:
			sawData = true
			if c.Size != h.Frames*h.Channels*2 {
				t.Fatalf("data size = %d, expected %d", c.Size, h.Frames*h.Channels*2)
			}
		}
		c.Done()
	}
	if !sawData {
		t.Fatal("no data chunk found")
	}
}

func TestWriteHeaderLoopChunk(t *testing.T) {
	t.Parallel()

	h := Header{
		Channels:   1,
		SampleRate: 22050,
		Frames:     1000,
		Loop:       true,
		LoopStart:  100,
		LoopEnd:    999,
	}

	var out bytes.Buffer
	if err := WriteHeader(&out, h); err != nil {
		t.Fatalf("WriteHeader: %s", err)
	}
	raw := out.Bytes()
	if len(raw) != h.Size() {
		t.Fatalf("header size = %d, expected %d", len(raw), h.Size())
	}

	if !bytes.Equal(raw[0x24:0x28], []byte("smpl")) {
		t.Fatalf("missing smpl chunk at 0x24: %q", raw[0x24:0x28])
	}
	if got := binary.LittleEndian.Uint32(raw[0x28:]); got != 0x3C {
		t.Fatalf("smpl size = %#x, expected 0x3c", got)
	}
	if got := binary.LittleEndian.Uint32(raw[0x58:]); got != uint32(h.LoopStart) {
		t.Fatalf("loop start = %d, expected %d", got, h.LoopStart)
	}
	if got := binary.LittleEndian.Uint32(raw[0x5C:]); got != uint32(h.LoopEnd) {
		t.Fatalf("loop end = %d, expected %d", got, h.LoopEnd)
	}
}

func TestWriteHeaderRejects(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	bad := []Header{
		{Channels: 0, SampleRate: 44100, Frames: 1},
		{Channels: 2, SampleRate: 0, Frames: 1},
		{Channels: 2, SampleRate: 44100, Frames: -1},
		{Channels: 2, SampleRate: 44100, Frames: 1, Loop: true, LoopStart: 10, LoopEnd: 5},
	}
	for _, h := range bad {
		if err := WriteHeader(&out, h); err == nil {
			t.Fatalf("expected error for %+v", h)
		}
	}
}

func TestAppendSamplesLittleEndian(t *testing.T) {
	t.Parallel()

	got := AppendSamples(nil, []int16{0x0102, -2})
	expected := []byte{0x02, 0x01, 0xFE, 0xFF}
	if !bytes.Equal(got, expected) {
		t.Fatalf("got % x, expected % x", got, expected)
	}
}
