// SPDX-License-Identifier: EPL-2.0

// Package audiotest builds in-memory container fixtures for decoder tests.
package audiotest

import (
	"encoding/binary"
	"math"
)

// Ramp returns n samples counting up from start, wrapping at int16 range.
func Ramp(start, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(start + i)
	}
	return out
}

// Sine returns n samples of a sine wave at freq Hz scaled to half range.
func Sine(rate int, freq float64, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / float64(rate)
		out[i] = int16(math.Sin(2*math.Pi*freq*t) * 16384)
	}
	return out
}

// InterleavePCM16LE lays per-channel sample slices out as an interleaved
// little-endian image with the given block size. interleave 0 places the
// channels back to back (flat).
func InterleavePCM16LE(chans [][]int16, interleave int) []byte {
	if interleave == 0 {
		var out []byte
		for _, ch := range chans {
			out = append(out, pcm16le(ch)...)
		}
		return out
	}

	perChan := len(chans[0]) * 2
	blocks := (perChan + interleave - 1) / interleave
	var out []byte
	for blk := range blocks {
		for _, ch := range chans {
			raw := pcm16le(ch)
			start := blk * interleave
			end := min(start+interleave, perChan)
			chunk := make([]byte, interleave)
			copy(chunk, raw[start:end])
			out = append(out, chunk...)
		}
	}
	return out
}

func pcm16le(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func pcm16be(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.BigEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func u32le(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func u32be(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func u16be(v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b[:]
}

// BuildSPM builds an SPM image: "SPM\x00" header, loop points, stereo
// 16-bit PCM at interleave 2 starting at 0x800.
func BuildSPM(left, right []int16, loopStart, loopEnd int) []byte {
	out := make([]byte, 0x800)
	copy(out, "SPM\x00")
	copy(out[0x04:], u32le(uint32(len(left)*4)))
	copy(out[0x08:], u32le(uint32(loopStart)))
	copy(out[0x0C:], u32le(uint32(loopEnd)))
	return append(out, InterleavePCM16LE([][]int16{left, right}, 2)...)
}

// GENH codec ids, mirroring formats/genh.go.
const (
	GENHCodecPSX     = 0
	GENHCodecPCM16LE = 1
	GENHCodecPCM16BE = 2
	GENHCodecPCM8    = 3
	GENHCodecPCM8U   = 4
	GENHCodecSDX2    = 5
	GENHCodecIMA     = 6
)

// GENH describes a generic-header fixture.
type GENH struct {
	Channels   int
	Interleave int
	SampleRate int
	NumSamples int
	LoopStart  int // -1 for no loop
	LoopEnd    int
	Codec      int
	Body       []byte
}

// BuildGENH serializes a GENH header followed by the body bytes.
func BuildGENH(g GENH) []byte {
	const startOffset = 0x24
	out := make([]byte, startOffset)
	copy(out, "GENH")
	copy(out[0x04:], u32le(uint32(g.Channels)))
	copy(out[0x08:], u32le(uint32(g.Interleave)))
	copy(out[0x0C:], u32le(uint32(g.SampleRate)))
	copy(out[0x10:], u32le(uint32(g.NumSamples)))
	copy(out[0x14:], u32le(uint32(int32(g.LoopStart))))
	copy(out[0x18:], u32le(uint32(int32(g.LoopEnd))))
	copy(out[0x1C:], u32le(uint32(g.Codec)))
	copy(out[0x20:], u32le(startOffset))
	return append(out, g.Body...)
}

// PSXFrames packs nibble values in [-8,7] into PlayStation ADPCM frames
// with filter 0 and shift 12, so each decoded sample equals its nibble.
// The count is padded to a whole 28-sample frame with zeros.
func PSXFrames(nibbles []int32) []byte {
	var out []byte
	for start := 0; start < len(nibbles); start += 28 {
		frame := make([]byte, 16)
		frame[0] = 0x0C // filter 0, shift 12
		for i := range 28 {
			var n int32
			if start+i < len(nibbles) {
				n = nibbles[start+i] & 0x0F
			}
			if i&1 == 0 {
				frame[2+i/2] |= byte(n)
			} else {
				frame[2+i/2] |= byte(n << 4)
			}
		}
		out = append(out, frame...)
	}
	return out
}

// BuildAST builds an AST image: "STRM" header and a chain of "BLCK"
// big-endian PCM16 blocks of blockSize bytes per channel.
func BuildAST(chans [][]int16, rate, loopStart, loopEnd, blockSize int, looped bool) []byte {
	var body []byte
	perChan := len(chans[0]) * 2
	for pos := 0; pos < perChan; pos += blockSize {
		size := min(blockSize, perChan-pos)
		blk := make([]byte, 0x20)
		copy(blk, "BLCK")
		copy(blk[0x04:], u32be(uint32(size)))
		body = append(body, blk...)
		for _, ch := range chans {
			raw := pcm16be(ch)
			body = append(body, raw[pos:pos+size]...)
		}
	}

	out := make([]byte, 0x40)
	copy(out, "STRM")
	copy(out[0x04:], u32be(uint32(len(body))))
	copy(out[0x08:], u16be(1))  // PCM16BE
	copy(out[0x0A:], u16be(16)) // bit depth
	copy(out[0x0C:], u16be(uint16(len(chans))))
	if looped {
		copy(out[0x0E:], u16be(0xFFFF))
	}
	copy(out[0x10:], u32be(uint32(rate)))
	copy(out[0x14:], u32be(uint32(len(chans[0]))))
	copy(out[0x18:], u32be(uint32(loopStart)))
	copy(out[0x1C:], u32be(uint32(loopEnd)))
	copy(out[0x20:], u32be(uint32(blockSize)))
	return append(out, body...)
}

// BuildRIFF builds a canonical PCM16 WAV image, optionally with a smpl
// loop chunk between fmt and data.
func BuildRIFF(chans [][]int16, rate int, loopStart, loopEnd int, withSmpl bool) []byte {
	data := InterleavePCM16LE(chans, 2)
	if len(chans) == 1 {
		data = pcm16le(chans[0])
	}
	channels := len(chans)

	var smpl []byte
	if withSmpl {
		smpl = make([]byte, 8+0x3C)
		copy(smpl, "smpl")
		binary.LittleEndian.PutUint32(smpl[4:], 0x3C)
		binary.LittleEndian.PutUint32(smpl[8+0x1C:], 1) // one loop
		binary.LittleEndian.PutUint32(smpl[8+0x2C:], uint32(loopStart))
		binary.LittleEndian.PutUint32(smpl[8+0x30:], uint32(loopEnd))
	}

	riffSize := 4 + 8 + 16 + len(smpl) + 8 + len(data)
	out := make([]byte, 0, 8+riffSize)
	out = append(out, "RIFF"...)
	out = append(out, u32le(uint32(riffSize))...)
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = append(out, u32le(16)...)
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:], 1) // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:], uint16(channels))
	binary.LittleEndian.PutUint32(fmtBody[4:], uint32(rate))
	binary.LittleEndian.PutUint32(fmtBody[8:], uint32(rate*channels*2))
	binary.LittleEndian.PutUint16(fmtBody[12:], uint16(channels*2))
	binary.LittleEndian.PutUint16(fmtBody[14:], 16)
	out = append(out, fmtBody...)
	out = append(out, smpl...)
	out = append(out, "data"...)
	out = append(out, u32le(uint32(len(data)))...)
	return append(out, data...)
}

// BuildADS builds an ADS/SS2 image over a PSX ADPCM body.
func BuildADS(body []byte, rate, channels, interleave, loopStart, loopEnd int) []byte {
	out := make([]byte, 0x28)
	copy(out, "SShd")
	copy(out[0x04:], u32le(0x18))
	copy(out[0x08:], u32le(0x10)) // PSX codec
	copy(out[0x0C:], u32le(uint32(rate)))
	copy(out[0x10:], u32le(uint32(channels)))
	copy(out[0x14:], u32le(uint32(interleave)))
	copy(out[0x18:], u32le(uint32(int32(loopStart))))
	copy(out[0x1C:], u32le(uint32(int32(loopEnd))))
	copy(out[0x20:], "SSbd")
	copy(out[0x24:], u32le(uint32(len(body))))
	return append(out, body...)
}

// BuildSGH builds an SGXD header image pointing at a separate body. The
// body carries PSX ADPCM frames and travels in its own .sgb file.
func BuildSGH(rate, channels, numSamples, interleave, loopStart, loopEnd int, name string) []byte {
	out := make([]byte, 0x20)
	copy(out, "SGXD")
	copy(out[0x04:], u32le(uint32(rate)))
	copy(out[0x08:], u32le(uint32(channels)))
	copy(out[0x0C:], u32le(uint32(numSamples)))
	copy(out[0x10:], u32le(uint32(interleave)))
	copy(out[0x14:], u32le(uint32(int32(loopStart))))
	copy(out[0x18:], u32le(uint32(int32(loopEnd))))
	if name != "" {
		copy(out[0x1C:], u32le(uint32(len(out))))
		out = append(out, name...)
		out = append(out, 0)
	}
	return out
}

// BuildAWB wraps payloads in an AFS2 container with 32-bit offsets.
func BuildAWB(payloads [][]byte) []byte {
	count := len(payloads)
	const align = 0x20

	head := make([]byte, 0x10)
	copy(head, "AFS2")
	head[0x04] = 1 // version
	head[0x05] = 4 // offset width
	binary.LittleEndian.PutUint32(head[0x08:], uint32(count))
	binary.LittleEndian.PutUint16(head[0x0C:], align)

	ids := make([]byte, count*2)
	for i := range count {
		binary.LittleEndian.PutUint16(ids[i*2:], uint16(i))
	}

	offTable := make([]byte, (count+1)*4)
	pos := len(head) + len(ids) + len(offTable)
	var body []byte
	for i, p := range payloads {
		binary.LittleEndian.PutUint32(offTable[i*4:], uint32(pos+len(body)))
		if pad := (align - (pos+len(body))%align) % align; pad > 0 {
			body = append(body, make([]byte, pad)...)
		}
		body = append(body, p...)
	}
	binary.LittleEndian.PutUint32(offTable[count*4:], uint32(pos+len(body)))

	out := append(head, ids...)
	out = append(out, offTable...)
	return append(out, body...)
}

// BuildADX builds a CRI ADX image whose frames are all silence (zero
// scale, zero nibbles), so every decoded sample is 0.
func BuildADX(channels, rate, numSamples, loopStart, loopEnd int, looped bool) []byte {
	const headerSize = 0x34
	const frameSize = 18
	const samplesPerFrame = 32

	head := make([]byte, headerSize+4)
	head[0x00] = 0x80
	copy(head[0x02:], u16be(headerSize))
	head[0x04] = 3 // encoding
	head[0x05] = frameSize
	head[0x06] = 4 // bit depth
	head[0x07] = byte(channels)
	copy(head[0x08:], u32be(uint32(rate)))
	copy(head[0x0C:], u32be(uint32(numSamples)))
	copy(head[0x10:], u16be(500)) // highpass cutoff
	head[0x12] = 3                // version
	if looped {
		copy(head[0x18:], u32be(1))
		copy(head[0x1C:], u32be(uint32(loopStart)))
		copy(head[0x24:], u32be(uint32(loopEnd)))
	}
	copy(head[headerSize+4-6:], "(c)CRI")

	frames := (numSamples + samplesPerFrame - 1) / samplesPerFrame
	body := make([]byte, frames*frameSize*channels)
	return append(head, body...)
}

// float80BE encodes an integer sample rate as an 80-bit extended float.
func float80BE(v uint32) []byte {
	out := make([]byte, 10)
	if v == 0 {
		return out
	}
	shift := 0
	mant := uint64(v)
	for mant&(1<<63) == 0 {
		mant <<= 1
		shift++
	}
	exp := 16383 + 63 - shift
	copy(out, u16be(uint16(exp)))
	binary.BigEndian.PutUint64(out[2:], mant)
	return out
}

// BuildAIFF builds a 16-bit PCM FORM/AIFF image.
func BuildAIFF(chans [][]int16, rate int) []byte {
	channels := len(chans)
	frames := len(chans[0])

	comm := make([]byte, 0, 18)
	comm = append(comm, u16be(uint16(channels))...)
	comm = append(comm, u32be(uint32(frames))...)
	comm = append(comm, u16be(16)...)
	comm = append(comm, float80BE(uint32(rate))...)

	data := make([]byte, 0, frames*channels*2+8)
	data = append(data, u32be(0)...) // offset
	data = append(data, u32be(0)...) // block size
	for i := range frames {
		for _, ch := range chans {
			data = append(data, byte(uint16(ch[i])>>8), byte(ch[i]))
		}
	}

	out := []byte("FORM")
	out = append(out, u32be(uint32(4+8+len(comm)+8+len(data)))...)
	out = append(out, "AIFF"...)
	out = append(out, "COMM"...)
	out = append(out, u32be(uint32(len(comm)))...)
	out = append(out, comm...)
	out = append(out, "SSND"...)
	out = append(out, u32be(uint32(len(data)))...)
	out = append(out, data...)
	return out
}

// DSPFrames packs nibble values in [-8,7] into GameCube DSP frames with
// scale 1 and coefficient pair 0, so with a zero coefficient table each
// decoded sample equals its nibble. Padded to whole 14-sample frames.
func DSPFrames(nibbles []int32) []byte {
	var out []byte
	for start := 0; start < len(nibbles); start += 14 {
		frame := make([]byte, 8)
		for i := range 14 {
			var n int32
			if start+i < len(nibbles) {
				n = nibbles[start+i] & 0x0F
			}
			if i&1 == 0 {
				frame[1+i/2] |= byte(n << 4)
			} else {
				frame[1+i/2] |= byte(n)
			}
		}
		out = append(out, frame...)
	}
	return out
}

// BuildDSP builds a mono GameCube DSP image with an all-zero coefficient
// table.
func BuildDSP(rate, numSamples int, body []byte, looped bool, loopStartNibble, loopEndNibble int) []byte {
	out := make([]byte, 0x60)
	frames := len(body) / 8
	copy(out[0x00:], u32be(uint32(numSamples)))
	copy(out[0x04:], u32be(uint32(frames*16)))
	copy(out[0x08:], u32be(uint32(rate)))
	if looped {
		copy(out[0x0C:], u16be(1))
		copy(out[0x10:], u32be(uint32(loopStartNibble)))
		copy(out[0x14:], u32be(uint32(loopEndNibble)))
	}
	return append(out, body...)
}
