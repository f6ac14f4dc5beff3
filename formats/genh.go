// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// GENH is the generic header: a little-endian preamble a user glues onto
// raw stream data to make it decodable when the real header is unknown.
//
//	0x00  "GENH"
//	0x04  channels
//	0x08  interleave block size, 0 for flat
//	0x0C  sample rate
//	0x10  sample count
//	0x14  loop start sample, -1 for no loop
//	0x18  loop end sample
//	0x1C  codec id (see table below)
//	0x20  start offset of the stream data
func openGENH(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "GENH" {
		return nil, nil
	}

	channels, err := sf.U32LE(0x04)
	if err != nil || channels == 0 || channels > 8 {
		return nil, nil
	}
	interleave, err := sf.U32LE(0x08)
	if err != nil {
		return nil, nil
	}
	rate, err := sf.U32LE(0x0C)
	if err != nil || rate == 0 {
		return nil, nil
	}
	numSamples, err := sf.U32LE(0x10)
	if err != nil {
		return nil, nil
	}
	loopStart, err := sf.S32LE(0x14)
	if err != nil {
		return nil, nil
	}
	loopEnd, err := sf.S32LE(0x18)
	if err != nil {
		return nil, nil
	}
	codec, err := sf.U32LE(0x1C)
	if err != nil {
		return nil, nil
	}
	startOffset, err := sf.U32LE(0x20)
	if err != nil || int64(startOffset) >= sf.Size() {
		return nil, nil
	}

	coding, ok := genhCoding(codec)
	if !ok {
		return nil, nil
	}

	loopFlag := loopStart >= 0 && loopEnd > loopStart

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = int(numSamples)
	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
	}
	s.Coding = coding

	start := int64(startOffset)
	switch {
	case interleave > 0 && channels > 1:
		s.Layout = stream.LayoutInterleave
		s.InterleaveBlockSize = int(interleave)
		for i := range int(channels) {
			s.UseChannel(i, sf.Dup(), start+int64(interleave)*int64(i))
		}
	case channels == 1:
		s.Layout = stream.LayoutFlat
		s.UseChannel(0, sf.Dup(), start)
	default:
		// Flat multichannel: the data splits into equal contiguous
		// per-channel spans.
		s.Layout = stream.LayoutFlat
		span := (sf.Size() - start) / int64(channels)
		for i := range int(channels) {
			s.UseChannel(i, sf.Dup(), start+span*int64(i))
		}
	}
	return finish(s)
}

func genhCoding(codec uint32) (stream.Coding, bool) {
	switch codec {
	case 0:
		return stream.CodingPSX, true
	case 1:
		return stream.CodingPCM16LE, true
	case 2:
		return stream.CodingPCM16BE, true
	case 3:
		return stream.CodingPCM8, true
	case 4:
		return stream.CodingPCM8U, true
	case 5:
		return stream.CodingSDX2, true
	case 6:
		return stream.CodingIMA, true
	default:
		return stream.CodingNone, false
	}
}
