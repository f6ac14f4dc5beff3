// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// ADS/SS2 (Sony PS2 SShd): 0x20-byte header with codec, rate, channel and
// interleave fields, then an "SSbd" body of PlayStation ADPCM or PCM16.
// Loop points live at 0x18/0x1C as sample offsets, -1 meaning no loop.
func openADS(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "SShd" {
		return nil, nil
	}
	if body, err := sf.FourCC(0x20); err != nil || body != "SSbd" {
		return nil, nil
	}

	codec, err := sf.U32LE(0x08)
	if err != nil {
		return nil, nil
	}
	rate, err := sf.U32LE(0x0C)
	if err != nil {
		return nil, nil
	}
	channels, err := sf.U32LE(0x10)
	if err != nil || channels == 0 || channels > 8 {
		return nil, nil
	}
	interleave, err := sf.U32LE(0x14)
	if err != nil {
		return nil, nil
	}
	loopStart, err := sf.S32LE(0x18)
	if err != nil {
		return nil, nil
	}
	loopEnd, err := sf.S32LE(0x1C)
	if err != nil {
		return nil, nil
	}
	bodySize, err := sf.U32LE(0x24)
	if err != nil {
		return nil, nil
	}

	const startOffset = 0x28
	if int64(startOffset)+int64(bodySize) > sf.Size() {
		bodySize = uint32(sf.Size() - startOffset)
	}

	var coding stream.Coding
	var numSamples int
	switch codec {
	case 0x10: // PlayStation ADPCM
		coding = stream.CodingPSX
		numSamples = int(bodySize) / (16 * int(channels)) * 28
	case 0x01: // PCM16LE
		coding = stream.CodingPCM16LE
		numSamples = int(bodySize) / (2 * int(channels))
	default:
		return nil, nil
	}

	loopFlag := loopStart >= 0 && loopEnd > loopStart && int(loopEnd) <= numSamples

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = numSamples
	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
	}
	s.Coding = coding
	if channels == 1 {
		s.Layout = stream.LayoutFlat
	} else {
		if interleave == 0 {
			return nil, nil
		}
		s.Layout = stream.LayoutInterleave
		s.InterleaveBlockSize = int(interleave)
	}

	for i := range int(channels) {
		s.UseChannel(i, sf.Dup(), startOffset+int64(s.InterleaveBlockSize*i))
	}
	return finish(s)
}
