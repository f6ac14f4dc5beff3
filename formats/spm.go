// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// SPM (Lethal Skies Elite Pilot): "SPM\x00" magic, always-looped stereo
// 16-bit PCM at 48kHz, sample-interleaved from 0x800.
func openSPM(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "SPM\x00" {
		return nil, nil
	}

	dataSize, err := sf.S32LE(0x04)
	if err != nil {
		return nil, nil
	}
	loopStart, err := sf.S32LE(0x08)
	if err != nil {
		return nil, nil
	}
	loopEnd, err := sf.S32LE(0x0C)
	if err != nil {
		return nil, nil
	}

	const startOffset = 0x800
	const channels = 2

	s := stream.New(channels, true)
	s.SampleRate = 48000
	s.NumSamples = int(dataSize) / 4
	s.LoopStartSample = int(loopStart)
	s.LoopEndSample = int(loopEnd)
	s.Coding = stream.CodingPCM16LE
	s.Layout = stream.LayoutInterleave
	s.InterleaveBlockSize = 2

	for i := range channels {
		s.UseChannel(i, sf.Dup(), startOffset+int64(s.InterleaveBlockSize*i))
	}
	return finish(s)
}
