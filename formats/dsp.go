// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// Standard Nintendo GameCube/Wii DSP: a 0x60-byte big-endian header with
// the sample and nibble counts, the sixteen prediction coefficients and
// the decoder seed history, then mono 8-byte ADPCM frames. There is no
// magic; consistency between the sample count and the nibble count is the
// match test.
func openDSP(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	numSamples, err := sf.U32BE(0x00)
	if err != nil || numSamples == 0 {
		return nil, nil
	}
	nibbleCount, err := sf.U32BE(0x04)
	if err != nil {
		return nil, nil
	}
	rate, err := sf.U32BE(0x08)
	if err != nil || rate == 0 || rate > 192000 {
		return nil, nil
	}
	loopFlagRaw, err := sf.U16BE(0x0C)
	if err != nil {
		return nil, nil
	}
	format, err := sf.U16BE(0x0E)
	if err != nil || format != 0 { // 0 is ADPCM
		return nil, nil
	}
	loopStartNibble, err := sf.U32BE(0x10)
	if err != nil {
		return nil, nil
	}
	loopEndNibble, err := sf.U32BE(0x14)
	if err != nil {
		return nil, nil
	}

	if int(numSamples) > dspNibblesToSamples(int(nibbleCount))+14 {
		return nil, nil
	}

	var coefs [16]int16
	for i := range coefs {
		c, err := sf.S16BE(0x1C + int64(i)*2)
		if err != nil {
			return nil, nil
		}
		coefs[i] = c
	}
	hist1, err := sf.S16BE(0x40)
	if err != nil {
		return nil, nil
	}
	hist2, err := sf.S16BE(0x42)
	if err != nil {
		return nil, nil
	}

	loopFlag := loopFlagRaw != 0
	loopStart := dspNibblesToSamples(int(loopStartNibble))
	loopEnd := dspNibblesToSamples(int(loopEndNibble)) + 1

	s := stream.New(1, loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = int(numSamples)
	if loopFlag {
		if loopEnd > s.NumSamples {
			loopEnd = s.NumSamples
		}
		s.LoopStartSample = loopStart
		s.LoopEndSample = loopEnd
	}
	s.Coding = stream.CodingNGCDSP
	s.Layout = stream.LayoutFlat

	s.UseChannel(0, sf.Dup(), 0x60)
	s.SetDSPCoefs(0, coefs)
	s.SetDSPHistory(0, hist1, hist2)
	return finish(s)
}

// dspNibblesToSamples converts a DSP nibble address to a sample count:
// fourteen samples per sixteen-nibble frame, the first two nibbles of
// each frame being the scale header.
func dspNibblesToSamples(nibbles int) int {
	whole := nibbles / 16
	rest := nibbles % 16
	samples := whole * 14
	if rest > 2 {
		samples += rest - 2
	}
	return samples
}
