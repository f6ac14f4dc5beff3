// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// CRI ADX: 0x8000 magic, a "(c)CRI" copyright string right before the
// sample data, and fixed-coefficient ADPCM in 18-byte frames. Prediction
// coefficients are not stored; they derive from the header's highpass
// cutoff and sample rate. Version 3 headers may carry loop samples.
func openADX(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.U16BE(0x00)
	if err != nil || magic != 0x8000 {
		return nil, nil
	}

	headerSize, err := sf.U16BE(0x02)
	if err != nil {
		return nil, nil
	}
	startOffset := int64(headerSize) + 4
	if cri, err := sf.Bytes(startOffset-6, 6); err != nil || string(cri) != "(c)CRI" {
		return nil, nil
	}

	encoding, err := sf.U8(0x04)
	if err != nil || encoding != 3 { // standard, derived coefficients
		return nil, nil
	}
	frameSize, err := sf.U8(0x05)
	if err != nil || frameSize != 18 {
		return nil, nil
	}
	if bits, err := sf.U8(0x06); err != nil || bits != 4 {
		return nil, nil
	}
	channels, err := sf.U8(0x07)
	if err != nil || channels == 0 || channels > 8 {
		return nil, nil
	}
	rate, err := sf.U32BE(0x08)
	if err != nil || rate == 0 {
		return nil, nil
	}
	numSamples, err := sf.U32BE(0x0C)
	if err != nil {
		return nil, nil
	}
	cutoff, err := sf.U16BE(0x10)
	if err != nil {
		return nil, nil
	}
	version, err := sf.U8(0x12)
	if err != nil {
		return nil, nil
	}
	if flags, err := sf.U8(0x13); err != nil || flags&0x08 != 0 {
		return nil, nil // encrypted
	}

	loopFlag := false
	var loopStart, loopEnd int32
	if version == 3 && startOffset >= 0x2C {
		flag, err := sf.U32BE(0x18)
		if err != nil {
			return nil, nil
		}
		if flag != 0 {
			start, err := sf.S32BE(0x1C)
			if err != nil {
				return nil, nil
			}
			end, err := sf.S32BE(0x24)
			if err != nil {
				return nil, nil
			}
			loopFlag = true
			loopStart = start
			loopEnd = end
		}
	}

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = int(numSamples)
	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
	}
	s.Coding = stream.CodingCRIADX
	s.Layout = stream.LayoutInterleave
	s.InterleaveBlockSize = 18

	coef1, coef2 := stream.ADXCoefs(int(cutoff), int(rate))
	for i := range int(channels) {
		s.UseChannel(i, sf.Dup(), startOffset+int64(s.InterleaveBlockSize*i))
	}
	s.SetADXCoefs(coef1, coef2)
	return finish(s)
}
