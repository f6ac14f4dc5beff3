// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// AST (Nintendo "STRM"): big-endian header at 0x40, then a chain of
// "BLCK" blocks each carrying one payload per channel. Only the PCM16
// variant is handled; block walking itself lives in the stream package.
func openAST(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "STRM" {
		return nil, nil
	}

	codec, err := sf.U16BE(0x08)
	if err != nil || codec != 1 { // 0 is AFC ADPCM, unhandled
		return nil, nil
	}
	if depth, err := sf.U16BE(0x0A); err != nil || depth != 16 {
		return nil, nil
	}
	channels, err := sf.U16BE(0x0C)
	if err != nil || channels == 0 || channels > 8 {
		return nil, nil
	}
	loopFlagRaw, err := sf.U16BE(0x0E)
	if err != nil {
		return nil, nil
	}
	rate, err := sf.U32BE(0x10)
	if err != nil || rate == 0 {
		return nil, nil
	}
	numSamples, err := sf.U32BE(0x14)
	if err != nil {
		return nil, nil
	}
	loopStart, err := sf.U32BE(0x18)
	if err != nil {
		return nil, nil
	}
	loopEnd, err := sf.U32BE(0x1C)
	if err != nil {
		return nil, nil
	}

	loopFlag := loopFlagRaw == 0xFFFF

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = int(numSamples)
	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
	}
	s.Coding = stream.CodingPCM16BE
	s.Layout = stream.LayoutBlockedAST

	// All channels start at the first block header; the block walker
	// assigns the per-channel payload offsets.
	const startOffset = 0x40
	for i := range int(channels) {
		s.UseChannel(i, sf.Dup(), startOffset)
	}
	return finish(s)
}
