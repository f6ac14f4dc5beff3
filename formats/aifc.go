// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/go-audio/aiff"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// AIFF/AIFC: validation and the sample rate come from go-audio/aiff; a
// manual big-endian chunk walk supplies what that decoder does not
// expose, the AIFC compression type and the absolute SSND data offset.
// Uncompressed audio decodes as big-endian PCM, the "SDX2" compression
// (3DO discs) through the squareroot-delta codec.
func openAIFC(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	dec := aiff.NewDecoder(sf.ReadSeeker(0))
	if !dec.IsValidFile() {
		return nil, nil
	}
	dec.ReadInfo()
	format := dec.Format()
	if format == nil || format.SampleRate == 0 ||
		format.NumChannels == 0 || format.NumChannels > 8 {
		return nil, nil
	}

	form, err := sf.FourCC(0x08)
	if err != nil {
		return nil, nil
	}

	var (
		compression string
		numFrames   uint32
		sampleSize  uint16
		dataOffset  int64
		haveSSND    bool
	)

	pos := int64(12)
	for pos+8 <= sf.Size() {
		id, err := sf.FourCC(pos)
		if err != nil {
			return nil, nil
		}
		size, err := sf.U32BE(pos + 4)
		if err != nil {
			return nil, nil
		}

		switch id {
		case "COMM":
			f, err := sf.U32BE(pos + 8 + 2)
			if err != nil {
				return nil, nil
			}
			numFrames = f
			ss, err := sf.U16BE(pos + 8 + 6)
			if err != nil {
				return nil, nil
			}
			sampleSize = ss
			if form == "AIFC" && size >= 22 {
				// compression fourcc follows the 10-byte rate extended
				c, err := sf.FourCC(pos + 8 + 18)
				if err != nil {
					return nil, nil
				}
				compression = c
			}
		case "SSND":
			off, err := sf.U32BE(pos + 8)
			if err != nil {
				return nil, nil
			}
			dataOffset = pos + 16 + int64(off)
			haveSSND = true
		}
		pos += 8 + int64(size) + int64(size)%2
	}

	if !haveSSND || numFrames == 0 {
		return nil, nil
	}

	s := stream.New(format.NumChannels, false)
	s.SampleRate = format.SampleRate
	s.NumSamples = int(numFrames)

	switch {
	case (compression == "" || compression == "NONE" || compression == "twos") && sampleSize == 16:
		s.Coding = stream.CodingPCM16BE
		useInterleaved(s, sf, dataOffset, 2)
	case compression == "SDX2" || compression == "sdx2":
		s.Coding = stream.CodingSDX2
		useInterleaved(s, sf, dataOffset, 1)
	default:
		return nil, nil
	}
	return finish(s)
}
