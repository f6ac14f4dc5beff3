// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"github.com/go-audio/riff"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// RIFF/WAVE, the common container: plain PCM plus the Microsoft ADPCM and
// IMA variants games ship inside it. Loop points come from a smpl chunk
// when one is present. The chunk walk runs on go-audio/riff with a byte
// position tracked alongside, since the decode engine needs absolute data
// offsets rather than a reader.
func openRIFF(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	p := riff.New(sf.ReadSeeker(0))
	if err := p.ParseHeaders(); err != nil {
		return nil, nil
	}
	if p.Format != riff.WavFormatID {
		return nil, nil
	}

	var (
		fmtOK         bool
		formatTag     uint16
		channels      uint16
		rate          uint32
		avgBytes      uint32
		blockAlign    uint16
		bitsPerSample uint16
		dataOffset    int64
		dataSize      int
		haveData      bool
		loopFlag      bool
		loopStart     uint32
		loopEnd       uint32
	)

	pos := int64(12)
	for {
		c, err := p.NextChunk()
		if err != nil {
			break
		}

		switch c.ID {
		case riff.FmtID:
			if c.ReadLE(&formatTag) != nil ||
				c.ReadLE(&channels) != nil ||
				c.ReadLE(&rate) != nil ||
				c.ReadLE(&avgBytes) != nil ||
				c.ReadLE(&blockAlign) != nil ||
				c.ReadLE(&bitsPerSample) != nil {
				return nil, nil
			}
			fmtOK = true
		case riff.DataFormatID:
			dataOffset = pos + 8
			dataSize = c.Size
			haveData = true
		case [4]byte{'s', 'm', 'p', 'l'}:
			if start, end, ok := readSmplLoop(c); ok {
				loopFlag = true
				loopStart = start
				loopEnd = end + 1 // smpl stores the last looped sample
			}
		}
		c.Done()
		pos += 8 + int64(c.Size)
	}

	if !fmtOK || !haveData || channels == 0 || channels > 8 || rate == 0 {
		return nil, nil
	}
	if int64(dataSize) > sf.Size()-dataOffset {
		dataSize = int(sf.Size() - dataOffset)
	}

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)

	switch {
	case formatTag == 0x0001 && bitsPerSample == 16:
		s.Coding = stream.CodingPCM16LE
		s.NumSamples = dataSize / (2 * int(channels))
		useInterleaved(s, sf, dataOffset, 2)
	case formatTag == 0x0001 && bitsPerSample == 8:
		s.Coding = stream.CodingPCM8U
		s.NumSamples = dataSize / int(channels)
		useInterleaved(s, sf, dataOffset, 1)
	case formatTag == 0x0002: // Microsoft ADPCM
		s.Coding = stream.CodingMSADPCM
		s.FrameSize = int(blockAlign)
		s.NumSamples = blockSamples(dataSize, int(blockAlign),
			stream.MSADPCMSamplesPerBlock(int(blockAlign), int(channels)))
		useBlocked(s, sf, dataOffset)
	case formatTag == 0x0011 && bitsPerSample == 4: // IMA ADPCM
		s.Coding = stream.CodingMSIMA
		s.FrameSize = int(blockAlign)
		s.NumSamples = blockSamples(dataSize, int(blockAlign),
			stream.MSIMASamplesPerBlock(int(blockAlign), int(channels)))
		useBlocked(s, sf, dataOffset)
	default:
		return nil, nil
	}

	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
		if s.LoopEndSample > s.NumSamples {
			s.LoopEndSample = s.NumSamples
		}
	}
	return finish(s)
}

// readSmplLoop pulls the first loop out of a smpl chunk.
func readSmplLoop(c *riff.Chunk) (start, end uint32, ok bool) {
	var v uint32
	// manufacturer through SMPTE offset
	for range 7 {
		if c.ReadLE(&v) != nil {
			return 0, 0, false
		}
	}
	var numLoops uint32
	if c.ReadLE(&numLoops) != nil || c.ReadLE(&v) != nil || numLoops == 0 {
		return 0, 0, false
	}
	// cue id, type
	if c.ReadLE(&v) != nil || c.ReadLE(&v) != nil {
		return 0, 0, false
	}
	if c.ReadLE(&start) != nil || c.ReadLE(&end) != nil {
		return 0, 0, false
	}
	return start, end, true
}

func useInterleaved(s *stream.Stream, sf *streamfile.File, dataOffset int64, sampleBytes int) {
	if s.Channels == 1 {
		s.Layout = stream.LayoutFlat
		s.UseChannel(0, sf.Dup(), dataOffset)
		return
	}
	s.Layout = stream.LayoutInterleave
	s.InterleaveBlockSize = sampleBytes
	for i := range s.Channels {
		s.UseChannel(i, sf.Dup(), dataOffset+int64(sampleBytes*i))
	}
}

// useBlocked attaches channels for codecs whose blocks span all channels;
// every channel addresses the same block stream.
func useBlocked(s *stream.Stream, sf *streamfile.File, dataOffset int64) {
	s.Layout = stream.LayoutFlat
	for i := range s.Channels {
		s.UseChannel(i, sf.Dup(), dataOffset)
	}
}

func blockSamples(dataSize, blockAlign, perBlock int) int {
	if blockAlign <= 0 || perBlock <= 0 {
		return 0
	}
	return dataSize / blockAlign * perBlock
}
