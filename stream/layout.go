// SPDX-License-Identifier: EPL-2.0

package stream

// samplesThisBlock returns the decodable samples per channel before the
// next layout boundary.
func (s *Stream) samplesThisBlock() int {
	switch s.Layout {
	case LayoutInterleave:
		return s.InterleaveBlockSize / s.frameSize() * s.samplesPerFrame()
	case LayoutBlockedAST:
		return s.blockSamples
	default:
		return s.NumSamples
	}
}

// samplesToDo bounds the next decode span: it stops at the layout boundary,
// at the loop points when a loop is active, and within a single frame for
// framed codecs so decoders never straddle a frame header.
func (s *Stream) samplesToDo() int {
	toDo := s.samplesThisBlock() - s.samplesIntoBlock

	if s.Looping() && s.currentSample < s.LoopEndSample {
		after := s.currentSample + toDo
		if after > s.LoopEndSample {
			toDo = s.LoopEndSample - s.currentSample
		} else if !s.loopReady && s.currentSample < s.LoopStartSample && after > s.LoopStartSample {
			toDo = s.LoopStartSample - s.currentSample
		}
	}

	if spf := s.samplesPerFrame(); spf > 1 {
		if rem := s.samplesIntoBlock % spf; rem+toDo > spf {
			toDo = spf - rem
		}
	}
	return toDo
}

// advanceBlock moves channel cursors past a fully consumed layout block.
func (s *Stream) advanceBlock() error {
	s.samplesIntoBlock = 0

	switch s.Layout {
	case LayoutInterleave:
		step := int64(s.InterleaveBlockSize * s.Channels)
		for i := range s.ch {
			s.ch[i].offset += step
		}
		return nil
	case LayoutBlockedAST:
		return s.updateBlockAST(s.nextBlock)
	default:
		// A flat span is the whole stream; reaching its end is the end.
		return nil
	}
}
