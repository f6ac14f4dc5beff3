// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Seek positions the next Render at output frame pos. Positions on the
// loop-extended timeline map back onto the source; decoding state is
// rebuilt by restoring the nearest snapshot and decoding forward, so the
// cost is linear in the distance from that snapshot for predictive codecs
// and blocked layouts. Out-of-range positions clamp to the playable range.
func (s *Stream) Seek(pos int) error {
	if !s.prepared {
		return ErrNotPrepared
	}

	if pos < 0 {
		pos = 0
	}
	if !s.cfg.PlayForever {
		if total := s.SampleCount(); pos > total {
			pos = total
		}
	}

	src, wraps := s.sourcePosition(pos)

	if s.delegate != nil {
		if err := s.delegate.Seek(src); err != nil {
			return fmt.Errorf("delegate seek: %w", err)
		}
		s.currentSample = src
		s.produced = pos
		s.loopsDone = wraps
		return nil
	}

	if wraps > 0 && s.loopReady {
		s.restore(s.loop)
		if err := s.discard(src - s.LoopStartSample); err != nil {
			return err
		}
	} else {
		s.restore(s.start)
		if err := s.discard(src - s.start.currentSample); err != nil {
			return err
		}
	}

	s.produced = pos
	s.loopsDone = wraps
	return nil
}

// sourcePosition maps an output frame position onto the source timeline,
// returning the source sample and how many loop wraps precede it.
func (s *Stream) sourcePosition(pos int) (src, wraps int) {
	if !s.Looping() || pos < s.LoopEndSample {
		return pos, 0
	}

	body := s.LoopEndSample - s.LoopStartSample
	tail := s.NumSamples - s.LoopEndSample

	// Wrap boundaries sit at loop_end + k*body; the k-th wraps only while
	// the remaining output exceeds the tail, mirroring shouldWrap.
	k := (pos - s.LoopEndSample) / body
	boundary := s.LoopEndSample + k*body

	if s.cfg.PlayForever || s.SampleCount()-boundary > tail {
		return s.LoopStartSample + (pos - boundary), k + 1
	}
	return s.LoopEndSample + (pos - boundary), k
}

// discard decodes n source samples into scratch, without wrapping and
// without advancing the output position.
func (s *Stream) discard(n int) error {
	if n <= 0 {
		return nil
	}

	const chunk = 0x4000
	if s.discardBuf == nil {
		s.discardBuf = make([]int16, chunk*s.Channels)
	}

	for n > 0 {
		step := n
		if step > chunk {
			step = chunk
		}
		m, err := s.decodeInto(s.discardBuf[:step*s.Channels], step, false)
		if err != nil {
			return err
		}
		if m == 0 {
			return fmt.Errorf("seek past decodable data: %w", ErrBadDescriptor)
		}
		n -= m
	}
	return nil
}
