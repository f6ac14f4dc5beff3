// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Render decodes up to len(dst)/OutputChannels() interleaved frames and
// returns how many it produced. Zero frames means the stream is exhausted
// under the applied config; with PlayForever that never happens.
//
// Rendering wraps from the loop end back to the loop start while looped
// output is still owed, restoring the codec snapshot taken the first time
// decoding crossed the loop start. Past the final loop the remaining tail
// plays out, scaled by the fade envelope when one is configured.
func (s *Stream) Render(dst []int16) (int, error) {
	if !s.prepared {
		return 0, ErrNotPrepared
	}

	out := s.OutputChannels()
	if len(dst)%out != 0 {
		return 0, ErrInvalidDstSize
	}
	want := len(dst) / out
	if want == 0 {
		return 0, nil
	}
	s.renderStarted = true

	if !s.cfg.PlayForever {
		left := s.SampleCount() - s.produced
		if left <= 0 {
			return 0, nil
		}
		if want > left {
			want = left
		}
	}

	pos0 := s.produced
	var n int
	var err error

	if s.mix != nil && s.mix.enabled {
		n, err = s.renderMixed(dst, want)
	} else {
		n, err = s.decodeInto(dst[:want*s.Channels], want, true)
	}

	if n > 0 && s.fadeActive() {
		s.applyFade(dst[:n*out], out, pos0)
	}
	return n, err
}

// renderMixed decodes into the mixer scratch in maxFrames chunks and
// matrixes each chunk into dst.
func (s *Stream) renderMixed(dst []int16, want int) (int, error) {
	in := s.Channels
	out := s.mix.outputChannels
	done := 0

	for done < want {
		chunk := want - done
		if chunk > s.mix.maxFrames {
			chunk = s.mix.maxFrames
		}

		m, err := s.decodeInto(s.mix.scratch[:chunk*in], chunk, true)
		if m > 0 {
			s.mix.apply(s.mix.scratch[:m*in], dst[done*out:(done+m)*out], m)
			done += m
		}
		if err != nil {
			return done, err
		}
		if m == 0 {
			break
		}
	}
	return done, nil
}

// decodeInto is the decode driver shared by rendering, seeking and loop
// discard. live decoding advances the output position and wraps at the
// loop end; discard decoding (live=false) runs linearly through the
// source, still capturing the loop snapshot when it crosses the loop
// start.
func (s *Stream) decodeInto(buf []int16, want int, live bool) (int, error) {
	if s.delegate != nil {
		return s.delegateInto(buf, want, live)
	}

	done := 0
	for done < want {
		if live && s.Looping() && s.currentSample == s.LoopEndSample &&
			s.loopReady && s.shouldWrap() {
			s.restore(s.loop)
			s.loopsDone++
			continue
		}
		if s.Looping() && !s.loopReady && s.currentSample == s.LoopStartSample {
			s.loop = s.capture()
			s.loopReady = true
		}

		remain := s.NumSamples - s.currentSample
		if remain <= 0 {
			break
		}

		toDo := s.samplesToDo()
		if toDo > want-done {
			toDo = want - done
		}
		if toDo > remain {
			toDo = remain
		}
		if toDo <= 0 {
			return done, fmt.Errorf("decode stalled at sample %d: %w",
				s.currentSample, ErrBadDescriptor)
		}

		for i := range s.ch {
			err := s.decode(s, &s.ch[i], i, buf[done*s.Channels+i:], s.Channels,
				s.samplesIntoBlock, toDo)
			if err != nil {
				return done, fmt.Errorf("channel %d at sample %d: %w", i, s.currentSample, err)
			}
		}

		s.currentSample += toDo
		s.samplesIntoBlock += toDo
		done += toDo
		if live {
			s.produced += toDo
		}

		if s.samplesIntoBlock == s.samplesThisBlock() {
			if err := s.advanceBlock(); err != nil {
				return done, err
			}
		}
	}
	return done, nil
}

// delegateInto drives a whole-stream delegate decoder. Loop state is a
// plain position, so wrapping is a sample-exact seek.
func (s *Stream) delegateInto(buf []int16, want int, live bool) (int, error) {
	done := 0
	for done < want {
		if live && s.Looping() && s.currentSample == s.LoopEndSample && s.shouldWrap() {
			if err := s.delegate.Seek(s.LoopStartSample); err != nil {
				return done, fmt.Errorf("loop seek: %w", err)
			}
			s.currentSample = s.LoopStartSample
			s.loopsDone++
		}

		remain := s.NumSamples - s.currentSample
		if remain <= 0 {
			break
		}

		toDo := want - done
		if toDo > remain {
			toDo = remain
		}
		if live && s.Looping() && s.currentSample < s.LoopEndSample &&
			s.currentSample+toDo > s.LoopEndSample {
			toDo = s.LoopEndSample - s.currentSample
		}

		n, err := s.delegate.ReadPCM(buf[done*s.Channels : (done+toDo)*s.Channels])
		if n > 0 {
			done += n
			s.currentSample += n
			if live {
				s.produced += n
			}
		}
		if err != nil {
			return done, fmt.Errorf("delegate: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return done, nil
}

// shouldWrap decides whether the loop end wraps again: while the output
// still owed exceeds the samples after the loop end, another pass through
// the body is needed. PlayForever always wraps.
func (s *Stream) shouldWrap() bool {
	if s.cfg.PlayForever {
		return true
	}
	tail := s.NumSamples - s.LoopEndSample
	return s.SampleCount()-s.produced > tail
}

// applyFade scales output frames that fall inside the fade-out region.
func (s *Stream) applyFade(dst []int16, out, pos0 int) {
	total := s.SampleCount()
	fadeLen := s.fadeLen()
	fadeStart := total - fadeLen

	frames := len(dst) / out
	for f := range frames {
		p := pos0 + f
		if p < fadeStart {
			continue
		}
		vol := float64(total-p) / float64(fadeLen)
		for c := range out {
			dst[f*out+c] = int16(float64(dst[f*out+c]) * vol)
		}
	}
}
