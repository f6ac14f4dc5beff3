// SPDX-License-Identifier: EPL-2.0

package stream

import "math"

// SampleCount returns the total frames Render will produce under the
// applied config.
//
// Without an active loop it is the stream's sample count. With a loop of
// count c over body b it is NumSamples + floor((c-1)*b), extended by the
// fade delay and fade length when fading out. With PlayForever the figure
// is descriptive only (one pass); Render never ends.
func (s *Stream) SampleCount() int {
	if !s.Looping() {
		return s.NumSamples
	}
	if s.cfg.PlayForever {
		return s.NumSamples
	}

	body := s.LoopEndSample - s.LoopStartSample
	total := s.NumSamples + int(math.Floor((s.cfg.LoopCount-1)*float64(body)))

	if s.fadeLen() > 0 && !s.cfg.IgnoreFade {
		total += int(math.Round(s.cfg.FadeDelay * float64(s.SampleRate)))
		total += s.fadeLen()
	}
	return total
}

// fadeLen returns the fade-out length in frames.
func (s *Stream) fadeLen() int {
	return int(math.Round(s.cfg.FadeTime * float64(s.SampleRate)))
}

// fadeActive reports whether Render scales output by the fade envelope.
func (s *Stream) fadeActive() bool {
	return s.Looping() && !s.cfg.IgnoreFade && !s.cfg.PlayForever && s.fadeLen() > 0
}
