// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Config controls looping, fading and play-forever behavior. Zero value
// means straight playback of the stream's samples.
type Config struct {
	// LoopCount is how many times the loop body plays. Fractions end the
	// final pass inside the body. Zero disables looping.
	LoopCount float64

	// FadeTime is the fade-out length in seconds, applied past the final
	// loop. FadeDelay postpones the fade by that many seconds at full
	// volume.
	FadeTime  float64
	FadeDelay float64

	// IgnoreLoop plays the stream once even when it declares a loop.
	IgnoreLoop bool
	// ForceLoop loops the whole stream when no loop is declared.
	ForceLoop bool
	// ReallyForceLoop loops the whole stream, replacing a declared loop.
	ReallyForceLoop bool
	// IgnoreFade plays the loop tail after the final loop instead of
	// fading out.
	IgnoreFade bool
	// PlayForever renders endlessly; the stream must be loopable.
	PlayForever bool
	// DisableOverride rejects any further Configure call.
	DisableOverride bool
}

// Configure applies a playback config. Loop overrides are resolved against
// the loop points the probe filled in, in a fixed order: ReallyForceLoop
// replaces any loop with the whole stream, ForceLoop only synthesizes one
// when none exists, IgnoreLoop then disables looping. The call rejects
// invalid configs without applying anything.
func (s *Stream) Configure(cfg Config) error {
	if !s.prepared {
		return ErrNotPrepared
	}
	if s.locked {
		return ErrConfigLocked
	}

	if cfg.LoopCount < 0 {
		return fmt.Errorf("loop count %v: %w", cfg.LoopCount, ErrBadConfig)
	}
	if cfg.FadeTime < 0 || cfg.FadeDelay < 0 {
		return fmt.Errorf("fade %v delay %v: %w", cfg.FadeTime, cfg.FadeDelay, ErrBadConfig)
	}

	loopFlag := s.origLoopFlag
	loopStart := s.origLoopStart
	loopEnd := s.origLoopEnd

	switch {
	case cfg.ReallyForceLoop:
		loopFlag = true
		loopStart = 0
		loopEnd = s.NumSamples
	case cfg.ForceLoop && !loopFlag:
		loopFlag = true
		loopStart = 0
		loopEnd = s.NumSamples
	}
	if cfg.IgnoreLoop {
		loopFlag = false
	}

	if cfg.PlayForever && !loopFlag {
		return fmt.Errorf("play forever: %w", ErrNotLoopable)
	}

	// Loop points moved, so a snapshot taken at the old start is stale.
	if loopFlag != s.LoopFlag || loopStart != s.LoopStartSample || loopEnd != s.LoopEndSample {
		s.loop = nil
		s.loopReady = false
	}

	s.LoopFlag = loopFlag
	s.LoopStartSample = loopStart
	s.LoopEndSample = loopEnd

	s.cfg = cfg
	s.configured = true
	if cfg.DisableOverride {
		s.locked = true
	}
	return nil
}

// ConfigApplied returns the active config.
func (s *Stream) ConfigApplied() (Config, bool) {
	return s.cfg, s.configured
}
