// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrBadDescriptor  = errors.New("descriptor fields are inconsistent")
	ErrNotPrepared    = errors.New("stream is not prepared")
	ErrInvalidDstSize = errors.New("dst size must be multiple of output channels")
	ErrBadConfig      = errors.New("invalid playback config")
	ErrConfigLocked   = errors.New("config overrides are disabled")
	ErrNotLoopable    = errors.New("stream cannot loop")
	ErrMixingStarted  = errors.New("mixing cannot change after rendering started")
	ErrBadDownmix     = errors.New("unsupported downmix channel count")
)
