// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/ik5/gamepcm/utils"
)

// DefaultMixFrames is a reasonable scratch size for EnableMixing.
const DefaultMixFrames = 0x8000

// Mixer applies a fixed linear matrix to decoded frames. Matrices are
// installed before rendering; Render then reports the mixed channel count.
type Mixer struct {
	inputChannels  int
	outputChannels int
	matrix         [][]float32 // [output][input] weights

	enabled   bool
	maxFrames int
	scratch   []int16
}

// AutoDownmix installs a downmix matrix from the stream's channel count to
// target channels, using standard speaker-layout weights. Every input
// contributes to the output; channels are never dropped. Streams already
// at or below the target are left alone.
func (s *Stream) AutoDownmix(target int) error {
	if !s.prepared {
		return ErrNotPrepared
	}
	if s.renderStarted {
		return ErrMixingStarted
	}
	if target <= 0 || target >= s.Channels {
		return nil
	}

	matrix, err := downmixMatrix(s.Channels, target)
	if err != nil {
		return err
	}

	s.mix = &Mixer{
		inputChannels:  s.Channels,
		outputChannels: target,
		matrix:         matrix,
	}
	return nil
}

// EnableMixing activates the installed mixer and sizes its scratch buffer
// for maxFrames frames per Render call. It returns the source channel
// count and the channel count Render will write. Without an installed
// mixer both equal the stream's channels.
//
// Mixing must be enabled after Configure and before the first Render.
func (s *Stream) EnableMixing(maxFrames int) (inputChannels, outputChannels int, err error) {
	if !s.prepared {
		return 0, 0, ErrNotPrepared
	}
	if s.mix == nil {
		return s.Channels, s.Channels, nil
	}
	if s.renderStarted {
		return 0, 0, ErrMixingStarted
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMixFrames
	}

	s.mix.maxFrames = maxFrames
	s.mix.scratch = make([]int16, maxFrames*s.Channels)
	s.mix.enabled = true
	return s.Channels, s.mix.outputChannels, nil
}

// apply matrixes frames from src (inputChannels wide) into dst
// (outputChannels wide), saturating to 16 bits.
func (m *Mixer) apply(src, dst []int16, frames int) {
	in := m.inputChannels
	out := m.outputChannels

	for f := range frames {
		base := f * in
		for o := range out {
			row := m.matrix[o]
			var acc float32
			for i := range in {
				acc += row[i] * float32(src[base+i])
			}
			dst[f*out+o] = utils.ClampInt16(int(acc))
		}
	}
}

// Speaker orders follow the WAVE channel mask convention:
//
//	3: FL FR FC
//	4: FL FR BL BR
//	5: FL FR FC BL BR
//	6: FL FR FC LFE BL BR
//	7: FL FR FC LFE BC SL SR
//	8: FL FR FC LFE BL BR SL SR
const (
	centerGain   = 0.7071
	surroundGain = 0.7071
	lfeGain      = 0.5
)

func downmixMatrix(in, out int) ([][]float32, error) {
	switch out {
	case 1:
		row := make([]float32, in)
		for i := range row {
			row[i] = 1.0 / float32(in)
		}
		return [][]float32{row}, nil
	case 2:
		return stereoMatrix(in)
	default:
		return nil, fmt.Errorf("%d to %d: %w", in, out, ErrBadDownmix)
	}
}

func stereoMatrix(in int) ([][]float32, error) {
	l := make([]float32, in)
	r := make([]float32, in)

	switch in {
	case 3:
		l[0], r[1] = 1, 1
		l[2], r[2] = centerGain, centerGain
	case 4:
		l[0], r[1] = 1, 1
		l[2], r[3] = surroundGain, surroundGain
	case 5:
		l[0], r[1] = 1, 1
		l[2], r[2] = centerGain, centerGain
		l[3], r[4] = surroundGain, surroundGain
	case 6:
		l[0], r[1] = 1, 1
		l[2], r[2] = centerGain, centerGain
		l[3], r[3] = lfeGain, lfeGain
		l[4], r[5] = surroundGain, surroundGain
	case 7:
		l[0], r[1] = 1, 1
		l[2], r[2] = centerGain, centerGain
		l[3], r[3] = lfeGain, lfeGain
		l[4], r[4] = surroundGain*0.7071, surroundGain*0.7071
		l[5], r[6] = surroundGain, surroundGain
	case 8:
		l[0], r[1] = 1, 1
		l[2], r[2] = centerGain, centerGain
		l[3], r[3] = lfeGain, lfeGain
		l[4], r[5] = surroundGain, surroundGain
		l[6], r[7] = surroundGain, surroundGain
	default:
		return nil, fmt.Errorf("%d to 2: %w", in, ErrBadDownmix)
	}
	return [][]float32{l, r}, nil
}
