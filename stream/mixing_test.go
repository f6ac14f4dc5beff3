// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"testing"

	"github.com/ik5/gamepcm/streamfile"
	"github.com/ik5/gamepcm/utils"
)

// multiPCM16 builds a prepared interleaved PCM16LE stream over chans.
func multiPCM16(t *testing.T, chans [][]int16, rate int) *Stream {
	t.Helper()

	const interleave = 2
	sf := streamfile.NewMem("multi.pcm", pcm16leBytes(chans, interleave))

	s := New(len(chans), false)
	s.SampleRate = rate
	s.NumSamples = len(chans[0])
	s.Coding = CodingPCM16LE
	s.Layout = LayoutInterleave
	s.InterleaveBlockSize = interleave
	s.UseChannel(0, sf, 0)
	for i := 1; i < len(chans); i++ {
		s.UseChannel(i, sf.Dup(), int64(interleave*i))
	}
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return s
}

func TestAutoDownmix_6to2(t *testing.T) {
	t.Parallel()

	// FL FR FC LFE BL BR
	src := [][]int16{
		{1000, -1000}, {2000, -2000}, {3000, -3000},
		{4000, -4000}, {5000, -5000}, {6000, -6000},
	}
	s := multiPCM16(t, src, 44100)
	defer s.Close()

	if err := s.AutoDownmix(2); err != nil {
		t.Fatalf("AutoDownmix() error = %v", err)
	}
	in, out, err := s.EnableMixing(16)
	if err != nil {
		t.Fatalf("EnableMixing() error = %v", err)
	}
	if in != 6 || out != 2 {
		t.Fatalf("EnableMixing() = (%d,%d), expected (6,2)", in, out)
	}
	if s.OutputChannels() != 2 {
		t.Fatalf("OutputChannels() = %d, expected 2", s.OutputChannels())
	}

	got := renderAll(t, s)
	if len(got) != 2*2 {
		t.Fatalf("rendered %d samples, expected 4", len(got))
	}

	// the mix is a fixed linear combination, never channel truncation
	mix := func(front, center, lfe, back int16) int16 {
		acc := float32(front) +
			0.7071*float32(center) +
			0.5*float32(lfe) +
			0.7071*float32(back)
		return utils.ClampInt16(int(acc))
	}
	for f := range 2 {
		expectedL := mix(src[0][f], src[2][f], src[3][f], src[4][f])
		expectedR := mix(src[1][f], src[2][f], src[3][f], src[5][f])
		if got[f*2] != expectedL || got[f*2+1] != expectedR {
			t.Fatalf("frame %d = (%d,%d), expected (%d,%d)",
				f, got[f*2], got[f*2+1], expectedL, expectedR)
		}
	}
}

func TestAutoDownmix_Mono(t *testing.T) {
	t.Parallel()

	src := [][]int16{{100, 200}, {300, 400}}
	s := multiPCM16(t, src, 44100)
	defer s.Close()

	if err := s.AutoDownmix(1); err != nil {
		t.Fatalf("AutoDownmix() error = %v", err)
	}
	if _, _, err := s.EnableMixing(0); err != nil {
		t.Fatalf("EnableMixing() error = %v", err)
	}

	got := renderAll(t, s)
	for f := range 2 {
		expected := utils.ClampInt16(int(0.5*float32(src[0][f]) + 0.5*float32(src[1][f])))
		if got[f] != expected {
			t.Fatalf("frame %d = %d, expected %d", f, got[f], expected)
		}
	}
}

func TestAutoDownmix_AtTargetIsNoop(t *testing.T) {
	t.Parallel()

	src := [][]int16{ramp(0, 8), ramp(100, 8)}
	s := multiPCM16(t, src, 44100)
	defer s.Close()

	if err := s.AutoDownmix(2); err != nil {
		t.Fatalf("AutoDownmix() error = %v", err)
	}
	in, out, err := s.EnableMixing(0)
	if err != nil {
		t.Fatalf("EnableMixing() error = %v", err)
	}
	if in != 2 || out != 2 {
		t.Fatalf("EnableMixing() = (%d,%d), expected passthrough", in, out)
	}

	got := renderAll(t, s)
	for f := range 8 {
		if got[f*2] != src[0][f] || got[f*2+1] != src[1][f] {
			t.Fatalf("frame %d altered by no-op downmix", f)
		}
	}
}

func TestAutoDownmix_UnsupportedTarget(t *testing.T) {
	t.Parallel()

	src := make([][]int16, 6)
	for i := range src {
		src[i] = ramp(i*100, 4)
	}
	s := multiPCM16(t, src, 44100)
	defer s.Close()

	if err := s.AutoDownmix(3); !errors.Is(err, ErrBadDownmix) {
		t.Fatalf("AutoDownmix(3) error = %v, expected ErrBadDownmix", err)
	}
}

func TestAutoDownmix_AfterRenderFails(t *testing.T) {
	t.Parallel()

	src := [][]int16{ramp(0, 8), ramp(0, 8), ramp(0, 8)}
	s := multiPCM16(t, src, 44100)
	defer s.Close()

	buf := make([]int16, 3)
	if _, err := s.Render(buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := s.AutoDownmix(2); !errors.Is(err, ErrMixingStarted) {
		t.Fatalf("AutoDownmix() error = %v, expected ErrMixingStarted", err)
	}
}

func TestInterleave_MatchesManualWeave(t *testing.T) {
	t.Parallel()

	left := ramp(0, 200)
	right := ramp(-5000, 200)
	s := multiPCM16(t, [][]int16{left, right}, 44100)
	defer s.Close()

	got := renderAll(t, s)
	if len(got) != 400 {
		t.Fatalf("rendered %d samples, expected 400", len(got))
	}
	for f := range 200 {
		if got[f*2] != left[f] || got[f*2+1] != right[f] {
			t.Fatalf("frame %d = (%d,%d), expected (%d,%d)",
				f, got[f*2], got[f*2+1], left[f], right[f])
		}
	}
}
