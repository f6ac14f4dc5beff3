// SPDX-License-Identifier: EPL-2.0

package stream

import "testing"

// fakeDelegate serves interleaved frames from memory.
type fakeDelegate struct {
	frames   []int16
	channels int
	pos      int
	closed   bool
}

func (d *fakeDelegate) ReadPCM(dst []int16) (int, error) {
	want := len(dst) / d.channels
	remain := len(d.frames)/d.channels - d.pos
	n := min(want, remain)
	if n <= 0 {
		return 0, nil
	}
	copy(dst, d.frames[d.pos*d.channels:(d.pos+n)*d.channels])
	d.pos += n
	return n, nil
}

func (d *fakeDelegate) Seek(frame int) error {
	d.pos = frame
	return nil
}

func (d *fakeDelegate) Close() error {
	d.closed = true
	return nil
}

func delegateStream(t *testing.T, frames []int16, channels int, loopStart, loopEnd int) (*Stream, *fakeDelegate) {
	t.Helper()

	d := &fakeDelegate{frames: frames, channels: channels}
	s := New(channels, loopEnd > loopStart)
	s.SampleRate = 44100
	s.NumSamples = len(frames) / channels
	s.Coding = CodingDelegate
	s.Layout = LayoutFlat
	if loopEnd > loopStart {
		s.LoopStartSample = loopStart
		s.LoopEndSample = loopEnd
	}
	s.UseDelegate(d)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return s, d
}

func TestDelegate_StraightDecode(t *testing.T) {
	t.Parallel()

	frames := ramp(0, 240) // 120 stereo frames
	s, _ := delegateStream(t, frames, 2, 0, 0)
	defer s.Close()

	got := renderAll(t, s)
	if len(got) != 240 {
		t.Fatalf("rendered %d samples, expected 240", len(got))
	}
	for i, v := range frames {
		if got[i] != v {
			t.Fatalf("sample %d = %d, expected %d", i, got[i], v)
		}
	}
}

func TestDelegate_LoopWrapSeeks(t *testing.T) {
	t.Parallel()

	frames := ramp(0, 100)
	s, _ := delegateStream(t, frames, 1, 20, 80)
	defer s.Close()

	if err := s.Configure(Config{LoopCount: 2}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	// 100 + one extra 60-sample body
	if got := s.SampleCount(); got != 160 {
		t.Fatalf("SampleCount() = %d, expected 160", got)
	}

	got := renderAll(t, s)
	if len(got) != 160 {
		t.Fatalf("rendered %d samples, expected 160", len(got))
	}
	for i := range 60 {
		if got[80+i] != frames[20+i] {
			t.Fatalf("looped sample %d = %d, expected %d", 80+i, got[80+i], frames[20+i])
		}
	}
	// past the final pass the tail plays
	for i := range 20 {
		if got[140+i] != frames[80+i] {
			t.Fatalf("tail sample %d = %d, expected %d", 140+i, got[140+i], frames[80+i])
		}
	}
}

func TestDelegate_SeekMapsToSource(t *testing.T) {
	t.Parallel()

	frames := ramp(0, 100)
	cfg := Config{LoopCount: 2}

	ref, _ := delegateStream(t, frames, 1, 20, 80)
	defer ref.Close()
	if err := ref.Configure(cfg); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	refOut := renderAll(t, ref)

	s, _ := delegateStream(t, frames, 1, 20, 80)
	defer s.Close()
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	const pos = 110 // inside the second pass
	if err := s.Seek(pos); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}

	got := renderAll(t, s)
	for i, v := range got {
		if v != refOut[pos+i] {
			t.Fatalf("sample %d = %d, expected %d", i, v, refOut[pos+i])
		}
	}
}

func TestDelegate_CloseReleasesDecoder(t *testing.T) {
	t.Parallel()

	s, d := delegateStream(t, ramp(0, 40), 1, 0, 0)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !d.closed {
		t.Fatal("delegate not closed with the stream")
	}
}
