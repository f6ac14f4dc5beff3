// SPDX-License-Identifier: EPL-2.0

package formats_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ik5/gamepcm/formats"
	"github.com/ik5/gamepcm/internal/audiotest"
	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// identify opens data under name and hands back the stream, closing it
// at cleanup.
func identify(t *testing.T, name string, data []byte, opt formats.Options) (*stream.Stream, error) {
	t.Helper()

	sf := streamfile.NewMem(name, data)
	defer sf.Close()

	s, err := formats.Identify(sf, opt)
	if s != nil {
		t.Cleanup(func() { s.Close() })
	}
	return s, err
}

// renderAll drains a stream into one buffer.
func renderAll(t *testing.T, s *stream.Stream) []int16 {
	t.Helper()

	out := make([]int16, 0, s.SampleCount()*s.OutputChannels())
	buf := make([]int16, 256*s.OutputChannels())
	for {
		n, err := s.Render(buf)
		if err != nil {
			t.Fatalf("Render: %s", err)
		}
		if n == 0 {
			return out
		}
		out = append(out, buf[:n*s.OutputChannels()]...)
	}
}

func TestIdentifyUnknown(t *testing.T) {
	t.Parallel()

	_, err := identify(t, "track.xyz", []byte("not audio data, definitely"), formats.Options{})
	if !errors.Is(err, formats.ErrUnknownFormat) {
		t.Fatalf("err = %v, expected ErrUnknownFormat", err)
	}
}

func TestIdentifyExtensionGate(t *testing.T) {
	t.Parallel()

	raw := audiotest.BuildSPM(audiotest.Ramp(0, 32), audiotest.Ramp(100, 32), 0, 32)

	// wrong extension, no magic override: nothing claims it
	if _, err := identify(t, "track.xyz", raw, formats.Options{}); !errors.Is(err, formats.ErrUnknownFormat) {
		t.Fatalf("err = %v, expected ErrUnknownFormat", err)
	}

	// AcceptUnknown lets every probe look at the content
	s, err := identify(t, "track.xyz", raw, formats.Options{AcceptUnknown: true})
	if err != nil {
		t.Fatalf("Identify: %s", err)
	}
	if s.Coding != stream.CodingPCM16LE || s.SampleRate != 48000 {
		t.Fatalf("coding = %s rate = %d", s.Coding, s.SampleRate)
	}
}

func TestIdentifyMagicOverridesExtension(t *testing.T) {
	t.Parallel()

	raw := audiotest.BuildADX(1, 22050, 64, 0, 0, false)

	s, err := identify(t, "track.wav", raw, formats.Options{})
	if err != nil {
		t.Fatalf("Identify: %s", err)
	}
	if s.Coding != stream.CodingCRIADX {
		t.Fatalf("coding = %s, expected CRI ADX via magic", s.Coding)
	}
}

func TestIdentifyExtensionless(t *testing.T) {
	t.Parallel()

	raw := audiotest.BuildSPM(audiotest.Ramp(0, 32), audiotest.Ramp(0, 32), 0, 32)

	if _, err := identify(t, "track", raw, formats.Options{AcceptUnknown: true, RejectExtensionless: true}); !errors.Is(err, formats.ErrUnknownFormat) {
		t.Fatalf("err = %v, expected rejection without extension", err)
	}
	if _, err := identify(t, "track", raw, formats.Options{AcceptUnknown: true}); err != nil {
		t.Fatalf("Identify: %s", err)
	}
}

func TestIdentifySkipStandard(t *testing.T) {
	t.Parallel()

	raw := audiotest.BuildRIFF([][]int16{audiotest.Ramp(0, 32)}, 44100, 0, 0, false)

	if _, err := identify(t, "track.wav", raw, formats.Options{SkipStandard: true}); !errors.Is(err, formats.ErrUnknownFormat) {
		t.Fatalf("err = %v, expected common probes skipped", err)
	}
	if _, err := identify(t, "track.wav", raw, formats.Options{}); err != nil {
		t.Fatalf("Identify: %s", err)
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opt      formats.Options
		expected bool
	}{
		{"song.adx", formats.Options{}, true},
		{"song.ADX", formats.Options{}, true},
		{"song.wav", formats.Options{}, false},
		{"song.wav", formats.Options{AcceptCommon: true}, true},
		{"song.xyz", formats.Options{}, false},
		{"song.xyz", formats.Options{AcceptUnknown: true}, true},
		{"noext", formats.Options{}, true},
		{"noext", formats.Options{RejectExtensionless: true}, false},
	}
	for _, tc := range tests {
		if got := formats.IsValid(tc.name, tc.opt); got != tc.expected {
			t.Fatalf("IsValid(%q, %+v) = %v, expected %v", tc.name, tc.opt, got, tc.expected)
		}
	}
}

func TestExtensionLists(t *testing.T) {
	t.Parallel()

	exts := formats.Extensions()
	if !slices.Contains(exts, "adx") || !slices.Contains(exts, "genh") {
		t.Fatalf("missing game extensions: %v", exts)
	}
	if slices.Contains(exts, "wav") {
		t.Fatalf("wav should be common, got %v", exts)
	}

	common := formats.CommonExtensions()
	if !slices.Contains(common, "wav") || !slices.Contains(common, "ogg") {
		t.Fatalf("missing common extensions: %v", common)
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
	}{
		{"song.ADX", "adx"},
		{"dir/song.spm", "spm"},
		{`dir\song.spm`, "spm"},
		{"noext", ""},
	}
	for _, tc := range tests {
		if got := formats.Extension(tc.name); got != tc.expected {
			t.Fatalf("Extension(%q) = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}
