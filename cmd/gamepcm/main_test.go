// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"testing"

	"github.com/ik5/gamepcm/stream"
)

func TestReplaceFilename(t *testing.T) {
	t.Parallel()

	s := stream.New(1, false)
	s.StreamIndex = 3
	s.NumStreams = 10
	s.StreamName = "bgm/field"

	tests := []struct {
		template string
		expected string
	}{
		{"out_?s.wav", "out_3.wav"},
		{"?n.wav", "bgm_field.wav"},
		{"?f.wav", "bank.awb.wav"},
		{"?f_?s_?n.wav", "bank.awb_3_bgm_field.wav"},
	}
	for _, tc := range tests {
		if got := replaceFilename(tc.template, "bank.awb", s); got != tc.expected {
			t.Fatalf("replaceFilename(%q) = %q, expected %q", tc.template, got, tc.expected)
		}
	}
}

func TestReplaceFilenameNoSubsongs(t *testing.T) {
	t.Parallel()

	s := stream.New(1, false)
	s.StreamIndex = 1
	s.NumStreams = 0

	if got := replaceFilename("out_?s.wav", "track.adx", s); got != "out_0.wav" {
		t.Fatalf("got %q, expected out_0.wav", got)
	}
}

func TestCleanFilename(t *testing.T) {
	t.Parallel()

	if got := cleanFilename("a/b*c?d", true); got != "a_b_c_d" {
		t.Fatalf("got %q", got)
	}
	if got := cleanFilename("dir/file:x", false); got != "dir/file_x" {
		t.Fatalf("got %q", got)
	}
}

func TestWritePCMStereoPair(t *testing.T) {
	t.Parallel()

	// 2 frames of 6 channels; pair 1 is channels 2,3
	samples := []int16{
		0, 1, 2, 3, 4, 5,
		10, 11, 12, 13, 14, 15,
	}

	var out bytes.Buffer
	if err := writePCM(&out, samples, 6, 1); err != nil {
		t.Fatalf("writePCM: %s", err)
	}

	expected := []byte{2, 0, 3, 0, 12, 0, 13, 0}
	if !bytes.Equal(out.Bytes(), expected) {
		t.Fatalf("got % x, expected % x", out.Bytes(), expected)
	}
}
