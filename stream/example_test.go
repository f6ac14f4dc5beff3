// SPDX-License-Identifier: EPL-2.0

package stream_test

import (
	"encoding/binary"
	"fmt"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// Example_loopedPlayback decodes a small looped stream twice through
// its body.
func Example_loopedPlayback() {
	samples := []int16{0, 1, 2, 3, 4, 5, 6, 7}
	raw := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}

	s := stream.New(1, true)
	s.SampleRate = 32000
	s.NumSamples = len(samples)
	s.LoopStartSample = 4
	s.LoopEndSample = 8
	s.Coding = stream.CodingPCM16LE
	s.Layout = stream.LayoutFlat
	s.UseChannel(0, streamfile.NewMem("loop.pcm", raw), 0)
	if err := s.Prepare(); err != nil {
		fmt.Println("prepare:", err)
		return
	}
	defer s.Close()

	if err := s.Configure(stream.Config{LoopCount: 2}); err != nil {
		fmt.Println("configure:", err)
		return
	}

	out := make([]int16, s.SampleCount())
	n, err := s.Render(out)
	if err != nil {
		fmt.Println("render:", err)
		return
	}
	fmt.Println(out[:n])
	// Output: [0 1 2 3 4 5 6 7 4 5 6 7]
}
