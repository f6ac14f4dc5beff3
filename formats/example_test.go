// SPDX-License-Identifier: EPL-2.0

package formats_test

import (
	"fmt"

	"github.com/ik5/gamepcm/formats"
	"github.com/ik5/gamepcm/internal/audiotest"
	"github.com/ik5/gamepcm/streamfile"
)

// ExampleIdentify detects an in-memory stream and prints its shape.
func ExampleIdentify() {
	raw := audiotest.BuildSPM(make([]int16, 48), make([]int16, 48), 0, 48)

	sf := streamfile.NewMem("flight.spm", raw)
	defer sf.Close()

	s, err := formats.Identify(sf, formats.Options{})
	if err != nil {
		fmt.Println("identify:", err)
		return
	}
	defer s.Close()

	fmt.Printf("%s, %d Hz, %d channels, %d samples\n",
		s.Coding, s.SampleRate, s.InputChannels(), s.NumSamples)
	// Output: 16-bit PCM (little endian), 48000 Hz, 2 channels, 48 samples
}

func ExampleIsValid() {
	fmt.Println(formats.IsValid("bgm.adx", formats.Options{}))
	fmt.Println(formats.IsValid("bgm.wav", formats.Options{}))
	fmt.Println(formats.IsValid("bgm.wav", formats.Options{AcceptCommon: true}))
	// Output:
	// true
	// false
	// true
}
