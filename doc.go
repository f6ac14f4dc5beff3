// SPDX-License-Identifier: EPL-2.0

// Package gamepcm decodes streamed audio from video game data files
// into 16-bit PCM.
//
// Game audio rarely ships as plain WAV: consoles stream ADPCM variants
// (PSX, GameCube DSP, CRI ADX, IMA) laid out in per-channel interleaved
// or blocked arrangements, with loop points stored in the header rather
// than baked into the data. This package detects the container, wires
// per-channel codec state over the raw bytes, and renders interleaved
// PCM with loop, fade and seek control.
//
// # Quick Start
//
//	s, err := gamepcm.Open("field.adx")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	err = s.Configure(stream.Config{LoopCount: 2, FadeTime: 10})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	buf := make([]int16, 32768*s.OutputChannels())
//	for {
//		n, err := s.Render(buf)
//		if n == 0 || err != nil {
//			break
//		}
//		// consume buf[:n*s.OutputChannels()]
//	}
//
// # Packages
//
//   - streamfile: buffered random-access byte sources
//   - formats: container detection and header parsing
//   - stream: codecs, layouts, looping, mixing
//   - wave: RIFF/WAVE output
//   - tags: "!tags.m3u" metadata reader
package gamepcm
