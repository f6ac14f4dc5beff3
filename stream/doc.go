// SPDX-License-Identifier: EPL-2.0

// Package stream decodes game-audio streams into 16-bit PCM.
//
// A Stream is a decode state machine built by a format probe: the probe
// fills the descriptor fields (channels, sample rate, sample count, coding,
// layout, loop points) and attaches one streamfile handle per channel, then
// Prepare validates the descriptor and snapshots the initial codec state.
//
// Rendering pulls interleaved frames:
//
//	buf := make([]int16, 4096*s.OutputChannels())
//	for {
//		n, err := s.Render(buf)
//		if err != nil || n == 0 {
//			break
//		}
//		// use buf[:n*s.OutputChannels()]
//	}
//
// Looping, fading and play-forever behavior come from Configure. When a
// loop is active the renderer wraps channel cursors from the loop end back
// to the loop start by restoring a saved snapshot of the codec state, so
// predictive codecs stay bit-exact across iterations. Seek restores the
// nearest snapshot and decodes forward, which makes it linear in the seek
// distance for ADPCM families and blocked layouts.
//
// Channel mixing is negotiated before rendering: AutoDownmix installs a
// fixed matrix (for example 5.1 to stereo), EnableMixing sizes the scratch
// buffer, and Render then reports the mixed channel count.
package stream
