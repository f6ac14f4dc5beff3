// SPDX-License-Identifier: EPL-2.0

// Package streamfile provides buffered positional access to audio container
// bytes.
//
// Format probes and codec state machines read headers and sample data at
// arbitrary offsets, often from several cursors at once (one per channel).
// A File therefore exposes offset-addressed reads instead of an io.Reader
// cursor, with a small read-ahead page per handle so that header walks and
// frame-by-frame decoding do not hit the OS for every few bytes.
//
// Handles are cheap: Dup returns a new handle over the same backing storage
// with its own page, and NewClip restricts a handle to a byte window, which
// is how subsongs inside container formats become standalone files. Backing
// storage is reference counted; it is released when the last handle over it
// is closed.
//
//	f, err := streamfile.Open("BGM01.ADX")
//	if err != nil {
//		...
//	}
//	defer f.Close()
//
//	magic, _ := f.U16BE(0x00)
//	left := f.Dup()   // independent cursor for channel 0
//	right := f.Dup()  // independent cursor for channel 1
//
// Memory-backed files (NewMem) serve decoded payloads and tests through the
// same interface.
package streamfile
