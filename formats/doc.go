// SPDX-License-Identifier: EPL-2.0

// Package formats identifies game-audio container formats and builds
// decodable streams from them.
//
// Identification is exhaustive trial: a fixed, statically ordered registry
// of probes each inspects the file and either fills a complete stream
// descriptor or reports a silent non-match. Game-specific formats probe
// before common containers (wav, ogg, mp3...), so files that share header
// bytes resolve by declared policy rather than luck. A probe that finds an
// internally inconsistent header (impossible sample count, loop points
// outside the stream) treats it as a non-match too; malformed input never
// yields a half-filled descriptor.
//
//	f, err := streamfile.Open("BGM.ADX")
//	if err != nil {
//		...
//	}
//	s, err := formats.Identify(f, formats.Options{})
//	f.Close() // channels hold their own references
//
// Byte-level header layouts are private to each probe file; the package
// boundary is Identify, IsValid and the extension lists.
package formats
