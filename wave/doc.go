// SPDX-License-Identifier: EPL-2.0

// Package wave writes 16-bit PCM RIFF/WAVE output.
//
// WriteHeader emits a fully sized header (optionally with a smpl loop
// chunk) so decoded audio can stream to non-seekable destinations such
// as pipes. Encoder covers the seekable case where the total length is
// unknown until the end.
package wave
