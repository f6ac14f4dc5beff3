// SPDX-License-Identifier: EPL-2.0

package stream

// DelegateDecoder produces a whole multichannel stream at once, for codings
// handled by a decoding library rather than the per-channel state machines.
// Implementations must be sample exact on Seek: after Seek(n) the next
// ReadPCM returns the frame at position n.
type DelegateDecoder interface {
	// ReadPCM fills dst with interleaved 16-bit frames and returns the
	// number of frames written. Zero frames with a nil error means the
	// physical end of the stream.
	ReadPCM(dst []int16) (int, error)

	// Seek positions the decoder at an absolute frame.
	Seek(frame int) error

	Close() error
}
