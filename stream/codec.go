// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// decodeFn decodes count samples of one channel into dst at the given
// stride. firstSample is the sample position within the span that starts
// at ch.offset, so routines can resume mid frame or mid block without
// private cursors. chanIdx locates the channel inside shared blocks.
type decodeFn func(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error

func decoderFor(s *Stream) (decodeFn, error) {
	switch s.Coding {
	case CodingPCM16LE:
		return decodePCM16LE, nil
	case CodingPCM16BE:
		return decodePCM16BE, nil
	case CodingPCM8:
		return decodePCM8, nil
	case CodingPCM8U:
		return decodePCM8U, nil
	case CodingPSX:
		return decodePSX, nil
	case CodingNGCDSP:
		return decodeNGCDSP, nil
	case CodingCRIADX:
		return decodeCRIADX, nil
	case CodingIMA:
		return decodeIMA, nil
	case CodingMSIMA:
		return decodeMSIMA, nil
	case CodingMSADPCM:
		return decodeMSADPCM, nil
	case CodingSDX2:
		return decodeSDX2, nil
	default:
		return nil, fmt.Errorf("coding %v: %w", s.Coding, ErrBadDescriptor)
	}
}

// samplesPerFrame returns the decoded samples per codec frame, per channel.
func (s *Stream) samplesPerFrame() int {
	switch s.Coding {
	case CodingPSX:
		return 28
	case CodingNGCDSP:
		return 14
	case CodingCRIADX:
		return 32
	case CodingIMA:
		return 2
	case CodingMSIMA:
		return msIMASamplesPerBlock(s.FrameSize, s.Channels)
	case CodingMSADPCM:
		return msADPCMSamplesPerBlock(s.FrameSize, s.Channels)
	default:
		return 1
	}
}

// frameSize returns the byte size of one codec frame for one channel.
// Block-based codecs span all channels in one frame.
func (s *Stream) frameSize() int {
	switch s.Coding {
	case CodingPCM16LE, CodingPCM16BE:
		return 2
	case CodingPCM8, CodingPCM8U, CodingIMA, CodingSDX2:
		return 1
	case CodingPSX:
		return 16
	case CodingNGCDSP:
		return 8
	case CodingCRIADX:
		return 18
	case CodingMSIMA, CodingMSADPCM:
		return s.FrameSize
	default:
		return 0
	}
}

// MSADPCMSamplesPerBlock returns the decoded samples per channel in one
// Microsoft ADPCM block of blockAlign bytes, zero when the align is too
// small to hold the per-channel headers.
func MSADPCMSamplesPerBlock(blockAlign, channels int) int {
	return msADPCMSamplesPerBlock(blockAlign, channels)
}

// MSIMASamplesPerBlock is the IMA counterpart of MSADPCMSamplesPerBlock.
func MSIMASamplesPerBlock(blockAlign, channels int) int {
	return msIMASamplesPerBlock(blockAlign, channels)
}

func msADPCMSamplesPerBlock(blockAlign, channels int) int {
	if blockAlign <= 7*channels || channels <= 0 {
		return 0
	}
	return 2 + (blockAlign-7*channels)*2/channels
}

func msIMASamplesPerBlock(blockAlign, channels int) int {
	if blockAlign <= 4*channels || channels <= 0 {
		return 0
	}
	return 1 + (blockAlign/channels-4)*2
}

func nibbleLow(b byte) int32 {
	n := int32(b & 0x0f)
	if n >= 8 {
		n -= 16
	}
	return n
}

func nibbleHigh(b byte) int32 {
	n := int32(b >> 4)
	if n >= 8 {
		n -= 16
	}
	return n
}

func clamp16(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
