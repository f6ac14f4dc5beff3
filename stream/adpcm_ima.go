// SPDX-License-Identifier: EPL-2.0

package stream

// IMA ADPCM in two arrangements: a plain nibble stream (low nibble first,
// state carried across the whole channel) and Microsoft RIFF blocks with a
// 4-byte per-channel header and data nibbles grouped 4 bytes per channel.

var imaIndexTable = [16]int32{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var imaStepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// imaExpand advances one IMA step for a raw (unsigned) nibble.
func imaExpand(nibble byte, hist, index int32) (int32, int32) {
	step := imaStepTable[index]

	diff := step >> 3
	if nibble&1 != 0 {
		diff += step >> 2
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&8 != 0 {
		diff = -diff
	}

	hist = clamp16(hist + diff)

	index += imaIndexTable[nibble&0x0f]
	if index < 0 {
		index = 0
	} else if index > 88 {
		index = 88
	}
	return hist, index
}

func decodeIMA(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		pos := firstSample + i
		b, err := ch.sf.U8(ch.offset + int64(pos/2))
		if err != nil {
			return err
		}

		nib := b & 0x0f
		if pos&1 != 0 {
			nib = b >> 4
		}

		ch.hist1, ch.stepIndex = imaExpand(nib, ch.hist1, ch.stepIndex)
		dst[i*stride] = int16(ch.hist1)
	}
	return nil
}

func decodeMSIMA(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	blockSamples := msIMASamplesPerBlock(s.FrameSize, s.Channels)
	block := firstSample / blockSamples
	pos0 := firstSample % blockSamples
	base := ch.offset + int64(block)*int64(s.FrameSize)
	headerLen := int64(4 * s.Channels)

	// Block header: initial sample, step index, reserved byte per channel.
	if pos0 == 0 {
		v, err := ch.sf.S16LE(base + int64(4*chanIdx))
		if err != nil {
			return err
		}
		idx, err := ch.sf.U8(base + int64(4*chanIdx) + 2)
		if err != nil {
			return err
		}
		if idx > 88 {
			idx = 88
		}
		ch.hist1 = int32(v)
		ch.stepIndex = int32(idx)
	}

	for i := range count {
		pos := pos0 + i
		if pos == 0 {
			dst[i*stride] = int16(ch.hist1)
			continue
		}

		n := pos - 1
		group := n / 8
		within := n % 8
		off := base + headerLen + int64((group*s.Channels+chanIdx)*4) + int64(within/2)

		b, err := ch.sf.U8(off)
		if err != nil {
			return err
		}
		nib := b & 0x0f
		if within&1 != 0 {
			nib = b >> 4
		}

		ch.hist1, ch.stepIndex = imaExpand(nib, ch.hist1, ch.stepIndex)
		dst[i*stride] = int16(ch.hist1)
	}
	return nil
}
