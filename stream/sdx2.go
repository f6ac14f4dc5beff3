// SPDX-License-Identifier: EPL-2.0

package stream

// SDX2 squareroot-delta-exact coding (3DO, AIFC "SDX2"): one byte per
// sample. The delta is twice the signed square of the byte; an even byte
// restarts prediction instead of accumulating.

func decodeSDX2(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		b, err := ch.sf.U8(ch.offset + int64(firstSample+i))
		if err != nil {
			return err
		}

		v := int32(int8(b))
		delta := v * v * 2
		if v < 0 {
			delta = -delta
		}

		sample := delta
		if b&1 != 0 {
			sample += ch.hist1
		}
		sample = clamp16(sample)

		dst[i*stride] = int16(sample)
		ch.hist1 = sample
	}
	return nil
}
