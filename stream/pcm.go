// SPDX-License-Identifier: EPL-2.0

package stream

// PCM coding reads one sample per frame, so firstSample addresses bytes
// directly via the frame size.

func decodePCM16LE(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		v, err := ch.sf.S16LE(ch.offset + int64(firstSample+i)*2)
		if err != nil {
			return err
		}
		dst[i*stride] = v
	}
	return nil
}

func decodePCM16BE(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		v, err := ch.sf.S16BE(ch.offset + int64(firstSample+i)*2)
		if err != nil {
			return err
		}
		dst[i*stride] = v
	}
	return nil
}

func decodePCM8(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		v, err := ch.sf.S8(ch.offset + int64(firstSample+i))
		if err != nil {
			return err
		}
		dst[i*stride] = int16(v) << 8
	}
	return nil
}

func decodePCM8U(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	for i := range count {
		v, err := ch.sf.U8(ch.offset + int64(firstSample+i))
		if err != nil {
			return err
		}
		dst[i*stride] = (int16(v) - 0x80) << 8
	}
	return nil
}
