// SPDX-License-Identifier: EPL-2.0

package stream

// Nintendo GameCube/Wii DSP ADPCM: 8-byte frames of one header byte and 14
// nibbles (high nibble first). The header selects a scale and one of eight
// coefficient pairs from the per-channel table carried in the file header.

func decodeNGCDSP(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	const frameBytes = 8
	const frameSamples = 14

	framesIn := firstSample / frameSamples
	sampleIn := firstSample % frameSamples

	frame, err := ch.sf.Bytes(ch.offset+int64(framesIn)*frameBytes, frameBytes)
	if err != nil {
		return err
	}

	scale := int32(1) << (frame[0] & 0x0f)
	index := (frame[0] >> 4) & 0x0f
	coef1 := int32(ch.coefs[index*2])
	coef2 := int32(ch.coefs[index*2+1])

	for i := range count {
		pos := sampleIn + i
		b := frame[1+pos/2]

		var nib int32
		if pos&1 == 0 {
			nib = nibbleHigh(b)
		} else {
			nib = nibbleLow(b)
		}

		sample := clamp16((((scale * nib) << 11) + 1024 + (coef1*ch.hist1 + coef2*ch.hist2)) >> 11)

		dst[i*stride] = int16(sample)
		ch.hist2 = ch.hist1
		ch.hist1 = sample
	}
	return nil
}
