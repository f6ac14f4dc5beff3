// SPDX-License-Identifier: EPL-2.0

package stream

// PlayStation ADPCM: 16-byte frames of filter/shift header, flag byte and
// 28 nibbles (low nibble first). Prediction runs over two history samples
// with one of five fixed filter pairs.

var psxCoefs = [8][2]int32{
	{0, 0},
	{60, 0},
	{115, -52},
	{98, -55},
	{122, -60},
	// indexes 5..7 are not produced by encoders; decode as no filter
	{0, 0},
	{0, 0},
	{0, 0},
}

func decodePSX(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	const frameBytes = 16
	const frameSamples = 28

	framesIn := firstSample / frameSamples
	sampleIn := firstSample % frameSamples

	frame, err := ch.sf.Bytes(ch.offset+int64(framesIn)*frameBytes, frameBytes)
	if err != nil {
		return err
	}

	filter := int32(frame[0]>>4) & 0x07
	shift := int32(frame[0] & 0x0f)
	if shift > 12 {
		shift = 9
	}
	f0 := psxCoefs[filter][0]
	f1 := psxCoefs[filter][1]

	for i := range count {
		pos := sampleIn + i
		b := frame[2+pos/2]

		var nib int32
		if pos&1 == 0 {
			nib = nibbleLow(b)
		} else {
			nib = nibbleHigh(b)
		}

		sample := (nib << 12) >> shift
		sample += (ch.hist1*f0 + ch.hist2*f1 + 32) >> 6
		sample = clamp16(sample)

		dst[i*stride] = int16(sample)
		ch.hist2 = ch.hist1
		ch.hist1 = sample
	}
	return nil
}
