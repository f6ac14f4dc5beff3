// SPDX-License-Identifier: EPL-2.0

package stream

import "math"

// CRI ADX fixed-coefficient ADPCM: 18-byte frames of a big-endian scale
// word and 32 nibbles (high nibble first). Both prediction coefficients
// are derived once from the header's highpass cutoff and sample rate.

// ADXCoefs derives the prediction pair the way CRI encoders do.
func ADXCoefs(cutoff, sampleRate int) (coef1, coef2 int32) {
	z := math.Cos(2.0 * math.Pi * float64(cutoff) / float64(sampleRate))
	a := math.Sqrt2 - z
	b := math.Sqrt2 - 1.0
	c := (a - math.Sqrt((a+b)*(a-b))) / b

	coef1 = int32(math.Floor(c * 8192))
	coef2 = int32(math.Floor(c * c * -4096))
	return coef1, coef2
}

func decodeCRIADX(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	const frameBytes = 18
	const frameSamples = 32

	framesIn := firstSample / frameSamples
	sampleIn := firstSample % frameSamples

	frame, err := ch.sf.Bytes(ch.offset+int64(framesIn)*frameBytes, frameBytes)
	if err != nil {
		return err
	}

	scale := int32(frame[0])<<8 | int32(frame[1])
	scale++

	for i := range count {
		pos := sampleIn + i
		b := frame[2+pos/2]

		var nib int32
		if pos&1 == 0 {
			nib = nibbleHigh(b)
		} else {
			nib = nibbleLow(b)
		}

		sample := nib*scale + ((ch.adxCoef1*ch.hist1 + ch.adxCoef2*ch.hist2) >> 12)
		sample = clamp16(sample)

		dst[i*stride] = int16(sample)
		ch.hist2 = ch.hist1
		ch.hist1 = sample
	}
	return nil
}
