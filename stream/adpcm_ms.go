// SPDX-License-Identifier: EPL-2.0

package stream

// Microsoft ADPCM: self-contained blocks of block-align bytes. Each block
// opens with predictor, delta and two seed samples per channel, followed
// by nibbles (high first) that interleave channels sample by sample.

var msCoefs = [7][2]int32{
	{256, 0},
	{512, -256},
	{0, 0},
	{192, 64},
	{240, 0},
	{460, -208},
	{392, -232},
}

var msAdaptTable = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

func msExpand(nibble int32, ch *channelState) int32 {
	coef1 := msCoefs[ch.msPredictor][0]
	coef2 := msCoefs[ch.msPredictor][1]

	predicted := (ch.msSamp1*coef1 + ch.msSamp2*coef2) >> 8
	predicted += nibble * ch.msDelta
	predicted = clamp16(predicted)

	ch.msSamp2 = ch.msSamp1
	ch.msSamp1 = predicted

	ch.msDelta = (msAdaptTable[nibble&0x0f] * ch.msDelta) >> 8
	if ch.msDelta < 16 {
		ch.msDelta = 16
	}
	return predicted
}

func decodeMSADPCM(s *Stream, ch *channelState, chanIdx int, dst []int16, stride, firstSample, count int) error {
	blockSamples := msADPCMSamplesPerBlock(s.FrameSize, s.Channels)
	block := firstSample / blockSamples
	pos0 := firstSample % blockSamples
	base := ch.offset + int64(block)*int64(s.FrameSize)
	nch := int64(s.Channels)

	if pos0 == 0 {
		pred, err := ch.sf.U8(base + int64(chanIdx))
		if err != nil {
			return err
		}
		if pred > 6 {
			pred = 6
		}
		delta, err := ch.sf.S16LE(base + nch + int64(2*chanIdx))
		if err != nil {
			return err
		}
		samp1, err := ch.sf.S16LE(base + 3*nch + int64(2*chanIdx))
		if err != nil {
			return err
		}
		samp2, err := ch.sf.S16LE(base + 5*nch + int64(2*chanIdx))
		if err != nil {
			return err
		}

		ch.msPredictor = int32(pred)
		ch.msDelta = int32(delta)
		ch.msSamp1 = int32(samp1)
		ch.msSamp2 = int32(samp2)
	}

	headerLen := 7 * nch
	for i := range count {
		pos := pos0 + i

		// The two seed samples play first, oldest first.
		switch pos {
		case 0:
			dst[i*stride] = int16(ch.msSamp2)
			continue
		case 1:
			dst[i*stride] = int16(ch.msSamp1)
			continue
		}

		nibIdx := (pos-2)*s.Channels + chanIdx
		b, err := ch.sf.U8(base + headerLen + int64(nibIdx/2))
		if err != nil {
			return err
		}
		nib := int32(b >> 4)
		if nibIdx&1 != 0 {
			nib = int32(b & 0x0f)
		}
		if nib >= 8 {
			nib -= 16
		}

		dst[i*stride] = int16(msExpand(nib, ch))
	}
	return nil
}
