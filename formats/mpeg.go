// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// MPEG audio: a whole-stream delegate over go-mp3, which always emits
// 16-bit stereo regardless of the source channel count.
func openMPEG(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	dup := sf.Dup()
	dec, err := gomp3.NewDecoder(dup.ReadSeeker(0))
	if err != nil {
		dup.Close()
		return nil, nil
	}

	const channels = 2
	const frameBytes = channels * 2
	numSamples := int(dec.Length() / frameBytes)
	if numSamples <= 0 || dec.SampleRate() == 0 {
		dup.Close()
		return nil, nil
	}

	s := stream.New(channels, false)
	s.SampleRate = dec.SampleRate()
	s.NumSamples = numSamples
	s.Coding = stream.CodingDelegate
	s.UseDelegate(&mpegDelegate{dec: dec, sf: dup})
	return finish(s)
}

type mpegDelegate struct {
	dec *gomp3.Decoder
	sf  *streamfile.File
	buf []byte
}

func (d *mpegDelegate) ReadPCM(dst []int16) (int, error) {
	need := len(dst) * 2
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	d.buf = d.buf[:need]

	n, err := io.ReadFull(d.dec, d.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("mpeg: %w", err)
	}

	for i := range n / 2 {
		dst[i] = int16(binary.LittleEndian.Uint16(d.buf[i*2:]))
	}
	return n / 4, nil
}

func (d *mpegDelegate) Seek(frame int) error {
	if _, err := d.dec.Seek(int64(frame)*4, io.SeekStart); err != nil {
		return fmt.Errorf("mpeg seek: %w", err)
	}
	return nil
}

func (d *mpegDelegate) Close() error {
	return d.sf.Close()
}
