// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
	"github.com/ik5/gamepcm/utils"
)

// FLAC: a whole-stream delegate over mewkiz/flac. Seeking rebuilds the
// frame parser from the stream start and discards forward, the same
// linear cost the predictive codecs document.
func openFLAC(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	dup := sf.Dup()
	rs := dup.ReadSeeker(0)
	st, err := flac.New(rs)
	if err != nil {
		dup.Close()
		return nil, nil
	}

	info := st.Info
	channels := int(info.NChannels)
	numSamples := int(info.NSamples)
	if channels == 0 || channels > 8 || numSamples <= 0 || info.SampleRate == 0 {
		dup.Close()
		return nil, nil
	}

	s := stream.New(channels, false)
	s.SampleRate = int(info.SampleRate)
	s.NumSamples = numSamples
	s.Coding = stream.CodingDelegate
	s.UseDelegate(&flacDelegate{
		st:       st,
		rs:       rs,
		sf:       dup,
		channels: channels,
		bits:     int(info.BitsPerSample),
	})
	return finish(s)
}

// flacDelegate pulls frames from the parser and rescales whatever bit
// depth the stream carries to 16 bits.
type flacDelegate struct {
	st       *flac.Stream
	rs       io.ReadSeeker
	sf       *streamfile.File
	channels int
	bits     int

	pending []int16
}

func (d *flacDelegate) ReadPCM(dst []int16) (int, error) {
	want := len(dst) / d.channels
	done := 0

	for done < want {
		if len(d.pending) == 0 {
			frame, err := d.st.ParseNext()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return done, fmt.Errorf("flac: %w", err)
			}
			n := int(frame.BlockSize)
			d.pending = make([]int16, 0, n*d.channels)
			for i := range n {
				for ch := range d.channels {
					d.pending = append(d.pending, d.rescale(frame.Subframes[ch].Samples[i]))
				}
			}
		}

		take := min(want-done, len(d.pending)/d.channels)
		copy(dst[done*d.channels:], d.pending[:take*d.channels])
		d.pending = d.pending[take*d.channels:]
		done += take
	}
	return done, nil
}

func (d *flacDelegate) rescale(v int32) int16 {
	switch {
	case d.bits == 16:
		return int16(v)
	case d.bits > 16:
		return int16(v >> (d.bits - 16))
	default:
		return utils.ClampInt32ToInt16(v << (16 - d.bits))
	}
}

func (d *flacDelegate) Seek(frame int) error {
	if _, err := d.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("flac seek: %w", err)
	}
	st, err := flac.New(d.rs)
	if err != nil {
		return fmt.Errorf("flac seek: %w", err)
	}
	d.st = st
	d.pending = nil

	// Discard forward to the requested frame.
	scratch := make([]int16, 4096*d.channels)
	for frame > 0 {
		step := min(frame, 4096)
		n, err := d.ReadPCM(scratch[:step*d.channels])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("flac seek past end: %w", io.ErrUnexpectedEOF)
		}
		frame -= n
	}
	return nil
}

func (d *flacDelegate) Close() error {
	return d.sf.Close()
}
