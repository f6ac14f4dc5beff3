// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
	"github.com/ik5/gamepcm/utils"
)

// Ogg Vorbis: a whole-stream delegate over jfreymuth/oggvorbis. Games
// mark loops with LOOPSTART/LOOPLENGTH (or LOOPEND) vorbis comments.
func openOGG(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	dup := sf.Dup()
	r, err := oggvorbis.NewReader(dup.ReadSeeker(0))
	if err != nil {
		dup.Close()
		return nil, nil
	}

	channels := r.Channels()
	numSamples := int(r.Length())
	if channels == 0 || channels > 8 || numSamples <= 0 {
		dup.Close()
		return nil, nil
	}

	loopStart, loopEnd, loopFlag := vorbisLoopComments(r.CommentHeader().Comments, numSamples)

	s := stream.New(channels, loopFlag)
	s.SampleRate = r.SampleRate()
	s.NumSamples = numSamples
	if loopFlag {
		s.LoopStartSample = loopStart
		s.LoopEndSample = loopEnd
	}
	s.Coding = stream.CodingDelegate
	s.UseDelegate(&oggDelegate{r: r, sf: dup, channels: channels})
	return finish(s)
}

// vorbisLoopComments scans tags for the loop convention games use.
func vorbisLoopComments(comments []string, numSamples int) (start, end int, ok bool) {
	var haveStart, haveEnd bool
	end = numSamples
	for _, c := range comments {
		key, value, found := strings.Cut(c, "=")
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "LOOPSTART":
			start = n
			haveStart = true
		case "LOOPLENGTH":
			end = start + n
			haveEnd = true
		case "LOOPEND":
			end = n
			haveEnd = true
		}
	}
	if !haveStart {
		return 0, 0, false
	}
	if !haveEnd || end > numSamples {
		end = numSamples
	}
	return start, end, start >= 0 && start < end
}

// oggDelegate adapts the vorbis reader to the stream delegate contract,
// converting normalized floats to 16-bit on the way out.
type oggDelegate struct {
	r        *oggvorbis.Reader
	sf       *streamfile.File
	channels int
	buf      []float32
}

func (d *oggDelegate) ReadPCM(dst []int16) (int, error) {
	if cap(d.buf) < len(dst) {
		d.buf = make([]float32, len(dst))
	}
	d.buf = d.buf[:len(dst)]

	n, err := d.r.Read(d.buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("vorbis: %w", err)
		}
		return 0, nil
	}
	for i := range n {
		dst[i] = utils.Float32ToInt16(d.buf[i])
	}
	return n / d.channels, nil
}

func (d *oggDelegate) Seek(frame int) error {
	if err := d.r.SetPosition(int64(frame)); err != nil {
		return fmt.Errorf("vorbis seek: %w", err)
	}
	return nil
}

func (d *oggDelegate) Close() error {
	return d.sf.Close()
}
