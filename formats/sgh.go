// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"strings"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// SGH+SGB (Sony SGXD header/body pair): the .sgh file carries an "SGXD"
// header with format fields and an optional stream name; the PlayStation
// ADPCM body lives in a companion .sgb next to it. The body handle is
// opened mid-probe and must be released on every failure path.
func openSGH(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "SGXD" {
		return nil, nil
	}

	rate, err := sf.U32LE(0x04)
	if err != nil {
		return nil, nil
	}
	channels, err := sf.U32LE(0x08)
	if err != nil || channels == 0 || channels > 8 {
		return nil, nil
	}
	numSamples, err := sf.U32LE(0x0C)
	if err != nil {
		return nil, nil
	}
	interleave, err := sf.U32LE(0x10)
	if err != nil {
		return nil, nil
	}
	loopStart, err := sf.S32LE(0x14)
	if err != nil {
		return nil, nil
	}
	loopEnd, err := sf.S32LE(0x18)
	if err != nil {
		return nil, nil
	}
	nameOff, err := sf.U32LE(0x1C)
	if err != nil {
		return nil, nil
	}

	body, err := sf.OpenRelative(companionName(sf.Name(), "sgb"))
	if err != nil {
		return nil, nil
	}

	loopFlag := loopStart >= 0 && loopEnd > loopStart

	s := stream.New(int(channels), loopFlag)
	s.SampleRate = int(rate)
	s.NumSamples = int(numSamples)
	if loopFlag {
		s.LoopStartSample = int(loopStart)
		s.LoopEndSample = int(loopEnd)
	}
	s.Coding = stream.CodingPSX
	if channels == 1 {
		s.Layout = stream.LayoutFlat
	} else {
		if interleave == 0 {
			body.Close()
			return nil, nil
		}
		s.Layout = stream.LayoutInterleave
		s.InterleaveBlockSize = int(interleave)
	}
	if nameOff != 0 {
		s.StreamName = readCString(sf, int64(nameOff))
	}

	s.UseChannel(0, body, int64(s.InterleaveBlockSize*0))
	for i := 1; i < int(channels); i++ {
		s.UseChannel(i, body.Dup(), int64(s.InterleaveBlockSize*i))
	}
	// finish closes the attached body handles on validation failure.
	return finish(s)
}

// companionName swaps the extension of name for ext, keeping the path.
func companionName(name, ext string) string {
	if e := Extension(name); e != "" {
		return name[:len(name)-len(e)] + ext
	}
	return name + "." + ext
}

func readCString(sf *streamfile.File, off int64) string {
	var b strings.Builder
	for {
		c, err := sf.U8(off)
		if err != nil || c == 0 {
			return b.String()
		}
		b.WriteByte(c)
		off++
	}
}
