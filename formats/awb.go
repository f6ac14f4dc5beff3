// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"fmt"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// AWB (CRI AFS2): a bare container of numbered subsongs, each an ADX or
// HCA stream. The selected subsong becomes a clip streamfile and runs
// through the matching probe; the clip transfers into the resulting
// descriptor on success and is closed on failure.
func openAWB(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	magic, err := sf.FourCC(0x00)
	if err != nil || magic != "AFS2" {
		return nil, nil
	}

	offsetWidth, err := sf.U8(0x05)
	if err != nil {
		return nil, nil
	}
	if offsetWidth != 2 && offsetWidth != 4 {
		return nil, nil
	}
	count, err := sf.U32LE(0x08)
	if err != nil || count == 0 || count > 0xFFFF {
		return nil, nil
	}
	align, err := sf.U16LE(0x0C)
	if err != nil || align == 0 {
		return nil, nil
	}

	index, ok := normalizeSubsong(opt.StreamIndex, int(count))
	if !ok {
		return nil, nil
	}

	offTable := int64(0x10) + 2*int64(count)
	start, err := awbOffset(sf, offTable, offsetWidth, index-1)
	if err != nil {
		return nil, nil
	}
	end, err := awbOffset(sf, offTable, offsetWidth, index)
	if err != nil {
		return nil, nil
	}

	a := int64(align)
	start = (start + a - 1) / a * a
	if start >= end || end > sf.Size() {
		return nil, nil
	}

	clip, err := streamfile.NewClip(sf, fmt.Sprintf("%s#%d", sf.Name(), index), start, end-start)
	if err != nil {
		return nil, nil
	}

	s, err := awbPayload(clip)
	if s == nil || err != nil {
		clip.Close()
		return nil, nil
	}
	clip.Close() // channels hold their own references

	s.NumStreams = int(count)
	s.StreamIndex = index
	return s, nil
}

// awbPayload identifies the subsong body by magic.
func awbPayload(clip *streamfile.File) (*stream.Stream, error) {
	if magic, err := clip.U16BE(0x00); err == nil && magic == 0x8000 {
		return openADX(clip, Options{})
	}
	if head, err := clip.Bytes(0x00, 4); err == nil && maskedID(head) == "HCA\x00" {
		return hcaToStream(clip)
	}
	return nil, nil
}

func awbOffset(sf *streamfile.File, table int64, width uint8, i int) (int64, error) {
	if width == 2 {
		v, err := sf.U16LE(table + 2*int64(i))
		return int64(v), err
	}
	v, err := sf.U32LE(table + 4*int64(i))
	return int64(v), err
}
