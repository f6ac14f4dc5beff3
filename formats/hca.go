// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/WJQSERVER/hca"

	"github.com/ik5/gamepcm/stream"
	"github.com/ik5/gamepcm/streamfile"
)

// CRI HCA: chunked header ("HCA\0", "fmt\0", "loop"...) whose identifiers
// carry the high bit set when the file is cipher-marked, then MDCT-coded
// blocks of 1024 frames each. The descriptor fields come from a native
// header walk; the block decoding itself is delegated to the hca library,
// whose PCM output backs a memory streamfile decoded as plain 16-bit PCM
// at sample interleave.
func openHCA(sf *streamfile.File, opt Options) (*stream.Stream, error) {
	return hcaToStream(sf)
}

func hcaToStream(sf *streamfile.File) (*stream.Stream, error) {
	head, err := sf.Bytes(0x00, 8)
	if err != nil || maskedID(head) != "HCA\x00" {
		return nil, nil
	}
	dataOffset := int64(binary.BigEndian.Uint16(head[6:8]))
	if dataOffset < 0x10 || dataOffset > sf.Size() {
		return nil, nil
	}

	hdr, err := sf.Bytes(0x00, int(dataOffset))
	if err != nil {
		return nil, nil
	}

	fmtPos := findMaskedChunk(hdr, "fmt\x00")
	if fmtPos < 0 || fmtPos+12 > len(hdr) {
		return nil, nil
	}
	channels := int(hdr[fmtPos+4])
	rate := int(hdr[fmtPos+5])<<16 | int(hdr[fmtPos+6])<<8 | int(hdr[fmtPos+7])
	blockCount := int(binary.BigEndian.Uint32(hdr[fmtPos+8:]))
	if channels == 0 || channels > 8 || rate == 0 || blockCount == 0 {
		return nil, nil
	}

	loopFlag := false
	var loopStartBlock, loopEndBlock int
	if loopPos := findMaskedChunk(hdr, "loop"); loopPos >= 0 && loopPos+12 <= len(hdr) {
		loopFlag = true
		loopStartBlock = int(binary.BigEndian.Uint32(hdr[loopPos+4:]))
		loopEndBlock = int(binary.BigEndian.Uint32(hdr[loopPos+8:]))
	}

	pcm, err := decodeHCABody(sf)
	if err != nil {
		return nil, nil
	}

	const samplesPerBlock = 1024
	numSamples := blockCount * samplesPerBlock
	if avail := len(pcm) / (2 * channels); numSamples > avail {
		numSamples = avail
	}

	s := stream.New(channels, loopFlag)
	s.SampleRate = rate
	s.NumSamples = numSamples
	if loopFlag {
		loopEnd := (loopEndBlock + 1) * samplesPerBlock
		if loopEnd > numSamples {
			loopEnd = numSamples
		}
		s.LoopStartSample = loopStartBlock * samplesPerBlock
		s.LoopEndSample = loopEnd
	}
	s.Coding = stream.CodingPCM16LE
	s.Layout = stream.LayoutInterleave
	s.InterleaveBlockSize = 2

	mem := streamfile.NewMem(sf.Name()+".pcm", pcm)
	s.UseChannel(0, mem, 0)
	for i := 1; i < channels; i++ {
		s.UseChannel(i, mem.Dup(), int64(2*i))
	}
	return finish(s)
}

// decodeHCABody runs the whole stream through the hca library and strips
// the WAV framing it emits, leaving raw interleaved 16-bit PCM.
func decodeHCABody(sf *streamfile.File) ([]byte, error) {
	data, err := sf.Bytes(0, int(sf.Size()))
	if err != nil {
		return nil, err
	}

	dec := hca.NewDecoder()
	dec.Mode = hca.Mode16Bit
	wav, ok := dec.DecodeFromBytes(data)
	if !ok {
		return nil, fmt.Errorf("hca decode: %w", ErrUnknownFormat)
	}
	return wavDataChunk(wav)
}

// wavDataChunk walks RIFF chunks and returns the data payload.
func wavDataChunk(wav []byte) ([]byte, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, fmt.Errorf("hca output is not RIFF: %w", ErrUnknownFormat)
	}
	pos := 12
	for pos+8 <= len(wav) {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		if id == "data" {
			end := pos + 8 + size
			if end > len(wav) {
				end = len(wav)
			}
			return wav[pos+8 : end], nil
		}
		pos += 8 + size + size%2
	}
	return nil, fmt.Errorf("hca output has no data chunk: %w", ErrUnknownFormat)
}

// maskedID strips the cipher bit the format sets on header identifiers.
func maskedID(b []byte) string {
	id := make([]byte, 4)
	for i := range id {
		id[i] = b[i] & 0x7F
	}
	return string(id)
}

// findMaskedChunk scans the header region for a chunk identifier.
func findMaskedChunk(hdr []byte, id string) int {
	for pos := 8; pos+4 <= len(hdr); pos++ {
		if maskedID(hdr[pos:]) == id {
			return pos
		}
	}
	return -1
}
