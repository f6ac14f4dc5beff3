// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// AST blocked layout: the body is a chain of "BLCK" blocks, each holding a
// 0x20-byte header with the per-channel payload size, then that payload
// once per channel. Seeking replays headers from the first block, so block
// positions never need an index.

const astBlockHeaderSize = 0x20

func (s *Stream) firstBlock() error {
	return s.updateBlockAST(s.ch[0].startOffset)
}

func (s *Stream) updateBlockAST(off int64) error {
	sf := s.ch[0].sf

	magic, err := sf.FourCC(off)
	if err != nil {
		return err
	}
	if magic != "BLCK" {
		return fmt.Errorf("block magic %q at %#x: %w", magic, off, ErrBadDescriptor)
	}

	size, err := sf.U32BE(off + 0x04)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("empty block at %#x: %w", off, ErrBadDescriptor)
	}

	s.blockOffset = off
	s.nextBlock = off + astBlockHeaderSize + int64(size)*int64(s.Channels)
	s.blockSamples = int(size) / s.frameSize() * s.samplesPerFrame()

	for i := range s.ch {
		s.ch[i].offset = off + astBlockHeaderSize + int64(size)*int64(i)
	}
	return nil
}
