// SPDX-License-Identifier: EPL-2.0

package streamfile

import (
	"fmt"
	"io"
)

// cursor adapts a File window to the io.ReadSeeker shape third-party
// decoders expect. Reads go through the owning handle, so its page is
// shared with positional reads.
type cursor struct {
	f   *File
	pos int64
}

// ReadSeeker returns an io.ReadSeeker view of f starting at off. The view
// stays valid until f is closed.
func (f *File) ReadSeeker(off int64) io.ReadSeeker {
	return &cursor{f: f, pos: off}
}

func (c *cursor) Read(p []byte) (int, error) {
	if c.pos >= c.f.size {
		return 0, io.EOF
	}

	want := len(p)
	if avail := c.f.size - c.pos; int64(want) > avail {
		want = int(avail)
	}

	n, err := c.f.ReadAt(p[:want], c.pos)
	c.pos += int64(n)
	return n, err
}

func (c *cursor) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = c.pos + offset
	case io.SeekEnd:
		pos = c.f.size + offset
	default:
		return 0, fmt.Errorf("seek whence %d: %w", whence, ErrOutOfRange)
	}

	if pos < 0 {
		return 0, fmt.Errorf("seek to %d: %w", pos, ErrOutOfRange)
	}
	c.pos = pos
	return pos, nil
}
