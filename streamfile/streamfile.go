// SPDX-License-Identifier: EPL-2.0

package streamfile

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const defaultPageSize = 0x8000

// backing is the storage shared by every handle cloned from one Open or
// NewMem call. The last Close releases it.
type backing struct {
	mu   sync.Mutex
	refs int
	file *os.File // nil when memory backed
	data []byte   // nil when file backed
	path string   // absolute path, empty when memory backed
	size int64
}

func (b *backing) acquire() {
	b.mu.Lock()
	b.refs++
	b.mu.Unlock()
}

func (b *backing) release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refs--
	if b.refs > 0 || b.file == nil {
		return nil
	}

	f := b.file
	b.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readAt reads at an absolute backing offset. The caller clamps to the
// backing size, so a short read here is a real I/O failure.
func (b *backing) readAt(p []byte, off int64) (int, error) {
	if b.file != nil {
		n, err := b.file.ReadAt(p, off)
		if err != nil && n < len(p) {
			return n, fmt.Errorf("%w", err)
		}
		return n, nil
	}
	return copy(p, b.data[off:]), nil
}

// File is one positional handle over (a window of) backing storage. Handles
// are not safe for concurrent use; clone with Dup instead of sharing.
type File struct {
	b       *backing
	name    string
	winOff  int64 // window start within the backing
	size    int64 // window length
	page    []byte
	pageOff int64 // window-relative offset of page[0]
	pageLen int
	closed  bool
}

// Open opens an os-backed streamfile.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	b := &backing{refs: 1, file: f, path: abs, size: st.Size()}
	return &File{
		b:    b,
		name: path,
		size: st.Size(),
		page: make([]byte, defaultPageSize),
	}, nil
}

// NewMem wraps a byte slice as a streamfile. The slice is not copied.
func NewMem(name string, data []byte) *File {
	b := &backing{refs: 1, data: data, size: int64(len(data))}
	return &File{
		b:    b,
		name: name,
		size: int64(len(data)),
		page: make([]byte, defaultPageSize),
	}
}

// NewClip returns a handle restricted to size bytes starting at off within f.
// Offsets of the clip start at zero. The clip holds its own reference to the
// backing storage.
func NewClip(f *File, name string, off, size int64) (*File, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if off < 0 || size <= 0 || off+size > f.size {
		return nil, ErrBadClip
	}

	f.b.acquire()
	return &File{
		b:      f.b,
		name:   name,
		winOff: f.winOff + off,
		size:   size,
		page:   make([]byte, defaultPageSize),
	}, nil
}

// Dup returns an independent handle over the same window with its own
// read-ahead page.
func (f *File) Dup() *File {
	f.b.acquire()
	return &File{
		b:      f.b,
		name:   f.name,
		winOff: f.winOff,
		size:   f.size,
		page:   make([]byte, defaultPageSize),
	}
}

// OpenRelative opens name from the directory of f. Opening the file's own
// name returns a Dup instead of a second descriptor. Memory-backed files
// have no directory.
func (f *File) OpenRelative(name string) (*File, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.b.path == "" {
		return nil, fmt.Errorf("open %q: %w", name, ErrNoDirectory)
	}

	target := filepath.Join(filepath.Dir(f.b.path), name)
	if target == f.b.path {
		return f.Dup(), nil
	}
	return Open(target)
}

// Name returns the name the handle was opened or created with.
func (f *File) Name() string { return f.name }

// Size returns the window length in bytes.
func (f *File) Size() int64 { return f.size }

// Close releases the handle. Closing twice is a no-op; the backing storage
// closes when its last handle does.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.b.release()
}

// ReadAt copies bytes at the window-relative offset off into p. A request
// that extends past the window copies the available prefix and reports
// ErrOutOfRange.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if off < 0 || off >= f.size {
		return 0, ErrOutOfRange
	}
	if len(p) == 0 {
		return 0, nil
	}

	want := len(p)
	short := false
	if avail := f.size - off; int64(want) > avail {
		want = int(avail)
		short = true
	}

	// Page hit.
	if off >= f.pageOff && off+int64(want) <= f.pageOff+int64(f.pageLen) {
		copy(p[:want], f.page[off-f.pageOff:])
		if short {
			return want, ErrOutOfRange
		}
		return want, nil
	}

	// Large reads bypass the page.
	if want >= len(f.page) {
		n, err := f.b.readAt(p[:want], f.winOff+off)
		if err != nil {
			return n, err
		}
		if short {
			return n, ErrOutOfRange
		}
		return n, nil
	}

	fill := len(f.page)
	if avail := f.size - off; int64(fill) > avail {
		fill = int(avail)
	}
	n, err := f.b.readAt(f.page[:fill], f.winOff+off)
	if err != nil {
		f.pageLen = 0
		return 0, err
	}
	f.pageOff = off
	f.pageLen = n

	copy(p[:want], f.page[:want])
	if short {
		return want, ErrOutOfRange
	}
	return want, nil
}

func (f *File) readFull(p []byte, off int64) error {
	_, err := f.ReadAt(p, off)
	return err
}

// Bytes reads n bytes at off into a fresh slice.
func (f *File) Bytes(off int64, n int) ([]byte, error) {
	p := make([]byte, n)
	if err := f.readFull(p, off); err != nil {
		return nil, err
	}
	return p, nil
}

// FourCC reads a four byte chunk identifier at off.
func (f *File) FourCC(off int64) (string, error) {
	var b [4]byte
	if err := f.readFull(b[:], off); err != nil {
		return "", err
	}
	return string(b[:]), nil
}

func (f *File) U8(off int64) (uint8, error) {
	var b [1]byte
	if err := f.readFull(b[:], off); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *File) S8(off int64) (int8, error) {
	v, err := f.U8(off)
	return int8(v), err
}

func (f *File) U16LE(off int64) (uint16, error) {
	var b [2]byte
	if err := f.readFull(b[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (f *File) U16BE(off int64) (uint16, error) {
	var b [2]byte
	if err := f.readFull(b[:], off); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (f *File) S16LE(off int64) (int16, error) {
	v, err := f.U16LE(off)
	return int16(v), err
}

func (f *File) S16BE(off int64) (int16, error) {
	v, err := f.U16BE(off)
	return int16(v), err
}

func (f *File) U32LE(off int64) (uint32, error) {
	var b [4]byte
	if err := f.readFull(b[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (f *File) U32BE(off int64) (uint32, error) {
	var b [4]byte
	if err := f.readFull(b[:], off); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (f *File) S32LE(off int64) (int32, error) {
	v, err := f.U32LE(off)
	return int32(v), err
}

func (f *File) S32BE(off int64) (int32, error) {
	v, err := f.U32BE(off)
	return int32(v), err
}
