// SPDX-License-Identifier: EPL-2.0

package streamfile

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func TestMem_ReadAt(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(256))
	defer f.Close()

	if f.Size() != 256 {
		t.Fatalf("Size() = %d, want 256", f.Size())
	}

	p := make([]byte, 4)
	n, err := f.ReadAt(p, 16)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if n != 4 {
		t.Errorf("ReadAt() n = %d, want 4", n)
	}
	if !bytes.Equal(p, []byte{16, 17, 18, 19}) {
		t.Errorf("ReadAt() read %v, want [16 17 18 19]", p)
	}
}

func TestMem_ReadAtShort(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(10))
	defer f.Close()

	p := make([]byte, 8)
	n, err := f.ReadAt(p, 6)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ReadAt() error = %v, want ErrOutOfRange", err)
	}
	if n != 4 {
		t.Errorf("ReadAt() n = %d, want 4", n)
	}
}

func TestMem_ReadAtOutside(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(10))
	t.Cleanup(func() { f.Close() })

	tests := []struct {
		name string
		off  int64
	}{
		{"negative", -1},
		{"at end", 10},
		{"past end", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := make([]byte, 1)
			if _, err := f.ReadAt(p, tt.off); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("ReadAt(%d) error = %v, want ErrOutOfRange", tt.off, err)
			}
		})
	}
}

func TestTypedReads(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", []byte{0x11, 0x22, 0x33, 0x44, 0x80, 0xFF})
	defer f.Close()

	if v, _ := f.U16LE(0); v != 0x2211 {
		t.Errorf("U16LE(0) = %#x, want 0x2211", v)
	}
	if v, _ := f.U16BE(0); v != 0x1122 {
		t.Errorf("U16BE(0) = %#x, want 0x1122", v)
	}
	if v, _ := f.U32LE(0); v != 0x44332211 {
		t.Errorf("U32LE(0) = %#x, want 0x44332211", v)
	}
	if v, _ := f.U32BE(0); v != 0x11223344 {
		t.Errorf("U32BE(0) = %#x, want 0x11223344", v)
	}
	if v, _ := f.S8(5); v != -1 {
		t.Errorf("S8(5) = %d, want -1", v)
	}
	if v, _ := f.U8(4); v != 0x80 {
		t.Errorf("U8(4) = %#x, want 0x80", v)
	}

	if _, err := f.U32LE(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("U32LE(3) error = %v, want ErrOutOfRange", err)
	}
}

func TestFourCC(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", []byte("RIFFxxxxWAVE"))
	defer f.Close()

	if v, _ := f.FourCC(0); v != "RIFF" {
		t.Errorf("FourCC(0) = %q, want RIFF", v)
	}
	if v, _ := f.FourCC(8); v != "WAVE" {
		t.Errorf("FourCC(8) = %q, want WAVE", v)
	}
}

func TestClip(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(100))
	defer f.Close()

	c, err := NewClip(f, "sub", 40, 20)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}
	defer c.Close()

	if c.Size() != 20 {
		t.Errorf("Size() = %d, want 20", c.Size())
	}
	if c.Name() != "sub" {
		t.Errorf("Name() = %q, want sub", c.Name())
	}

	if v, _ := c.U8(0); v != 40 {
		t.Errorf("U8(0) = %d, want 40", v)
	}
	if v, _ := c.U8(19); v != 59 {
		t.Errorf("U8(19) = %d, want 59", v)
	}
	if _, err := c.U8(20); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("U8(20) error = %v, want ErrOutOfRange", err)
	}
}

func TestClip_Nested(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(100))
	defer f.Close()

	outer, err := NewClip(f, "outer", 10, 80)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}
	defer outer.Close()

	inner, err := NewClip(outer, "inner", 5, 10)
	if err != nil {
		t.Fatalf("nested NewClip() error = %v", err)
	}
	defer inner.Close()

	if v, _ := inner.U8(0); v != 15 {
		t.Errorf("U8(0) = %d, want 15", v)
	}
}

func TestClip_BadWindow(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(10))
	t.Cleanup(func() { f.Close() })

	tests := []struct {
		name      string
		off, size int64
	}{
		{"negative offset", -1, 4},
		{"zero size", 0, 0},
		{"past end", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewClip(f, "bad", tt.off, tt.size); !errors.Is(err, ErrBadClip) {
				t.Errorf("NewClip(%d, %d) error = %v, want ErrBadClip", tt.off, tt.size, err)
			}
		})
	}
}

func TestDup_IndependentPages(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(200))
	d := f.Dup()

	var a, b [1]byte
	if _, err := f.ReadAt(a[:], 0); err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if _, err := d.ReadAt(b[:], 199); err != nil {
		t.Fatalf("dup ReadAt() error = %v", err)
	}
	if a[0] != 0 || b[0] != 199 {
		t.Errorf("reads = %d, %d, want 0, 199", a[0], b[0])
	}

	// Closing the original leaves the dup usable.
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := d.ReadAt(b[:], 0); err != nil {
		t.Errorf("dup ReadAt() after original Close error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("dup Close() error = %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(4))
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if _, err := f.U8(0); !errors.Is(err, ErrClosed) {
		t.Errorf("U8() after Close error = %v, want ErrClosed", err)
	}
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(path, testData(1000), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	if f.Size() != 1000 {
		t.Errorf("Size() = %d, want 1000", f.Size())
	}
	if v, _ := f.U8(999); v != byte(999%256) {
		t.Errorf("U8(999) = %d, want %d", v, byte(999%256))
	}
}

func TestOpenRelative(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := filepath.Join(dir, "song.sgb")
	head := filepath.Join(dir, "song.sgh")
	if err := os.WriteFile(head, []byte("HEAD"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(body, []byte("BODYBODY"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(head)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	b, err := f.OpenRelative("song.sgb")
	if err != nil {
		t.Fatalf("OpenRelative() error = %v", err)
	}
	defer b.Close()

	if b.Size() != 8 {
		t.Errorf("companion Size() = %d, want 8", b.Size())
	}

	if _, err := f.OpenRelative("missing.sgb"); err == nil {
		t.Error("OpenRelative() error = nil, want error for missing file")
	}
}

func TestOpenRelative_Memory(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(4))
	defer f.Close()

	if _, err := f.OpenRelative("other"); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("OpenRelative() error = %v, want ErrNoDirectory", err)
	}
}

func TestReadSeeker(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(64))
	defer f.Close()

	r := f.ReadSeeker(0)

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, testData(64)) {
		t.Error("ReadAll() bytes differ from source")
	}

	if _, err := r.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	var one [1]byte
	if _, err := r.Read(one[:]); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if one[0] != 10 {
		t.Errorf("Read() after Seek = %d, want 10", one[0])
	}

	if pos, err := r.Seek(-4, io.SeekEnd); err != nil || pos != 60 {
		t.Errorf("Seek(-4, End) = %d, %v, want 60, nil", pos, err)
	}
	if _, err := r.Seek(-1, io.SeekStart); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Seek(-1) error = %v, want ErrOutOfRange", err)
	}
}

func TestReadSeeker_Clip(t *testing.T) {
	t.Parallel()

	f := NewMem("mem", testData(100))
	defer f.Close()

	c, err := NewClip(f, "sub", 50, 10)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}
	defer c.Close()

	got, err := io.ReadAll(c.ReadSeeker(0))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 10 || got[0] != 50 || got[9] != 59 {
		t.Errorf("ReadAll() = % d, want 50..59", got)
	}
}

func TestReadAt_LargeBypassesPage(t *testing.T) {
	t.Parallel()

	data := testData(defaultPageSize * 3)
	f := NewMem("mem", data)
	defer f.Close()

	p := make([]byte, defaultPageSize*2)
	n, err := f.ReadAt(p, 1)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if n != len(p) {
		t.Fatalf("ReadAt() n = %d, want %d", n, len(p))
	}
	if !bytes.Equal(p, data[1:1+len(p)]) {
		t.Error("large ReadAt() bytes differ from source")
	}
}

func BenchmarkReadAt_Sequential(b *testing.B) {
	f := NewMem("mem", testData(1<<20))
	defer f.Close()

	p := make([]byte, 16)
	b.ResetTimer()
	b.ReportAllocs()

	var off int64
	for b.Loop() {
		if off+16 > f.Size() {
			off = 0
		}
		_, _ = f.ReadAt(p, off)
		off += 16
	}
}
