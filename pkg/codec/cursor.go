package codec

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a positional reader over a contiguous byte range. All integer
// reads are little-endian.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return fmt.Errorf("codec: seek to %d outside buffer of %d bytes: %w", pos, len(c.buf), ErrShortRead)
	}
	c.pos = pos
	return nil
}

// ReadUint32 reads a little-endian unsigned 32-bit word.
func (c *Cursor) ReadUint32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, fmt.Errorf("codec: need 4 bytes at offset %d, have %d: %w", c.pos, c.Remaining(), ErrShortRead)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadBytes reads a run of n bytes. The returned slice aliases the
// underlying buffer and must not be modified.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("codec: need %d bytes at offset %d, have %d: %w", n, c.pos, c.Remaining(), ErrShortRead)
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p, nil
}

// Window returns the bytes between two absolute offsets without moving the
// cursor.
func (c *Cursor) Window(from, to int) ([]byte, error) {
	if from < 0 || to > len(c.buf) || from > to {
		return nil, fmt.Errorf("codec: window [%d,%d) outside buffer of %d bytes: %w", from, to, len(c.buf), ErrShortRead)
	}
	return c.buf[from:to], nil
}

// SkipPadding consumes the 0..3 bytes needed to align the cursor to the
// next 4-byte boundary.
func (c *Cursor) SkipPadding() error {
	n := Padding(c.pos)
	if c.Remaining() < n {
		return fmt.Errorf("codec: %d padding bytes at offset %d, have %d: %w", n, c.pos, c.Remaining(), ErrShortRead)
	}
	c.pos += n
	return nil
}

// Padding returns the number of bytes needed to align pos to a 4-byte
// boundary.
func Padding(pos int) int {
	return (4 - (pos & 3)) & 3
}

// Buffer is an auto-growing positional writer, the counterpart of Cursor.
type Buffer struct {
	buf []byte
}

// NewBuffer creates an empty write buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Bytes returns the written bytes. The slice aliases the internal buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// grow ensures capacity for n more bytes, growing by 1.5x amortized but
// never less than the required tail.
func (b *Buffer) grow(n int) {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		b.buf = b.buf[:need]
		return
	}
	newCap := cap(b.buf) + cap(b.buf)/2
	if newCap < need {
		newCap = need
	}
	nb := make([]byte, need, newCap)
	copy(nb, b.buf)
	b.buf = nb
}

// WriteUint32 appends a little-endian unsigned 32-bit word.
func (b *Buffer) WriteUint32(v uint32) {
	off := len(b.buf)
	b.grow(4)
	binary.LittleEndian.PutUint32(b.buf[off:], v)
}

// WriteBytes appends a byte run.
func (b *Buffer) WriteBytes(p []byte) {
	off := len(b.buf)
	b.grow(len(p))
	copy(b.buf[off:], p)
}

// WritePadding appends the 0..3 zero bytes needed to align the write
// position to the next 4-byte boundary.
func (b *Buffer) WritePadding() {
	n := Padding(len(b.buf))
	off := len(b.buf)
	b.grow(n)
	for i := 0; i < n; i++ {
		b.buf[off+i] = 0
	}
}

// PatchUint32 overwrites a previously written word at an absolute offset.
func (b *Buffer) PatchUint32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[off:], v)
}
