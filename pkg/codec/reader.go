package codec

import (
	"fmt"
	"strings"
)

// Reader parses a chunk stream. It hands out chunk headers and leaves body
// interpretation to the caller; Close consumes the body padding and the end
// magic regardless of where the caller left the cursor.
type Reader struct {
	cur *Cursor
}

// NewReader creates a reader over a decompressed chunk stream.
func NewReader(data []byte) *Reader {
	return &Reader{cur: NewCursor(data)}
}

// Cursor exposes the underlying cursor for body reads.
func (r *Reader) Cursor() *Cursor {
	return r.cur
}

// Next parses the next chunk header. limit is the enclosing bound: the
// parent chunk's Limit, or the stream length at top level. The parsed
// chunk must fit entirely within it.
func (r *Reader) Next(limit int) (*Chunk, error) {
	start := r.cur.Pos()

	magic, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	if magic != BeginMagic {
		return nil, fmt.Errorf("codec: begin magic %08X at offset %d: %w", magic, start, ErrBadMagic)
	}

	size, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	if size < 28 || start+int(size) > limit {
		return nil, fmt.Errorf("codec: chunk at offset %d of size %d exceeds bound %d: %w", start, size, limit, ErrTruncatedChunk)
	}

	rawKind, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	kind := Kind(rawKind)
	if !kind.Valid() {
		return nil, fmt.Errorf("codec: kind %#x at offset %d: %w", rawKind, start, ErrUnknownChunkKind)
	}

	// Reserved flags word, always zero in reference files. Not enforced.
	if _, err := r.cur.ReadUint32(); err != nil {
		return nil, err
	}

	hasDesc, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}

	ck := &Chunk{Kind: kind, start: start, limit: start + int(size) - 4}

	if hasDesc != 0 {
		dlen, err := r.cur.ReadUint32()
		if err != nil {
			return nil, err
		}
		raw, err := r.cur.ReadBytes(int(dlen))
		if err != nil {
			return nil, err
		}
		ck.HasDescription = true
		ck.Description = strings.TrimRight(string(raw), "\x00")
	}

	if err := r.cur.SkipPadding(); err != nil {
		return nil, err
	}

	sep, err := r.cur.ReadUint32()
	if err != nil {
		return nil, err
	}
	if sep != SeparatorMagic {
		return nil, fmt.Errorf("codec: separator magic %08X in %s chunk at offset %d: %w", sep, kind, start, ErrBadMagic)
	}
	return ck, nil
}

// More reports whether unread body bytes remain before the chunk's end
// magic. Padding bytes count, so callers that read fixed-layout children
// should rely on child counts instead where available.
func (r *Reader) More(c *Chunk) bool {
	return r.cur.Pos() < c.limit
}

// Body returns the remaining body region of the chunk, from the current
// position up to the end magic. The region includes the body padding.
func (r *Reader) Body(c *Chunk) ([]byte, error) {
	return r.cur.Window(r.cur.Pos(), c.limit)
}

// ReadUint32 reads one little-endian word from the chunk body.
func (r *Reader) ReadUint32() (uint32, error) {
	return r.cur.ReadUint32()
}

// Close seeks past any unread body bytes and padding, then consumes and
// verifies the end magic.
func (r *Reader) Close(c *Chunk) error {
	if r.cur.Pos() > c.limit {
		return fmt.Errorf("codec: %s chunk body overran its size by %d bytes: %w", c.Kind, r.cur.Pos()-c.limit, ErrTruncatedChunk)
	}
	if err := r.cur.Seek(c.limit); err != nil {
		return err
	}
	end, err := r.cur.ReadUint32()
	if err != nil {
		return err
	}
	if end != EndMagic {
		return fmt.Errorf("codec: end magic %08X in %s chunk: %w", end, c.Kind, ErrBadMagic)
	}
	return nil
}

// ArrayBegin consumes an array header and returns the element count.
func (r *Reader) ArrayBegin() (int, error) {
	magic, err := r.cur.ReadUint32()
	if err != nil {
		return 0, err
	}
	if magic != ArrayBeginMagic {
		return 0, fmt.Errorf("codec: array begin magic %08X at offset %d: %w", magic, r.cur.Pos()-4, ErrBadMagic)
	}
	count, err := r.cur.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// ArrayEnd consumes and verifies an array terminator.
func (r *Reader) ArrayEnd() error {
	magic, err := r.cur.ReadUint32()
	if err != nil {
		return err
	}
	if magic != ArrayEndMagic {
		return fmt.Errorf("codec: array end magic %08X at offset %d: %w", magic, r.cur.Pos()-4, ErrBadMagic)
	}
	return nil
}
