package codec

import "fmt"

// sizePatch records where a chunk's size field lives and what it must
// become. Sizes are unknown at open time because they cover descendants, so
// Close records the pair and Finalize patches them all.
type sizePatch struct {
	offset int
	size   uint32
}

// Writer emits a chunk stream. Chunks are opened and closed like a stack;
// Finalize back-patches every size field and returns the stream.
type Writer struct {
	buf     *Buffer
	open    []int // start offsets of open chunks
	patches []sizePatch
}

// NewWriter creates an empty chunk stream writer.
func NewWriter() *Writer {
	return &Writer{buf: NewBuffer()}
}

// Open emits a chunk header without a description.
func (w *Writer) Open(kind Kind) {
	w.openChunk(kind, "", false)
}

// OpenNamed emits a chunk header carrying a description.
func (w *Writer) OpenNamed(kind Kind, description string) {
	w.openChunk(kind, description, true)
}

func (w *Writer) openChunk(kind Kind, description string, hasDesc bool) {
	start := w.buf.Len()
	w.open = append(w.open, start)

	w.buf.WriteUint32(BeginMagic)
	w.buf.WriteUint32(0) // size placeholder, patched in Finalize
	w.buf.WriteUint32(uint32(kind))
	w.buf.WriteUint32(0) // reserved flags
	if hasDesc {
		w.buf.WriteUint32(1)
		w.buf.WriteUint32(uint32(len(description) + 1)) // length includes the NUL
		w.buf.WriteBytes([]byte(description))
		w.buf.WriteBytes([]byte{0})
	} else {
		w.buf.WriteUint32(0)
	}
	w.buf.WritePadding()
	w.buf.WriteUint32(SeparatorMagic)
}

// Uint32 writes a little-endian word into the current chunk body.
func (w *Writer) Uint32(v uint32) {
	w.buf.WriteUint32(v)
}

// Raw writes a byte run into the current chunk body.
func (w *Writer) Raw(p []byte) {
	w.buf.WriteBytes(p)
}

// ArrayBegin emits an array header.
func (w *Writer) ArrayBegin(count int) {
	w.buf.WriteUint32(ArrayBeginMagic)
	w.buf.WriteUint32(uint32(count))
}

// ArrayEnd emits an array terminator.
func (w *Writer) ArrayEnd() {
	w.buf.WriteUint32(ArrayEndMagic)
}

// Close pads the body, emits the end magic and records the size patch for
// the most recently opened chunk.
func (w *Writer) Close() {
	start := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]

	w.buf.WritePadding()
	w.buf.WriteUint32(EndMagic)
	w.patches = append(w.patches, sizePatch{offset: start + 4, size: uint32(w.buf.Len() - start)})
}

// Finalize patches all recorded size fields and returns the finished
// stream. It fails if any chunk is still open.
func (w *Writer) Finalize() ([]byte, error) {
	if len(w.open) != 0 {
		return nil, fmt.Errorf("codec: %d chunks still open: %w", len(w.open), ErrUnclosedChunk)
	}
	for _, p := range w.patches {
		w.buf.PatchUint32(p.offset, p.size)
	}
	return w.buf.Bytes(), nil
}
