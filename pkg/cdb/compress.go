package cdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/pcmtools/cdbkit/pkg/codec"
)

// Decompress unwraps the optional zlib framing. Input starting with the
// compressed magic carries the uncompressed size, the compressed size, then
// a zlib stream of the declared length; anything else is returned as-is, an
// already-decompressed chunk stream.
func Decompress(raw []byte) ([]byte, error) {
	if len(raw) < 4 || binary.LittleEndian.Uint32(raw) != codec.CompressedMagic {
		return raw, nil
	}
	if len(raw) < 12 {
		return nil, fmt.Errorf("cdb: compressed header is %d bytes, need 12: %w", len(raw), codec.ErrShortRead)
	}
	usize := int(binary.LittleEndian.Uint32(raw[4:]))
	csize := int(binary.LittleEndian.Uint32(raw[8:]))
	if 12+csize > len(raw) {
		return nil, fmt.Errorf("cdb: compressed payload of %d bytes overruns %d-byte input: %w", csize, len(raw), codec.ErrShortRead)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw[12 : 12+csize]))
	if err != nil {
		return nil, fmt.Errorf("cdb: %v: %w", err, ErrDecompressionFailed)
	}
	defer zr.Close()

	out := make([]byte, 0, usize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("cdb: %v: %w", err, ErrDecompressionFailed)
	}
	return buf.Bytes(), nil
}

// Compress wraps a chunk stream in the compressed framing: magic,
// uncompressed size, compressed size, zlib stream.
func Compress(stream []byte) ([]byte, error) {
	var payload bytes.Buffer
	zw := zlib.NewWriter(&payload)
	if _, err := zw.Write(stream); err != nil {
		return nil, fmt.Errorf("cdb: deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("cdb: deflate: %w", err)
	}

	out := codec.NewBuffer()
	out.WriteUint32(codec.CompressedMagic)
	out.WriteUint32(uint32(len(stream)))
	out.WriteUint32(uint32(payload.Len()))
	out.WriteBytes(payload.Bytes())
	return out.Bytes(), nil
}
