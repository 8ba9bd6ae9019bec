package cdb

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pcmtools/cdbkit/pkg/codec"
)

// decodeColumn materializes one cell per row from a column's values payload
// and optional blob payload. blob may be nil: a types-2/10/11 column with
// zero payload bytes (no rows, or only empty lists) omits the blob chunk
// entirely.
func decodeColumn(t DataType, rows int, values, blob []byte) ([]any, error) {
	need := t.valuesSize(rows)
	if len(values) < need {
		return nil, fmt.Errorf("cdb: %s values payload is %d bytes, need %d: %w", t, len(values), need, codec.ErrShortRead)
	}
	values = values[:need]

	cells := make([]any, rows)
	switch t {
	case TypeInteger:
		for i := 0; i < rows; i++ {
			cells[i] = int64(int32(binary.LittleEndian.Uint32(values[i*4:])))
		}

	case TypeFloat:
		for i := 0; i < rows; i++ {
			bits := binary.LittleEndian.Uint32(values[i*4:])
			cells[i] = float64(math.Float32frombits(bits))
		}

	case TypeBoolean:
		for i := 0; i < rows; i++ {
			bit := values[i/8] >> (i % 8) & 1
			cells[i] = int64(bit)
		}

	case TypeIntegerByte:
		for i := 0; i < rows; i++ {
			cells[i] = int64(int8(values[i]))
		}

	case TypeIntegerShort:
		for i := 0; i < rows; i++ {
			cells[i] = int64(binary.LittleEndian.Uint16(values[i*2:]))
		}

	case TypeString:
		payload, err := blobPayload(blob)
		if err != nil {
			return nil, err
		}
		off := 0
		for i := 0; i < rows; i++ {
			n := int(binary.LittleEndian.Uint32(values[i*4:])) // length includes the NUL
			if n < 1 || off+n > len(payload) {
				return nil, fmt.Errorf("cdb: string row %d of length %d overruns %d-byte blob: %w", i, n, len(payload), codec.ErrShortRead)
			}
			cells[i] = string(payload[off : off+n-1])
			off += n
		}

	case TypeFloatList:
		payload, err := blobPayload(blob)
		if err != nil {
			return nil, err
		}
		off := 0
		for i := 0; i < rows; i++ {
			count := int(binary.LittleEndian.Uint32(values[i*4:]))
			if off+count*4 > len(payload) {
				return nil, fmt.Errorf("cdb: float list row %d of %d elements overruns %d-byte blob: %w", i, count, len(payload), codec.ErrShortRead)
			}
			elems := make([]string, count)
			for j := 0; j < count; j++ {
				bits := binary.LittleEndian.Uint32(payload[off+j*4:])
				elems[j] = formatListFloat(math.Float32frombits(bits), count > 1)
			}
			cells[i] = "(" + strings.Join(elems, ",") + ")"
			off += count * 4
		}

	case TypeIntegerList:
		payload, err := blobPayload(blob)
		if err != nil {
			return nil, err
		}
		off := 0
		for i := 0; i < rows; i++ {
			count := int(binary.LittleEndian.Uint32(values[i*4:]))
			if off+count*4 > len(payload) {
				return nil, fmt.Errorf("cdb: integer list row %d of %d elements overruns %d-byte blob: %w", i, count, len(payload), codec.ErrShortRead)
			}
			elems := make([]string, count)
			for j := 0; j < count; j++ {
				elems[j] = strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(payload[off+j*4:]))), 10)
			}
			cells[i] = "(" + strings.Join(elems, ",") + ")"
			off += count * 4
		}

	default:
		return nil, fmt.Errorf("cdb: data type %d: %w", uint32(t), ErrUnknownDataType)
	}
	return cells, nil
}

// blobPayload strips the 4-byte total-size prefix from a blob chunk body.
// A nil blob stands in for a blob whose size prefix is zero.
func blobPayload(blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob) < 4 {
		return nil, fmt.Errorf("cdb: blob chunk of %d bytes lacks its size prefix: %w", len(blob), codec.ErrShortRead)
	}
	n := int(binary.LittleEndian.Uint32(blob))
	if 4+n > len(blob) {
		return nil, fmt.Errorf("cdb: blob payload of %d bytes overruns %d-byte chunk: %w", n, len(blob), codec.ErrShortRead)
	}
	return blob[4 : 4+n], nil
}

// encodeColumn produces a column's values payload and, for blob-carrying
// types with a nonempty payload, its blob payload.
func encodeColumn(t DataType, cells []any) (values, blob []byte, err error) {
	vals := codec.NewBuffer()
	switch t {
	case TypeInteger:
		for i, cell := range cells {
			v, err := cellInt64(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			if v < math.MinInt32 || v > math.MaxInt32 {
				return nil, nil, fmt.Errorf("cdb: row %d value %d does not fit a 32-bit integer: %w", i, v, ErrOutOfRange)
			}
			vals.WriteUint32(uint32(int32(v)))
		}

	case TypeFloat:
		for i, cell := range cells {
			v, err := cellFloat64(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			vals.WriteUint32(math.Float32bits(float32(v)))
		}

	case TypeBoolean:
		packed := make([]byte, (len(cells)+7)/8)
		for i, cell := range cells {
			v, err := cellInt64(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			if v != 0 {
				packed[i/8] |= 1 << (i % 8)
			}
		}
		vals.WriteBytes(packed)

	case TypeIntegerByte:
		for i, cell := range cells {
			v, err := cellInt64(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			if v < math.MinInt8 || v > math.MaxInt8 {
				return nil, nil, fmt.Errorf("cdb: row %d value %d does not fit a signed byte: %w", i, v, ErrOutOfRange)
			}
			vals.WriteBytes([]byte{byte(int8(v))})
		}

	case TypeIntegerShort:
		for i, cell := range cells {
			v, err := cellInt64(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			if v < 0 || v > math.MaxUint16 {
				return nil, nil, fmt.Errorf("cdb: row %d value %d does not fit an unsigned short: %w", i, v, ErrOutOfRange)
			}
			b := [2]byte{}
			binary.LittleEndian.PutUint16(b[:], uint16(v))
			vals.WriteBytes(b[:])
		}

	case TypeString:
		payload := codec.NewBuffer()
		for i, cell := range cells {
			s, err := cellString(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			vals.WriteUint32(uint32(len(s) + 1)) // length includes the NUL
			payload.WriteBytes([]byte(s))
			payload.WriteBytes([]byte{0})
		}
		blob = wrapBlob(payload.Bytes())

	case TypeFloatList:
		payload := codec.NewBuffer()
		for i, cell := range cells {
			s, err := cellString(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			fields, err := splitList(s)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			vals.WriteUint32(uint32(len(fields)))
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 32)
				if err != nil {
					return nil, nil, fmt.Errorf("cdb: row %d element %q: %w", i, f, ErrMalformedList)
				}
				payload.WriteUint32(math.Float32bits(float32(v)))
			}
		}
		blob = wrapBlob(payload.Bytes())

	case TypeIntegerList:
		payload := codec.NewBuffer()
		for i, cell := range cells {
			s, err := cellString(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			fields, err := splitList(s)
			if err != nil {
				return nil, nil, fmt.Errorf("cdb: row %d: %w", i, err)
			}
			vals.WriteUint32(uint32(len(fields)))
			for _, f := range fields {
				v, err := strconv.ParseInt(f, 10, 32)
				if err != nil {
					return nil, nil, fmt.Errorf("cdb: row %d element %q: %w", i, f, ErrMalformedList)
				}
				payload.WriteUint32(uint32(int32(v)))
			}
		}
		blob = wrapBlob(payload.Bytes())

	default:
		return nil, nil, fmt.Errorf("cdb: data type %d: %w", uint32(t), ErrUnknownDataType)
	}
	return vals.Bytes(), blob, nil
}

// wrapBlob prefixes a blob payload with its total size. An empty payload
// yields nil: the column then omits the blob chunk.
func wrapBlob(payload []byte) []byte {
	if len(payload) == 0 {
		return nil
	}
	b := codec.NewBuffer()
	b.WriteUint32(uint32(len(payload)))
	b.WriteBytes(payload)
	return b.Bytes()
}

// formatListFloat renders one float-list element. Floats are written with
// six decimal places, trailing fractional zeros stripped, then a trailing
// lone point stripped. Whole numbers keep a ".0" only when the list has
// more than one element.
func formatListFloat(v float32, multi bool) string {
	s := strconv.FormatFloat(float64(v), 'f', 6, 32)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if multi && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// splitList parses the "(v1,v2,...)" list text into trimmed fields. "()"
// yields no fields.
func splitList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("cdb: text %q lacks list parentheses: %w", s, ErrMalformedList)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	fields := strings.Split(inner, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// cellInt64 coerces a relational cell to an integer.
func cellInt64(cell any) (int64, error) {
	switch v := cell.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, fmt.Errorf("cdb: non-integral value %v in integer column: %w", v, ErrOutOfRange)
		}
		return n, nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("cdb: cannot store %T in an integer column: %w", cell, ErrOutOfRange)
	}
}

// cellFloat64 coerces a relational cell to a float.
func cellFloat64(cell any) (float64, error) {
	switch v := cell.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case []byte:
		return strconv.ParseFloat(string(v), 64)
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cdb: cannot store %T in a float column: %w", cell, ErrOutOfRange)
	}
}

// cellString coerces a relational cell to text.
func cellString(cell any) (string, error) {
	switch v := cell.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("cdb: cannot store %T in a text column: %w", cell, ErrOutOfRange)
	}
}
