package cdb

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le32(vals ...uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func TestIntegerColumnRoundTrip(t *testing.T) {
	negTwo := int32(-2)
	values := le32(1, uint32(negTwo), 3)

	cells, err := decodeColumn(TypeInteger, 3, values, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(-2), int64(3)}, cells)

	out, blob, err := encodeColumn(TypeInteger, cells)
	require.NoError(t, err)
	assert.Equal(t, values, out)
	assert.Nil(t, blob)
}

func TestIntegerSubWidths(t *testing.T) {
	cells, err := decodeColumn(TypeIntegerByte, 3, []byte{0x01, 0xFF, 0x80}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(-1), int64(-128)}, cells)

	out, _, err := encodeColumn(TypeIntegerByte, cells)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xFF, 0x80}, out)

	shorts := []byte{0x01, 0x00, 0xFF, 0xFF}
	cells, err = decodeColumn(TypeIntegerShort, 2, shorts, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(65535)}, cells)

	out, _, err = encodeColumn(TypeIntegerShort, cells)
	require.NoError(t, err)
	assert.Equal(t, shorts, out)
}

func TestIntegerOutOfRange(t *testing.T) {
	_, _, err := encodeColumn(TypeIntegerByte, []any{int64(200)})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = encodeColumn(TypeIntegerShort, []any{int64(-1)})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = encodeColumn(TypeInteger, []any{int64(1) << 40})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFloatColumnBitPreserving(t *testing.T) {
	bits := []uint32{
		math.Float32bits(1.5),
		math.Float32bits(-0.25),
		0x7FC00001, // NaN with payload
		0xFF800000, // -Inf
	}
	values := le32(bits...)

	cells, err := decodeColumn(TypeFloat, len(bits), values, nil)
	require.NoError(t, err)

	out, _, err := encodeColumn(TypeFloat, cells)
	require.NoError(t, err)
	assert.Equal(t, values, out)
}

// Boolean packing: 10 rows [T,F,T,T,F,F,F,T,T,F] occupy exactly two bytes,
// row i at bit i%8 of byte i/8, LSB first.
func TestBooleanColumn(t *testing.T) {
	packed := []byte{0b10001101, 0b00000001}

	cells, err := decodeColumn(TypeBoolean, 10, packed, nil)
	require.NoError(t, err)
	want := []any{int64(1), int64(0), int64(1), int64(1), int64(0), int64(0), int64(0), int64(1), int64(1), int64(0)}
	assert.Equal(t, want, cells)

	out, _, err := encodeColumn(TypeBoolean, cells)
	require.NoError(t, err)
	assert.Equal(t, packed, out)
}

// Padding bits above the last row must be ignored on read and zero on
// write.
func TestBooleanPaddingBits(t *testing.T) {
	cells, err := decodeColumn(TypeBoolean, 3, []byte{0b11111101}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(0), int64(1)}, cells)

	out, _, err := encodeColumn(TypeBoolean, cells)
	require.NoError(t, err)
	assert.Equal(t, []byte{0b00000101}, out)
}

func TestStringColumnWithEmpties(t *testing.T) {
	values := le32(3, 1, 6)
	blob := append(le32(10), []byte("hi\x00\x00world\x00")...)

	cells, err := decodeColumn(TypeString, 3, values, blob)
	require.NoError(t, err)
	assert.Equal(t, []any{"hi", "", "world"}, cells)

	outValues, outBlob, err := encodeColumn(TypeString, cells)
	require.NoError(t, err)
	assert.Equal(t, values, outValues)
	assert.Equal(t, blob, outBlob)
}

func TestStringColumnMissingBlob(t *testing.T) {
	// Zero rows: no payload, and a missing blob reads as size zero.
	cells, err := decodeColumn(TypeString, 0, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, cells)

	values, blob, err := encodeColumn(TypeString, nil)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.Nil(t, blob)
}

func TestFloatListFormatting(t *testing.T) {
	// Rows [[1.0], [1.0, 2.0], []]: single whole numbers render bare,
	// multi-element whole numbers gain ".0", empty lists render "()".
	values := le32(1, 2, 0)
	blob := append(le32(12), le32(math.Float32bits(1), math.Float32bits(1), math.Float32bits(2))...)

	cells, err := decodeColumn(TypeFloatList, 3, values, blob)
	require.NoError(t, err)
	assert.Equal(t, []any{"(1)", "(1.0,2.0)", "()"}, cells)

	outValues, outBlob, err := encodeColumn(TypeFloatList, cells)
	require.NoError(t, err)
	assert.Equal(t, values, outValues)
	assert.Equal(t, blob, outBlob)
}

func TestFloatListFractions(t *testing.T) {
	bits := []uint32{math.Float32bits(0.5), math.Float32bits(-1.25)}
	values := le32(2)
	blob := append(le32(8), le32(bits...)...)

	cells, err := decodeColumn(TypeFloatList, 1, values, blob)
	require.NoError(t, err)
	assert.Equal(t, []any{"(0.5,-1.25)"}, cells)

	outValues, outBlob, err := encodeColumn(TypeFloatList, cells)
	require.NoError(t, err)
	assert.Equal(t, values, outValues)
	assert.Equal(t, blob, outBlob)
}

func TestIntegerListRoundTrip(t *testing.T) {
	negTwoList := int32(-2)
	values := le32(3, 0, 1)
	blob := append(le32(16), le32(1, uint32(negTwoList), 300, 7)...)

	cells, err := decodeColumn(TypeIntegerList, 3, values, blob)
	require.NoError(t, err)
	assert.Equal(t, []any{"(1,-2,300)", "()", "(7)"}, cells)

	outValues, outBlob, err := encodeColumn(TypeIntegerList, cells)
	require.NoError(t, err)
	assert.Equal(t, values, outValues)
	assert.Equal(t, blob, outBlob)
}

func TestIntegerListTolerantParse(t *testing.T) {
	// Whitespace around fields and parentheses is tolerated.
	values, _, err := encodeColumn(TypeIntegerList, []any{" ( 1 , 2 ) "})
	require.NoError(t, err)
	assert.Equal(t, le32(2), values)
}

func TestMalformedList(t *testing.T) {
	for _, text := range []string{"1,2", "(1,2", "1,2)", "(1,x)", ""} {
		_, _, err := encodeColumn(TypeIntegerList, []any{text})
		assert.ErrorIs(t, err, ErrMalformedList, "text %q", text)
	}
}

func TestFormatListFloat(t *testing.T) {
	testCases := []struct {
		v     float32
		multi bool
		want  string
	}{
		{1, false, "1"},
		{1, true, "1.0"},
		{2.5, true, "2.5"},
		{2.5, false, "2.5"},
		{-3, true, "-3.0"},
		{0, true, "0.0"},
		{0.125, true, "0.125"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, formatListFloat(tc.v, tc.multi), "%v multi=%v", tc.v, tc.multi)
	}
}

func TestDecodeColumnShortValues(t *testing.T) {
	_, err := decodeColumn(TypeInteger, 3, le32(1, 2), nil)
	assert.Error(t, err)
}

func TestUnknownDataType(t *testing.T) {
	_, err := decodeColumn(DataType(7), 1, le32(0), nil)
	assert.ErrorIs(t, err, ErrUnknownDataType)

	_, _, err = encodeColumn(DataType(7), []any{int64(0)})
	assert.ErrorIs(t, err, ErrUnknownDataType)
}
