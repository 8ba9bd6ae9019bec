package cdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDatabase covers every data type across two tables.
func sampleDatabase() *Database {
	return &Database{
		Tables: []*Table{
			{
				Name: "DYN_rider",
				ID:   3,
				Rows: 3,
				Columns: []*Column{
					{Name: "gene_i_id", Index: 0, Type: TypeInteger, Cells: []any{int64(1), int64(-2), int64(3)}},
					{Name: "gene_f_weight", Index: 1, Type: TypeFloat, Cells: []any{float64(float32(71.5)), float64(float32(-0.25)), float64(float32(64))}},
					{Name: "gene_sz_name", Index: 2, Type: TypeString, Cells: []any{"hi", "", "world"}},
					{Name: "gene_b_pro", Index: 3, Type: TypeBoolean, Cells: []any{int64(1), int64(0), int64(1)}},
					{Name: "gene_i8_rank", Index: 4, Type: TypeIntegerByte, Cells: []any{int64(-5), int64(0), int64(127)}},
					{Name: "gene_i16_points", Index: 5, Type: TypeIntegerShort, Cells: []any{int64(0), int64(900), int64(65535)}},
					{Name: "gene_fl_splits", Index: 6, Type: TypeFloatList, Cells: []any{"(1)", "(1.0,2.0)", "()"}},
					{Name: "gene_il_stages", Index: 7, Type: TypeIntegerList, Cells: []any{"(1,-2,300)", "()", "(7)"}},
				},
			},
			{
				Name: "STA_team",
				ID:   5,
				Rows: 0,
				Columns: []*Column{
					{Name: "gene_sz_name", Index: 0, Type: TypeString, Cells: nil},
				},
			},
		},
	}
}

// Invariant: decompress(encode(decode(x))) == decompress(x) for unmodified
// inputs.
func TestDecodeEncodeByteIdentity(t *testing.T) {
	original, err := EncodeStream(sampleDatabase())
	require.NoError(t, err)

	db, err := Decode(original)
	require.NoError(t, err)

	encoded, err := Encode(db)
	require.NoError(t, err)
	stream, err := Decompress(encoded)
	require.NoError(t, err)

	assert.Equal(t, original, stream)
}

func TestDecodeCompressedInput(t *testing.T) {
	compressed, err := Encode(sampleDatabase())
	require.NoError(t, err)

	db, err := Decode(compressed)
	require.NoError(t, err)
	require.Len(t, db.Tables, 2)
	assert.Equal(t, "DYN_rider", db.Tables[0].Name)
	assert.Equal(t, uint32(3), db.Tables[0].ID)
	assert.Equal(t, 3, db.Tables[0].Rows)
	assert.Equal(t, []any{"hi", "", "world"}, db.Tables[0].Columns[2].Cells)
}

func TestDecodePreservesColumnOrder(t *testing.T) {
	stream, err := EncodeStream(sampleDatabase())
	require.NoError(t, err)
	db, err := Decode(stream)
	require.NoError(t, err)

	names := make([]string, 0, len(db.Tables[0].Columns))
	for _, c := range db.Tables[0].Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"gene_i_id", "gene_f_weight", "gene_sz_name", "gene_b_pro",
		"gene_i8_rank", "gene_i16_points", "gene_fl_splits", "gene_il_stages",
	}, names)
}

func TestEncodeSortsTablesByID(t *testing.T) {
	db := sampleDatabase()
	db.Tables[0], db.Tables[1] = db.Tables[1], db.Tables[0]

	stream, err := EncodeStream(db)
	require.NoError(t, err)
	decoded, err := Decode(stream)
	require.NoError(t, err)

	require.Len(t, decoded.Tables, 2)
	assert.Equal(t, uint32(3), decoded.Tables[0].ID)
	assert.Equal(t, uint32(5), decoded.Tables[1].ID)
}

func TestEncodeUnknownTableID(t *testing.T) {
	db := &Database{Tables: []*Table{{Name: "X", ID: 9999, Rows: 0}}}
	_, err := EncodeStream(db)
	assert.ErrorIs(t, err, ErrUnknownTableID)
}

func TestDecodeEmptyDatabase(t *testing.T) {
	stream, err := EncodeStream(&Database{})
	require.NoError(t, err)

	db, err := Decode(stream)
	require.NoError(t, err)
	assert.Empty(t, db.Tables)

	again, err := EncodeStream(db)
	require.NoError(t, err)
	assert.Equal(t, stream, again)
}

func TestDecodeTableFlagsCarried(t *testing.T) {
	stream, err := EncodeStream(sampleDatabase())
	require.NoError(t, err)
	db, err := Decode(stream)
	require.NoError(t, err)

	// Encoder emits the flags word from the shipped map.
	assert.True(t, db.Tables[0].HasFlags)
	want, err := TableFlags(3)
	require.NoError(t, err)
	assert.Equal(t, want, db.Tables[0].Flags)
}

func TestDecodeEmptyTableHasNoBlob(t *testing.T) {
	stream, err := EncodeStream(sampleDatabase())
	require.NoError(t, err)
	db, err := Decode(stream)
	require.NoError(t, err)

	team := db.FindTable("STA_team")
	require.NotNil(t, team)
	assert.Equal(t, 0, team.Rows)
	require.Len(t, team.Columns, 1)
	assert.Empty(t, team.Columns[0].Cells)
}
