package cdb

import "errors"

// wrapperDescription is the literal name carried by the root chunk.
const wrapperDescription = "cyanide database"

// DatabaseFlags is the fixed value of the DATABASE_FLAGS chunk.
const DatabaseFlags uint32 = 274

// Decode/encode errors.
var (
	ErrUnknownDataType     = errors.New("cdb: unknown column data type")
	ErrMissingChild        = errors.New("cdb: required child chunk absent")
	ErrUnknownTableID      = errors.New("cdb: no table flags known for identifier")
	ErrMalformedList       = errors.New("cdb: malformed list text")
	ErrOutOfRange          = errors.New("cdb: value outside the column subtype range")
	ErrDecompressionFailed = errors.New("cdb: decompression failed")
	ErrNotADatabase        = errors.New("cdb: root chunk is not a database wrapper")
)

// Database is the in-memory form of a CDB file: an ordered list of tables.
// Table order matches the source file; the encoder re-sorts by identifier,
// which is also the order reference files use.
type Database struct {
	Tables []*Table
}

// Table is one named CDB table.
type Table struct {
	Name string
	ID   uint32
	Rows int

	// Flags is the table-flags word as read from the file. HasFlags is
	// false when the source omitted the chunk; the encoder always emits the
	// value from the shipped identifier map instead.
	Flags    uint32
	HasFlags bool

	// Columns in physical order, which is preserved across the relational
	// round-trip and is distinct from each column's Index.
	Columns []*Column
}

// Column is one typed CDB column with one cell per row.
//
// Cells hold the relational form of each value: int64 for the integer and
// boolean types, float64 for floats, string for strings and formatted
// lists.
type Column struct {
	Name  string
	Index uint32
	Type  DataType
	Cells []any
}

// FindTable returns the table with the given name, or nil.
func (d *Database) FindTable(name string) *Table {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
