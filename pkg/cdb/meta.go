package cdb

import (
	"fmt"
	"regexp"
	"strconv"
)

// Per-column metadata survives the relational round-trip packed into a
// single integer carried as the trailing token of the column's declared SQL
// type, "<base> <N>". The base type is redundant with the data type and
// chosen for SQLite affinity; N alone restores the physical encoding.

// StructureMeta is the sentinel annotation used by the DB_STRUCTURE table's
// own columns. It coincides with the DATABASE_FLAGS value, so the schema
// parser needs no special case for it.
const StructureMeta uint32 = 274

// PackMeta packs a column's round-trip key into one nonnegative integer.
func PackMeta(tableID, columnIndex uint32, t DataType) uint32 {
	return (tableID*256+columnIndex)*16 + (uint32(t) & 0xF)
}

// UnpackMeta inverts PackMeta.
func UnpackMeta(n uint32) (tableID, columnIndex uint32, t DataType) {
	return n >> 12, (n >> 4) & 0xFF, DataType(n & 0xF)
}

// TypeAnnotation renders the declared SQL type for a column.
func TypeAnnotation(tableID, columnIndex uint32, t DataType) string {
	return fmt.Sprintf("%s %d", t.SQLBase(), PackMeta(tableID, columnIndex, t))
}

// trailingInt matches the metadata integer at the end of a declared type,
// tolerating surrounding whitespace.
var trailingInt = regexp.MustCompile(`(\d+)\s*$`)

// ParseAnnotation recovers the packed metadata integer from a declared
// column type.
func ParseAnnotation(declared string) (uint32, error) {
	m := trailingInt.FindStringSubmatch(declared)
	if m == nil {
		return 0, fmt.Errorf("cdb: declared type %q carries no metadata integer", declared)
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("cdb: declared type %q: %w", declared, err)
	}
	return uint32(n), nil
}
