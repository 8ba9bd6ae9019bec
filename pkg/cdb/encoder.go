package cdb

import (
	"fmt"
	"sort"

	"github.com/pcmtools/cdbkit/pkg/codec"
)

// Encode serializes a Database into a compressed CDB file. Tables are
// emitted in ascending identifier order; columns keep their stored order.
func Encode(db *Database) ([]byte, error) {
	stream, err := EncodeStream(db)
	if err != nil {
		return nil, err
	}
	return Compress(stream)
}

// EncodeStream serializes a Database into a decompressed chunk stream.
func EncodeStream(db *Database) ([]byte, error) {
	tables := make([]*Table, len(db.Tables))
	copy(tables, db.Tables)
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })

	w := codec.NewWriter()
	w.OpenNamed(codec.KindWrapper, wrapperDescription)

	w.Open(codec.KindDatabaseFlags)
	w.Uint32(DatabaseFlags)
	w.Close()

	w.Open(codec.KindDatabaseTables)
	w.ArrayBegin(len(tables))
	for _, t := range tables {
		if err := encodeTable(w, t); err != nil {
			return nil, err
		}
	}
	w.ArrayEnd()
	w.Close()

	w.Close()
	return w.Finalize()
}

// encodeTable emits one TABLE chunk with children in the order observed in
// reference files: TABLE_ID, ROW_COUNT, TABLE_FLAGS, COLUMN_DEFINITIONS.
func encodeTable(w *codec.Writer, t *Table) error {
	flags, err := TableFlags(t.ID)
	if err != nil {
		return err
	}

	w.OpenNamed(codec.KindTable, t.Name)

	w.Open(codec.KindTableID)
	w.Uint32(t.ID)
	w.Close()

	w.Open(codec.KindRowCount)
	w.Uint32(uint32(t.Rows))
	w.Close()

	w.Open(codec.KindTableFlags)
	w.Uint32(flags)
	w.Close()

	w.Open(codec.KindColumnDefinitions)
	w.ArrayBegin(len(t.Columns))
	for _, c := range t.Columns {
		if err := encodeColumnChunk(w, t, c); err != nil {
			return err
		}
	}
	w.ArrayEnd()
	w.Close()

	w.Close()
	return nil
}

// encodeColumnChunk emits one COLUMN chunk: COLUMN_INDEX, COLUMN_DATA_TYPE,
// COLUMN_VALUES, then COLUMN_BLOB_DATA only when a payload exists.
func encodeColumnChunk(w *codec.Writer, t *Table, c *Column) error {
	if len(c.Cells) != t.Rows {
		return fmt.Errorf("cdb: table %q column %q has %d cells for %d rows", t.Name, c.Name, len(c.Cells), t.Rows)
	}
	values, blob, err := encodeColumn(c.Type, c.Cells)
	if err != nil {
		return fmt.Errorf("cdb: table %q column %q: %w", t.Name, c.Name, err)
	}

	w.OpenNamed(codec.KindColumn, c.Name)

	w.Open(codec.KindColumnIndex)
	w.Uint32(c.Index)
	w.Close()

	w.Open(codec.KindColumnDataType)
	w.Uint32(uint32(c.Type))
	w.Close()

	w.Open(codec.KindColumnValues)
	w.Raw(values)
	w.Close()

	if blob != nil {
		w.Open(codec.KindColumnBlobData)
		w.Raw(blob)
		w.Close()
	}

	w.Close()
	return nil
}
