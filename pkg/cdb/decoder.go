package cdb

import (
	"fmt"

	"github.com/pcmtools/cdbkit/pkg/codec"
)

// Decode parses a CDB file, compressed or not, into a Database.
func Decode(raw []byte) (*Database, error) {
	stream, err := Decompress(raw)
	if err != nil {
		return nil, err
	}

	r := codec.NewReader(stream)
	wrapper, err := r.Next(len(stream))
	if err != nil {
		return nil, err
	}
	if wrapper.Kind != codec.KindWrapper {
		return nil, fmt.Errorf("cdb: root chunk is %s: %w", wrapper.Kind, ErrNotADatabase)
	}

	db := &Database{}
	// The wrapper carries one DATABASE_FLAGS and one DATABASE_TABLES child;
	// their order is not imposed.
	for r.More(wrapper) {
		child, err := r.Next(wrapper.Limit())
		if err != nil {
			return nil, err
		}
		switch child.Kind {
		case codec.KindDatabaseFlags:
			if _, err := r.ReadUint32(); err != nil {
				return nil, err
			}
		case codec.KindDatabaseTables:
			if err := decodeTables(r, child, db); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("cdb: %s chunk inside wrapper: %w", child.Kind, codec.ErrUnknownChunkKind)
		}
		if err := r.Close(child); err != nil {
			return nil, err
		}
	}
	if err := r.Close(wrapper); err != nil {
		return nil, err
	}
	return db, nil
}

func decodeTables(r *codec.Reader, tables *codec.Chunk, db *Database) error {
	count, err := r.ArrayBegin()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		t, err := decodeTable(r, tables.Limit())
		if err != nil {
			return err
		}
		db.Tables = append(db.Tables, t)
	}
	return r.ArrayEnd()
}

// decodeTable assembles one TABLE chunk. Children are collected by kind,
// whatever their order; the required set is verified afterwards.
func decodeTable(r *codec.Reader, limit int) (*Table, error) {
	ck, err := r.Next(limit)
	if err != nil {
		return nil, err
	}
	if ck.Kind != codec.KindTable {
		return nil, fmt.Errorf("cdb: %s chunk in tables array: %w", ck.Kind, codec.ErrUnknownChunkKind)
	}

	t := &Table{Name: ck.Description}
	var haveID, haveRows, haveColumns bool
	var rawColumns []*rawColumn

	for r.More(ck) {
		child, err := r.Next(ck.Limit())
		if err != nil {
			return nil, err
		}
		switch child.Kind {
		case codec.KindTableID:
			if t.ID, err = r.ReadUint32(); err != nil {
				return nil, err
			}
			haveID = true
		case codec.KindRowCount:
			rows, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			t.Rows = int(rows)
			haveRows = true
		case codec.KindTableFlags:
			if t.Flags, err = r.ReadUint32(); err != nil {
				return nil, err
			}
			t.HasFlags = true
		case codec.KindColumnDefinitions:
			if rawColumns, err = decodeColumnDefs(r, child); err != nil {
				return nil, err
			}
			haveColumns = true
		default:
			return nil, fmt.Errorf("cdb: %s chunk inside table %q: %w", child.Kind, t.Name, codec.ErrUnknownChunkKind)
		}
		if err := r.Close(child); err != nil {
			return nil, err
		}
	}
	if err := r.Close(ck); err != nil {
		return nil, err
	}

	if !haveID {
		return nil, fmt.Errorf("cdb: table %q lacks TABLE_ID: %w", t.Name, ErrMissingChild)
	}
	if !haveRows {
		return nil, fmt.Errorf("cdb: table %q lacks ROW_COUNT: %w", t.Name, ErrMissingChild)
	}
	if !haveColumns {
		return nil, fmt.Errorf("cdb: table %q lacks COLUMN_DEFINITIONS: %w", t.Name, ErrMissingChild)
	}

	// Cells can only be materialized once the row count is known, which may
	// arrive after the column definitions.
	for _, rc := range rawColumns {
		cells, err := decodeColumn(rc.dataType, t.Rows, rc.values, rc.blob)
		if err != nil {
			return nil, fmt.Errorf("cdb: table %q column %q: %w", t.Name, rc.name, err)
		}
		t.Columns = append(t.Columns, &Column{
			Name:  rc.name,
			Index: rc.index,
			Type:  rc.dataType,
			Cells: cells,
		})
	}
	return t, nil
}

// rawColumn carries a column's fields before the row count is known. The
// payload slices alias the input stream.
type rawColumn struct {
	name     string
	index    uint32
	dataType DataType
	values   []byte
	blob     []byte
}

func decodeColumnDefs(r *codec.Reader, defs *codec.Chunk) ([]*rawColumn, error) {
	count, err := r.ArrayBegin()
	if err != nil {
		return nil, err
	}
	cols := make([]*rawColumn, 0, count)
	for i := 0; i < count; i++ {
		col, err := decodeColumnChunk(r, defs.Limit())
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if err := r.ArrayEnd(); err != nil {
		return nil, err
	}
	return cols, nil
}

func decodeColumnChunk(r *codec.Reader, limit int) (*rawColumn, error) {
	ck, err := r.Next(limit)
	if err != nil {
		return nil, err
	}
	if ck.Kind != codec.KindColumn {
		return nil, fmt.Errorf("cdb: %s chunk in column definitions: %w", ck.Kind, codec.ErrUnknownChunkKind)
	}

	col := &rawColumn{name: ck.Description}
	var haveIndex, haveType, haveValues bool

	for r.More(ck) {
		child, err := r.Next(ck.Limit())
		if err != nil {
			return nil, err
		}
		switch child.Kind {
		case codec.KindColumnIndex:
			if col.index, err = r.ReadUint32(); err != nil {
				return nil, err
			}
			haveIndex = true
		case codec.KindColumnDataType:
			raw, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			col.dataType = DataType(raw)
			if !col.dataType.Valid() {
				return nil, fmt.Errorf("cdb: column %q data type %d: %w", col.name, raw, ErrUnknownDataType)
			}
			haveType = true
		case codec.KindColumnValues:
			// The payload's true length depends on the data type and row
			// count, neither necessarily known yet. Keep the whole body
			// region, trailing pad included.
			if col.values, err = r.Body(child); err != nil {
				return nil, err
			}
			haveValues = true
		case codec.KindColumnBlobData:
			if col.blob, err = r.Body(child); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("cdb: %s chunk inside column %q: %w", child.Kind, col.name, codec.ErrUnknownChunkKind)
		}
		if err := r.Close(child); err != nil {
			return nil, err
		}
	}
	if err := r.Close(ck); err != nil {
		return nil, err
	}

	if !haveIndex {
		return nil, fmt.Errorf("cdb: column %q lacks COLUMN_INDEX: %w", col.name, ErrMissingChild)
	}
	if !haveType {
		return nil, fmt.Errorf("cdb: column %q lacks COLUMN_DATA_TYPE: %w", col.name, ErrMissingChild)
	}
	if !haveValues {
		return nil, fmt.Errorf("cdb: column %q lacks COLUMN_VALUES: %w", col.name, ErrMissingChild)
	}
	return col, nil
}
