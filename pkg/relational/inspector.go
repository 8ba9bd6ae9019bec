package relational

import (
	"database/sql"
	"fmt"

	"github.com/pcmtools/cdbkit/pkg/cdb"
)

// Inspect recovers a cdb.Database from a relational mirror. Tables are
// enumerated via DB_STRUCTURE in ascending identifier order; each column's
// physical encoding is restored from the metadata integer at the tail of
// its declared type.
func Inspect(sqlDB *sql.DB) (*cdb.Database, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		quoteIdent("name"), quoteIdent("id"), quoteIdent(StructureTable), quoteIdent("id"))
	rows, err := sqlDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("relational: read %s: %w", StructureTable, err)
	}
	defer rows.Close()

	type entry struct {
		name string
		id   uint32
	}
	var entries []entry
	for rows.Next() {
		var name string
		var id sql.NullInt64
		if err := rows.Scan(&name, &id); err != nil {
			return nil, fmt.Errorf("relational: read %s: %w", StructureTable, err)
		}
		if !id.Valid {
			return nil, fmt.Errorf("relational: table %q: %w", name, ErrNullTableID)
		}
		entries = append(entries, entry{name: name, id: uint32(id.Int64)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("relational: read %s: %w", StructureTable, err)
	}

	d := &cdb.Database{}
	for _, e := range entries {
		t, err := inspectTable(sqlDB, e.name, e.id)
		if err != nil {
			return nil, err
		}
		d.Tables = append(d.Tables, t)
	}
	return d, nil
}

// inspectTable reads one table's schema and rows and transposes the rows
// into typed columns.
func inspectTable(sqlDB *sql.DB, name string, id uint32) (*cdb.Table, error) {
	t := &cdb.Table{Name: name, ID: id}

	schema, err := sqlDB.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("relational: schema of %q: %w", name, err)
	}
	defer schema.Close()

	for schema.Next() {
		var cid, notNull, pk int
		var colName, declared string
		var dflt sql.NullString
		if err := schema.Scan(&cid, &colName, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("relational: schema of %q: %w", name, err)
		}
		meta, err := cdb.ParseAnnotation(declared)
		if err != nil {
			return nil, fmt.Errorf("relational: table %q column %q: %w", name, colName, err)
		}
		_, colIndex, dataType := cdb.UnpackMeta(meta)
		if !dataType.Valid() {
			return nil, fmt.Errorf("relational: table %q column %q declared %q: invalid data type", name, colName, declared)
		}
		t.Columns = append(t.Columns, &cdb.Column{Name: colName, Index: colIndex, Type: dataType})
	}
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("relational: schema of %q: %w", name, err)
	}

	rows, err := sqlDB.Query(fmt.Sprintf("SELECT * FROM %s", quoteIdent(name)))
	if err != nil {
		return nil, fmt.Errorf("relational: rows of %q: %w", name, err)
	}
	defer rows.Close()

	scan := make([]any, len(t.Columns))
	for rows.Next() {
		for i := range scan {
			scan[i] = new(any)
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("relational: rows of %q: %w", name, err)
		}
		for i, c := range t.Columns {
			c.Cells = append(c.Cells, *scan[i].(*any))
		}
		t.Rows++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("relational: rows of %q: %w", name, err)
	}
	return t, nil
}
