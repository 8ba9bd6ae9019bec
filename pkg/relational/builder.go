// Package relational mirrors a decoded CDB database into an embedded SQL
// engine and recovers it back.
//
// Each CDB table becomes one relational table with columns in original
// physical order. Every column's declared type is "<base> <N>" where N is
// the packed metadata integer that restores the physical encoding on
// re-encode. A synthetic DB_STRUCTURE table maps table names to their
// numeric identifiers; its own columns carry the 274 sentinel annotation.
package relational

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pcmtools/cdbkit/pkg/cdb"
)

// StructureTable is the synthetic table recording each CDB table's
// identifier.
const StructureTable = "DB_STRUCTURE"

// maxBoundParams is SQLite's bound-parameter limit per statement; inserts
// are batched to stay under it.
const maxBoundParams = 999

// ErrNullTableID reports a DB_STRUCTURE row with a null identifier.
var ErrNullTableID = errors.New("relational: DB_STRUCTURE carries a null table identifier")

// Build materializes a decoded database into sqlDB. The target is assumed
// empty; existing tables with the same names fail the build.
func Build(sqlDB *sql.DB, d *cdb.Database) error {
	ddl := fmt.Sprintf("CREATE TABLE %s (%s 'TEXT %d', %s 'INTEGER %d')",
		quoteIdent(StructureTable),
		quoteIdent("name"), cdb.StructureMeta,
		quoteIdent("id"), cdb.StructureMeta)
	if _, err := sqlDB.Exec(ddl); err != nil {
		return fmt.Errorf("relational: create %s: %w", StructureTable, err)
	}

	for _, t := range d.Tables {
		if err := buildTable(sqlDB, t); err != nil {
			return err
		}
		insert := fmt.Sprintf("INSERT INTO %s VALUES (?, ?)", quoteIdent(StructureTable))
		if _, err := sqlDB.Exec(insert, t.Name, int64(t.ID)); err != nil {
			return fmt.Errorf("relational: register table %q: %w", t.Name, err)
		}
	}
	return nil
}

func buildTable(sqlDB *sql.DB, t *cdb.Table) error {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = fmt.Sprintf("%s '%s'", quoteIdent(c.Name), cdb.TypeAnnotation(t.ID, c.Index, c.Type))
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name), strings.Join(defs, ", "))
	if _, err := sqlDB.Exec(ddl); err != nil {
		return fmt.Errorf("relational: create table %q: %w", t.Name, err)
	}
	if t.Rows == 0 || len(t.Columns) == 0 {
		return nil
	}
	return insertRows(sqlDB, t)
}

// insertRows bulk-inserts a table's rows, batched so one statement never
// binds more than maxBoundParams parameters.
func insertRows(sqlDB *sql.DB, t *cdb.Table) error {
	cols := len(t.Columns)
	batch := maxBoundParams / cols
	if batch < 1 {
		batch = 1
	}

	rowTuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", cols), ", ") + ")"
	for start := 0; start < t.Rows; start += batch {
		n := batch
		if start+n > t.Rows {
			n = t.Rows - start
		}

		stmt := fmt.Sprintf("INSERT INTO %s VALUES %s", quoteIdent(t.Name),
			strings.TrimSuffix(strings.Repeat(rowTuple+", ", n), ", "))
		args := make([]any, 0, n*cols)
		for row := start; row < start+n; row++ {
			for _, c := range t.Columns {
				args = append(args, c.Cells[row])
			}
		}
		if _, err := sqlDB.Exec(stmt, args...); err != nil {
			return fmt.Errorf("relational: insert into %q: %w", t.Name, err)
		}
	}
	return nil
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
