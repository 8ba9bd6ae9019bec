package relational

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/pcmtools/cdbkit/pkg/cdb"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would get its own in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func sampleDatabase() *cdb.Database {
	return &cdb.Database{
		Tables: []*cdb.Table{
			{
				Name: "DYN_rider",
				ID:   3,
				Rows: 3,
				Columns: []*cdb.Column{
					{Name: "gene_i_id", Index: 0, Type: cdb.TypeInteger, Cells: []any{int64(1), int64(-2), int64(3)}},
					{Name: "gene_f_weight", Index: 1, Type: cdb.TypeFloat, Cells: []any{float64(71.5), float64(-0.25), float64(64)}},
					{Name: "gene_sz_name", Index: 2, Type: cdb.TypeString, Cells: []any{"hi", "", "world"}},
					{Name: "gene_b_pro", Index: 3, Type: cdb.TypeBoolean, Cells: []any{int64(1), int64(0), int64(1)}},
					{Name: "gene_il_stages", Index: 4, Type: cdb.TypeIntegerList, Cells: []any{"(1,-2,300)", "()", "(7)"}},
				},
			},
			{
				Name:    "STA_team",
				ID:      5,
				Rows:    0,
				Columns: []*cdb.Column{{Name: "gene_sz_name", Index: 0, Type: cdb.TypeString}},
			},
		},
	}
}

func TestBuildInspectRoundTrip(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, sampleDatabase()))

	got, err := Inspect(sqlDB)
	require.NoError(t, err)
	require.Len(t, got.Tables, 2)

	rider := got.Tables[0]
	assert.Equal(t, "DYN_rider", rider.Name)
	assert.Equal(t, uint32(3), rider.ID)
	assert.Equal(t, 3, rider.Rows)
	require.Len(t, rider.Columns, 5)

	for i, want := range sampleDatabase().Tables[0].Columns {
		assert.Equal(t, want.Name, rider.Columns[i].Name, "column %d", i)
		assert.Equal(t, want.Index, rider.Columns[i].Index, "column %d", i)
		assert.Equal(t, want.Type, rider.Columns[i].Type, "column %d", i)
	}
	assert.Equal(t, []any{int64(1), int64(-2), int64(3)}, rider.Columns[0].Cells)
	assert.Equal(t, []any{"hi", "", "world"}, rider.Columns[2].Cells)
	assert.Equal(t, []any{"(1,-2,300)", "()", "(7)"}, rider.Columns[4].Cells)

	team := got.Tables[1]
	assert.Equal(t, uint32(5), team.ID)
	assert.Equal(t, 0, team.Rows)
	require.Len(t, team.Columns, 1)
}

func TestBuildDeclaredTypes(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, sampleDatabase()))

	rows, err := sqlDB.Query(`PRAGMA table_info("DYN_rider")`)
	require.NoError(t, err)
	defer rows.Close()

	declared := map[string]string{}
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		declared[name] = typ
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, "INTEGER 12288", declared["gene_i_id"])
	assert.Equal(t, "REAL 12305", declared["gene_f_weight"])
	assert.Equal(t, "TEXT 12322", declared["gene_sz_name"])
	assert.Equal(t, "NUMERIC 12339", declared["gene_b_pro"])
	assert.Equal(t, "TEXT 12363", declared["gene_il_stages"])
}

func TestStructureTable(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, sampleDatabase()))

	rows, err := sqlDB.Query(`SELECT "name", "id" FROM "DB_STRUCTURE" ORDER BY "id"`)
	require.NoError(t, err)
	defer rows.Close()

	var got [][2]any
	for rows.Next() {
		var name string
		var id int64
		require.NoError(t, rows.Scan(&name, &id))
		got = append(got, [2]any{name, id})
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, [][2]any{{"DYN_rider", int64(3)}, {"STA_team", int64(5)}}, got)
}

func TestInspectNullTableID(t *testing.T) {
	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, &cdb.Database{}))

	_, err := sqlDB.Exec(`INSERT INTO "DB_STRUCTURE" VALUES ('orphan', NULL)`)
	require.NoError(t, err)

	_, err = Inspect(sqlDB)
	assert.ErrorIs(t, err, ErrNullTableID)
}

func TestInsertBatching(t *testing.T) {
	// 5 columns x 3000 rows forces multiple insert batches under the
	// 999-parameter bound.
	table := &cdb.Table{Name: "BIG", ID: 8, Rows: 3000}
	for c := 0; c < 5; c++ {
		col := &cdb.Column{Name: string(rune('a' + c)), Index: uint32(c), Type: cdb.TypeInteger}
		for r := 0; r < 3000; r++ {
			col.Cells = append(col.Cells, int64(r*10+c))
		}
		table.Columns = append(table.Columns, col)
	}

	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, &cdb.Database{Tables: []*cdb.Table{table}}))

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM "BIG"`).Scan(&count))
	assert.Equal(t, 3000, count)

	// Insertion order is row order.
	var first, last int64
	require.NoError(t, sqlDB.QueryRow(`SELECT "a" FROM "BIG" LIMIT 1`).Scan(&first))
	require.NoError(t, sqlDB.QueryRow(`SELECT "e" FROM "BIG" ORDER BY rowid DESC LIMIT 1`).Scan(&last))
	assert.Equal(t, int64(0), first)
	assert.Equal(t, int64(2999*10+4), last)
}

func TestRoundTripThroughCodec(t *testing.T) {
	// Full pipeline: model -> chunk stream -> relational -> model -> chunk
	// stream, byte-identical.
	original, err := cdb.EncodeStream(sampleDatabase())
	require.NoError(t, err)

	decoded, err := cdb.Decode(original)
	require.NoError(t, err)

	sqlDB := openSQLite(t)
	require.NoError(t, Build(sqlDB, decoded))

	recovered, err := Inspect(sqlDB)
	require.NoError(t, err)

	again, err := cdb.EncodeStream(recovered)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}
