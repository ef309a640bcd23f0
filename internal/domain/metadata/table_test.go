package metadata

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *MetadataTable {
	t.Helper()
	table, err := NewMetadataTable("study1", uuid.New(), 8)
	require.NoError(t, err)
	return table
}

func mustColumn(t *testing.T, name, colType string) *MetadataColumn {
	t.Helper()
	col, err := NewMetadataColumn(name, colType)
	require.NoError(t, err)
	return col
}

// columnNames returns the table's column names in position order
func columnNames(table *MetadataTable) []string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}
	return names
}

// assertDensePositions checks positions are sequential from 0
func assertDensePositions(t *testing.T, table *MetadataTable) {
	t.Helper()
	for i, c := range table.Columns {
		assert.Equal(t, i, c.ColumnPosition, "column %q at index %d", c.Name, i)
	}
}

func TestAddColumn(t *testing.T) {
	t.Run("appends at end by default", func(t *testing.T) {
		table := newTestTable(t)
		table.AddColumn(mustColumn(t, "source name", "source name"), -1)
		table.AddColumn(mustColumn(t, "organism", "characteristics"), -1)

		assert.Equal(t, []string{"source name", "organism"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("insert shifts later columns up", func(t *testing.T) {
		table := newTestTable(t)
		table.AddColumn(mustColumn(t, "a", "characteristics"), -1)
		table.AddColumn(mustColumn(t, "b", "characteristics"), -1)
		table.AddColumn(mustColumn(t, "c", "characteristics"), -1)

		table.AddColumn(mustColumn(t, "x", "characteristics"), 1)

		assert.Equal(t, []string{"a", "x", "b", "c"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("sets table id on the column", func(t *testing.T) {
		table := newTestTable(t)
		col := mustColumn(t, "a", "characteristics")
		table.AddColumn(col, -1)

		assert.Equal(t, table.ID, col.TableID)
	})
}

func TestRemoveColumn(t *testing.T) {
	table := newTestTable(t)
	table.AddColumn(mustColumn(t, "a", "characteristics"), -1)
	b := mustColumn(t, "b", "characteristics")
	table.AddColumn(b, -1)
	table.AddColumn(mustColumn(t, "c", "characteristics"), -1)

	t.Run("shifts later columns down", func(t *testing.T) {
		require.NoError(t, table.RemoveColumn(b.ID))

		assert.Equal(t, []string{"a", "c"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("unknown column returns not found", func(t *testing.T) {
		assert.Error(t, table.RemoveColumn(uuid.New()))
	})
}

func TestMoveColumn(t *testing.T) {
	setup := func(t *testing.T) (*MetadataTable, *MetadataColumn) {
		table := newTestTable(t)
		table.AddColumn(mustColumn(t, "a", "characteristics"), -1)
		table.AddColumn(mustColumn(t, "b", "characteristics"), -1)
		c := mustColumn(t, "c", "characteristics")
		table.AddColumn(c, -1)
		table.AddColumn(mustColumn(t, "d", "characteristics"), -1)
		return table, c
	}

	t.Run("moves column up", func(t *testing.T) {
		table, c := setup(t)
		require.NoError(t, table.MoveColumn(c.ID, 0))

		assert.Equal(t, []string{"c", "a", "b", "d"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("moves column down", func(t *testing.T) {
		table, _ := setup(t)
		a := table.Columns[0]
		require.NoError(t, table.MoveColumn(a.ID, 2))

		assert.Equal(t, []string{"b", "c", "a", "d"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("clamps out of range target", func(t *testing.T) {
		table, c := setup(t)
		require.NoError(t, table.MoveColumn(c.ID, 99))

		assert.Equal(t, []string{"a", "b", "d", "c"}, columnNames(table))
		assertDensePositions(t, table)
	})
}

func TestNormalizeColumnPositions(t *testing.T) {
	table := newTestTable(t)
	a := mustColumn(t, "a", "characteristics")
	b := mustColumn(t, "b", "characteristics")
	table.AddColumn(a, -1)
	table.AddColumn(b, -1)

	// Simulate positions drifting apart
	a.ColumnPosition = 3
	b.ColumnPosition = 7

	table.NormalizeColumnPositions()

	assert.Equal(t, []string{"a", "b"}, columnNames(table))
	assertDensePositions(t, table)
}

func TestReorderColumnsBySchema(t *testing.T) {
	buildTable := func(t *testing.T) *MetadataTable {
		table := newTestTable(t)
		// Deliberately scrambled section order
		table.AddColumn(mustColumn(t, "phenotype", "factor value"), -1)
		table.AddColumn(mustColumn(t, "instrument", "comment"), -1)
		table.AddColumn(mustColumn(t, "organism", "characteristics"), -1)
		table.AddColumn(mustColumn(t, "source name", "source name"), -1)
		table.AddColumn(mustColumn(t, "assay name", "special"), -1)
		table.AddColumn(mustColumn(t, "disease", "characteristics"), -1)
		return table
	}

	t.Run("orders sections source, characteristics, special, comment, factor", func(t *testing.T) {
		table := buildTable(t)
		table.ReorderColumnsBySchema(nil)

		assert.Equal(t, []string{
			"source name", "organism", "disease", "assay name", "instrument", "phenotype",
		}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("schema columns lead their section in schema order", func(t *testing.T) {
		table := buildTable(t)
		schema := []SchemaColumnRef{
			{Name: "disease", Type: "characteristics"},
			{Name: "organism", Type: "characteristics"},
		}

		table.ReorderColumnsBySchema(schema)

		assert.Equal(t, []string{
			"source name", "disease", "organism", "assay name", "instrument", "phenotype",
		}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("schema matching is case-insensitive", func(t *testing.T) {
		table := buildTable(t)
		schema := []SchemaColumnRef{{Name: "Disease", Type: "Characteristics"}}

		table.ReorderColumnsBySchema(schema)

		assert.Equal(t, "disease", table.Columns[1].Name)
	})
}

func TestAddColumnWithAutoReorder(t *testing.T) {
	t.Run("reorders by schema when schema columns exist", func(t *testing.T) {
		table := newTestTable(t)
		table.AddColumn(mustColumn(t, "instrument", "comment"), -1)
		table.AddColumn(mustColumn(t, "source name", "source name"), -1)

		schema := []SchemaColumnRef{{Name: "organism", Type: "characteristics"}}
		table.AddColumnWithAutoReorder(mustColumn(t, "organism", "characteristics"), schema)

		assert.Equal(t, []string{"source name", "organism", "instrument"}, columnNames(table))
		assertDensePositions(t, table)
	})

	t.Run("normalizes when no schema", func(t *testing.T) {
		table := newTestTable(t)
		table.AddColumn(mustColumn(t, "a", "comment"), -1)
		table.AddColumnWithAutoReorder(mustColumn(t, "b", "comment"), nil)

		assert.Equal(t, []string{"a", "b"}, columnNames(table))
		assertDensePositions(t, table)
	})
}

func TestColumnSection(t *testing.T) {
	cases := map[string]ColumnSection{
		"source name":     SectionSourceName,
		"Characteristics": SectionCharacteristics,
		"comment":         SectionComment,
		"factor value":    SectionFactorValue,
		"anything else":   SectionSpecial,
	}

	for colType, want := range cases {
		col := mustColumn(t, "x", colType)
		assert.Equal(t, want, col.Section(), "type %q", colType)
	}
}
