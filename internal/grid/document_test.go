package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger-dev/orderledger/internal/record"
)

func TestOpenOrCreateNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "orders.xlsx")

	doc, sheet, err := OpenOrCreate(path, "Orders", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Orders"}, doc.SheetNames())
	assert.Equal(t, []string{"A", "B"}, sheet.Header())
	assert.Equal(t, 1, sheet.RowCount())
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	doc, sheet, err := OpenOrCreate(path, "Orders", []string{"Name", "Qty"})
	require.NoError(t, err)
	sheet.AppendRow([]record.Value{record.String("Cube"), record.Int(2)})
	sheet.AppendRow(nil) // spacer
	sheet.AppendRow([]record.Value{record.String("Dice"), record.Parse("3.5")})
	require.NoError(t, doc.Persist(path))

	// Parent dir creation plus atomic rename leaves exactly one file.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := Load(path)
	require.NoError(t, err)
	sheet2, ok := got.Sheet("Orders")
	require.True(t, ok)

	assert.Equal(t, [][]string{
		{"Name", "Qty"},
		{"Cube", "2"},
		{},
		{"Dice", "3.5"},
	}, sheet2.Snapshot())
	// Numeric cells stay numeric across the round trip.
	assert.Equal(t, record.KindNumber, sheet2.Cell(2, 2).Kind())
}

func TestOpenOrCreateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	doc, sheet, err := OpenOrCreate(path, "Orders", []string{"A"})
	require.NoError(t, err)
	sheet.AppendRow([]record.Value{record.String("x")})
	require.NoError(t, doc.Persist(path))

	doc2, sheet2, err := OpenOrCreate(path, "Orders", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, sheet.Snapshot(), sheet2.Snapshot())
	require.NoError(t, doc2.Persist(path))

	doc3, _, err := OpenOrCreate(path, "Orders", []string{"A"})
	require.NoError(t, err)
	s3, _ := doc3.Sheet("Orders")
	assert.Equal(t, sheet.Snapshot(), s3.Snapshot())
}

func TestOpenOrCreateSecondSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")

	doc, _, err := OpenOrCreate(path, "2025-09", []string{"A"})
	require.NoError(t, err)
	require.NoError(t, doc.Persist(path))

	doc2, sheet, err := OpenOrCreate(path, "2025-10", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09", "2025-10"}, doc2.SheetNames())
	assert.Equal(t, []string{"A", "B"}, sheet.Header())
}

func TestPersistKeepsPreviousFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")

	doc, sheet, err := OpenOrCreate(path, "Orders", []string{"A"})
	require.NoError(t, err)
	sheet.AppendRow([]record.Value{record.String("committed")})
	require.NoError(t, doc.Persist(path))

	// A failed write must not disturb the committed file.
	doc2, sheet2, err := OpenOrCreate(path, "Orders", nil)
	require.NoError(t, err)
	sheet2.AppendRow([]record.Value{record.String("lost")})
	require.Error(t, doc2.Persist(filepath.Join(dir, "missing", "\x00bad")))

	got, err := Load(path)
	require.NoError(t, err)
	s, _ := got.Sheet("Orders")
	assert.Equal(t, "committed", s.Cell(2, 1).String())
}

func TestSheetRowOps(t *testing.T) {
	s := &Sheet{Name: "t"}
	s.AppendRow([]record.Value{record.String("h")})
	s.AppendRow([]record.Value{record.String("r1")})
	s.AppendRow([]record.Value{record.String("r2")})

	s.InsertRows(2, 2)
	assert.Equal(t, 5, s.RowCount())
	assert.True(t, s.IsBlankRow(2))
	assert.Equal(t, "r1", s.Cell(4, 1).String())

	s.SetRow(2, []record.Value{record.String("new")})
	assert.Equal(t, "new", s.Cell(2, 1).String())

	s.DeleteRows(2, 2)
	assert.Equal(t, 3, s.RowCount())
	assert.Equal(t, "r1", s.Cell(2, 1).String())

	assert.True(t, s.Cell(99, 1).IsEmpty())
	assert.True(t, s.Cell(1, 99).IsEmpty())
}
