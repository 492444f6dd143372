// Package grid models a multi-sheet tabular document: ordered sheets of
// ordered rows of scalar cells, with an xlsx file as the persistence
// backend. Segment logic operates on the in-memory model only; the backend
// is interchangeable.
package grid

import "github.com/orderledger-dev/orderledger/internal/record"

// Sheet is an ordered sequence of rows. Row 1 is the header. Rows and
// columns are 1-based, matching the spreadsheet they render to. Rows may be
// ragged; cells beyond a row's length read as empty.
type Sheet struct {
	Name string
	rows [][]record.Value
}

// RowCount returns the number of rows.
func (s *Sheet) RowCount() int {
	return len(s.rows)
}

// Row returns row i (1-based), or nil when out of range.
func (s *Sheet) Row(i int) []record.Value {
	if i < 1 || i > len(s.rows) {
		return nil
	}
	return s.rows[i-1]
}

// Cell returns the value at (row, col), empty when out of range.
func (s *Sheet) Cell(row, col int) record.Value {
	r := s.Row(row)
	if r == nil || col < 1 || col > len(r) {
		return record.Empty()
	}
	return r[col-1]
}

// Header returns row 1 rendered as strings, or nil for an empty sheet.
func (s *Sheet) Header() []string {
	r := s.Row(1)
	if r == nil {
		return nil
	}
	header := make([]string, len(r))
	for i, v := range r {
		header[i] = v.String()
	}
	return header
}

// AppendRow adds a row after the current last row.
func (s *Sheet) AppendRow(row []record.Value) {
	s.rows = append(s.rows, row)
}

// InsertRows inserts n empty rows so that the first occupies position at
// (1-based), shifting existing rows down.
func (s *Sheet) InsertRows(at, n int) {
	if n <= 0 {
		return
	}
	if at < 1 {
		at = 1
	}
	if at > len(s.rows)+1 {
		at = len(s.rows) + 1
	}
	blank := make([][]record.Value, n)
	s.rows = append(s.rows[:at-1], append(blank, s.rows[at-1:]...)...)
}

// DeleteRows removes n rows starting at row start (1-based).
func (s *Sheet) DeleteRows(start, n int) {
	if start < 1 || n <= 0 || start > len(s.rows) {
		return
	}
	end := start - 1 + n
	if end > len(s.rows) {
		end = len(s.rows)
	}
	s.rows = append(s.rows[:start-1], s.rows[end:]...)
}

// SetRow replaces row i (1-based), extending the sheet with empty rows as
// needed.
func (s *Sheet) SetRow(i int, row []record.Value) {
	for len(s.rows) < i {
		s.rows = append(s.rows, nil)
	}
	s.rows[i-1] = row
}

// IsBlankRow reports whether row i has no non-empty cell.
func (s *Sheet) IsBlankRow(i int) bool {
	for _, v := range s.Row(i) {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}

// Snapshot returns the sheet's rows rendered as strings with trailing
// blank rows and cells trimmed. The xlsx backend does not store trailing
// blanks, so this is the stable shape for equality checks.
func (s *Sheet) Snapshot() [][]string {
	last := len(s.rows)
	for last > 0 && s.IsBlankRow(last) {
		last--
	}
	out := make([][]string, last)
	for i := 1; i <= last; i++ {
		row := s.Row(i)
		width := len(row)
		for width > 0 && row[width-1].IsEmpty() {
			width--
		}
		cells := make([]string, width)
		for j := 0; j < width; j++ {
			cells[j] = row[j].String()
		}
		out[i-1] = cells
	}
	return out
}
