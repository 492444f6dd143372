package segment

import (
	"github.com/orderledger-dev/orderledger/internal/grid"
	"github.com/orderledger-dev/orderledger/internal/record"
)

// Writer writes and deletes segments. The estimator parameters feed the
// summary row's distinct-entity count.
type Writer struct {
	PriorityFields  []string
	ExcludeKeywords []string
	SpacerRows      int
}

// WriteTop inserts a segment directly below the header row, shifting every
// existing row down by the block's size. The most recently written segment
// ends up physically topmost.
func (w *Writer) WriteTop(s *grid.Sheet, k Kind, label string, records []record.Record) {
	block := w.block(k, label, records)
	s.InsertRows(2, len(block))
	for i, row := range block {
		s.SetRow(2+i, row)
	}
}

// WriteBottom appends a segment after the sheet's current last row without
// touching existing rows. The xlsx backend stores no trailing blank rows,
// so a reloaded sheet ends at its last segment's summary row; the spacer
// rows are re-appended before the new block to keep segments separated
// across runs.
func (w *Writer) WriteBottom(s *grid.Sheet, k Kind, label string, records []record.Record) {
	if n := s.RowCount(); n > 1 && !s.IsBlankRow(n) {
		for i := 0; i < w.SpacerRows; i++ {
			s.AppendRow(nil)
		}
	}
	for _, row := range w.block(k, label, records) {
		s.AppendRow(row)
	}
}

// Delete removes the segment with the given label, if present, and reports
// whether a deletion occurred.
func (w *Writer) Delete(s *grid.Sheet, k Kind, label string) bool {
	start, end, found := FindBounds(s, k, label)
	if !found {
		return false
	}
	s.DeleteRows(start, end-start+1)
	return true
}

// block renders marker + data rows + summary + spacers.
func (w *Writer) block(k Kind, label string, records []record.Record) [][]record.Value {
	rows := make([][]record.Value, 0, len(records)+2+w.SpacerRows)
	rows = append(rows, []record.Value{record.String(Marker(k, label))})
	for _, rec := range records {
		rows = append(rows, rec.Values())
	}
	count := record.EstimateCount(records, w.PriorityFields, w.ExcludeKeywords)
	rows = append(rows, []record.Value{record.String(k.SummaryLabel()), record.Int(count)})
	for i := 0; i < w.SpacerRows; i++ {
		rows = append(rows, nil)
	}
	return rows
}
