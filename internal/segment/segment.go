// Package segment places labeled, contiguous blocks of rows (marker + data
// + summary + spacers) on a sheet and finds them again by label.
package segment

import (
	"strings"

	"github.com/orderledger-dev/orderledger/internal/grid"
)

// Kind distinguishes daily from weekly segments.
type Kind int

const (
	Day Kind = iota
	Week
)

// String returns the kind's marker word.
func (k Kind) String() string {
	if k == Week {
		return "Week"
	}
	return "Day"
}

// Prefix returns the reserved marker prefix for the kind.
func (k Kind) Prefix() string {
	return k.String() + ": "
}

// SummaryLabel returns the first-column label of the kind's summary row.
func (k Kind) SummaryLabel() string {
	if k == Week {
		return "Orders in week:"
	}
	return "Orders on day:"
}

// Marker returns the full marker string for a labeled segment, e.g.
// "Day: 2025.10.05" or "Week: 2025.09.29-2025.10.05".
func Marker(k Kind, label string) string {
	return k.Prefix() + label
}

// FindBounds scans column 1 top to bottom for the exact marker of (kind,
// label). It returns the 1-based row range of the segment: start is the
// marker row, end is the row before the next marker of the same kind, or
// the sheet's last row when none follows.
func FindBounds(s *grid.Sheet, k Kind, label string) (start, end int, found bool) {
	marker := Marker(k, label)
	for r := 1; r <= s.RowCount(); r++ {
		if s.Cell(r, 1).String() == marker {
			start = r
			break
		}
	}
	if start == 0 {
		return 0, 0, false
	}

	end = s.RowCount()
	for r := start + 1; r <= s.RowCount(); r++ {
		if strings.HasPrefix(s.Cell(r, 1).String(), k.Prefix()) {
			end = r - 1
			break
		}
	}
	return start, end, true
}

// Labels returns the set of labels of the given kind present on the sheet.
func Labels(s *grid.Sheet, k Kind) map[string]bool {
	labels := make(map[string]bool)
	for r := 1; r <= s.RowCount(); r++ {
		cell := s.Cell(r, 1).String()
		if strings.HasPrefix(cell, k.Prefix()) {
			labels[strings.TrimPrefix(cell, k.Prefix())] = true
		}
	}
	return labels
}
