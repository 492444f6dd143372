// Package ledger builds the order ledger workbook: the append-only
// incremental sync over day or week windows and the two-slot daily
// rotation.
package ledger

import (
	"time"

	"github.com/orderledger-dev/orderledger/internal/segment"
)

// Window is an inclusive date range recorded as one segment.
type Window struct {
	Start time.Time
	End   time.Time
	Kind  segment.Kind
}

// Label renders the window's segment label: the single date for a day, or
// "start-end" for a week (clipped weeks keep their clipped bounds).
func (w Window) Label(layout string) string {
	if w.Kind == segment.Week {
		return w.Start.Format(layout) + "-" + w.End.Format(layout)
	}
	return w.Start.Format(layout)
}

// Months returns the formatted months the window touches, in order. A week
// straddling a month boundary touches two.
func (w Window) Months(layout string) []string {
	first := w.Start.Format(layout)
	last := w.End.Format(layout)
	if first == last {
		return []string{first}
	}
	return []string{first, last}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Partition splits [start, end] into windows of the given granularity.
// Weeks run Monday through Sunday; the first and last weeks are clipped to
// the range.
func Partition(start, end time.Time, kind segment.Kind) []Window {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return nil
	}

	var windows []Window
	if kind == segment.Day {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			windows = append(windows, Window{Start: d, End: d, Kind: segment.Day})
		}
		return windows
	}

	for cur := start; !cur.After(end); {
		weekEnd := sundayOf(cur)
		if weekEnd.After(end) {
			weekEnd = end
		}
		windows = append(windows, Window{Start: cur, End: weekEnd, Kind: segment.Week})
		cur = weekEnd.AddDate(0, 0, 1)
	}
	return windows
}

func sundayOf(d time.Time) time.Time {
	wd := int(d.Weekday()) // Sunday == 0
	if wd == 0 {
		return d
	}
	return d.AddDate(0, 0, 7-wd)
}
