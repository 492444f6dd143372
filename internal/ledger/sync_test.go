package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderledger-dev/orderledger/internal/grid"
	"github.com/orderledger-dev/orderledger/internal/record"
	"github.com/orderledger-dev/orderledger/internal/segment"
)

// fakeFetcher returns one record per requested window and logs every call.
type fakeFetcher struct {
	calls  []string
	failOn map[string]bool
	fields func(start time.Time) record.Record
}

func (f *fakeFetcher) FetchWindow(_ context.Context, start, end time.Time) ([]record.Record, error) {
	key := start.Format("2006.01.02")
	f.calls = append(f.calls, key)
	if f.failOn[key] {
		return nil, fmt.Errorf("provider unavailable")
	}
	if f.fields != nil {
		return []record.Record{f.fields(start)}, nil
	}
	rec := record.New()
	rec.Set("Order_Key", record.String("K-"+key))
	rec.Set("Order_Date", record.String(key))
	return []record.Record{rec}, nil
}

func testOptions(t *testing.T, sheets func(Window) []string) Options {
	t.Helper()
	if sheets == nil {
		sheets = func(Window) []string { return []string{"Orders"} }
	}
	return Options{
		OutputPath:     filepath.Join(t.TempDir(), "orders.xlsx"),
		LabelFormat:    labelFmt,
		SpacerRows:     1,
		SheetNames:     sheets,
		PriorityFields: []string{"Order_Key"},
	}
}

func snapshot(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	doc, err := grid.Load(path)
	require.NoError(t, err)
	s, ok := doc.Sheet(sheet)
	require.True(t, ok)
	return s.Snapshot()
}

func TestSyncWritesOnlyMissingWindows(t *testing.T) {
	fetcher := &fakeFetcher{}
	opts := testOptions(t, nil)
	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	ctx := context.Background()

	// Seed the ledger with everything through 2025-10-12.
	require.NoError(t, syncer.Sync(ctx, date(2025, 9, 1), date(2025, 10, 12), segment.Week))
	require.Len(t, fetcher.calls, 6)

	// Extending the range fetches only the two windows past the seeded
	// ones; the existing segments stay untouched.
	before := snapshot(t, opts.OutputPath, "Orders")
	fetcher.calls = nil
	require.NoError(t, syncer.Sync(ctx, date(2025, 9, 1), date(2025, 10, 20), segment.Week))
	assert.Equal(t, []string{"2025.10.13", "2025.10.20"}, fetcher.calls)

	after := snapshot(t, opts.OutputPath, "Orders")
	assert.Equal(t, before, after[:len(before)])

	doc, err := grid.Load(opts.OutputPath)
	require.NoError(t, err)
	s, _ := doc.Sheet("Orders")
	got := segment.Labels(s, segment.Week)
	assert.True(t, got["2025.10.13-2025.10.19"])
	assert.True(t, got["2025.10.20-2025.10.20"])
}

func TestSyncKeepsSeparatorBetweenRuns(t *testing.T) {
	fetcher := &fakeFetcher{}
	opts := testOptions(t, nil)
	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	ctx := context.Background()

	// Two runs on consecutive weeks: the second appends to a reloaded sheet
	// whose trailing spacer the backend trimmed away.
	require.NoError(t, syncer.Sync(ctx, date(2025, 10, 6), date(2025, 10, 12), segment.Week))
	require.NoError(t, syncer.Sync(ctx, date(2025, 10, 6), date(2025, 10, 19), segment.Week))

	doc, err := grid.Load(opts.OutputPath)
	require.NoError(t, err)
	s, ok := doc.Sheet("Orders")
	require.True(t, ok)

	_, end1, found := segment.FindBounds(s, segment.Week, "2025.10.06-2025.10.12")
	require.True(t, found)
	start2, _, found := segment.FindBounds(s, segment.Week, "2025.10.13-2025.10.19")
	require.True(t, found)

	// One spacer row sits between the first run's segment and the second's.
	assert.True(t, s.IsBlankRow(end1))
	assert.Equal(t, end1+1, start2)
}

func TestSyncIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{}
	opts := testOptions(t, nil)
	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, syncer.Sync(ctx, date(2025, 10, 1), date(2025, 10, 14), segment.Week))
	first := snapshot(t, opts.OutputPath, "Orders")

	fetcher.calls = nil
	require.NoError(t, syncer.Sync(ctx, date(2025, 10, 1), date(2025, 10, 14), segment.Week))

	assert.Empty(t, fetcher.calls, "second run must not fetch anything")
	assert.Equal(t, first, snapshot(t, opts.OutputPath, "Orders"))
}

func TestSyncResumesAfterFailure(t *testing.T) {
	fetcher := &fakeFetcher{failOn: map[string]bool{"2025.10.13": true}}
	opts := testOptions(t, nil)
	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	ctx := context.Background()

	err := syncer.Sync(ctx, date(2025, 10, 6), date(2025, 10, 19), segment.Week)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025.10.13-2025.10.19")

	// The window before the failure is committed.
	committed := snapshot(t, opts.OutputPath, "Orders")
	doc, err := grid.Load(opts.OutputPath)
	require.NoError(t, err)
	s, _ := doc.Sheet("Orders")
	assert.True(t, segment.Labels(s, segment.Week)["2025.10.06-2025.10.12"])
	assert.False(t, segment.Labels(s, segment.Week)["2025.10.13-2025.10.19"])

	// Rerunning fetches only the failed window and leaves the committed
	// one byte for byte in place.
	fetcher.failOn = nil
	fetcher.calls = nil
	require.NoError(t, syncer.Sync(ctx, date(2025, 10, 6), date(2025, 10, 19), segment.Week))
	assert.Equal(t, []string{"2025.10.13"}, fetcher.calls)

	after := snapshot(t, opts.OutputPath, "Orders")
	assert.Equal(t, committed, after[:len(committed)])
}

func TestSyncMonthStraddlingWeek(t *testing.T) {
	fetcher := &fakeFetcher{}
	opts := testOptions(t, func(w Window) []string { return w.Months("2006-01") })
	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	ctx := context.Background()

	// The week 09-29..10-05 straddles the month boundary.
	require.NoError(t, syncer.Sync(ctx, date(2025, 9, 29), date(2025, 10, 5), segment.Week))
	require.Equal(t, []string{"2025.09.29"}, fetcher.calls)

	doc, err := grid.Load(opts.OutputPath)
	require.NoError(t, err)
	for _, name := range []string{"2025-09", "2025-10"} {
		s, ok := doc.Sheet(name)
		require.True(t, ok, "sheet %s", name)
		assert.True(t, segment.Labels(s, segment.Week)["2025.09.29-2025.10.05"], "sheet %s", name)
	}
}

func TestSyncFillsInPartiallyPresentWindow(t *testing.T) {
	fetcher := &fakeFetcher{}
	opts := testOptions(t, func(w Window) []string { return w.Months("2006-01") })
	ctx := context.Background()

	// Simulate an interrupted prior run: the straddling week exists on the
	// September sheet but not the October one.
	writer := &segment.Writer{SpacerRows: opts.SpacerRows, PriorityFields: opts.PriorityFields}
	doc, sheet, err := grid.OpenOrCreate(opts.OutputPath, "2025-09", []string{"Order_Date", "Order_Key"})
	require.NoError(t, err)
	seeded := record.New()
	seeded.Set("Order_Date", record.String("2025.09.29"))
	seeded.Set("Order_Key", record.String("K-2025.09.29"))
	writer.WriteBottom(sheet, segment.Week, "2025.09.29-2025.10.05", []record.Record{seeded})
	require.NoError(t, doc.Persist(opts.OutputPath))

	syncer := NewSyncer(fetcher, opts, zap.NewNop())
	require.NoError(t, syncer.Sync(ctx, date(2025, 9, 29), date(2025, 10, 5), segment.Week))

	// Fetched once, wrote only to the missing sheet.
	assert.Equal(t, []string{"2025.09.29"}, fetcher.calls)
	got, err := grid.Load(opts.OutputPath)
	require.NoError(t, err)

	// The September sheet keeps its original single segment: header,
	// marker, one data row, summary (trailing spacer trimmed on reload).
	sep, _ := got.Sheet("2025-09")
	start, end, found := segment.FindBounds(sep, segment.Week, "2025.09.29-2025.10.05")
	require.True(t, found)
	assert.Equal(t, 2, start)
	assert.Equal(t, sep.RowCount(), end)
	assert.Equal(t, "K-2025.09.29", sep.Cell(3, 2).String())

	oct, ok := got.Sheet("2025-10")
	require.True(t, ok)
	assert.True(t, segment.Labels(oct, segment.Week)["2025.09.29-2025.10.05"])
}
