package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orderledger-dev/orderledger/internal/record"
	"github.com/orderledger-dev/orderledger/internal/segment"
)

// Rotator maintains a two-slot rolling view: the most recent full day and
// the current partial day, newest on top. Older segments are rotated out
// and discarded; this sheet is a view, not an archive.
type Rotator struct {
	fetcher Fetcher
	opts    Options
	writer  *segment.Writer
	log     *zap.Logger
	now     func() time.Time
}

// NewRotator creates a Rotator. now may be nil, defaulting to time.Now.
func NewRotator(fetcher Fetcher, opts Options, log *zap.Logger, now func() time.Time) *Rotator {
	if now == nil {
		now = time.Now
	}
	return &Rotator{fetcher: fetcher, opts: opts, writer: opts.writer(), log: log, now: now}
}

// Run replaces the sheet's day segments with a finalized "yesterday" and a
// partial "today", today's topmost. Yesterday's previous segment was
// necessarily partial when written, so it is deleted and rewritten from a
// fresh fetch. Both fetches complete before the workbook is touched;
// rerunning with unchanged source data reproduces an identical sheet.
func (r *Rotator) Run(ctx context.Context) error {
	today := DateOf(r.now())
	yesterday := today.AddDate(0, 0, -1)
	wToday := Window{Start: today, End: today, Kind: segment.Day}
	wYday := Window{Start: yesterday, End: yesterday, Kind: segment.Day}
	todayLabel := wToday.Label(r.opts.LabelFormat)
	ydayLabel := wYday.Label(r.opts.LabelFormat)

	ydayRecords, err := r.fetcher.FetchWindow(ctx, yesterday, yesterday)
	if err != nil {
		r.log.Error("fetching window failed", zap.String("label", ydayLabel), zap.Error(err))
		return fmt.Errorf("fetching window %s: %w", ydayLabel, err)
	}
	todayRecords, err := r.fetcher.FetchWindow(ctx, today, today)
	if err != nil {
		r.log.Error("fetching window failed", zap.String("label", todayLabel), zap.Error(err))
		return fmt.Errorf("fetching window %s: %w", todayLabel, err)
	}

	doc, err := openDocument(r.opts.OutputPath)
	if err != nil {
		return err
	}
	sheetName := r.opts.SheetNames(wToday)[0]
	sheet := doc.AddSheet(sheetName)

	header := record.UnionHeader(sheet.Header(), ydayRecords, todayRecords)
	ensureHeader(sheet, header)

	// Drop the stale partial yesterday along with anything rotated out,
	// so the sheet ends up holding exactly the two live slots.
	for label := range segment.Labels(sheet, segment.Day) {
		if r.writer.Delete(sheet, segment.Day, label) {
			r.log.Debug("rotated out segment", zap.String("label", label))
		}
	}

	r.writer.WriteTop(sheet, segment.Day, ydayLabel, record.Reindex(ydayRecords, header))
	r.writer.WriteTop(sheet, segment.Day, todayLabel, record.Reindex(todayRecords, header))

	if err := doc.Persist(r.opts.OutputPath); err != nil {
		r.log.Error("persisting rotation failed", zap.String("label", todayLabel), zap.Error(err))
		return fmt.Errorf("persisting rotation: %w", err)
	}
	r.log.Info("rotated day segments",
		zap.String("today", todayLabel),
		zap.String("yesterday", ydayLabel),
		zap.Int("today_records", len(todayRecords)),
		zap.Int("yesterday_records", len(ydayRecords)))
	return nil
}
