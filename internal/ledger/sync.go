package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/orderledger-dev/orderledger/internal/grid"
	"github.com/orderledger-dev/orderledger/internal/record"
	"github.com/orderledger-dev/orderledger/internal/segment"
)

// Fetcher is the external record provider. Pagination and per-record
// detail lookups are the provider's concern; one call returns the full
// flat record set for the window.
type Fetcher interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]record.Record, error)
}

// Options configures where and how segments are written.
type Options struct {
	OutputPath      string
	LabelFormat     string
	SpacerRows      int
	SheetNames      func(Window) []string
	PriorityFields  []string
	ExcludeKeywords []string
}

func (o Options) writer() *segment.Writer {
	return &segment.Writer{
		PriorityFields:  o.PriorityFields,
		ExcludeKeywords: o.ExcludeKeywords,
		SpacerRows:      o.SpacerRows,
	}
}

// Syncer appends missing windows to the ledger workbook. Windows already
// recorded on every sheet they touch are skipped, which makes a run both
// idempotent and resumable: an interrupted run picks up at the first window
// not yet fully recorded.
type Syncer struct {
	fetcher Fetcher
	opts    Options
	writer  *segment.Writer
	log     *zap.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(fetcher Fetcher, opts Options, log *zap.Logger) *Syncer {
	return &Syncer{fetcher: fetcher, opts: opts, writer: opts.writer(), log: log}
}

// Sync partitions [from, to] at the given granularity and commits every
// window not yet present. The workbook is persisted after each window, so
// a failure loses at most the window in flight.
func (s *Syncer) Sync(ctx context.Context, from, to time.Time, kind segment.Kind) error {
	doc, err := openDocument(s.opts.OutputPath)
	if err != nil {
		return err
	}

	for _, w := range Partition(from, to, kind) {
		label := w.Label(s.opts.LabelFormat)

		var missing []string
		for _, name := range s.opts.SheetNames(w) {
			sheet, ok := doc.Sheet(name)
			if !ok || !segment.Labels(sheet, kind)[label] {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			s.log.Debug("window already recorded", zap.String("label", label))
			continue
		}

		records, err := s.fetcher.FetchWindow(ctx, w.Start, w.End)
		if err != nil {
			s.log.Error("fetching window failed", zap.String("label", label), zap.Error(err))
			return fmt.Errorf("fetching window %s: %w", label, err)
		}

		for _, name := range missing {
			sheet := doc.AddSheet(name)
			header := record.UnionHeader(sheet.Header(), records)
			ensureHeader(sheet, header)
			s.writer.WriteBottom(sheet, kind, label, record.Reindex(records, header))
		}

		if err := doc.Persist(s.opts.OutputPath); err != nil {
			s.log.Error("persisting window failed", zap.String("label", label), zap.Error(err))
			return fmt.Errorf("persisting window %s: %w", label, err)
		}
		s.log.Info("window committed",
			zap.String("label", label),
			zap.Int("records", len(records)),
			zap.Strings("sheets", missing))
	}
	return nil
}

func openDocument(path string) (*grid.Document, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return grid.NewDocument(), nil
	} else if err != nil {
		return nil, fmt.Errorf("checking workbook %s: %w", path, err)
	}
	return grid.Load(path)
}

func ensureHeader(sheet *grid.Sheet, header []string) {
	if sheet.RowCount() > 0 {
		return
	}
	row := make([]record.Value, len(header))
	for i, col := range header {
		row[i] = record.String(col)
	}
	sheet.AppendRow(row)
}
