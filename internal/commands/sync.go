package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orderledger-dev/orderledger/internal/config"
	"github.com/orderledger-dev/orderledger/internal/ledger"
	"github.com/orderledger-dev/orderledger/internal/segment"
)

const flagDateFormat = "2006-01-02"

func newSyncCommand(g *globalOpts) *cobra.Command {
	var from, to, granularity string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Append missing time windows to the ledger workbook",
		Long: "Partitions the requested range into day or week windows, fetches the\n" +
			"windows not yet recorded, and appends them as labeled segments. Windows\n" +
			"already present on every sheet they touch are left untouched, so the\n" +
			"command can be rerun or resumed safely.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(g.verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			kind, err := parseGranularity(granularity)
			if err != nil {
				return err
			}
			start, end, err := syncRange(from, to, kind, cfg.Window.LookbackWeeks, time.Now())
			if err != nil {
				return err
			}

			syncer := ledger.NewSyncer(newProvider(cfg, log), ledgerOptions(cfg), log)
			return syncer.Sync(cmd.Context(), start, end, kind)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD, default: lookback window)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD, default: last completed window)")
	cmd.Flags().StringVar(&granularity, "granularity", "week", "window granularity: day or week")

	return cmd
}

func parseGranularity(s string) (segment.Kind, error) {
	switch s {
	case "day":
		return segment.Day, nil
	case "week":
		return segment.Week, nil
	default:
		return 0, fmt.Errorf("unknown granularity %q (want day or week)", s)
	}
}

// syncRange resolves the sync window. Without explicit bounds it covers
// only completed windows: through yesterday for days, through the most
// recent Sunday for weeks, reaching back lookbackWeeks weeks.
func syncRange(from, to string, kind segment.Kind, lookbackWeeks int, now time.Time) (time.Time, time.Time, error) {
	if lookbackWeeks <= 0 {
		lookbackWeeks = 14
	}

	var start, end time.Time
	var err error

	if to != "" {
		end, err = time.Parse(flagDateFormat, to)
		if err != nil {
			return start, end, fmt.Errorf("parsing --to: %w", err)
		}
	} else {
		today := ledger.DateOf(now)
		if kind == segment.Week {
			end = lastSunday(today)
		} else {
			end = today.AddDate(0, 0, -1)
		}
	}

	if from != "" {
		start, err = time.Parse(flagDateFormat, from)
		if err != nil {
			return start, end, fmt.Errorf("parsing --from: %w", err)
		}
	} else {
		start = end.AddDate(0, 0, -(lookbackWeeks*7 - 1))
	}

	if end.Before(start) {
		return start, end, fmt.Errorf("range end %s is before start %s",
			end.Format(flagDateFormat), start.Format(flagDateFormat))
	}
	return start, end, nil
}

// lastSunday returns the most recent Sunday strictly before today.
func lastSunday(today time.Time) time.Time {
	d := today.AddDate(0, 0, -1)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
