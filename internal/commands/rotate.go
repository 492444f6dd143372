package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orderledger-dev/orderledger/internal/config"
	"github.com/orderledger-dev/orderledger/internal/ledger"
)

func newRotateCommand(g *globalOpts) *cobra.Command {
	var dateOverride string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Refresh the two-slot daily view (yesterday final, today partial)",
		Args:  cobra.NoArgs,
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

			now := time.Now
			if dateOverride != "" {
				d, err := time.Parse(flagDateFormat, dateOverride)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
				now = func() time.Time { return d }
			}

			// The rotating view always lives on the fixed sheet, even when
			// archive sync fans out per month.
			opts := ledgerOptions(cfg)
			opts.SheetNames = func(ledger.Window) []string {
				return []string{cfg.Output.Sheet}
			}

			rotator := ledger.NewRotator(newProvider(cfg, log), opts, log, now)
			return rotator.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&dateOverride, "date", "", "treat this date as today (YYYY-MM-DD)")

	return cmd
}
