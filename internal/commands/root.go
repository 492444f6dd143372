// Package commands wires the CLI: init, sync, rotate, export.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orderledger-dev/orderledger/internal/buildinfo"
	"github.com/orderledger-dev/orderledger/internal/config"
	"github.com/orderledger-dev/orderledger/internal/ledger"
	"github.com/orderledger-dev/orderledger/internal/provider"
)

type globalOpts struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:     "orderledger",
		Short:   "Incremental order ledger workbook builder",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "orderledger.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSyncCommand(opts))
	rootCmd.AddCommand(newRotateCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func newProvider(cfg *config.Config, log *zap.Logger) *provider.Client {
	columns := make([]provider.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		columns[i] = provider.Column{Name: c.Name, Path: c.Path}
	}
	return provider.New(provider.Config{
		BaseURL:            cfg.Provider.BaseURL,
		APIKey:             cfg.Provider.APIKey,
		PageSize:           cfg.Provider.PageSize,
		Timeout:            time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		DateFormat:         cfg.Provider.DateFormat,
		Columns:            columns,
		AllowedGroups:      cfg.Filters.AllowedGroups,
		SkipItemSubstrings: cfg.Filters.SkipItemSubstrings,
	}, log)
}

func ledgerOptions(cfg *config.Config) ledger.Options {
	sheetNames := func(ledger.Window) []string {
		return []string{cfg.Output.Sheet}
	}
	if cfg.Output.MonthlySheets {
		layout := cfg.Output.SheetLayout
		sheetNames = func(w ledger.Window) []string {
			return w.Months(layout)
		}
	}
	return ledger.Options{
		OutputPath:      cfg.Output.Path,
		LabelFormat:     cfg.Window.LabelFormat,
		SpacerRows:      cfg.Window.SpacerRows,
		SheetNames:      sheetNames,
		PriorityFields:  cfg.Estimate.PriorityFields,
		ExcludeKeywords: cfg.Estimate.ExcludeKeywords,
	}
}
