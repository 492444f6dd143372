package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orderledger-dev/orderledger/internal/config"
)

func newInitCommand() *cobra.Command {
	var baseURL string
	var apiKey string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new orderledger deployment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, baseURL, apiKey)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "order API base URL (required)")
	_ = cmd.MarkFlagRequired("base-url")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "order API key")

	return cmd
}

func runInit(dir, baseURL, apiKey string) error {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfgPath := filepath.Join(dir, "orderledger.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("config already exists at %s", cfgPath)
	}

	cfg := config.Default(baseURL, apiKey)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized orderledger deployment at %s\n", dir)
	return nil
}
