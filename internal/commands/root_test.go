package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger-dev/orderledger/internal/config"
	"github.com/orderledger-dev/orderledger/internal/ledger"
	"github.com/orderledger-dev/orderledger/internal/segment"
)

func TestLedgerOptionsDefaultSheetsDisjointFromRotation(t *testing.T) {
	cfg := config.Default("https://api.example.test", "")
	opts := ledgerOptions(cfg)

	// With the shipped defaults, archive segments land on monthly sheets,
	// never on the fixed sheet the rotating daily view owns.
	w := ledger.Window{
		Start: time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
		Kind:  segment.Week,
	}
	names := opts.SheetNames(w)
	require.Equal(t, []string{"2025-10"}, names)
	assert.NotContains(t, names, cfg.Output.Sheet)
}

func TestLedgerOptionsFixedSheet(t *testing.T) {
	cfg := config.Default("https://api.example.test", "")
	cfg.Output.MonthlySheets = false
	opts := ledgerOptions(cfg)

	w := ledger.Window{
		Start: time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		Kind:  segment.Day,
	}
	assert.Equal(t, []string{"OrderItems_ALL"}, opts.SheetNames(w))
}
