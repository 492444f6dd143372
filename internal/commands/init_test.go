package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderledger-dev/orderledger/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runInit(dir, "https://api.example.test/shop/1", "key-1"))

	cfg, err := config.Load(filepath.Join(dir, "orderledger.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test/shop/1", cfg.Provider.BaseURL)
	assert.Equal(t, "key-1", cfg.Provider.APIKey)

	info, err := os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "https://api.example.test", ""))

	err := runInit(dir, "https://api.example.test", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
