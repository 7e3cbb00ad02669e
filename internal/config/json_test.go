package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"max_frame_bytes": 600,
		"ledger_dsn": "custom.db"
	}`), 0o644))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, 600, cfg.MaxFrameBytes, "overlaid")
	assert.Equal(t, "custom.db", cfg.LedgerDSN, "overlaid")
	assert.Equal(t, "sqlite", cfg.LedgerDriver, "default kept when field absent")
	assert.Equal(t, 512, cfg.QRSize, "default kept when field absent")
}

func TestParseJson_NoFileNoChange(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, 800, cfg.MaxFrameBytes)
}
