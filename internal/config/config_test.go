package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, 800, c.MaxFrameBytes)
	assert.Equal(t, "sqlite", c.LedgerDriver)
	assert.Equal(t, "glyph-ledger.db", c.LedgerDSN)
	assert.Equal(t, 512, c.QRSize)
	assert.Equal(t, "glyph-out", c.OutDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 800, cfg.MaxFrameBytes)
	assert.Equal(t, "sqlite", cfg.LedgerDriver)
}
