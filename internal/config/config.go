// Package config holds runtime settings for the glyph CLI, merged from
// defaults, an optional JSON file, and command-line flags; later sources
// take precedence.
package config

// Config holds runtime settings for the glyph CLI.
//
// Fields:
//   - MaxFrameBytes: payload-slice budget per QR frame; the single knob
//     trading frame count against QR density.
//   - LedgerDriver: "sqlite" (on-device) or "postgres" (shared kiosk store).
//   - LedgerDSN: sqlite file path or postgres connection string.
//   - QRSize: rendered PNG edge in pixels.
//   - OutDir: directory encode writes frame PNGs into.
type Config struct {
	MaxFrameBytes int
	LedgerDriver  string
	LedgerDSN     string
	QRSize        int
	OutDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.MaxFrameBytes = 800
	c.LedgerDriver = "sqlite"
	c.LedgerDSN = "glyph-ledger.db"
	c.QRSize = 512
	c.OutDir = "glyph-out"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
