package config

import (
	"encoding/json"
	"os"

	"github.com/glyphlab/glyph/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the corresponding Config field untouched.
type JsonConfig struct {
	MaxFrameBytes int    `json:"max_frame_bytes"`
	LedgerDriver  string `json:"ledger_driver"`
	LedgerDSN     string `json:"ledger_dsn"`
	QRSize        int    `json:"qr_size"`
	OutDir        string `json:"out_dir"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// comes from the -c/-config flags. No file, no overlay. Read or unmarshal
// errors panic; the process cannot do anything useful with a broken config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.MaxFrameBytes > 0 {
		cfg.MaxFrameBytes = jc.MaxFrameBytes
	}
	if jc.LedgerDriver != "" {
		cfg.LedgerDriver = jc.LedgerDriver
	}
	if jc.LedgerDSN != "" {
		cfg.LedgerDSN = jc.LedgerDSN
	}
	if jc.QRSize > 0 {
		cfg.QRSize = jc.QRSize
	}
	if jc.OutDir != "" {
		cfg.OutDir = jc.OutDir
	}
}
