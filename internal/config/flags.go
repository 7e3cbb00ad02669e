package config

import (
	"flag"
	"os"

	"github.com/glyphlab/glyph/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-f int      max payload bytes per frame
//	-d string   ledger driver (sqlite|postgres)
//	-dsn string ledger DSN (file path or connection string)
//	-s int      rendered QR PNG size in pixels
//	-o string   output directory for encoded frames
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-d", "-dsn", "-s", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.IntVar(&cfg.MaxFrameBytes, "f", cfg.MaxFrameBytes, "max payload bytes per frame")
	fs.StringVar(&cfg.LedgerDriver, "d", cfg.LedgerDriver, "ledger driver (sqlite|postgres)")
	fs.StringVar(&cfg.LedgerDSN, "dsn", cfg.LedgerDSN, "ledger DSN")
	fs.IntVar(&cfg.QRSize, "s", cfg.QRSize, "QR PNG size in pixels")
	fs.StringVar(&cfg.OutDir, "o", cfg.OutDir, "output directory for encoded frames")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
