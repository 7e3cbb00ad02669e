// Package cli implements the interactive glyph tool: encoding payloads into
// QR frames and driving a scan session from pasted frame strings.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/glyphlab/glyph/internal/config"
	"github.com/glyphlab/glyph/internal/ledger"
	"github.com/glyphlab/glyph/internal/logging"
	"github.com/glyphlab/glyph/internal/scan"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	ledger  *ledger.Service
	session *scan.Session
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	var (
		db   *sql.DB
		repo ledger.Repository
		err  error
	)

	switch cfg.LedgerDriver {
	case "sqlite":
		db, err = ledger.OpenSQLite(ctx, cfg.LedgerDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		repo = ledger.NewSQLiteRepository(db)
	case "postgres":
		db, err = ledger.OpenPostgres(ctx, cfg.LedgerDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres ledger: %w", err)
		}
		repo = ledger.NewPostgresRepository(db)
	case "memory":
		repo = ledger.NewMemoryRepository()
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.LedgerDriver)
	}

	svc := ledger.NewService(repo, log)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		ledger:  svc,
		session: scan.NewSession(svc, log),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Run starts a simple read-eval loop. Commands:
//
//	encode: build a message and emit its QR frame strings and PNGs
//	web:    build a web bundle and emit its frames
//	scan:   paste raw frame strings, one per line
//	prune:  drop expired ledger entries
//	exit:   leave
func (a *App) Run(ctx context.Context) {
	fmt.Println("glyph. commands: encode, web, scan, prune, exit")

	for {
		fmt.Print("> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "encode":
			if err := a.Encode(ctx); err != nil {
				fmt.Printf("encode failed: %v\n", err)
			}
		case "web":
			if err := a.EncodeWeb(ctx); err != nil {
				fmt.Printf("web encode failed: %v\n", err)
			}
		case "scan":
			if err := a.Scan(ctx); err != nil {
				fmt.Printf("scan failed: %v\n", err)
			}
		case "prune":
			n, err := a.ledger.Prune(ctx)
			if err != nil {
				fmt.Printf("prune failed: %v\n", err)
				continue
			}
			fmt.Printf("pruned %d expired entries\n", n)
		case "exit", "quit":
			return
		case "help":
			fmt.Println("commands: encode, web, scan, prune, exit")
		default:
			fmt.Println("unknown command; try help")
		}
	}
}
