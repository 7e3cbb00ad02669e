package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/glyphlab/glyph/internal/cli"
	"github.com/glyphlab/glyph/internal/config"
	"github.com/glyphlab/glyph/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewDefault(os.Stderr, slog.LevelInfo)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)
}
