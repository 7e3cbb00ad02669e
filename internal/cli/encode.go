package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/glyphlab/glyph/internal/chunker"
	"github.com/glyphlab/glyph/internal/cryptox"
	"github.com/glyphlab/glyph/internal/envelope"
	"github.com/glyphlab/glyph/internal/qrrender"
	"github.com/glyphlab/glyph/internal/randx"
)

// Encode interactively builds a Message and writes its QR frames.
func (a *App) Encode(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Message text", os.Stdout)
	if err != nil {
		return err
	}

	viewerExp, err := GetInt(a.reader, "Self-destruct after opening, seconds (empty = forever)", 0, os.Stdout)
	if err != nil {
		return err
	}

	windowMin, err := GetInt(a.reader, "Code valid for, minutes (empty = no deadline)", 0, os.Stdout)
	if err != nil {
		return err
	}

	m := &envelope.Message{
		Text:                    text,
		ViewerExpirationSeconds: viewerExp,
		CreatedAt:               time.Now().UTC(),
	}
	if windowMin > 0 {
		deadline := time.Now().Add(time.Duration(windowMin) * time.Minute).UTC()
		m.ValidityWindow = &deadline
	}

	return a.emit(ctx, m)
}

// EncodeWeb interactively builds a WebBundle and writes its QR frames.
func (a *App) EncodeWeb(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Bundle title", os.Stdout)
	if err != nil {
		return err
	}
	html, err := GetMultiline(a.reader, "Self-contained HTML", os.Stdout)
	if err != nil {
		return err
	}

	b := &envelope.WebBundle{
		Title:     title,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}
	if err := envelope.ValidateWebBundle(b); err != nil {
		return err
	}

	return a.emit(ctx, b)
}

// emit serializes, optionally encrypts, frames and renders a payload.
func (a *App) emit(ctx context.Context, p envelope.Payload) error {
	pin, err := GetPIN(os.Stdout, "PIN to lock with (empty = no encryption): ")
	if err != nil {
		return err
	}
	defer randx.Wipe(pin)

	body, err := envelope.Marshal(p)
	if err != nil {
		return err
	}

	payload := body
	encrypted := len(pin) > 0
	if encrypted {
		payload, err = cryptox.Encrypt(body, string(pin))
		if err != nil {
			return err
		}
	}

	frames, err := chunker.EncodeStrings(payload, p.PayloadKind(), encrypted, a.config.MaxFrameBytes)
	if err != nil {
		return err
	}

	for i, s := range frames {
		fmt.Printf("[%d/%d] %s\n", i+1, len(frames), s)
	}

	paths, err := qrrender.WriteFiles(a.config.OutDir, frames, a.config.QRSize)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "frames rendered", "count", len(paths), "dir", a.config.OutDir, "encrypted", encrypted)
	fmt.Printf("wrote %d PNG frame(s) to %s\n", len(paths), a.config.OutDir)

	return nil
}
