// Package qrrender turns frame wire strings into QR code images. It sits at
// the renderer boundary of the protocol: the core only requires that a frame
// string round-trips through whatever the display shows.
package qrrender

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/glyphlab/glyph/internal/filex"
)

// DefaultPNGSize is the rendered image edge in pixels.
const DefaultPNGSize = 512

// PNG renders one frame string as a PNG image at medium error correction.
func PNG(frame string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultPNGSize
	}
	qr, err := qrcode.New(frame, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return qr.PNG(size)
}

// WriteFiles renders every frame of a batch into dir as numbered PNG files
// (frame_000.png, frame_001.png, ...) and returns the written paths. The
// display cycles through them in order.
func WriteFiles(dir string, frames []string, size int) ([]string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		png, err := PNG(frame, size)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		if err := os.WriteFile(path, png, 0o664); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
