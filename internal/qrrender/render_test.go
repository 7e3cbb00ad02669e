package qrrender

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPNG_ProducesImage(t *testing.T) {
	data, err := PNG("GLYPH:MSG:eyJ0ZXh0IjoiaGkifQ==", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "output must be a PNG")
}

func TestPNG_DefaultSize(t *testing.T) {
	data, err := PNG("GLYPH:LOGO", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	frames := []string{
		"GLYPH:CHK:MSG:0/2:AAAA",
		"GLYPH:CHK:MSG:1/2:BBBB",
	}

	paths, err := WriteFiles(dir, frames, 128)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, "frame_000.png", filepath.Base(paths[0]))
	assert.Equal(t, "frame_001.png", filepath.Base(paths[1]))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	}
}
