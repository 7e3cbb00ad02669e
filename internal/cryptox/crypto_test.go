package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlab/glyph/internal/common"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
		pin       string
	}{
		{name: "short text", plaintext: []byte("hello from the underground"), pin: "1234"},
		{name: "empty payload", plaintext: []byte{}, pin: "0000"},
		{name: "binary payload", plaintext: bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 500), pin: "987654"},
		{name: "unicode pin", plaintext: []byte("payload"), pin: "пин1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := Encrypt(tt.plaintext, tt.pin)
			require.NoError(t, err)
			require.Greater(t, len(blob), saltSize+nonceSize)

			got, err := Decrypt(blob, tt.pin)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, got)
		})
	}
}

func TestDecrypt_WrongPin(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), "1234")
	require.NoError(t, err)

	got, err := Decrypt(blob, "1235")
	require.ErrorIs(t, err, common.ErrWrongPinOrCorrupt)
	assert.Nil(t, got, "wrong pin must never yield plaintext")
}

func TestDecrypt_TamperedBlob(t *testing.T) {
	blob, err := Encrypt([]byte("secret"), "1234")
	require.NoError(t, err)

	// flip one ciphertext bit
	blob[len(blob)-1] ^= 0x01

	_, err = Decrypt(blob, "1234")
	require.ErrorIs(t, err, common.ErrWrongPinOrCorrupt)
}

func TestDecrypt_TruncatedBlob(t *testing.T) {
	for _, size := range []int{0, 1, saltSize, saltSize + nonceSize - 1} {
		_, err := Decrypt(make([]byte, size), "1234")
		require.ErrorIs(t, err, common.ErrWrongPinOrCorrupt, "size %d", size)
	}
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	a, err := Encrypt([]byte("same input"), "1234")
	require.NoError(t, err)
	b, err := Encrypt([]byte("same input"), "1234")
	require.NoError(t, err)

	assert.NotEqual(t, a[:saltSize], b[:saltSize], "salt must be fresh per call")
	assert.NotEqual(t, a[saltSize:saltSize+nonceSize], b[saltSize:saltSize+nonceSize], "nonce must be fresh per call")
	assert.NotEqual(t, a, b)
}
