// Package cryptox implements the PIN-gated encryption layer of the Glyph
// wire format.
//
// A short human-entered PIN is stretched through Argon2id with a random
// per-message salt into a 256-bit AES key; the payload is sealed with
// AES-GCM under a random per-message nonce. Salt and nonce travel inline
// with the ciphertext:
//
//	blob = salt(16) || nonce(12) || ciphertext+tag
//
// No salt, nonce or derived key is ever reused across two Encrypt calls,
// even for the same PIN. Decrypt reports a single error for both a wrong
// PIN and a tampered blob: telling them apart would help a PIN-guessing
// attacker.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/glyphlab/glyph/internal/common"
	"github.com/glyphlab/glyph/internal/randx"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// Argon2id parameters. time=1 with 64 MiB of memory keeps a single
	// derivation in the tens-of-milliseconds range on a phone-class CPU,
	// which is the brute-force resistance the PIN needs.
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

func deriveKey(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, argonTime, argonMemory, argonThreads, keySize)
}

// Encrypt seals plaintext under a key derived from pin and returns the
// self-contained blob described in the package comment.
func Encrypt(plaintext []byte, pin string) ([]byte, error) {
	salt := randx.Bytes(saltSize)
	nonce := randx.Bytes(nonceSize)

	key := deriveKey(pin, salt)
	defer randx.Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	blob := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aesgcm.Seal(blob, nonce, plaintext, nil)

	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. It returns
// common.ErrWrongPinOrCorrupt when the PIN is wrong or the blob has been
// truncated or tampered with; the two cases are not distinguished.
func Decrypt(blob []byte, pin string) ([]byte, error) {
	if len(blob) < saltSize+nonceSize {
		return nil, common.ErrWrongPinOrCorrupt
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	key := deriveKey(pin, salt)
	defer randx.Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrWrongPinOrCorrupt
	}

	return plaintext, nil
}
