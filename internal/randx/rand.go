// Package randx provides helpers for cryptographically random byte material
// and secure memory wiping.
package randx

import (
	"crypto/rand"
)

// Bytes returns size cryptographically random bytes. It panics if the system
// random source fails, which on supported platforms does not happen in
// practice.
func Bytes(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// Wipe overwrites the contents of b with zeros. Use it to remove PINs and
// derived keys from memory once they are no longer needed.
//
// A nil slice is a no-op.
func Wipe(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
