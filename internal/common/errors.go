// Package common defines shared constants and sentinel errors used across
// the Glyph scanning pipeline. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Classification errors (silent, expected on a noisy camera feed).
	ErrNotRecognized    = errors.New("not a glyph payload")
	ErrMalformedPayload = errors.New("malformed payload")

	// Crypto errors. Wrong PIN and a corrupt/tampered ciphertext are
	// deliberately indistinguishable.
	ErrWrongPinOrCorrupt = errors.New("wrong pin or corrupt data")

	// Assembler lifecycle errors.
	ErrBatchIncomplete = errors.New("batch incomplete")
	ErrPinRequired     = errors.New("pin required")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
)
