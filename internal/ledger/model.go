// Package ledger implements the replay/expiration ledger that decides
// whether a fully decoded payload may be shown: it blocks re-scans of
// previously consumed content and rejects payloads whose validity window has
// elapsed.
//
// Entries are keyed by a fingerprint of the raw, still-encoded payload
// string, not the plaintext, so the same physical QR code scanned twice is
// recognized even without decrypting, while two distinct transmissions that
// happen to decrypt to identical text stay distinct.
package ledger

import "time"

// Entry records one consumed scan.
type Entry struct {
	// ID is a globally unique identifier for the entry.
	ID string

	// Fingerprint is the SHA-256 hex digest of the raw encoded payload
	// string. One entry exists per distinct fingerprint.
	Fingerprint string

	// RecordedAt is when the scan was admitted, in UTC.
	RecordedAt time.Time

	// ExpiresAt, when set, is the point after which the entry no longer
	// blocks re-admission and becomes prunable. It derives from the
	// message's own viewer-expiration setting; nil means the entry is
	// kept until explicit maintenance.
	ExpiresAt *time.Time
}

// Expired reports whether the entry has stopped blocking re-admission.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
