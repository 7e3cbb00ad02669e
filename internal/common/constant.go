// Package common contains shared constants and sentinel errors used across
// Glyph components.
package common

// ViewerExpirationForever is the viewer-expiration value meaning the message
// never self-destructs. Ledger entries recorded for such messages are pruned
// only by explicit maintenance, never by time.
const ViewerExpirationForever = 0
