// Package assembler implements the receiver-side state machine that
// reconstructs a payload from chunk frames arriving in arbitrary order, with
// duplicates, from an untrusted camera feed.
//
// Lifecycle: Empty → Collecting (first frame fixes total and kind) →
// Complete (all indices held) → Reset() → Empty. The assembler is built for
// single-writer access; concurrent producers must each own their own
// instance.
package assembler

import (
	"github.com/glyphlab/glyph/internal/chunker"
	"github.com/glyphlab/glyph/internal/common"
	"github.com/glyphlab/glyph/internal/cryptox"
	"github.com/glyphlab/glyph/internal/envelope"
)

// State is the assembler's externally observable phase.
type State int

const (
	StateEmpty State = iota
	StateCollecting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCollecting:
		return "collecting"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Assembler collects chunk frames for one batch. The zero value is not
// usable; call New.
type Assembler struct {
	total     uint // 0 while no frame has been seen
	kind      envelope.Kind
	encrypted bool

	received uint
	have     []bool
	slots    [][]byte

	// body is the decrypted (or plaintext) JSON payload, cached after the
	// first successful decode.
	body []byte
}

func New() *Assembler {
	return &Assembler{}
}

// Feed ingests one raw scanned string. It returns false for anything that is
// not a usable chunk frame of the adopted batch: unrelated camera noise,
// structurally broken frames, and frames claiming a different total or kind
// mid-batch are all silently ignored. Re-receiving an already-held index is
// a no-op returning true, since the sender's QR display cycles continuously.
func (a *Assembler) Feed(raw string) bool {
	f, err := chunker.ParseFrame(raw)
	if err != nil {
		return false
	}

	if a.total == 0 {
		// first frame adopts total and kind for the whole batch
		a.total = f.Total
		a.kind = f.Kind
		a.encrypted = f.Encrypted
		a.slots = make([][]byte, f.Total)
		a.have = make([]bool, f.Total)
	} else if f.Total != a.total || f.Kind != a.kind || f.Encrypted != a.encrypted {
		// a different concurrent broadcast; this assembler tracks one batch
		return false
	}

	if !a.have[f.Index] {
		a.have[f.Index] = true
		a.slots[f.Index] = f.Bytes
		a.received++
	}
	return true
}

// State reports the current lifecycle phase.
func (a *Assembler) State() State {
	switch {
	case a.total == 0:
		return StateEmpty
	case a.received == a.total:
		return StateComplete
	default:
		return StateCollecting
	}
}

// Progress reports how many distinct frames are held and how many the batch
// needs. Total is 0 while no frame has been seen. Purely observational.
func (a *Assembler) Progress() (received, total uint) {
	return a.received, a.total
}

// Kind reports the payload kind adopted from the first frame.
func (a *Assembler) Kind() envelope.Kind { return a.kind }

// Encrypted reports whether the adopted batch carries an encrypted payload.
func (a *Assembler) Encrypted() bool { return a.encrypted }

// Reset discards all state unconditionally, returning to Empty. It is the
// only cancellation primitive; frames are additive and idempotent, so there
// is nothing to roll back.
func (a *Assembler) Reset() {
	*a = Assembler{}
}

// Payload returns the reassembled payload bytes (still encrypted for
// encrypted batches). It fails with common.ErrBatchIncomplete before every
// index 0..total-1 has been received.
func (a *Assembler) Payload() ([]byte, error) {
	if a.State() != StateComplete {
		return nil, common.ErrBatchIncomplete
	}
	size := 0
	for _, s := range a.slots {
		size += len(s)
	}
	joined := make([]byte, 0, size)
	for _, s := range a.slots {
		joined = append(joined, s...)
	}
	return joined, nil
}

// EncodedString returns the canonical single-payload wire string for the
// reassembled batch. It is identical to what a non-chunked transmission of
// the same payload would look like, which makes it the fingerprint input for
// the replay ledger regardless of how the payload arrived.
func (a *Assembler) EncodedString() (string, error) {
	payload, err := a.Payload()
	if err != nil {
		return "", err
	}
	return envelope.Encode(a.kind, a.encrypted, payload)
}

// Decode parses the reassembled plaintext payload. Encrypted batches fail
// with common.ErrPinRequired; completion is still observable via State, and
// the consumer supplies the PIN through DecodeWithPIN.
func (a *Assembler) Decode() (envelope.Payload, error) {
	if a.encrypted {
		if a.body == nil {
			return nil, common.ErrPinRequired
		}
		return envelope.Unmarshal(a.kind, a.body)
	}
	payload, err := a.Payload()
	if err != nil {
		return nil, err
	}
	return envelope.Unmarshal(a.kind, payload)
}

// DecodeWithPIN decrypts and parses the reassembled encrypted payload. On
// common.ErrWrongPinOrCorrupt the assembled state is kept so the user can
// retry with another PIN. A successful decrypt is cached, after which Decode
// works without the PIN.
func (a *Assembler) DecodeWithPIN(pin string) (envelope.Payload, error) {
	if !a.encrypted {
		return a.Decode()
	}
	if a.body == nil {
		blob, err := a.Payload()
		if err != nil {
			return nil, err
		}
		body, err := cryptox.Decrypt(blob, pin)
		if err != nil {
			return nil, err
		}
		a.body = body
	}
	return envelope.Unmarshal(a.kind, a.body)
}
