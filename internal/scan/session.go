// Package scan glues the scanning pipeline together: each raw
// barcode-decoded string is classified once, routed through the assembler
// and crypto layers, and checked against the replay ledger before anything
// reaches the UI.
//
// The UI is a pure observer of the events a Session emits; it owns no
// protocol state of its own. A Session assumes single-writer access; one
// logical sequence of Ingest/TryPIN calls. Concurrent camera streams must
// each own their own Session.
package scan

import (
	"context"
	"errors"

	"github.com/glyphlab/glyph/internal/assembler"
	"github.com/glyphlab/glyph/internal/common"
	"github.com/glyphlab/glyph/internal/envelope"
	"github.com/glyphlab/glyph/internal/ledger"
	"github.com/glyphlab/glyph/internal/logging"
)

// EventType classifies the outcome of ingesting one raw string.
type EventType int

const (
	// EventIgnored: camera noise, malformed frames, foreign batches.
	// Frequent and silent; keep scanning.
	EventIgnored EventType = iota

	// EventProgress: a chunk frame was accepted, batch not yet complete.
	EventProgress

	// EventPINRequired: the payload is fully received but encrypted; the
	// consumer must call TryPIN.
	EventPINRequired

	// EventDecoded: a payload was decoded and admitted by the ledger.
	EventDecoded

	// EventBlocked: the ledger refused the payload (window expired or
	// already consumed).
	EventBlocked

	// EventLogo: the logo-marker sentinel was scanned.
	EventLogo
)

func (e EventType) String() string {
	switch e {
	case EventIgnored:
		return "ignored"
	case EventProgress:
		return "progress"
	case EventPINRequired:
		return "pin required"
	case EventDecoded:
		return "decoded"
	case EventBlocked:
		return "blocked"
	case EventLogo:
		return "logo"
	}
	return "unknown"
}

// Event is what the UI observes after each ingested string.
type Event struct {
	Type EventType

	// Received/Total report assembly progress for EventProgress.
	Received uint
	Total    uint

	// Payload is set for EventDecoded.
	Payload envelope.Payload

	// Reason is set for EventBlocked.
	Reason ledger.Reason
}

// Session drives one scanning interaction from first frame to admitted
// payload.
type Session struct {
	asm    *assembler.Assembler
	ledger *ledger.Service
	log    logging.Logger

	// pending holds a complete single-frame encrypted payload awaiting a
	// PIN; chunked batches pend inside the assembler instead.
	pendingRaw  string
	havePending bool
}

func NewSession(led *ledger.Service, log logging.Logger) *Session {
	return &Session{
		asm:    assembler.New(),
		ledger: led,
		log:    log.With("component", "scan"),
	}
}

// Ingest processes one raw barcode string. It never fails on camera noise;
// errors are returned only for ledger storage problems.
func (s *Session) Ingest(ctx context.Context, raw string) (Event, error) {
	v, ok := envelope.VariantOf(raw)
	if !ok {
		return Event{Type: EventIgnored}, nil
	}

	if v.Logo {
		s.log.Info(ctx, "logo marker scanned")
		return Event{Type: EventLogo}, nil
	}

	if v.Chunk {
		return s.ingestChunk(ctx, raw)
	}

	return s.ingestSingle(ctx, raw, v)
}

func (s *Session) ingestChunk(ctx context.Context, raw string) (Event, error) {
	if !s.asm.Feed(raw) {
		return Event{Type: EventIgnored}, nil
	}

	received, total := s.asm.Progress()
	if s.asm.State() != assembler.StateComplete {
		s.log.Debug(ctx, "frame accepted", "received", received, "total", total)
		return Event{Type: EventProgress, Received: received, Total: total}, nil
	}

	s.log.Info(ctx, "batch complete", "kind", string(s.asm.Kind()), "frames", total)

	if s.asm.Encrypted() {
		return Event{Type: EventPINRequired, Received: received, Total: total}, nil
	}

	p, err := s.asm.Decode()
	if err != nil {
		// a structurally broken payload; drop the batch and keep scanning
		s.log.Warn(ctx, "assembled payload failed to decode", "error", err)
		s.asm.Reset()
		return Event{Type: EventIgnored}, nil
	}
	encoded, err := s.asm.EncodedString()
	if err != nil {
		return Event{Type: EventIgnored}, nil
	}
	return s.admit(ctx, encoded, p)
}

func (s *Session) ingestSingle(ctx context.Context, raw string, v envelope.Variant) (Event, error) {
	if v.Encrypted {
		s.pendingRaw = raw
		s.havePending = true
		return Event{Type: EventPINRequired}, nil
	}

	p, err := envelope.Deserialize(raw)
	if err != nil {
		return Event{Type: EventIgnored}, nil
	}
	return s.admit(ctx, raw, p)
}

// TryPIN attempts to decode a pending encrypted payload with the given PIN.
// common.ErrWrongPinOrCorrupt means the user should clear the input and
// retry; the pending payload is kept.
func (s *Session) TryPIN(ctx context.Context, pin string) (Event, error) {
	switch {
	case s.havePending:
		p, err := envelope.DeserializeEncrypted(s.pendingRaw, pin)
		if err != nil {
			return Event{}, err
		}
		raw := s.pendingRaw
		s.havePending = false
		s.pendingRaw = ""
		return s.admit(ctx, raw, p)

	case s.asm.State() == assembler.StateComplete && s.asm.Encrypted():
		p, err := s.asm.DecodeWithPIN(pin)
		if err != nil {
			return Event{}, err
		}
		encoded, err := s.asm.EncodedString()
		if err != nil {
			return Event{}, err
		}
		return s.admit(ctx, encoded, p)
	}

	return Event{}, common.ErrBatchIncomplete
}

// admit runs the ledger gate and, on success, records the scan.
func (s *Session) admit(ctx context.Context, encoded string, p envelope.Payload) (Event, error) {
	reason, err := s.ledger.ShouldBlock(ctx, encoded, p.ValidityDeadline())
	if err != nil {
		return Event{}, err
	}
	if reason != ledger.ReasonNone {
		s.reset()
		return Event{Type: EventBlocked, Reason: reason}, nil
	}

	if err := s.ledger.RecordScan(ctx, encoded, p.ViewerExpiration()); err != nil {
		return Event{}, err
	}

	s.log.Info(ctx, "payload admitted", "kind", string(p.PayloadKind()))
	s.reset()
	return Event{Type: EventDecoded, Payload: p}, nil
}

// Reset abandons any in-progress assembly or pending PIN prompt.
func (s *Session) Reset() {
	s.reset()
}

func (s *Session) reset() {
	s.asm.Reset()
	s.havePending = false
	s.pendingRaw = ""
}

// Progress mirrors the assembler's observational counters for the UI.
func (s *Session) Progress() (received, total uint) {
	return s.asm.Progress()
}

// PINPending reports whether the session is waiting on a PIN, either for a
// pending single payload or a completed encrypted batch.
func (s *Session) PINPending() bool {
	if s.havePending {
		return true
	}
	return s.asm.State() == assembler.StateComplete && s.asm.Encrypted()
}

// IsWrongPin reports whether err is the retryable wrong-PIN outcome.
func IsWrongPin(err error) bool {
	return errors.Is(err, common.ErrWrongPinOrCorrupt)
}
