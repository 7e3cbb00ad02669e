// Package chunker splits a serialized (and possibly encrypted) payload into
// QR-sized frames and renders/parses the chunk-frame wire encoding.
//
// Frame strings look like
//
//	GLYPH:CHK:MSG:2/4:<base64 slice>
//
// where the three-letter code names the inner payload kind, and index/total
// describe the frame's position in the batch. Concatenating the slices of
// frames 0..total-1 in index order reproduces the original payload bytes.
package chunker

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/glyphlab/glyph/internal/common"
	"github.com/glyphlab/glyph/internal/envelope"
)

// DefaultMaxFrameBytes bounds the payload slice per frame. It is the single
// knob trading frame count against QR module density: 800 payload bytes
// plus header and base64 expansion lands near QR version 25-30 at medium
// error correction, which a phone camera still reads reliably at arm's
// length. Raising it means fewer but harder-to-scan codes.
const DefaultMaxFrameBytes = 800

// MaxFrames caps how many frames one logical payload may span. Payloads
// needing more do not fit the continuous-cycling display model.
const MaxFrames = 256

// Frame is one contiguous slice of a serialized payload, self-describing
// enough that an out-of-order arrival is independently routable.
type Frame struct {
	Index     uint
	Total     uint
	Kind      envelope.Kind
	Encrypted bool
	Bytes     []byte
}

// Split partitions payload into ceil(len/maxFrameBytes) contiguous frames in
// order. A payload that fits in one frame yields a single frame with
// Total == 1. maxFrameBytes <= 0 falls back to DefaultMaxFrameBytes.
func Split(payload []byte, kind envelope.Kind, encrypted bool, maxFrameBytes int) ([]Frame, error) {
	if maxFrameBytes <= 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}
	if _, ok := envelope.KindCode(kind, encrypted); !ok {
		return nil, fmt.Errorf("split: unknown kind %q", kind)
	}

	total := (len(payload) + maxFrameBytes - 1) / maxFrameBytes
	if total == 0 {
		total = 1
	}
	if total > MaxFrames {
		return nil, fmt.Errorf("split: payload needs %d frames, limit is %d", total, MaxFrames)
	}

	frames := make([]Frame, 0, total)
	for i := 0; i < total; i++ {
		lo := i * maxFrameBytes
		hi := lo + maxFrameBytes
		if hi > len(payload) {
			hi = len(payload)
		}
		frames = append(frames, Frame{
			Index:     uint(i),
			Total:     uint(total),
			Kind:      kind,
			Encrypted: encrypted,
			Bytes:     payload[lo:hi],
		})
	}
	return frames, nil
}

// RenderFrame produces the QR-encodable wire string for one frame.
func RenderFrame(f Frame) (string, error) {
	code, ok := envelope.KindCode(f.Kind, f.Encrypted)
	if !ok {
		return "", fmt.Errorf("render: unknown kind %q", f.Kind)
	}
	tag := envelope.TagChunk
	if f.Encrypted {
		tag = envelope.TagChunkEncrypted
	}
	return fmt.Sprintf("%s%s:%d/%d:%s", tag, code, f.Index, f.Total,
		base64.StdEncoding.EncodeToString(f.Bytes)), nil
}

// RenderAll renders every frame of a batch.
func RenderAll(frames []Frame) ([]string, error) {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		s, err := RenderFrame(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseFrame parses a chunk-frame wire string. Strings that are not chunk
// frames at all yield common.ErrNotRecognized; chunk frames with a broken
// header or body yield common.ErrMalformedPayload. The camera feed is noisy
// by nature, so callers are expected to ignore both silently.
func ParseFrame(s string) (*Frame, error) {
	v, ok := envelope.VariantOf(s)
	if !ok || !v.Chunk {
		return nil, common.ErrNotRecognized
	}

	// tag and kind code are already validated by VariantOf;
	// rest is "<index>/<total>:<base64>"
	rest := s[len(envelope.TagChunk)+4:]

	head, body, found := strings.Cut(rest, ":")
	if !found {
		return nil, common.ErrMalformedPayload
	}
	idxStr, totalStr, found := strings.Cut(head, "/")
	if !found {
		return nil, common.ErrMalformedPayload
	}

	index, err := strconv.ParseUint(idxStr, 10, 32)
	if err != nil {
		return nil, common.ErrMalformedPayload
	}
	total, err := strconv.ParseUint(totalStr, 10, 32)
	if err != nil {
		return nil, common.ErrMalformedPayload
	}
	if total == 0 || total > MaxFrames || index >= total {
		return nil, common.ErrMalformedPayload
	}

	slice, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, common.ErrMalformedPayload
	}

	return &Frame{
		Index:     uint(index),
		Total:     uint(total),
		Kind:      v.Kind,
		Encrypted: v.Encrypted,
		Bytes:     slice,
	}, nil
}

// EncodeStrings serializes payload into its wire strings: the single-payload
// encoding when it fits one frame, chunk frames otherwise. This is the
// sender-side entry point.
func EncodeStrings(payload []byte, kind envelope.Kind, encrypted bool, maxFrameBytes int) ([]string, error) {
	if maxFrameBytes <= 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}
	if len(payload) <= maxFrameBytes {
		s, err := envelope.Encode(kind, encrypted, payload)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	frames, err := Split(payload, kind, encrypted, maxFrameBytes)
	if err != nil {
		return nil, err
	}
	return RenderAll(frames)
}
