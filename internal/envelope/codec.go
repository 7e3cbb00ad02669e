package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glyphlab/glyph/internal/common"
	"github.com/glyphlab/glyph/internal/cryptox"
)

// Wire tags. Each tag is prefix-distinguishable from every other by direct
// string comparison; the three-letter code after "GLYPH:" is unique per
// variant and LOGO is matched as an exact full string.
const (
	TagMessage            = "GLYPH:MSG:"
	TagMessageEncrypted   = "GLYPH:SEC:"
	TagWebBundle          = "GLYPH:WEB:"
	TagWebBundleEncrypted = "GLYPH:WBE:"
	TagSurvey             = "GLYPH:SRV:"
	TagSurveyEncrypted    = "GLYPH:SRE:"
	TagChunk              = "GLYPH:CHK:"
	TagChunkEncrypted     = "GLYPH:CHE:"

	// LogoMarker is a fixed sentinel with no payload, used purely as an
	// easter-egg trigger.
	LogoMarker = "GLYPH:LOGO"
)

const tagLen = len(TagMessage)

// kindCode is the three-letter code identifying a payload kind plus its
// security mode, as embedded in chunk-frame headers.
var kindCodes = map[Kind][2]string{
	KindMessage:   {"MSG", "SEC"},
	KindWebBundle: {"WEB", "WBE"},
	KindSurvey:    {"SRV", "SRE"},
}

// KindCode returns the three-letter wire code for a kind/security-mode pair.
func KindCode(k Kind, encrypted bool) (string, bool) {
	codes, ok := kindCodes[k]
	if !ok {
		return "", false
	}
	if encrypted {
		return codes[1], true
	}
	return codes[0], true
}

// KindFromCode is the inverse of KindCode.
func KindFromCode(code string) (k Kind, encrypted bool, ok bool) {
	switch code {
	case "MSG":
		return KindMessage, false, true
	case "SEC":
		return KindMessage, true, true
	case "WEB":
		return KindWebBundle, false, true
	case "WBE":
		return KindWebBundle, true, true
	case "SRV":
		return KindSurvey, false, true
	case "SRE":
		return KindSurvey, true, true
	}
	return "", false, false
}

// VariantOf classifies a scanned string by inspecting only its tag. The
// second return value is false for anything that is not a Glyph payload,
// which is the normal, frequent case on a camera feed: this path must stay
// cheap and must never error.
func VariantOf(s string) (Variant, bool) {
	if s == LogoMarker {
		return Variant{Logo: true}, true
	}
	if len(s) < tagLen || !strings.HasPrefix(s, "GLYPH:") {
		return Variant{}, false
	}

	switch s[:tagLen] {
	case TagMessage:
		return Variant{Kind: KindMessage}, true
	case TagMessageEncrypted:
		return Variant{Kind: KindMessage, Encrypted: true}, true
	case TagWebBundle:
		return Variant{Kind: KindWebBundle}, true
	case TagWebBundleEncrypted:
		return Variant{Kind: KindWebBundle, Encrypted: true}, true
	case TagSurvey:
		return Variant{Kind: KindSurvey}, true
	case TagSurveyEncrypted:
		return Variant{Kind: KindSurvey, Encrypted: true}, true
	case TagChunk, TagChunkEncrypted:
		outerEncrypted := s[:tagLen] == TagChunkEncrypted
		// The chunk header embeds the inner kind code right after the tag.
		if len(s) < tagLen+4 || s[tagLen+3] != ':' {
			return Variant{}, false
		}
		kind, encrypted, ok := KindFromCode(s[tagLen : tagLen+3])
		if !ok || encrypted != outerEncrypted {
			return Variant{}, false
		}
		return Variant{Kind: kind, Encrypted: encrypted, Chunk: true}, true
	}
	return Variant{}, false
}

// Marshal produces the JSON body of a payload; this is the byte stream that
// gets encrypted and/or chunked.
func Marshal(p Payload) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", p.PayloadKind(), err)
	}
	return b, nil
}

// Encode wraps already-serialized (and possibly encrypted) payload bytes in
// the single-payload tag for the given kind and security mode.
func Encode(kind Kind, encrypted bool, body []byte) (string, error) {
	var tag string
	switch {
	case kind == KindMessage && !encrypted:
		tag = TagMessage
	case kind == KindMessage && encrypted:
		tag = TagMessageEncrypted
	case kind == KindWebBundle && !encrypted:
		tag = TagWebBundle
	case kind == KindWebBundle && encrypted:
		tag = TagWebBundleEncrypted
	case kind == KindSurvey && !encrypted:
		tag = TagSurvey
	case kind == KindSurvey && encrypted:
		tag = TagSurveyEncrypted
	default:
		return "", fmt.Errorf("encode: unknown kind %q", kind)
	}
	return tag + base64.StdEncoding.EncodeToString(body), nil
}

// Decode strips the single-payload tag from s and returns its variant plus
// the raw body bytes (JSON for plaintext variants, a cryptox blob for
// encrypted ones). Chunk frames and the logo marker are not single payloads
// and yield common.ErrNotRecognized; a bad base64 body yields
// common.ErrMalformedPayload.
func Decode(s string) (Variant, []byte, error) {
	v, ok := VariantOf(s)
	if !ok || v.Chunk || v.Logo {
		return Variant{}, nil, common.ErrNotRecognized
	}
	body, err := base64.StdEncoding.DecodeString(s[tagLen:])
	if err != nil {
		return Variant{}, nil, common.ErrMalformedPayload
	}
	return v, body, nil
}

// Unmarshal parses a JSON body of the given kind back into its payload type.
func Unmarshal(kind Kind, body []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindMessage:
		p = &Message{}
	case KindWebBundle:
		p = &WebBundle{}
	case KindSurvey:
		p = &SurveyResponse{}
	default:
		return nil, common.ErrNotRecognized
	}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, common.ErrMalformedPayload
	}
	return p, nil
}

// Serialize produces the plaintext single-payload wire string for p.
func Serialize(p Payload) (string, error) {
	body, err := Marshal(p)
	if err != nil {
		return "", err
	}
	return Encode(p.PayloadKind(), false, body)
}

// SerializeEncrypted produces the encrypted single-payload wire string for p
// under the given PIN.
func SerializeEncrypted(p Payload, pin string) (string, error) {
	body, err := Marshal(p)
	if err != nil {
		return "", err
	}
	blob, err := cryptox.Encrypt(body, pin)
	if err != nil {
		return "", err
	}
	return Encode(p.PayloadKind(), true, blob)
}

// Deserialize fully parses a plaintext single-payload string already known
// (by tag) to be a Glyph payload. Encrypted strings yield
// common.ErrPinRequired; use DeserializeEncrypted for those.
func Deserialize(s string) (Payload, error) {
	v, body, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if v.Encrypted {
		return nil, common.ErrPinRequired
	}
	return Unmarshal(v.Kind, body)
}

// DeserializeEncrypted decrypts and parses an encrypted single-payload
// string with the given PIN.
func DeserializeEncrypted(s string, pin string) (Payload, error) {
	v, body, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if !v.Encrypted {
		return nil, common.ErrMalformedPayload
	}
	plain, err := cryptox.Decrypt(body, pin)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v.Kind, plain)
}
