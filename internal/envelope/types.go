// Package envelope defines the Glyph wire format: the tagged-variant text
// encoding carried inside QR codes, the logical payload types, and the
// serialize/deserialize codec.
//
// Every transmitted string starts with a short literal tag that alone is
// sufficient to route it to the right decoder. Classification of arbitrary
// camera noise must stay cheap, so VariantOf only inspects the tag and never
// attempts a full parse.
package envelope

import "time"

// Kind identifies a logical payload kind, independent of security mode.
type Kind string

const (
	KindMessage   Kind = "message"
	KindWebBundle Kind = "webbundle"
	KindSurvey    Kind = "survey"
)

// Variant is the closed classification of a scanned string. It is the single
// routing point for every payload kind: one switch over Variant replaces
// scattered per-screen prefix checks.
type Variant struct {
	Kind      Kind
	Encrypted bool

	// Chunk marks a chunk frame carrying one slice of a larger payload
	// rather than a whole payload.
	Chunk bool

	// Logo marks the fixed logo-marker sentinel. It has no payload.
	Logo bool
}

// Attribution is an unauthenticated display hint naming the sender. It is
// not a security claim of any sort.
type Attribution struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

// Message is the common-case payload: a text note with optional media,
// self-destruct settings and a validity window.
type Message struct {
	Text string `json:"text"`

	// ViewerExpirationSeconds is the self-destruct countdown that starts
	// when the receiver opens the message. Values <= 0 mean "forever".
	// It is independent of transport and of ValidityWindow.
	ViewerExpirationSeconds int `json:"viewer_expiration_seconds"`

	CreatedAt time.Time `json:"created_at"`

	// ImageData holds already-compressed image bytes. JSON encodes them
	// base64 at rest.
	ImageData []byte `json:"image_data,omitempty"`

	// AudioData holds already-compressed audio bytes.
	AudioData []byte `json:"audio_data,omitempty"`

	// ValidityWindow is the absolute deadline after which the QR code
	// itself is void, independent of viewer expiration.
	ValidityWindow *time.Time `json:"validity_window,omitempty"`

	Signature *Attribution `json:"signature,omitempty"`

	FlashOnScan *bool `json:"flash_on_scan,omitempty"`
}

// WebBundle is a self-contained HTML experience. The HTML must not reference
// external resources; see ValidateWebBundle.
type WebBundle struct {
	Title          string     `json:"title"`
	HTML           string     `json:"html"`
	TemplateKind   string     `json:"template_kind,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ValidityWindow *time.Time `json:"validity_window,omitempty"`
}

// SurveyResponse carries a filled-in survey back across the visual channel.
type SurveyResponse struct {
	SurveyID  string    `json:"survey_id"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// Payload is implemented by every logical payload kind.
type Payload interface {
	// PayloadKind reports the kind used for tag selection and routing.
	PayloadKind() Kind

	// ValidityDeadline returns the absolute deadline after which the code
	// is void, or nil if the payload has none.
	ValidityDeadline() *time.Time

	// ViewerExpiration returns the viewer-side self-destruct countdown in
	// seconds; values <= 0 mean the content never self-destructs.
	ViewerExpiration() int
}

func (m *Message) PayloadKind() Kind              { return KindMessage }
func (m *Message) ValidityDeadline() *time.Time   { return m.ValidityWindow }
func (m *Message) ViewerExpiration() int          { return m.ViewerExpirationSeconds }

func (b *WebBundle) PayloadKind() Kind            { return KindWebBundle }
func (b *WebBundle) ValidityDeadline() *time.Time { return b.ValidityWindow }
func (b *WebBundle) ViewerExpiration() int        { return 0 }

func (s *SurveyResponse) PayloadKind() Kind            { return KindSurvey }
func (s *SurveyResponse) ValidityDeadline() *time.Time { return nil }
func (s *SurveyResponse) ViewerExpiration() int        { return 0 }
