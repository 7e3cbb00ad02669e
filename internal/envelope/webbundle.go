package envelope

import (
	"fmt"
	"strings"
)

// Recognized web-bundle template kinds. They mirror the portal variants used
// for printed drops: a bare styled note, a gradient card, and the full
// portal page. An empty TemplateKind means free-form HTML.
const (
	TemplateMinimal = "minimal"
	TemplateStyled  = "styled"
	TemplatePortal  = "portal"
)

// KnownTemplateKind reports whether kind names one of the built-in
// templates. Free-form bundles leave TemplateKind empty.
func KnownTemplateKind(kind string) bool {
	switch kind {
	case TemplateMinimal, TemplateStyled, TemplatePortal:
		return true
	}
	return false
}

// externalRefMarkers are substrings whose presence means the HTML pulls a
// resource over the network, which a bundle viewed offline cannot do.
// Navigation links (href to a website) are allowed; resource loads are not.
var externalRefMarkers = []string{
	"src=\"http",
	"src='http",
	"src=http",
	"<link ",
	"<link>",
	"@import",
}

// ValidateWebBundle checks the structural invariants of a web bundle before
// it is serialized: a non-empty document and no external resource
// references. Everything the page needs must travel inside the QR code.
func ValidateWebBundle(b *WebBundle) error {
	if strings.TrimSpace(b.HTML) == "" {
		return fmt.Errorf("web bundle %q: empty html", b.Title)
	}
	if b.TemplateKind != "" && !KnownTemplateKind(b.TemplateKind) {
		return fmt.Errorf("web bundle %q: unknown template kind %q", b.Title, b.TemplateKind)
	}
	lower := strings.ToLower(b.HTML)
	for _, marker := range externalRefMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("web bundle %q: external reference (%s)", b.Title, strings.TrimSpace(marker))
		}
	}
	return nil
}
