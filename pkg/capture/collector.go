package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// DigestFunc fingerprints captured text as a lowercase string.
type DigestFunc func(input string) string

// Collector produces a CapturePayload from a rendered page. It is pure
// and stateless: one call per capture request, no side effects against
// the page, and every failure path degrades to a fallback instead of
// returning an error.
type Collector struct {
	// Digest overrides the content digest. Nil selects the strong
	// SHA-256 digest; environments without a usable hashing primitive
	// can install WeakDigest instead.
	Digest DigestFunc
}

var (
	carriageReturns = regexp.MustCompile(`\r`)
	spaceRuns       = regexp.MustCompile(`[ \t]+`)
	newlineRuns     = regexp.MustCompile(`\n{3,}`)
)

// Collect snapshots the page for one capture session, truncating the
// normalized text to maxChars characters.
func (c *Collector) Collect(doc Document, sessionID string, maxChars int) types.CapturePayload {
	pageURL := doc.URL()
	host := hostOf(pageURL)

	title := doc.Title()
	if title == "" {
		title = host
	}

	selection := strings.TrimSpace(doc.Selection())
	landmark := strings.TrimSpace(doc.LandmarkText())
	body := strings.TrimSpace(doc.BodyText())

	primary := landmark
	if primary == "" {
		primary = body
	}

	var mode types.CaptureMode
	switch {
	case selection != "" && primary == "":
		mode = types.CaptureModeSelectionOnly
	case landmark != "":
		mode = types.CaptureModeReadability
	default:
		mode = types.CaptureModeDOMText
	}

	raw := primary
	if selection != "" {
		raw = selection + "\n\n" + primary
	}

	normalized := Normalize(raw)
	runes := []rune(normalized)
	wasTruncated := len(runes) > maxChars

	text := normalized
	if wasTruncated {
		text = string(runes[:maxChars])
	}

	digestInput := text
	if digestInput == "" {
		digestInput = pageURL + "|" + title
	}

	digest := c.Digest
	if digest == nil {
		digest = StrongDigest
	}

	return types.CapturePayload{
		SessionID:    sessionID,
		URL:          pageURL,
		CanonicalURL: doc.CanonicalURL(),
		Title:        title,
		Domain:       host,
		FavIconURL:   bestIconURL(doc.Icons(), pageURL),
		Selection:    selection,
		Text:         text,
		TextDigest:   digest(digestInput),
		TextChars:    len(runes),
		CaptureMode:  mode,
		WasTruncated: wasTruncated,
	}
}

// Normalize canonicalizes whitespace: carriage returns become newlines,
// runs of spaces/tabs collapse to one space, three or more consecutive
// newlines collapse to exactly two, and the ends are trimmed.
// Normalize is idempotent.
func Normalize(text string) string {
	text = carriageReturns.ReplaceAllString(text, "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// StrongDigest is the SHA-256 content digest rendered as lowercase hex.
func StrongDigest(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// WeakDigest is the deterministic 32-bit rolling hash used when no
// cryptographic primitive is available. The marker prefix lets callers
// distinguish weak digests from strong ones.
func WeakDigest(input string) string {
	var h int32
	for _, r := range input {
		h = h*31 + r
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("fallback_%d", v)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
