package types

// CaptureMode records how the captured text was obtained.
type CaptureMode string

const (
	// CaptureModeReadability means a landmark element (article/main)
	// supplied the primary text.
	CaptureModeReadability CaptureMode = "readability"
	// CaptureModeDOMText means the whole rendered page text was used.
	CaptureModeDOMText CaptureMode = "dom_text"
	// CaptureModeSelectionOnly means only a user selection was available.
	CaptureModeSelectionOnly CaptureMode = "selection_only"
)

// CapturePayload is the immutable snapshot produced once per capture
// session and returned as the reply to the start event.
//
// Invariants: len([]rune(Text)) <= maxChars and
// WasTruncated == (TextChars > maxChars), where TextChars is the
// pre-truncation normalized length.
type CapturePayload struct {
	SessionID    string      `json:"sessionId"`
	URL          string      `json:"url"`
	CanonicalURL string      `json:"canonicalUrl,omitempty"`
	Title        string      `json:"title"`
	Domain       string      `json:"domain"`
	FavIconURL   string      `json:"favIconUrl,omitempty"`
	Selection    string      `json:"selection"`
	Text         string      `json:"text"`
	TextDigest   string      `json:"textDigest"`
	TextChars    int         `json:"textChars"`
	CaptureMode  CaptureMode `json:"captureMode"`
	WasTruncated bool        `json:"wasTruncated"`
}
