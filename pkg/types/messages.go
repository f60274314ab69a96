package types

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the integer tag both ends of the messaging channel must
// agree on. Pushes with a different version are dropped silently; responses
// with a different version are treated as malformed.
const ProtocolVersion = 1

// Message types pushed by the background service to the page agent.
const (
	MsgStartCapture    = "autonote/startCapture"
	MsgBookmarkLinked  = "autonote/bookmarkLinked"
	MsgStageOneReady   = "autonote/stage1Ready"
	MsgClassifyPending = "autonote/classifyPending"
	MsgStageError      = "autonote/stageError"
	MsgFinalized       = "autonote/finalized"
)

// Message types sent by the page agent to the background service.
const (
	MsgHello            = "content/hello"
	MsgSubmitNote       = "content/submitNote"
	MsgOpenManager      = "content/openManager"
	MsgDockGetState     = "dock/getState"
	MsgDockUpdateLayout = "dock/updateLayout"
	MsgDockOpen         = "dock/open"
	MsgDockSaveCurrent  = "dock/saveCurrent"
	MsgDockPin          = "dock/pin"
	MsgDockUnpin        = "dock/unpin"
	MsgDockDismiss      = "dock/dismiss"
)

// CapabilityQuickDock is advertised by services that implement the dock
// message family. The widget stays disabled when it is absent.
const CapabilityQuickDock = "quickdock"

// Envelope is the uniform wrapper for every outbound request and every
// inbound push event.
type Envelope struct {
	ProtocolVersion int             `json:"protocolVersion"`
	Type            string          `json:"type"`
	ID              string          `json:"id,omitempty"`
	Payload         json.RawMessage `json:"payload,omitempty"`
}

// Response is the uniform success/error envelope for request replies.
type Response struct {
	ProtocolVersion int             `json:"protocolVersion"`
	ID              string          `json:"id,omitempty"`
	OK              bool            `json:"ok"`
	Data            json.RawMessage `json:"data,omitempty"`
	Error           string          `json:"error,omitempty"`
	Code            string          `json:"code,omitempty"`
}

// Error codes carried in Response.Code. Codes are machine-readable so
// feature gating never has to sniff human error text.
const (
	CodeUnsupported = "unsupported"
	CodeExcluded    = "excluded"
)

// HelloRequest opens the gateway handshake.
type HelloRequest struct {
	CurrentURL string `json:"currentUrl,omitempty"`
}

// HelloResponse names the capabilities the service implements.
type HelloResponse struct {
	Capabilities []string `json:"capabilities"`
}

// StartCapture begins a capture session. It is the only push that is
// request/response: the reply carries the CapturePayload.
type StartCapture struct {
	SessionID string `json:"sessionId"`
	MaxChars  int    `json:"maxChars"`
}

// BookmarkLinked reports the persisted record id for a session.
type BookmarkLinked struct {
	SessionID  string `json:"sessionId"`
	BookmarkID string `json:"bookmarkId"`
}

// StageOneReady carries the first-stage analysis output.
type StageOneReady struct {
	SessionID          string   `json:"sessionId"`
	Summary            string   `json:"summary"`
	CategoryCandidates []string `json:"suggestedCategoryCandidates"`
	TagCandidates      []string `json:"suggestedTags"`
	TextTruncated      bool     `json:"textTruncated"`
}

// ClassifyPending signals that classification is still running.
type ClassifyPending struct {
	SessionID string `json:"sessionId"`
}

// StageError reports a pipeline failure; the item is still saved to the
// default location.
type StageError struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error"`
}

// Finalized reports the terminal classification result for a session.
type Finalized struct {
	SessionID string   `json:"sessionId"`
	Category  string   `json:"category,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// SubmitNote is the user-initiated save request.
type SubmitNote struct {
	SessionID        string   `json:"sessionId"`
	BookmarkID       string   `json:"bookmarkId,omitempty"`
	Note             string   `json:"note"`
	SelectedCategory string   `json:"selectedCategory,omitempty"`
	SelectedTags     []string `json:"selectedTags"`
}

// DecodePush unmarshals a push envelope into its typed payload.
// Unknown types return an error so callers can log and drop them.
func DecodePush(env Envelope) (any, error) {
	decode := func(dst any) (any, error) {
		if err := json.Unmarshal(env.Payload, dst); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return dst, nil
	}

	switch env.Type {
	case MsgStartCapture:
		ev := &StartCapture{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	case MsgBookmarkLinked:
		ev := &BookmarkLinked{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	case MsgStageOneReady:
		ev := &StageOneReady{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	case MsgClassifyPending:
		ev := &ClassifyPending{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	case MsgStageError:
		ev := &StageError{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	case MsgFinalized:
		ev := &Finalized{}
		if _, err := decode(ev); err != nil {
			return nil, err
		}
		return *ev, nil
	}
	return nil, fmt.Errorf("unknown push type %q", env.Type)
}
