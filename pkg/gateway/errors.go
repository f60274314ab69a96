package gateway

import (
	"errors"
	"fmt"

	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

var (
	// ErrProtocolMismatch marks a response stamped with a protocol
	// version this agent does not speak. Such responses are malformed.
	ErrProtocolMismatch = errors.New("protocol version mismatch")

	// ErrUnsupported marks a capability the service does not implement.
	ErrUnsupported = errors.New("capability unsupported")

	// ErrClosed is returned for requests issued after the gateway shut
	// down or while a request was in flight when it did.
	ErrClosed = errors.New("gateway closed")
)

// RequestError is a service-reported request failure.
type RequestError struct {
	Type    string
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: %s", e.Type)
}

// Unwrap maps machine error codes onto sentinel errors so callers gate
// on errors.Is instead of sniffing human-readable text.
func (e *RequestError) Unwrap() error {
	if e.Code == types.CodeUnsupported {
		return ErrUnsupported
	}
	return nil
}
