// Package gateway is the request/response and push-event channel between
// the page agent and the AutoNote background service. Every outbound
// message is stamped with the protocol version; inbound frames with a
// mismatched version are dropped (pushes) or rejected as malformed
// (responses).
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/v6582374-netizen/Auto-note/pkg/logging"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// Frame is any inbound message before classification. A frame with an OK
// field is a response to one of our requests; everything else is a push.
type Frame struct {
	ProtocolVersion int             `json:"protocolVersion"`
	Type            string          `json:"type,omitempty"`
	ID              string          `json:"id,omitempty"`
	OK              *bool           `json:"ok,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	Error           string          `json:"error,omitempty"`
	Code            string          `json:"code,omitempty"`
	Payload         json.RawMessage `json:"payload,omitempty"`
}

// Conn is the underlying message transport.
type Conn interface {
	Send(v any) error
	Receive() (Frame, error)
	Close() error
}

// Gateway multiplexes typed requests and push events over one Conn.
type Gateway struct {
	conn Conn
	log  *logging.Logger

	mu      sync.Mutex
	pending map[string]chan types.Response
	caps    map[string]bool

	pushes    chan types.Envelope
	closed    chan struct{}
	closeOnce sync.Once
}

// New wraps an established connection. Call Run to start dispatching.
func New(conn Conn, log *logging.Logger) *Gateway {
	return &Gateway{
		conn:    conn,
		log:     log,
		pending: make(map[string]chan types.Response),
		caps:    make(map[string]bool),
		pushes:  make(chan types.Envelope, 16),
		closed:  make(chan struct{}),
	}
}

// Run reads frames until the connection fails or Close is called,
// dispatching responses to their waiting requests and push events to the
// Pushes channel. It always leaves the gateway closed.
func (g *Gateway) Run() {
	// Only the read loop sends on g.pushes, so it is the one to close it.
	defer close(g.pushes)
	defer g.shutdown()

	for {
		frame, err := g.conn.Receive()
		if err != nil {
			select {
			case <-g.closed:
			default:
				g.log.Warnf("gateway receive failed: %v", err)
			}
			return
		}

		if frame.OK != nil {
			g.dispatchResponse(frame)
			continue
		}
		g.dispatchPush(frame)
	}
}

func (g *Gateway) dispatchResponse(frame Frame) {
	g.mu.Lock()
	ch, ok := g.pending[frame.ID]
	if ok {
		delete(g.pending, frame.ID)
	}
	g.mu.Unlock()

	if !ok {
		g.log.Debugf("response for unknown request id %q dropped", frame.ID)
		return
	}

	ch <- types.Response{
		ProtocolVersion: frame.ProtocolVersion,
		ID:              frame.ID,
		OK:              *frame.OK,
		Data:            frame.Data,
		Error:           frame.Error,
		Code:            frame.Code,
	}
}

func (g *Gateway) dispatchPush(frame Frame) {
	if frame.ProtocolVersion != types.ProtocolVersion {
		g.log.Debugf("push %q with protocol %d dropped", frame.Type, frame.ProtocolVersion)
		return
	}

	env := types.Envelope{
		ProtocolVersion: frame.ProtocolVersion,
		Type:            frame.Type,
		ID:              frame.ID,
		Payload:         frame.Payload,
	}

	select {
	case g.pushes <- env:
	case <-g.closed:
	}
}

// Pushes delivers version-checked push events. The channel is closed
// when the gateway shuts down.
func (g *Gateway) Pushes() <-chan types.Envelope {
	return g.pushes
}

// Request sends a typed request and decodes the successful response data
// into out (which may be nil for void calls).
func (g *Gateway) Request(ctx context.Context, msgType string, payload any, out any) error {
	select {
	case <-g.closed:
		return ErrClosed
	default:
	}

	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		raw = encoded
	}

	id := uuid.New().String()
	ch := make(chan types.Response, 1)

	g.mu.Lock()
	g.pending[id] = ch
	g.mu.Unlock()

	env := types.Envelope{
		ProtocolVersion: types.ProtocolVersion,
		Type:            msgType,
		ID:              id,
		Payload:         raw,
	}
	if err := g.conn.Send(env); err != nil {
		g.forget(id)
		return fmt.Errorf("send %s: %w", msgType, err)
	}

	select {
	case resp := <-ch:
		return decodeResponse(msgType, resp, out)
	case <-ctx.Done():
		g.forget(id)
		return ctx.Err()
	case <-g.closed:
		return ErrClosed
	}
}

func decodeResponse(msgType string, resp types.Response, out any) error {
	if resp.ProtocolVersion != types.ProtocolVersion {
		return fmt.Errorf("%s response: %w", msgType, ErrProtocolMismatch)
	}
	if !resp.OK {
		return &RequestError{Type: msgType, Code: resp.Code, Message: resp.Error}
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", msgType, err)
		}
	}
	return nil
}

// Respond replies to a request/response push event by id.
func (g *Gateway) Respond(id string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode push response: %w", err)
	}
	return g.conn.Send(types.Response{
		ProtocolVersion: types.ProtocolVersion,
		ID:              id,
		OK:              true,
		Data:            raw,
	})
}

// RespondError rejects a request/response push event.
func (g *Gateway) RespondError(id, code, message string) error {
	return g.conn.Send(types.Response{
		ProtocolVersion: types.ProtocolVersion,
		ID:              id,
		OK:              false,
		Error:           message,
		Code:            code,
	})
}

// Hello performs the capability handshake and records the advertised
// capabilities for Supports.
func (g *Gateway) Hello(ctx context.Context, currentURL string) (types.HelloResponse, error) {
	var resp types.HelloResponse
	err := g.Request(ctx, types.MsgHello, types.HelloRequest{CurrentURL: currentURL}, &resp)
	if err != nil {
		return types.HelloResponse{}, err
	}

	g.mu.Lock()
	g.caps = make(map[string]bool, len(resp.Capabilities))
	for _, capability := range resp.Capabilities {
		g.caps[capability] = true
	}
	g.mu.Unlock()

	return resp, nil
}

// Supports reports whether the service advertised a capability in the
// handshake.
func (g *Gateway) Supports(capability string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.caps[capability]
}

// Close shuts the gateway down and fails all in-flight requests.
func (g *Gateway) Close() error {
	g.shutdown()
	return g.conn.Close()
}

func (g *Gateway) shutdown() {
	g.closeOnce.Do(func() {
		close(g.closed)

		// Waiters select on g.closed, so dropping the map is enough to
		// fail every in-flight request.
		g.mu.Lock()
		g.pending = make(map[string]chan types.Response)
		g.mu.Unlock()
	})
}

func (g *Gateway) forget(id string) {
	g.mu.Lock()
	delete(g.pending, id)
	g.mu.Unlock()
}
