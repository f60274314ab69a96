package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6582374-netizen/Auto-note/pkg/logging"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// fakeConn scripts the service side of the channel. respond is invoked
// for every outbound envelope; a nil return leaves the request hanging.
type fakeConn struct {
	mu      sync.Mutex
	sent    []any
	inbound chan Frame
	respond func(env types.Envelope) *Frame
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan Frame, 8)}
}

func (c *fakeConn) Send(v any) error {
	c.mu.Lock()
	c.sent = append(c.sent, v)
	respond := c.respond
	c.mu.Unlock()

	if env, ok := v.(types.Envelope); ok && respond != nil {
		if frame := respond(env); frame != nil {
			c.inbound <- *frame
		}
	}
	return nil
}

func (c *fakeConn) Receive() (Frame, error) {
	frame, ok := <-c.inbound
	if !ok {
		return Frame{}, errors.New("connection closed")
	}
	return frame, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inbound != nil {
		close(c.inbound)
		c.inbound = nil
	}
	return nil
}

func (c *fakeConn) sentEnvelopes() []types.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	var envs []types.Envelope
	for _, v := range c.sent {
		if env, ok := v.(types.Envelope); ok {
			envs = append(envs, env)
		}
	}
	return envs
}

func okFrame(id string, data any) *Frame {
	ok := true
	raw, _ := json.Marshal(data)
	return &Frame{ProtocolVersion: types.ProtocolVersion, ID: id, OK: &ok, Data: raw}
}

func newTestGateway(t *testing.T, conn *fakeConn) *Gateway {
	t.Helper()
	log, _ := logging.NewLogger("gateway-test")
	g := New(conn, log)
	go g.Run()
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestRequestStampsProtocolVersion(t *testing.T) {
	conn := newFakeConn()
	conn.respond = func(env types.Envelope) *Frame { return okFrame(env.ID, nil) }
	g := newTestGateway(t, conn)

	err := g.Request(context.Background(), "content/test", map[string]string{"a": "b"}, nil)
	require.NoError(t, err)

	envs := conn.sentEnvelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, types.ProtocolVersion, envs[0].ProtocolVersion)
	assert.Equal(t, "content/test", envs[0].Type)
	assert.NotEmpty(t, envs[0].ID)
}

func TestRequestDecodesData(t *testing.T) {
	conn := newFakeConn()
	conn.respond = func(env types.Envelope) *Frame {
		return okFrame(env.ID, map[string]any{"capabilities": []string{"quickdock"}})
	}
	g := newTestGateway(t, conn)

	var out types.HelloResponse
	err := g.Request(context.Background(), types.MsgHello, types.HelloRequest{}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"quickdock"}, out.Capabilities)
}

func TestRequestFailure(t *testing.T) {
	t.Run("uses provided error text", func(t *testing.T) {
		conn := newFakeConn()
		conn.respond = func(env types.Envelope) *Frame {
			ok := false
			return &Frame{ProtocolVersion: types.ProtocolVersion, ID: env.ID, OK: &ok, Error: "boom"}
		}
		g := newTestGateway(t, conn)

		err := g.Request(context.Background(), "content/test", nil, nil)
		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("generic message names the call type", func(t *testing.T) {
		conn := newFakeConn()
		conn.respond = func(env types.Envelope) *Frame {
			ok := false
			return &Frame{ProtocolVersion: types.ProtocolVersion, ID: env.ID, OK: &ok}
		}
		g := newTestGateway(t, conn)

		err := g.Request(context.Background(), "dock/getState", nil, nil)
		require.Error(t, err)
		assert.Equal(t, "request failed: dock/getState", err.Error())
	})

	t.Run("unsupported code maps to sentinel", func(t *testing.T) {
		conn := newFakeConn()
		conn.respond = func(env types.Envelope) *Frame {
			ok := false
			return &Frame{ProtocolVersion: types.ProtocolVersion, ID: env.ID, OK: &ok, Code: types.CodeUnsupported}
		}
		g := newTestGateway(t, conn)

		err := g.Request(context.Background(), "dock/getState", nil, nil)
		assert.True(t, errors.Is(err, ErrUnsupported))
	})

	t.Run("version mismatch is malformed", func(t *testing.T) {
		conn := newFakeConn()
		conn.respond = func(env types.Envelope) *Frame {
			frame := okFrame(env.ID, nil)
			frame.ProtocolVersion = types.ProtocolVersion + 1
			return frame
		}
		g := newTestGateway(t, conn)

		err := g.Request(context.Background(), "content/test", nil, nil)
		assert.True(t, errors.Is(err, ErrProtocolMismatch))
	})
}

func TestPushDelivery(t *testing.T) {
	conn := newFakeConn()
	g := newTestGateway(t, conn)

	payload, _ := json.Marshal(types.ClassifyPending{SessionID: "s1"})
	conn.inbound <- Frame{ProtocolVersion: types.ProtocolVersion, Type: types.MsgClassifyPending, Payload: payload}

	select {
	case env := <-g.Pushes():
		assert.Equal(t, types.MsgClassifyPending, env.Type)
	case <-time.After(time.Second):
		t.Fatal("push not delivered")
	}
}

func TestPushVersionMismatchDropped(t *testing.T) {
	conn := newFakeConn()
	g := newTestGateway(t, conn)

	conn.inbound <- Frame{ProtocolVersion: types.ProtocolVersion + 1, Type: types.MsgClassifyPending}
	payload, _ := json.Marshal(types.ClassifyPending{SessionID: "s2"})
	conn.inbound <- Frame{ProtocolVersion: types.ProtocolVersion, Type: types.MsgClassifyPending, Payload: payload}

	select {
	case env := <-g.Pushes():
		// Only the correctly versioned push survives.
		var ev types.ClassifyPending
		require.NoError(t, json.Unmarshal(env.Payload, &ev))
		assert.Equal(t, "s2", ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("push not delivered")
	}
}

func TestHelloRecordsCapabilities(t *testing.T) {
	conn := newFakeConn()
	conn.respond = func(env types.Envelope) *Frame {
		return okFrame(env.ID, types.HelloResponse{Capabilities: []string{types.CapabilityQuickDock}})
	}
	g := newTestGateway(t, conn)

	resp, err := g.Hello(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, []string{types.CapabilityQuickDock}, resp.Capabilities)
	assert.True(t, g.Supports(types.CapabilityQuickDock))
	assert.False(t, g.Supports("unknown"))
}

func TestRespond(t *testing.T) {
	conn := newFakeConn()
	g := newTestGateway(t, conn)

	require.NoError(t, g.Respond("push-1", types.CapturePayload{SessionID: "s1"}))
	require.NoError(t, g.RespondError("push-2", types.CodeExcluded, "capture excluded for this page"))

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Len(t, conn.sent, 2)

	ok := conn.sent[0].(types.Response)
	assert.True(t, ok.OK)
	assert.Equal(t, "push-1", ok.ID)
	assert.Equal(t, types.ProtocolVersion, ok.ProtocolVersion)

	rejected := conn.sent[1].(types.Response)
	assert.False(t, rejected.OK)
	assert.Equal(t, types.CodeExcluded, rejected.Code)
}
