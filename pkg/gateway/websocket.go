package gateway

import (
	"fmt"

	"golang.org/x/net/websocket"
)

// wsConn is the production transport: JSON frames over a WebSocket to
// the background service.
type wsConn struct {
	ws *websocket.Conn
}

// DialWebSocket connects to the background service endpoint.
func DialWebSocket(endpoint, origin string) (Conn, error) {
	ws, err := websocket.Dial(endpoint, "", origin)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &wsConn{ws: ws}, nil
}

func (c *wsConn) Send(v any) error {
	return websocket.JSON.Send(c.ws, v)
}

func (c *wsConn) Receive() (Frame, error) {
	var frame Frame
	if err := websocket.JSON.Receive(c.ws, &frame); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}
