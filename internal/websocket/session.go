package websocket

import (
	"context"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// session is one connected device.
type session struct {
	conn *ws.Conn
	send chan []byte
}

// ServeHTTP upgrades the connection and drives it until it drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true, // phones on the home LAN connect by IP
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	h.run(r.Context(), conn)
}

// run registers a session for the connection, pumps broadcasts and
// pings to it, and tears everything down when either side goes away.
// Devices only listen on this stream; the REST API is the write path,
// so an inbound frame closes the connection with a policy violation.
func (h *Hub) run(ctx context.Context, conn *ws.Conn) {
	s := &session{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(s)
	defer h.unregister(s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		if _, _, err := conn.Read(ctx); err == nil {
			conn.Close(ws.StatusPolicyViolation, "read-only stream")
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			if err := conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			conn.Close(ws.StatusNormalClosure, "")
			return
		}
	}
}
