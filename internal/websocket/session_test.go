package websocket

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func TestSessionReceivesBroadcasts(t *testing.T) {
	h := testHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	waitForSessions(t, h, 1)
	h.Broadcast(DocumentUpdated(7))

	_, raw, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if string(raw) == "" {
		t.Fatal("empty broadcast payload")
	}
}

func TestSessionClosesOnClientWrite(t *testing.T) {
	h := testHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	waitForSessions(t, h, 1)
	if err := conn.Write(ctx, ws.MessageText, []byte("mutate please")); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err = conn.Read(ctx)
	if ws.CloseStatus(err) != ws.StatusPolicyViolation {
		t.Fatalf("expected policy violation close, got %v", err)
	}
	waitForSessions(t, h, 0)
}

func waitForSessions(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for h.SessionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("session count = %d, want %d", h.SessionCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
