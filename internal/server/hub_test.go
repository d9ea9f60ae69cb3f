package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

func hubTestServer(t *testing.T, h *hub) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(h.handleWS))
	t.Cleanup(ts.Close)
	return ts
}

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func waitForClients(t *testing.T, h *hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.clientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d", want)
}

func TestHubBroadcast(t *testing.T) {
	h := newHub(10, logger.New("error"))
	ts := hubTestServer(t, h)

	conn := dialHub(t, ts)
	waitForClients(t, h, 1)

	h.Broadcast(context.Background(), map[string]string{"type": "summary", "summary": "hi"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg map[string]string
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg["type"] != "summary" || msg["summary"] != "hi" {
		t.Errorf("message = %v", msg)
	}
}

func TestHubPingPong(t *testing.T) {
	h := newHub(10, logger.New("error"))
	ts := hubTestServer(t, h)

	conn := dialHub(t, ts)
	waitForClients(t, h, 1)

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]string
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg["type"] != "pong" {
		t.Errorf("message = %v, want pong", msg)
	}
}

func TestHubMaxClients(t *testing.T) {
	h := newHub(1, logger.New("error"))
	ts := hubTestServer(t, h)

	dialHub(t, ts)
	waitForClients(t, h, 1)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("second client should be rejected")
	}
}

func TestHubRegisterCap(t *testing.T) {
	h := newHub(1, logger.New("error"))

	if !h.register(&websocket.Conn{}) {
		t.Fatal("first client rejected below capacity")
	}
	if h.register(&websocket.Conn{}) {
		t.Error("register admitted a client over capacity")
	}
	if got := h.clientCount(); got != 1 {
		t.Errorf("clientCount = %d, want 1", got)
	}
}

func TestHubPrunesDeadClients(t *testing.T) {
	h := newHub(10, logger.New("error"))
	ts := hubTestServer(t, h)

	conn := dialHub(t, ts)
	waitForClients(t, h, 1)

	conn.Close()

	// A broadcast to a closed connection drops it from the hub.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.Broadcast(context.Background(), map[string]string{"type": "summary"})
		if h.clientCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("dead client was never pruned")
}
