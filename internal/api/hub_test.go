package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestEventHub_BroadcastReachesClient(t *testing.T) {
	hub := NewEventHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Registration races the broadcast; retry until the event lands.
	deadline := time.Now().Add(2 * time.Second)
	var event Event
	for {
		hub.Broadcast(Event{Type: "chat.turn", Timestamp: time.Now()})

		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if err := conn.ReadJSON(&event); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("broadcast event never reached the client")
		}
	}

	if event.Type != "chat.turn" {
		t.Errorf("event type = %q, want chat.turn", event.Type)
	}
}

func TestEventHub_HandleWSAfterStop(t *testing.T) {
	hub := NewEventHub()
	go hub.Run()
	hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	// The handler must release the connection instead of blocking on a hub
	// that no longer drains its channels.
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection to a stopped hub should be closed, not held open")
	}
}
