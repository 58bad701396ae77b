package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

func TestHubPublisherIsNotSubscribed(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.RunServer()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	listener, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer listener.Close()

	// Bare channel frame: a subscription.
	if err = listener.WriteJSON(Message{Channel: "match-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitForSubscribers(t, hub, "match-1", 1)

	publisher, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer publisher.Close()

	// Event frame: a publish. It must reach the listener but must not
	// enroll the publisher on the channel.
	published := Message{
		Channel: "match-1",
		Event:   "draw:new",
		Data:    map[string]interface{}{"number": float64(7)},
	}

	if err = publisher.WriteJSON(published); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err = listener.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, payload, err := listener.ReadMessage()
	if err != nil {
		t.Fatalf("listener did not receive broadcast: %v", err)
	}

	var got Message
	if err = json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Event != published.Event || got.Channel != published.Channel {
		t.Errorf("unexpected broadcast, want: %v, got: %v", published, got)
	}

	if err = publisher.SetReadDeadline(time.Now().Add(300 * time.Millisecond)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err = publisher.ReadMessage(); err == nil {
		t.Fatal("publisher received its own broadcast")
	} else if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("unexpected error: %v", err)
	}
}

func waitForSubscribers(t *testing.T, hub *Hub, channel string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)

	for time.Now().Before(deadline) {
		hub.mutex.RLock()
		got := len(hub.Channels[channel])
		hub.mutex.RUnlock()

		if got == want {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("channel %s never reached %d subscribers", channel, want)
}
