package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			hub.Publish("status", map[string]int{"i": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked without a running hub")
	}
}

func TestHubRunClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(client)
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- hub.Run(ctx) }()
	cancel()
	if err := <-finished; err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := <-client.send; ok {
		t.Fatalf("expected client channel to be closed")
	}
	if hub.HasClients() {
		t.Fatalf("expected no clients after shutdown")
	}
}

func TestHubSendToAfterShutdownIsDropped(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(client)
	if !hub.SendTo(client, wsMessage{Type: "status"}) {
		t.Fatalf("expected a registered client to accept the message")
	}
	<-client.send

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- hub.Run(ctx) }()
	cancel()
	if err := <-finished; err != nil {
		t.Fatalf("run: %v", err)
	}

	if hub.SendTo(client, wsMessage{Type: "status"}) {
		t.Fatalf("expected SendTo to refuse a client removed at shutdown")
	}
	late := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Fatalf("a client registered after shutdown should be closed at once")
	}
	if hub.SendTo(late, wsMessage{Type: "status"}) {
		t.Fatalf("expected SendTo to refuse a client registered after shutdown")
	}
}

func TestHeartbeatPingsIdleConnection(t *testing.T) {
	send := make(chan []byte)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = writeWSWithHeartbeatEvery(conn, send, 20*time.Millisecond)
	}))
	defer server.Close()
	defer close(send)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "ping" {
		t.Fatalf("expected ping, got %q", msg.Type)
	}
}
