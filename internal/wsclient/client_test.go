package wsclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/screenctl/screenctld/internal/controlproto"
)

var upgrader = websocket.Upgrader{}

func TestClientConnectsAndReceivesInboundMessage(t *testing.T) {
	received := make(chan controlproto.Message, 1)
	var connectedOnce sync.Once
	connectedCh := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		msg, err := controlproto.NewMessage(controlproto.TypeHeartbeatAck, "", controlproto.HeartbeatAckPayload{})
		if err != nil {
			t.Errorf("NewMessage: %v", err)
			return
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}

		// Keep the connection open briefly so the client's readLoop has
		// time to process the frame before the handler returns.
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	c := New(url, func(msg controlproto.Message) error {
		received <- msg
		return nil
	}, func() {
		connectedOnce.Do(func() { close(connectedCh) })
	}, nil)

	go c.Run()
	defer c.Stop()

	select {
	case <-connectedCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for onConnected callback")
	}

	select {
	case msg := <-received:
		if msg.Type != controlproto.TypeHeartbeatAck {
			t.Fatalf("unexpected message type: %q", msg.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for inbound message")
	}
}

func TestIsConnectedFalseBeforeDial(t *testing.T) {
	c := New("ws://127.0.0.1:1/never", func(controlproto.Message) error { return nil }, nil, nil)
	if c.IsConnected() {
		t.Fatalf("expected IsConnected to be false before Run is called")
	}
}
