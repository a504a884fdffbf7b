// Package wsclient is the outbound WebSocket client to the cloud control
// server (spec.md §4.H): dial over TLS with the platform trust store,
// reconnect with exponential backoff, heartbeat, and serialized writes.
//
// Grounded heavily on diane-assistant-diane/server/internal/mcpproxy's
// WSClient (connect/readLoop/reconnectLoop/heartbeatLoop/sendMessage
// shape, same backoff doubling, here from 10s up to a 60s cap), generalized from that
// mutual-TLS master/slave protocol to spec.md's simpler "wss:// with
// platform trust store, no client cert" contract, and from
// slavetypes.Message to controlproto.Message.
package wsclient

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/screenctl/screenctld/internal/controlproto"
)

const (
	// defaultHeartbeatInterval is used until (or unless) the registered
	// reply's config.heartbeatInterval overrides it (spec.md §4.H).
	defaultHeartbeatInterval = 5 * time.Second
	minBackoff               = 10 * time.Second
	maxBackoff               = 60 * time.Second

	// maxMissedHeartbeatAcks is how many consecutive intervals without a
	// heartbeat_ack force a reconnect, per spec.md §4.H.
	maxMissedHeartbeatAcks = 3
)

// InboundHandler processes one frame received from the control server.
type InboundHandler func(controlproto.Message) error

// Client owns the single outbound WebSocket connection to the control
// server. There is exactly one per process, per spec.md §5's "single
// outbound WebSocket" model.
type Client struct {
	url         string
	onInbound   InboundHandler
	onConnected func() // called after a (re)connect, to send the register frame
	log         *slog.Logger

	mu                sync.Mutex
	conn              *websocket.Conn
	writeMu           sync.Mutex
	connected         bool
	stopCh            chan struct{}
	heartbeatInterval time.Duration
	awaitingAck       bool
	missedAcks        int

	// BuildHeartbeat produces the outbound heartbeat frame; if nil, an
	// empty heartbeat payload is sent instead.
	BuildHeartbeat func() (controlproto.Message, error)
}

// New builds a Client for the given wss:// URL.
func New(url string, onInbound InboundHandler, onConnected func(), log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:               url,
		onInbound:         onInbound,
		onConnected:       onConnected,
		log:               log,
		stopCh:            make(chan struct{}),
		heartbeatInterval: defaultHeartbeatInterval,
	}
}

// Run dials the control server and blocks, reconnecting with backoff on
// every disconnect, until Stop is called. It is meant to be launched in its
// own goroutine by the agent's startup sequence.
func (c *Client) Run() {
	backoff := minBackoff
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		if err := c.connect(); err != nil {
			c.log.Error("control server dial failed", "error", err, "next_retry_in", backoff)
			select {
			case <-time.After(backoff):
			case <-c.stopCh:
				return
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = minBackoff
		c.log.Info("connected to control server", "url", c.url)
		if c.onConnected != nil {
			c.onConnected()
		}

		go c.heartbeatLoop()
		c.readLoop() // blocks until the connection drops
	}
}

// Stop closes the connection and ends Run's reconnect loop.
func (c *Client) Stop() {
	close(c.stopCh)
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
}

func (c *Client) connect() error {
	dialer := websocket.Dialer{
		TLSClientConfig:  &tls.Config{MinVersion: tls.VersionTLS12}, // zero-value RootCAs: platform trust store
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("wsclient: dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	return nil
}

func (c *Client) readLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		connected := c.connected
		c.mu.Unlock()
		if !connected || conn == nil {
			return
		}

		var msg controlproto.Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.log.Warn("control server read error, reconnecting", "error", err)
			c.disconnect()
			return
		}

		switch msg.Type {
		case controlproto.TypeHeartbeatAck:
			c.noteHeartbeatAck()
		case controlproto.TypeRegistered:
			c.applyRegisteredConfig(msg.Data)
		}

		// Requests run on their own goroutine so a slow tool call does not
		// hold up reading heartbeat_acks and further requests.
		if msg.Type == controlproto.TypeRequest {
			go func(msg controlproto.Message) {
				if err := c.onInbound(msg); err != nil {
					c.log.Error("error handling inbound control message", "type", msg.Type, "error", err)
				}
			}(msg)
			continue
		}

		if err := c.onInbound(msg); err != nil {
			c.log.Error("error handling inbound control message", "type", msg.Type, "error", err)
		}
	}
}

// applyRegisteredConfig adopts the server-supplied heartbeat interval from a
// registered reply's config, if present, overriding defaultHeartbeatInterval
// for the remaining life of the connection (spec.md §4.H).
func (c *Client) applyRegisteredConfig(data []byte) {
	var payload controlproto.RegisteredPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Config == nil {
		return
	}
	if payload.Config.HeartbeatIntervalMS <= 0 {
		return
	}
	interval := time.Duration(payload.Config.HeartbeatIntervalMS) * time.Millisecond
	c.mu.Lock()
	changed := interval != c.heartbeatInterval
	c.heartbeatInterval = interval
	c.mu.Unlock()
	if changed {
		c.log.Info("control server configured heartbeat interval", "interval", interval)
	}
}

// noteHeartbeatAck resets the missed-ack counter whenever the server
// acknowledges a heartbeat.
func (c *Client) noteHeartbeatAck() {
	c.mu.Lock()
	c.awaitingAck = false
	c.missedAcks = 0
	c.mu.Unlock()
}

func (c *Client) disconnect() {
	c.mu.Lock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// heartbeatLoop sends a heartbeat every heartbeatInterval (reconfigurable
// mid-connection by applyRegisteredConfig) and forces a reconnect once
// maxMissedHeartbeatAcks consecutive heartbeats go unacknowledged
// (spec.md §4.H).
func (c *Client) heartbeatLoop() {
	c.mu.Lock()
	c.awaitingAck = false
	c.missedAcks = 0
	c.mu.Unlock()

	for {
		c.mu.Lock()
		connected := c.connected
		interval := c.heartbeatInterval
		c.mu.Unlock()
		if !connected {
			return
		}

		select {
		case <-time.After(interval):
		case <-c.stopCh:
			return
		}

		c.mu.Lock()
		connected = c.connected
		if c.awaitingAck {
			c.missedAcks++
		}
		missed := c.missedAcks
		c.awaitingAck = true
		c.mu.Unlock()
		if !connected {
			return
		}

		if missed >= maxMissedHeartbeatAcks {
			c.log.Warn("missed heartbeat_ack too many consecutive intervals, forcing reconnect", "missed", missed)
			c.disconnect()
			return
		}

		var msg controlproto.Message
		var err error
		if c.BuildHeartbeat != nil {
			msg, err = c.BuildHeartbeat()
		} else {
			msg, err = controlproto.NewMessage(controlproto.TypeHeartbeat, "", controlproto.HeartbeatPayload{})
		}
		if err != nil {
			continue
		}
		if err := c.Send(msg); err != nil {
			c.log.Warn("failed to send heartbeat", "error", err)
		}
	}
}

// Send writes msg to the connection. Writes are serialized by writeMu since
// gorilla/websocket connections are not safe for concurrent writers.
func (c *Client) Send(msg controlproto.Message) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()
	if !connected || conn == nil {
		return fmt.Errorf("wsclient: not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// IsConnected reports whether the client currently holds a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
