// Package controlproto implements the register/heartbeat/request/response
// framing carried atop the WebSocket client (spec.md §4.I), generalized
// from the teacher's internal/slavetypes.Message envelope (same
// type/id/timestamp/data shape) from slave-specific tool-call payloads to
// this agent's ToolInvocation/ToolResult shapes.
package controlproto

import (
	"encoding/json"
	"time"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Message types exchanged over the control-server WebSocket.
const (
	TypeRegister      = "register"
	TypeRegistered    = "registered"
	TypeHeartbeat     = "heartbeat"
	TypeHeartbeatAck  = "heartbeat_ack"
	TypeRequest       = "request"
	TypeResponse      = "response"
	TypeRelayResponse = "relay_response"
)

// Message is the outer envelope every frame is wrapped in, directly
// modeled on slavetypes.Message.
type Message struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// RegisterPayload is sent once, immediately after the WebSocket handshake.
type RegisterPayload struct {
	MachineID        string `json:"machineId"`
	CustomerID       string `json:"customerId,omitempty"`
	LicenseUUID      string `json:"licenseUuid,omitempty"`
	AgentName        string `json:"agentName,omitempty"`
	AgentVersion     string `json:"agentVersion"`
	Assertion        string `json:"assertion,omitempty"`
}

// RegisteredPayload is the server's reply to a successful registration.
type RegisteredPayload struct {
	Accepted bool              `json:"accepted"`
	Reason   string            `json:"reason,omitempty"`
	Config   *RegisteredConfig `json:"config,omitempty"`
}

// RegisteredConfig carries server-assigned runtime tunables delivered
// alongside registration, e.g. the heartbeat cadence this agent should use
// for the rest of the connection's lifetime (spec.md §4.H).
type RegisteredConfig struct {
	HeartbeatIntervalMS int `json:"heartbeatInterval,omitempty"`
}

// HeartbeatPayload carries liveness information outbound.
type HeartbeatPayload struct {
	MachineID        string `json:"machineId"`
	ActiveSessions   int    `json:"activeSessions"`
}

// HeartbeatAckPayload is the server's reply to a heartbeat.
type HeartbeatAckPayload struct {
	// UpdateAvailable is an Open Question per spec.md §9 — the forced
	// rollback / update-channel semantics are unresolved, so this field is
	// decoded but intentionally never acted on.
	UpdateAvailable bool `json:"updateAvailable,omitempty"`
}

// RequestPayload is an inbound tool invocation, wrapping tooltypes.Invocation.
type RequestPayload struct {
	tooltypes.Invocation
}

// ResponsePayload is the outbound reply to a RequestPayload, wrapping
// tooltypes.Result and echoing the request id for correlation.
type ResponsePayload struct {
	RequestID string          `json:"request_id"`
	Result    tooltypes.Result `json:"result"`
}

// NewMessage wraps payload into an envelope of the given type, timestamped
// now, optionally correlated to id.
func NewMessage(msgType, id string, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, ID: id, Timestamp: time.Now(), Data: data}, nil
}
