package controlproto

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Sender is the subset of internal/wsclient.Client's surface the protocol
// handler needs to send frames back out over the connection.
type Sender interface {
	Send(msg Message) error
}

// Dispatcher is the subset of internal/dispatcher.Dispatcher's surface
// needed to handle an inbound request.
type Dispatcher interface {
	Dispatch(actor string, inv tooltypes.Invocation) tooltypes.Result
}

// Handler wires a Sender and Dispatcher together: BuildRegister/BuildHeartbeat
// produce outbound frames, HandleInbound processes whatever the server sent.
type Handler struct {
	Sender     Sender
	Dispatcher Dispatcher
	Log        *slog.Logger

	MachineID    string
	CustomerID   string
	LicenseUUID  string
	AgentName    string
	AgentVersion string
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

// BuildRegister constructs the outbound register frame, including the
// signed assertion when a licenseUuid is configured.
func (h *Handler) BuildRegister() (Message, error) {
	var assertion string
	if h.LicenseUUID != "" {
		signed, err := SignAssertion(h.MachineID, h.LicenseUUID)
		if err != nil {
			h.logger().Warn("failed to sign registration assertion", "error", err)
		} else {
			assertion = signed
		}
	}

	payload := RegisterPayload{
		MachineID:    h.MachineID,
		CustomerID:   h.CustomerID,
		LicenseUUID:  h.LicenseUUID,
		AgentName:    h.AgentName,
		AgentVersion: h.AgentVersion,
		Assertion:    assertion,
	}
	return NewMessage(TypeRegister, "", payload)
}

// BuildHeartbeat constructs the outbound heartbeat frame.
func (h *Handler) BuildHeartbeat(activeSessions int) (Message, error) {
	payload := HeartbeatPayload{MachineID: h.MachineID, ActiveSessions: activeSessions}
	return NewMessage(TypeHeartbeat, "", payload)
}

// HandleInbound processes one inbound frame. Only "request" produces an
// outbound reply; "registered" and "heartbeat_ack" are logged and consumed,
// "relay_response" is accepted and ignored per spec.md §4.I.
func (h *Handler) HandleInbound(msg Message) error {
	switch msg.Type {
	case TypeRegistered:
		var payload RegisteredPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return fmt.Errorf("controlproto: decode registered: %w", err)
		}
		h.logger().Info("registered with control server", "accepted", payload.Accepted, "reason", payload.Reason)
		return nil

	case TypeHeartbeatAck:
		var payload HeartbeatAckPayload
		_ = json.Unmarshal(msg.Data, &payload)
		h.logger().Debug("heartbeat acknowledged")
		return nil

	case TypeRelayResponse:
		h.logger().Debug("relay_response received, ignoring (unused)")
		return nil

	case TypeRequest:
		return h.handleRequest(msg)

	default:
		h.logger().Warn("unrecognized control-server message type", "type", msg.Type)
		return nil
	}
}

func (h *Handler) handleRequest(msg Message) error {
	var inv tooltypes.Invocation
	if err := json.Unmarshal(msg.Data, &inv); err != nil {
		return fmt.Errorf("controlproto: decode request: %w", err)
	}

	requestID := msg.ID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	inv.RequestID = &requestID

	result := h.Dispatcher.Dispatch("control_server", inv)

	reply, err := NewMessage(TypeResponse, requestID, ResponsePayload{RequestID: requestID, Result: result})
	if err != nil {
		return fmt.Errorf("controlproto: build response: %w", err)
	}
	return h.Sender.Send(reply)
}
