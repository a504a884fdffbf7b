package agent

import "time"

// Status implements httpserver.StatusProvider, feeding both GET /status and
// the console dashboard (spec.md §4.M) with the agent's live state.
func (a *Agent) Status() map[string]interface{} {
	a.mu.Lock()
	connected := a.wsConnected
	registered := a.registered
	lastAck := a.lastHeartbeatAck
	ws := a.ws
	a.mu.Unlock()

	// wsConnected records the last successful (re)connect; the client
	// itself knows whether that connection has dropped since.
	if connected && ws != nil && !ws.IsConnected() {
		connected = false
	}

	cfg := a.Config.Get()

	state := "disconnected"
	switch {
	case connected && registered:
		state = "connected"
	case connected:
		state = "registering"
	case cfg.ControlServerURL != "":
		state = "reconnecting"
	}

	status := map[string]interface{}{
		"version":             a.Version,
		"controlServerState":  state,
		"activeShellSessions": len(a.sessions.List()),
		"machineId":           cfg.MachineID,
		"httpPort":            cfg.HTTPPort,
	}
	if !lastAck.IsZero() {
		status["lastHeartbeatAckSeconds"] = time.Since(lastAck).Seconds()
	}
	return status
}
