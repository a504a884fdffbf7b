// Package apiclient is cmd/screenctl's loopback HTTP client: every CLI
// subcommand talks to the running screenctld daemon over this client,
// never the dispatcher directly, matching the teacher's api.Client-mediated
// architecture (SPEC_FULL.md §4.L).
//
// Grounded on diane-assistant-diane/server/internal/api/client.go, with the
// teacher's Unix-domain-socket transport replaced by plain loopback TCP
// (screencontrol binds 127.0.0.1:<port>, not a Unix socket, per spec.md §6).
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a running screenctld over its local REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a Client targeting the daemon listening on 127.0.0.1:port.
func New(port int) *Client {
	return NewWithTimeout(port, 10*time.Second)
}

// NewWithTimeout builds a Client with a custom request timeout.
func NewWithTimeout(port int, timeout time.Duration) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", port),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Health checks GET /health.
func (c *Client) Health() error {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Version returns the agent's reported version string.
func (c *Client) Version() (string, error) {
	var body struct {
		Version string `json:"version"`
	}
	if err := c.getJSON("/version", &body); err != nil {
		return "", err
	}
	return body.Version, nil
}

// Status returns the full agent status snapshot (GET /status).
func (c *Client) Status() (map[string]interface{}, error) {
	var status map[string]interface{}
	if err := c.getJSON("/status", &status); err != nil {
		return nil, err
	}
	return status, nil
}

// AuditEvent mirrors internal/audit.Event's JSON shape, decoded here rather
// than imported to keep the CLI binary independent of the audit package's
// sqlite dependency.
type AuditEvent struct {
	ID         int64  `json:"id"`
	Timestamp  string `json:"timestamp"`
	Kind       string `json:"kind"`
	Method     string `json:"method"`
	Actor      string `json:"actor"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason"`
	Rule       string `json:"rule"`
	DurationMS int64  `json:"duration_ms"`
}

// AuditRecent returns the n most recent audit events (GET /audit/recent).
func (c *Client) AuditRecent(limit int) ([]AuditEvent, error) {
	var body struct {
		Events []AuditEvent `json:"events"`
	}
	if err := c.getJSON(fmt.Sprintf("/audit/recent?limit=%d", limit), &body); err != nil {
		return nil, err
	}
	return body.Events, nil
}

// Settings returns the current configuration (GET /settings).
func (c *Client) Settings() (map[string]interface{}, error) {
	var cfg map[string]interface{}
	if err := c.getJSON("/settings", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateSettings applies a partial patch (POST /settings) and returns the
// resulting configuration.
func (c *Client) UpdateSettings(patch map[string]interface{}) (map[string]interface{}, error) {
	var cfg map[string]interface{}
	if err := c.postJSON("/settings", patch, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Pair writes pairing details (control server URL, customer id, license
// UUID) into the daemon's configuration via the settings endpoint. A daemon
// with no WebSocket client running starts one against the new values; an
// already-running client keeps the URL and identity it was started with.
func (c *Client) Pair(controlServerURL, customerID, licenseUUID string) error {
	_, err := c.UpdateSettings(map[string]interface{}{
		"controlServerUrl": controlServerURL,
		"customerId":       customerID,
		"licenseUuid":      licenseUUID,
	})
	return err
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return decodeOrError(resp, out)
}

func (c *Client) postJSON(path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return decodeOrError(resp, out)
}

func decodeOrError(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
