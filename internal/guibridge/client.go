// Package guibridge is the loopback HTTP client the dispatcher uses to
// forward GUI-tagged method calls (screenshots, clicks, keys, clipboard) to
// the user-session helper process (spec.md §4.E). The helper itself is out
// of scope (component D); this package only implements the client side.
package guibridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Client talks to the GUI bridge helper over 127.0.0.1:<port>. No retries:
// a dead or absent helper (no GUI session logged in) is reported straight
// back to the caller as a TransportError-class failure, per spec.md §4.E.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the bridge helper listening on port.
func New(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
	}
}

// Call invokes method on the bridge helper with params and decodes its
// ToolResult-shaped JSON response.
func (c *Client) Call(method string, params map[string]interface{}) (tooltypes.Result, error) {
	body, err := json.Marshal(map[string]interface{}{"method": method, "params": params})
	if err != nil {
		return tooltypes.Result{}, fmt.Errorf("guibridge: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return tooltypes.Result{}, fmt.Errorf("guibridge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return tooltypes.Result{}, fmt.Errorf("guibridge: helper unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tooltypes.Result{}, fmt.Errorf("guibridge: read response: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return tooltypes.Result{}, fmt.Errorf("guibridge: decode response: %w", err)
	}

	success, _ := raw["success"].(bool)
	errMsg, _ := raw["error"].(string)
	delete(raw, "success")
	delete(raw, "error")

	return tooltypes.Result{Success: success, Error: errMsg, Extra: raw}, nil
}
