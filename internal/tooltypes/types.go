// Package tooltypes defines the shapes shared by every transport (HTTP,
// WebSocket) and the dispatcher that routes between them.
package tooltypes

import "encoding/json"

// Invocation is the uniform value produced by the HTTP server and the
// control-server protocol and consumed by the dispatcher.
//
// RequestID is nil for HTTP (the reply is synchronous) and non-nil for the
// WebSocket control protocol (the reply must echo it).
type Invocation struct {
	RequestID *string                `json:"request_id,omitempty"`
	Method    string                 `json:"method"`
	Params    map[string]interface{} `json:"params"`
}

// Result is what the dispatcher hands back to either transport. Tool-specific
// fields are carried in Extra and flattened into the JSON object on encode.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Extra   map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Extra alongside Success/Error so callers see a single
// flat object, e.g. {"success":true,"sessionId":"..."}.
func (r Result) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(r.Extra)+2)
	for k, v := range r.Extra {
		m[k] = v
	}
	m["success"] = r.Success
	if r.Error != "" {
		m["error"] = r.Error
	}
	return json.Marshal(m)
}

// Ok builds a successful Result carrying the given fields.
func Ok(fields map[string]interface{}) Result {
	return Result{Success: true, Extra: fields}
}

// Fail builds a failed Result with the given error message.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Failf builds a failed Result from a Go error.
func Failf(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
