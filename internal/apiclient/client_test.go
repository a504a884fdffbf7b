package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}
	return New(port)
}

func TestHealthSucceedsOn200(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	if err := c.Health(); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
}

func TestHealthFailsOnNon200(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	if err := c.Health(); err == nil {
		t.Fatalf("expected an error for a 503 response")
	}
}

func TestStatusDecodesBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"connected": true})
	}))
	status, err := c.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status["connected"] != true {
		t.Fatalf("expected connected=true, got %v", status)
	}
}

func TestUpdateSettingsPostsPatchAndReturnsResult(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["agentName"] != "test-agent" {
			t.Errorf("expected patch body to carry agentName, got %v", body)
		}
		json.NewEncoder(w).Encode(body)
	}))
	updated, err := c.UpdateSettings(map[string]interface{}{"agentName": "test-agent"})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated["agentName"] != "test-agent" {
		t.Fatalf("expected echoed settings, got %v", updated)
	}
}

func TestAuditRecentDecodesEvents(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"events": []AuditEvent{{ID: 1, Method: "fs_read", Allowed: true}},
		})
	}))
	events, err := c.AuditRecent(10)
	if err != nil {
		t.Fatalf("AuditRecent: %v", err)
	}
	if len(events) != 1 || events[0].Method != "fs_read" {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestErrorResponseSurfacesStatusCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"bad request"}`))
	}))
	_, err := c.Status()
	if err == nil {
		t.Fatalf("expected an error for a 400 response")
	}
}
