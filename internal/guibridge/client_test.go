package guibridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestCallDecodesSuccessResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["method"] != "clipboard_read" {
			t.Errorf("unexpected method: %v", req["method"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "text": "clipboard contents"})
	}))
	defer server.Close()

	port, _ := strconv.Atoi(strings.Split(server.Listener.Addr().String(), ":")[1])
	c := New(port)

	result, err := c.Call("clipboard_read", nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !result.Success || result.Extra["text"] != "clipboard contents" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCallUnreachableHelperReturnsError(t *testing.T) {
	c := New(1) // nothing listens on port 1
	if _, err := c.Call("clipboard_read", nil); err == nil {
		t.Fatalf("expected error calling an unreachable bridge helper")
	}
}
