package dispatcher

import (
	"testing"
	"time"

	"github.com/screenctl/screenctld/internal/tooltypes"
)

type fakeBridge struct {
	called string
}

func (f *fakeBridge) Call(method string, params map[string]interface{}) (tooltypes.Result, error) {
	f.called = method
	return tooltypes.Ok(map[string]interface{}{"via": "bridge"}), nil
}

type fakeAudit struct {
	n int
}

func (f *fakeAudit) RecordInvocation(method, actor string, success bool, errMsg string, duration time.Duration) error {
	f.n++
	return nil
}

func TestToolsListNeverCrashesOnEmptyParams(t *testing.T) {
	d := New(nil, nil, nil)
	result := d.Dispatch("http", tooltypes.Invocation{Method: "tools/list", Params: nil})
	if !result.Success {
		t.Fatalf("expected tools/list to succeed, got %+v", result)
	}
}

func TestDispatchRoutesToRegisteredHandler(t *testing.T) {
	d := New(nil, nil, nil)
	d.Register("system_info", func(actor string, params map[string]interface{}) tooltypes.Result {
		return tooltypes.Ok(map[string]interface{}{"os": "linux"})
	})

	result := d.Dispatch("http", tooltypes.Invocation{Method: "system_info"})
	if !result.Success || result.Extra["os"] != "linux" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDispatchResolvesAlias(t *testing.T) {
	called := false
	d := New(nil, nil, nil)
	d.Register("fs_list", func(actor string, params map[string]interface{}) tooltypes.Result {
		called = true
		return tooltypes.Ok(nil)
	})

	d.Dispatch("http", tooltypes.Invocation{Method: "listDirectory"})
	if !called {
		t.Fatalf("expected listDirectory to route to fs_list handler")
	}
}

func TestDispatchRoutesGUIMethodToBridge(t *testing.T) {
	bridge := &fakeBridge{}
	d := New(bridge, nil, nil)

	result := d.Dispatch("ws", tooltypes.Invocation{Method: "screenshot"})
	if !result.Success || result.Extra["via"] != "bridge" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if bridge.called != "screenshot" {
		t.Fatalf("expected bridge to be called with screenshot, got %q", bridge.called)
	}
}

func TestDispatchGUIMethodWithoutBridgeFails(t *testing.T) {
	d := New(nil, nil, nil)
	result := d.Dispatch("ws", tooltypes.Invocation{Method: "click"})
	if result.Success {
		t.Fatalf("expected click to fail when no GUI bridge is configured")
	}
}

func TestDispatchUnknownMethodFails(t *testing.T) {
	d := New(nil, nil, nil)
	result := d.Dispatch("http", tooltypes.Invocation{Method: "not_a_real_method"})
	if result.Success {
		t.Fatalf("expected unknown method to fail")
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	d := New(nil, nil, nil)
	d.Register("boom", func(actor string, params map[string]interface{}) tooltypes.Result {
		panic("handler exploded")
	})

	result := d.Dispatch("http", tooltypes.Invocation{Method: "boom"})
	if result.Success {
		t.Fatalf("expected panicking handler to surface as a failed result, not propagate")
	}
}

func TestDispatchRecordsAuditEntry(t *testing.T) {
	audit := &fakeAudit{}
	d := New(nil, audit, nil)
	d.Register("system_info", func(actor string, params map[string]interface{}) tooltypes.Result {
		return tooltypes.Ok(nil)
	})

	d.Dispatch("http", tooltypes.Invocation{Method: "system_info"})
	if audit.n != 1 {
		t.Fatalf("expected 1 audit record, got %d", audit.n)
	}
}
