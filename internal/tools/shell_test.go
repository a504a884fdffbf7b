package tools

import (
	"strings"
	"testing"

	"github.com/screenctl/screenctld/internal/security"
	"github.com/screenctl/screenctld/internal/shellsession"
)

func newShellForTest() *Shell {
	return &Shell{Gate: security.New(nil), Sessions: shellsession.NewManager()}
}

func TestExecRunsCommandAndCapturesOutput(t *testing.T) {
	s := newShellForTest()
	result := s.Exec("test", map[string]interface{}{"command": "echo hi-from-exec"})
	if !result.Success {
		t.Fatalf("Exec failed: %+v", result)
	}
	if !strings.Contains(result.Extra["stdout"].(string), "hi-from-exec") {
		t.Fatalf("unexpected stdout: %+v", result.Extra)
	}
	if result.Extra["exitCode"] != 0 {
		t.Fatalf("expected exit code 0, got %+v", result.Extra["exitCode"])
	}
}

func TestExecBlocksCredentialDumpCommand(t *testing.T) {
	s := newShellForTest()
	result := s.Exec("test", map[string]interface{}{"command": "mimikatz privilege::debug"})
	if result.Success {
		t.Fatalf("expected mimikatz command to be blocked")
	}
}

func TestExecNonZeroExitCodeSurfacedAsSuccess(t *testing.T) {
	s := newShellForTest()
	result := s.Exec("test", map[string]interface{}{"command": "exit 7"})
	if !result.Success {
		t.Fatalf("a well-formed command returning nonzero should still be success:true, got %+v", result)
	}
	if result.Extra["exitCode"] != 7 {
		t.Fatalf("expected exit code 7, got %+v", result.Extra["exitCode"])
	}
}

func TestStartSendReadStopSessionLifecycle(t *testing.T) {
	s := newShellForTest()

	start := s.StartSession("test", map[string]interface{}{})
	if !start.Success {
		t.Fatalf("StartSession failed: %+v", start)
	}
	sessionID := start.Extra["sessionId"].(string)

	send := s.SendInput("test", map[string]interface{}{"sessionId": sessionID, "input": "echo from-session"})
	if !send.Success {
		t.Fatalf("SendInput failed: %+v", send)
	}

	stop := s.StopSession("test", map[string]interface{}{"sessionId": sessionID})
	if !stop.Success {
		t.Fatalf("StopSession failed: %+v", stop)
	}

	read := s.ReadOutput("test", map[string]interface{}{"sessionId": sessionID})
	if read.Success {
		t.Fatalf("expected ReadOutput to fail for a stopped/removed session")
	}
}

func TestSendInputUnknownSessionFails(t *testing.T) {
	s := newShellForTest()
	result := s.SendInput("test", map[string]interface{}{"sessionId": "nonexistent", "input": "x"})
	if result.Success {
		t.Fatalf("expected failure for unknown session id")
	}
}
