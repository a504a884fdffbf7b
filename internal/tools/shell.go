package tools

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/screenctl/screenctld/internal/security"
	"github.com/screenctl/screenctld/internal/shellsession"
	"github.com/screenctl/screenctld/internal/tooltypes"
)

// Shell groups shell_exec and the interactive shell_start_session/
// shell_send_input/shell_read_output/shell_stop_session handlers.
type Shell struct {
	Gate     *security.Gate
	Sessions *shellsession.Manager
	Audit    GateAuditSink
}

// checkCommand consults the gate for cmdline and, on denial, appends a
// blocked_command audit row before returning the Fail result a handler
// should return immediately. Returns nil when the gate allows the command.
func (s *Shell) checkCommand(actor, cmdline string) *tooltypes.Result {
	d := s.Gate.CheckCommand(cmdline)
	if d.Allowed {
		return nil
	}
	if s.Audit != nil {
		_ = s.Audit.RecordBlockedCommand(cmdline, actor, d.Reason, d.Rule)
	}
	res := tooltypes.Fail("command blocked: " + d.Reason)
	return &res
}

// Exec implements shell_exec: runs a command to completion with a timeout,
// capturing stdout/stderr and exit code.
func (s *Shell) Exec(actor string, params map[string]interface{}) tooltypes.Result {
	command, err := stringParam(params, "command")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := s.checkCommand(actor, command); res != nil {
		return *res
	}

	cwd := optionalString(params, "cwd", "")
	timeoutSec := optionalInt(params, "timeout", 30)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	cmd := platformExecCommand(ctx, command)
	if cwd != "" {
		cmd.Dir = cwd
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	exitCode := 0
	timedOut := ctx.Err() == context.DeadlineExceeded
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else if !timedOut {
			return tooltypes.Fail("failed to execute command: " + runErr.Error())
		}
	}

	return tooltypes.Ok(map[string]interface{}{
		"stdout":   stdout.String(),
		"stderr":   stderr.String(),
		"exitCode": exitCode,
		"timedOut": timedOut,
	})
}

// StartSession implements shell_start_session.
func (s *Shell) StartSession(actor string, params map[string]interface{}) tooltypes.Result {
	command := optionalString(params, "command", "")
	if command != "" {
		if res := s.checkCommand(actor, command); res != nil {
			return *res
		}
	}
	cwd := optionalString(params, "cwd", "")

	session, err := s.Sessions.Start(command, cwd)
	if err != nil {
		return tooltypes.Failf(err)
	}
	return tooltypes.Ok(map[string]interface{}{"sessionId": session.ID})
}

// SendInput implements shell_send_input.
func (s *Shell) SendInput(actor string, params map[string]interface{}) tooltypes.Result {
	sessionID, err := stringParam(params, "sessionId")
	if err != nil {
		return tooltypes.Failf(err)
	}
	input, err := stringParam(params, "input")
	if err != nil {
		return tooltypes.Failf(err)
	}

	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return tooltypes.Fail("no such shell session: " + sessionID)
	}
	if err := session.SendInput(input); err != nil {
		return tooltypes.Failf(err)
	}
	return tooltypes.Ok(map[string]interface{}{"sessionId": sessionID})
}

// ReadOutput implements shell_read_output.
func (s *Shell) ReadOutput(actor string, params map[string]interface{}) tooltypes.Result {
	sessionID, err := stringParam(params, "sessionId")
	if err != nil {
		return tooltypes.Failf(err)
	}
	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return tooltypes.Fail("no such shell session: " + sessionID)
	}

	stdout, stderr, exited, exitError := session.ReadOutput()
	result := map[string]interface{}{
		"sessionId": sessionID,
		"stdout":    stdout,
		"stderr":    stderr,
		"exited":    exited,
	}
	if exitError != "" {
		result["exitError"] = exitError
	}
	return tooltypes.Ok(result)
}

// StopSession implements shell_stop_session.
func (s *Shell) StopSession(actor string, params map[string]interface{}) tooltypes.Result {
	sessionID, err := stringParam(params, "sessionId")
	if err != nil {
		return tooltypes.Failf(err)
	}
	signal := strings.ToUpper(optionalString(params, "signal", "TERM"))

	session, ok := s.Sessions.Get(sessionID)
	if !ok {
		return tooltypes.Fail("no such shell session: " + sessionID)
	}
	if err := session.Stop(signal); err != nil {
		return tooltypes.Failf(err)
	}
	s.Sessions.Remove(sessionID)
	return tooltypes.Ok(map[string]interface{}{"sessionId": sessionID})
}

// ListSessions implements the listSessions support operation referenced by
// shell_tools.h.
func (s *Shell) ListSessions(actor string, params map[string]interface{}) tooltypes.Result {
	return tooltypes.Ok(map[string]interface{}{"sessions": s.Sessions.List()})
}
