//go:build windows

package tools

import (
	"context"
	"os/exec"
)

func platformExecCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd.exe", "/C", command)
}
