//go:build windows

package shellsession

import "os/exec"

func shellCommand(command string) *exec.Cmd {
	return exec.Command("cmd.exe", "/C", command)
}

// terminate has no SIGTERM equivalent on Windows; Stop falls back to Kill.
func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
