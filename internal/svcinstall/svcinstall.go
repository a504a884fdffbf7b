// Package svcinstall implements screenctld's --install/--uninstall flags
// as thin wrappers around the platform's own service manager CLI. Actual
// unit/plist/SCM scaffolding is out of scope (spec.md §1's "OS-service/
// daemon scaffolding" non-goal) — these just shell out the way the teacher
// shells out to git in internal/git/command.go, trusting the platform tool
// to do the real work.
package svcinstall

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Install registers the currently running executable with the platform
// service manager so it starts on login/boot.
func Install() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("svcinstall: resolve executable: %w", err)
	}

	switch runtime.GOOS {
	case "linux":
		return run("systemctl", "--user", "enable", "--now", "--", exePath)
	case "darwin":
		return run("launchctl", "load", "-w", exePath)
	case "windows":
		return run("sc.exe", "create", "screenctld", "binPath=", exePath, "start=", "auto")
	default:
		return fmt.Errorf("svcinstall: unsupported platform %s", runtime.GOOS)
	}
}

// Uninstall removes the registration Install created.
func Uninstall() error {
	switch runtime.GOOS {
	case "linux":
		return run("systemctl", "--user", "disable", "--now", "screenctld")
	case "darwin":
		return run("launchctl", "unload", "screenctld")
	case "windows":
		return run("sc.exe", "delete", "screenctld")
	default:
		return fmt.Errorf("svcinstall: unsupported platform %s", runtime.GOOS)
	}
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("svcinstall: %s: %w", name, err)
	}
	return nil
}
