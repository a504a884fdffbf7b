package config

import (
	"os"
	"strings"
	"sync"
)

var (
	machineIDOnce   sync.Once
	cachedMachineID string
)

// MachineID returns a stable per-host identifier, derived once per process
// lifetime and cached thereafter (SPEC_FULL.md §3 "MachineId").
//
// Preference order: platform-specific primitive (see machineid_*.go), then
// /etc/machine-id, then /var/lib/dbus/machine-id, then
// "<hostname>-<platform>".
func MachineID() string {
	machineIDOnce.Do(func() {
		cachedMachineID = deriveMachineID()
	})
	return cachedMachineID
}

func deriveMachineID() string {
	if id := platformMachineID(); id != "" {
		return id
	}
	if id := readIDFile("/etc/machine-id"); id != "" {
		return id
	}
	if id := readIDFile("/var/lib/dbus/machine-id"); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return host + "-" + platformName()
}

func readIDFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
