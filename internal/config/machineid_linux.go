//go:build linux

package config

// platformMachineID is a no-op on Linux: deriveMachineID already tries
// /etc/machine-id and /var/lib/dbus/machine-id directly, which are the
// canonical Linux sources (systemd machine-id(5)).
func platformMachineID() string { return "" }

func platformName() string { return "linux" }
