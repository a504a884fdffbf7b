//go:build windows

package config

import "golang.org/x/sys/windows/registry"

// platformMachineID reads HKLM\SOFTWARE\Microsoft\Cryptography\MachineGuid,
// the stable per-install identifier Windows itself uses (SPEC_FULL.md §3).
func platformMachineID() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Cryptography`, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return ""
	}
	defer k.Close()

	guid, _, err := k.GetStringValue("MachineGuid")
	if err != nil {
		return ""
	}
	return guid
}

func platformName() string { return "windows" }
