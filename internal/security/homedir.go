package security

import "os"

// currentHomeDir resolves the invoking user's home directory on each call.
// Failures degrade to an empty string; callers skip the
// home-relative pattern rather than panic or deny everything.
func currentHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return dir
}
