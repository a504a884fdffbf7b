package security

import (
	"regexp"
	"strings"
)

// commandRuleSet holds the command deny-list: exact leading tokens plus
// full-line regex patterns for exfiltration and credential-dump detection.
type commandRuleSet struct {
	exactTokens map[string]string // lowercased leading token -> rule label
	patterns    []labeledRegex
}

// check extracts the leading token of cmdline (the executable name, with
// surrounding quotes stripped) and tests both it and the full line against
// the deny-list. paths is consulted so a command referencing a protected
// path as an argument (cat /etc/shadow, cp ~/.ssh/id_rsa /tmp) is denied
// even when the executable itself (cat, cp) is otherwise unremarkable.
func (rs commandRuleSet) check(cmdline string, paths pathRuleSet) Decision {
	trimmed := strings.TrimSpace(cmdline)
	if trimmed == "" {
		return deny("empty command", "empty-command")
	}

	token := strings.ToLower(strings.Trim(leadingToken(trimmed), `"'`))
	// Strip a leading path component so /usr/bin/curl matches "curl".
	if idx := strings.LastIndexAny(token, "/\\"); idx >= 0 {
		token = token[idx+1:]
	}
	// Strip a Windows executable extension so mimikatz.exe matches "mimikatz".
	token = strings.TrimSuffix(token, ".exe")
	if label, ok := rs.exactTokens[token]; ok {
		return deny("command uses a blocked executable", label)
	}

	lower := strings.ToLower(trimmed)
	for _, p := range rs.patterns {
		if p.re.MatchString(lower) {
			return deny("command matches a blocked pattern", p.label)
		}
	}

	for _, frag := range protectedPathFragments {
		if strings.Contains(lower, frag) {
			return deny("command references a protected path", "protected-path-reference:"+frag)
		}
	}

	return Allow()
}

func leadingToken(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' {
			return s[:i]
		}
	}
	return s
}

// protectedPathFragments are lowercase substrings checked against a whole
// command line, independent of which argument position they appear in.
// Grounded on security.h's documented "credential files" and "exfiltration
// prevention" responsibilities; the header ships no concrete list, so these
// are authored directly from the classes it names.
var protectedPathFragments = []string{
	".ssh/id_rsa",
	".ssh/id_ed25519",
	".ssh/id_ecdsa",
	".aws/credentials",
	".kube/config",
	"etc/shadow",
	"login.keychain",
	"/library/keychains",
}

func defaultPathRules() pathRuleSet {
	rs := pathRuleSet{
		exact: map[string]string{
			normalizePath("/etc/shadow"):      "shadow-file",
			normalizePath("/etc/gshadow"):     "shadow-file",
			normalizePath("/etc/sudoers"):     "sudoers-file",
			normalizePath("/etc/master.passwd"): "shadow-file",
		},
	}

	// Prefixes: SSH keys, cloud/tool credential directories, OS keychains,
	// browser profile credential stores, service-account token mounts.
	prefixes := []struct{ pattern, label string }{
		{"$HOME/.ssh", "ssh-private-keys"},
		{"$HOME/.aws", "cloud-credentials"},
		{"$HOME/.gnupg", "gpg-keyring"},
		{"$HOME/.kube", "kube-credentials"},
		{"$HOME/.docker", "container-registry-credentials"},
		{"$HOME/.config/gcloud", "cloud-credentials"},
		{"$HOME/Library/Keychains", "os-keychain"},
		{"$HOME/Library/Application Support/Google/Chrome/Default/Login Data", "browser-credential-store"},
		{"$HOME/.mozilla/firefox", "browser-credential-store"},
		{"/etc/ssl/private", "tls-private-keys"},
		{"/var/run/secrets/kubernetes.io/serviceaccount", "service-account-token"},
		{"/run/secrets", "service-account-token"},
	}
	for _, p := range prefixes {
		rs.prefix = append(rs.prefix, labeledPattern{pattern: expandHomePattern(p.pattern), label: p.label})
	}

	// Regexes catch patterns that don't anchor to a single well-known
	// directory: any *.pem/*.ppk private key file, any id_rsa/id_dsa/
	// id_ecdsa/id_ed25519 key file (and its .pub) regardless of location,
	// Windows SAM/SYSTEM/SECURITY hive files.
	regexes := []struct{ pattern, label string }{
		{`(^|/)id_(rsa|dsa|ecdsa|ed25519)(\.pub)?$`, "ssh-key-filename"},
		{`\.(pem|ppk)$`, "private-key-file"},
		{`(^|/)(\.netrc|\.pgpass|\.npmrc)$`, "credential-dotfile"},
		{`/windows/system32/config/(sam|system|security)$`, "windows-registry-hive"},
	}
	for _, r := range regexes {
		if re, err := regexp.Compile(r.pattern); err == nil {
			rs.regex = append(rs.regex, labeledRegex{re: re, label: r.label})
		}
	}

	return rs
}

func defaultCommandRules() commandRuleSet {
	rs := commandRuleSet{
		exactTokens: map[string]string{
			"mimikatz":  "credential-dump-tool",
			"lazagne":   "credential-dump-tool",
			"procdump":  "credential-dump-tool",
			"vssadmin":  "shadow-copy-tool",
			"secretsdump.py": "credential-dump-tool",
		},
	}

	patterns := []struct{ pattern, label string }{
		// base64-encoded payload piped into a shell, a common exfil/obfuscation idiom.
		{`base64\s+-d.*\|\s*(sh|bash)`, "base64-pipe-to-shell"},
		// curl/wget uploading a local file to a remote host.
		{`(curl|wget).*(--upload-file|-t\s|ftp://)`, "outbound-file-upload"},
		// dumping the in-memory lsass process (Windows credential harvesting).
		{`lsass`, "credential-dump-target"},
	}
	for _, p := range patterns {
		if re, err := regexp.Compile(p.pattern); err == nil {
			rs.patterns = append(rs.patterns, labeledRegex{re: re, label: p.label})
		}
	}

	return rs
}

// expandHomePattern substitutes a literal "$HOME" placeholder with the
// normalized home directory so pattern tables stay portable to write and
// read. homeDir is resolved lazily via currentHomeDir to avoid an import
// cycle with internal/config at package init time.
func expandHomePattern(p string) string {
	if !strings.HasPrefix(p, "$HOME") {
		return normalizePath(p)
	}
	home := currentHomeDir()
	if home == "" {
		return normalizePath(p)
	}
	return normalizePath(home + strings.TrimPrefix(p, "$HOME"))
}
