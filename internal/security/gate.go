// Package security is the central choke point every filesystem and shell
// tool handler consults before touching the OS: a pure decision function
// over paths and command strings (SPEC_FULL.md §4.A).
//
// Grounded on original_source/service/include/security.h's ProtectedPaths /
// CommandFilter split, reworked as two pure Go types with no hidden global
// state — callers hold a *Gate built once at startup from embedded defaults
// plus an optional security.json overlay, and it is immutable thereafter
// (spec.md §3 "Immutable after load for the life of the process").
package security

import (
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Decision is the result of a path or command check.
type Decision struct {
	Allowed bool
	Reason  string
	Rule    string // the pattern that matched, for logging/audit
}

// Allow is the zero-cost "nothing matched" decision.
func Allow() Decision { return Decision{Allowed: true} }

func deny(reason, rule string) Decision {
	return Decision{Allowed: false, Reason: reason, Rule: rule}
}

// pathRuleSet holds the three pattern classes from spec.md §3, checked in
// order: exact, prefix, regex. First match wins.
type pathRuleSet struct {
	exact  map[string]string // normalized path -> rule label
	prefix []labeledPattern
	regex  []labeledRegex
}

type labeledPattern struct {
	pattern string
	label   string
}

type labeledRegex struct {
	re    *regexp.Regexp
	label string
}

// Gate is the immutable, process-wide security decision surface.
type Gate struct {
	paths    pathRuleSet
	commands commandRuleSet
}

// New builds a Gate from the embedded defaults, optionally overlaid with
// additional patterns loaded from a security.json file (spec.md §3).
func New(overlay *Overlay) *Gate {
	g := &Gate{
		paths:    defaultPathRules(),
		commands: defaultCommandRules(),
	}
	if overlay != nil {
		g.applyOverlay(overlay)
	}
	return g
}

func (g *Gate) applyOverlay(o *Overlay) {
	for _, p := range o.ProtectedPaths {
		g.paths.prefix = append(g.paths.prefix, labeledPattern{pattern: normalizePath(p), label: "configured:" + p})
	}
	for _, p := range o.ProtectedPathPatterns {
		if re, err := regexp.Compile(p); err == nil {
			g.paths.regex = append(g.paths.regex, labeledRegex{re: re, label: "configured:" + p})
		}
	}
	for _, c := range o.BlockedCommands {
		g.commands.exactTokens[strings.ToLower(c)] = "configured:" + c
	}
	for _, p := range o.BlockedCommandPatterns {
		if re, err := regexp.Compile(p); err == nil {
			g.commands.patterns = append(g.commands.patterns, labeledRegex{re: re, label: "configured:" + p})
		}
	}
}

// Overlay is the shape of the optional security.json config file.
type Overlay struct {
	ProtectedPaths         []string `json:"protectedPaths"`
	ProtectedPathPatterns  []string `json:"protectedPathPatterns"`
	BlockedCommands        []string `json:"blockedCommands"`
	BlockedCommandPatterns []string `json:"blockedCommandPatterns"`
}

// CheckPath canonicalizes path and tests it against the protected-path rule
// set. Canonicalization failure is treated as deny: a path we can't resolve
// is a path we can't prove is safe.
func (g *Gate) CheckPath(path string) Decision {
	norm, err := canonicalize(path)
	if err != nil {
		return deny("path could not be canonicalized", "canonicalize-failure")
	}
	return g.paths.check(norm)
}

// ShouldHideInListing reports whether a directory-listing child should be
// silently dropped. Never raises; callers just skip the entry when true.
func (g *Gate) ShouldHideInListing(path string) bool {
	norm, err := canonicalize(path)
	if err != nil {
		return true
	}
	return !g.paths.check(norm).Allowed
}

func (rs pathRuleSet) check(normalized string) Decision {
	if label, ok := rs.exact[normalized]; ok {
		return deny("path is on the protected-exact list", label)
	}
	for _, p := range rs.prefix {
		if strings.HasPrefix(normalized, p.pattern) {
			return deny("path is under a protected prefix", p.label)
		}
	}
	for _, r := range rs.regex {
		if r.re.MatchString(normalized) {
			return deny("path matches a protected pattern", r.label)
		}
	}
	return Allow()
}

// CheckCommand extracts the leading executable token from cmdline and
// checks it (and the full line, for exfiltration/protected-path references)
// against the command deny-list.
func (g *Gate) CheckCommand(cmdline string) Decision {
	return g.commands.check(cmdline, g.paths)
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return normalizePath(resolved), nil
	}
	// The path (or an ancestor) may not exist yet, e.g. a file about to be
	// created by fs_write. That's fine for a create; it is not fine for a
	// path that must already exist (fs_read/fs_delete/fs_move source) —
	// those calls surface a distinct IoError from the handler itself when
	// the open/stat fails, so the gate does not need to distinguish here.
	return normalizePath(abs), nil
}

func normalizePath(p string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(filepath.ToSlash(p))
	}
	return filepath.ToSlash(p)
}
