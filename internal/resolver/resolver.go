// Package resolver locates the verification tool the test suite depends on.
//
// Resolution walks an ordered candidate list: PATH lookups first, then fixed
// filesystem locations, then a bundled script run through an interpreter.
// First match wins. The bundled fallback is never checked for existence; a
// missing script surfaces when the harness spawns it.
package resolver

import (
	"os"
	"os/exec"
	"strings"
)

// Tool is a resolved command reference as an argv vector. Argv[0] is either
// an absolute path or a bare name searched on PATH at spawn time.
type Tool struct {
	Argv []string
}

// Command renders the tool as a single shell-safe command line, the form
// registered as a substitution value for the harness.
func (t Tool) Command() string {
	parts := make([]string, 0, len(t.Argv))
	for _, arg := range t.Argv {
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Resolve picks the verification tool for the current host.
//
// Each name in searchNames is tried against PATH; the first hit wins. Failing
// that, each entry of fallbackPaths is tried with a bare existence check (not
// executability, not file type). Failing that, the bundled script is returned
// as "interpreter script" without any check at all.
//
// Resolve is a pure function of host state: identical inputs against an
// unchanged filesystem and PATH yield an identical result.
func Resolve(searchNames, fallbackPaths []string, bundledScript, interpreter string) Tool {
	for _, name := range searchNames {
		if found, err := exec.LookPath(name); err == nil && found != "" {
			return Tool{Argv: []string{found}}
		}
	}
	for _, path := range fallbackPaths {
		if _, err := os.Stat(path); err == nil {
			return Tool{Argv: []string{path}}
		}
	}
	return Tool{Argv: []string{interpreter, bundledScript}}
}

// safeArgChars are the characters beyond letters and digits that never need
// quoting in a POSIX shell word.
const safeArgChars = "-_./=+:@%,"

// Quote wraps a single argument in POSIX single quotes when it contains
// anything a shell might interpret. Bare words pass through untouched.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(safeArgChars, r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
