// Package suite assembles the midenc test-suite configuration: discovery
// suffixes, the child-process environment, and the substitution table the
// harness expands test RUN lines against.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"midenc-lit/internal/config"
	"midenc-lit/internal/resolver"
	"midenc-lit/internal/subst"
)

// Substitution tokens consumed by the test files.
const (
	TokenMidenc    = "%midenc"
	TokenFileCheck = "%filecheck"
	TokenTestDir   = "%test_dir"
)

// Build assembles the stock configuration for the repository rooted at
// repoRoot.
func Build(repoRoot string) (*config.Config, error) {
	return BuildWith(repoRoot, config.Default())
}

// BuildWith completes cfg for the repository rooted at repoRoot: absolute
// roots, child environment, and the frozen substitution table. The returned
// config is the one passed in.
func BuildWith(repoRoot string, cfg *config.Config) (*config.Config, error) {
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	if cfg.TestSourceRoot == "" {
		cfg.TestSourceRoot = filepath.Join(root, "tests", "lit")
	}
	if cfg.TestExecRoot == "" {
		cfg.TestExecRoot = filepath.Join(root, "target", "lit")
	}

	if cfg.Environment == nil {
		cfg.Environment = map[string]string{}
	}
	// RUSTFLAGS passes through when set and defaults to empty otherwise, so
	// child cargo invocations see a stable flag set.
	cfg.Environment["RUSTFLAGS"] = os.Getenv("RUSTFLAGS")
	cfg.Environment["PATH"] = prependPath(filepath.Join(root, "bin"), os.Getenv("PATH"))

	reg := subst.NewRegistry()
	if err := reg.Register(TokenMidenc, midencCommand(cfg.Midenc)); err != nil {
		return nil, err
	}
	if err := reg.Register(TokenFileCheck, resolveFileCheck(cfg)); err != nil {
		return nil, err
	}
	if err := reg.Register(TokenTestDir, cfg.TestSourceRoot); err != nil {
		return nil, err
	}
	reg.Freeze()
	cfg.Substitutions = reg

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("suite configuration invalid: %w", err)
	}
	return cfg, nil
}

// midencCommand renders the compiler invocation registered as %midenc.
func midencCommand(m config.MidencConfig) string {
	tool := resolver.Tool{Argv: append([]string{m.Binary}, m.Args...)}
	cmd := tool.Command()
	if m.SuppressBuildNoise {
		cmd += " 2>/dev/null"
	}
	return cmd
}

// FileCheckTool resolves the verification tool as an argv vector. The
// environment override, an opaque user-supplied command line, is split on
// whitespace; everything else comes straight from the resolver without any
// shell quoting involved.
func FileCheckTool(cfg *config.Config) resolver.Tool {
	fc := cfg.FileCheck
	if v := fileCheckOverride(fc); v != "" {
		return resolver.Tool{Argv: strings.Fields(v)}
	}

	script := fc.BundledScript
	if script != "" && !filepath.IsAbs(script) {
		script = filepath.Join(cfg.TestSourceRoot, script)
	}
	return resolver.Resolve(fc.SearchNames, fc.FallbackPaths, script, fc.Interpreter)
}

// resolveFileCheck produces the %filecheck replacement. The environment
// override is registered verbatim; otherwise the resolved tool is rendered
// in its shell-quoted string form.
func resolveFileCheck(cfg *config.Config) string {
	if v := fileCheckOverride(cfg.FileCheck); v != "" {
		return v
	}
	return FileCheckTool(cfg).Command()
}

// fileCheckOverride returns the trimmed override value, or "" when the
// override variable is unset or not configured.
func fileCheckOverride(fc config.FileCheckConfig) string {
	if fc.EnvOverride == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(fc.EnvOverride))
}

// prependPath puts dir in front of path using the platform list separator.
func prependPath(dir, path string) string {
	if path == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + path
}
