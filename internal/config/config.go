// Package config defines the suite configuration handed to the external
// test harness. The configuration is an explicit struct built once at
// harness startup and immutable afterwards; there is no process-wide
// singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"midenc-lit/internal/subst"
)

// Config holds the complete test-suite configuration.
type Config struct {
	// Suite identity
	Name string `yaml:"name"`

	// Absolute directory containing the test files.
	TestSourceRoot string `yaml:"test_source_root"`

	// Absolute directory where the harness places per-test scratch output.
	TestExecRoot string `yaml:"test_exec_root"`

	// File suffixes the harness treats as test files.
	Suffixes []string `yaml:"suffixes"`

	// Directory names skipped during discovery (e.g. split-file inputs).
	ExcludedDirs []string `yaml:"excluded_dirs"`

	// Environment exposed to child processes spawned by the harness.
	Environment map[string]string `yaml:"environment"`

	// Verification tool resolution
	FileCheck FileCheckConfig `yaml:"filecheck"`

	// Compiler invocation
	Midenc MidencConfig `yaml:"midenc"`

	// Substitution table; populated by the suite builder, not by YAML.
	Substitutions *subst.Registry `yaml:"-"`
}

// FileCheckConfig drives resolution of the output-verification tool.
type FileCheckConfig struct {
	// Names tried against PATH, highest priority first.
	SearchNames []string `yaml:"search_names"`

	// Absolute locations tried after the PATH search, existence check only.
	FallbackPaths []string `yaml:"fallback_paths"`

	// Script shipped with the test tree, relative to TestSourceRoot unless
	// absolute. Used when nothing else resolves; never checked for existence.
	BundledScript string `yaml:"bundled_script"`

	// Interpreter that runs the bundled script.
	Interpreter string `yaml:"interpreter"`

	// Environment variable consulted before any resolution. A non-empty
	// value short-circuits the whole chain.
	EnvOverride string `yaml:"env_override"`
}

// MidencConfig describes the compiler command registered as %midenc.
type MidencConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`

	// The compiler prints cargo-style build progress on stderr; its own
	// diagnostics go to stdout. When set, the registered command sends
	// stderr to /dev/null so expectation patterns only see diagnostics.
	SuppressBuildNoise bool `yaml:"suppress_build_noise"`
}

// Default returns the stock midenc suite configuration.
func Default() *Config {
	return &Config{
		Name:         "midenc",
		Suffixes:     []string{".hir", ".wat", ".masm"},
		ExcludedDirs: []string{"Inputs"},
		Environment:  map[string]string{},

		FileCheck: FileCheckConfig{
			SearchNames: []string{
				"FileCheck",
				"FileCheck-19",
				"FileCheck-18",
				"FileCheck-17",
				"FileCheck-16",
				"filecheck",
			},
			FallbackPaths: []string{
				"/usr/lib/llvm-19/bin/FileCheck",
				"/usr/lib/llvm-18/bin/FileCheck",
				"/usr/lib/llvm-17/bin/FileCheck",
				"/usr/lib/llvm-16/bin/FileCheck",
				"/opt/homebrew/opt/llvm/bin/FileCheck",
				"/usr/local/opt/llvm/bin/FileCheck",
			},
			BundledScript: "filecheck.py",
			Interpreter:   "python3",
			EnvOverride:   "FILECHECK",
		},

		Midenc: MidencConfig{
			Binary:             "midenc",
			Args:               []string{"compile", "-o", "-"},
			SuppressBuildNoise: true,
		},
	}
}

// Load reads a site-override YAML file on top of the defaults. An empty or
// missing path is not an error; the defaults are returned with environment
// overrides applied, so the environment behaves the same with and without a
// site file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides lets the environment trump the site file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MIDENC_LIT_MIDENC"); v != "" {
		c.Midenc.Binary = v
	}
	if v := os.Getenv("MIDENC_LIT_INTERPRETER"); v != "" {
		c.FileCheck.Interpreter = v
	}
}

// Validate checks the invariants the harness relies on.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("suite name must not be empty")
	}
	if c.TestSourceRoot == "" || !filepath.IsAbs(c.TestSourceRoot) {
		return fmt.Errorf("test_source_root must be an absolute path, got %q", c.TestSourceRoot)
	}
	if len(c.Suffixes) == 0 {
		return fmt.Errorf("at least one test suffix is required")
	}
	for _, s := range c.Suffixes {
		if !strings.HasPrefix(s, ".") {
			return fmt.Errorf("suffix %q must start with a dot", s)
		}
	}
	if c.Midenc.Binary == "" {
		return fmt.Errorf("compiler binary must not be empty")
	}
	if c.FileCheck.Interpreter == "" {
		return fmt.Errorf("fallback interpreter must not be empty")
	}
	return nil
}
