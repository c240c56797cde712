package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"midenc-lit/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// isolate points the global flags at a scratch repo and silences the logger.
func isolate(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	root := t.TempDir()
	repoRoot = root
	siteConfig = ""
	t.Cleanup(func() {
		repoRoot = "."
		siteConfig = ""
	})
	t.Setenv("PATH", t.TempDir())
	t.Setenv("FILECHECK", "")
	t.Setenv("MIDENC_LIT_MIDENC", "")
	t.Setenv("MIDENC_LIT_INTERPRETER", "")
	return root
}

func runCapture(t *testing.T, run func(*cobra.Command, []string) error) string {
	t.Helper()
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	require.NoError(t, run(cmd, nil))
	return buf.String()
}

func TestShowPrintsResolvedConfig(t *testing.T) {
	root := isolate(t)

	output := runCapture(t, runShow)

	assert.Contains(t, output, "name: midenc")
	assert.Contains(t, output, filepath.Join(root, "tests", "lit"))
	assert.Contains(t, output, "token: '%midenc'")
	assert.Contains(t, output, "token: '%filecheck'")
	assert.Contains(t, output, "token: '%test_dir'")
	assert.Contains(t, output, "RUSTFLAGS")
}

func TestShowHonorsSiteConfig(t *testing.T) {
	isolate(t)

	site := filepath.Join(t.TempDir(), "lit.site.yaml")
	cfg := config.Default()
	cfg.Name = "midenc-nightly"
	require.NoError(t, cfg.Save(site))
	siteConfig = site

	output := runCapture(t, runShow)
	assert.Contains(t, output, "name: midenc-nightly")
}

func TestShowAppliesEnvOverridesWithoutSiteConfig(t *testing.T) {
	isolate(t)
	t.Setenv("MIDENC_LIT_MIDENC", "/custom/midenc")

	output := runCapture(t, runShow)

	assert.Contains(t, output, "binary: /custom/midenc")
	assert.Contains(t, output, "/custom/midenc compile")
}

func TestDoctorReportsMissingTools(t *testing.T) {
	isolate(t)

	output := runCapture(t, runDoctor)

	assert.Contains(t, output, "compiler")
	assert.Contains(t, output, "filecheck")
	assert.Contains(t, output, "interpreter")
	assert.Contains(t, output, "MISSING")
	assert.Contains(t, output, "spawn time")
}

func TestDoctorFindsInstalledTools(t *testing.T) {
	root := isolate(t)

	bin := t.TempDir()
	for _, name := range []string{"midenc", "FileCheck", "python3"} {
		path := filepath.Join(bin, name)
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	}
	t.Setenv("PATH", bin)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))

	output := runCapture(t, runDoctor)

	assert.NotContains(t, output, "MISSING")
	assert.NotContains(t, output, "spawn time")
}

func TestDoctorChecksQuotedToolHead(t *testing.T) {
	root := isolate(t)

	// An interpreter path full of shell metacharacters: reachability must be
	// judged from the resolved argv, not re-parsed out of the quoted
	// substitution string.
	dir := filepath.Join(t.TempDir(), "it's bin")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	interp := filepath.Join(dir, "python3")
	require.NoError(t, os.WriteFile(interp, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("MIDENC_LIT_INTERPRETER", interp)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))

	output := runCapture(t, runDoctor)

	var filecheckLine string
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "filecheck") {
			filecheckLine = line
			break
		}
	}
	require.NotEmpty(t, filecheckLine)
	assert.Contains(t, filecheckLine, "ok")
	assert.NotContains(t, filecheckLine, "MISSING")
}

func TestRootCommandWiring(t *testing.T) {
	names := make([]string, 0, 2)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "show")
	assert.Contains(t, joined, "doctor")
}
