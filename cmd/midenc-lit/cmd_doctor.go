package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"midenc-lit/internal/suite"
)

// doctorCmd reports whether the tools the suite depends on are reachable.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check availability of the compiler and verification tool",
	Long: `Resolves the suite configuration and reports whether the compiler
binary, the verification tool, and the fallback interpreter can actually be
found on this host. Resolution never fails outright (the bundled script is
returned unverified), so this is the place to catch a broken setup before
the harness does.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := buildSuite()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	healthy := true

	report := func(label, target string, ok bool, detail string) {
		status := "ok"
		if !ok {
			status = "MISSING"
			healthy = false
		}
		fmt.Fprintf(out, "%-14s %-8s %s\n", label, status, detail)
		logger.Debug("doctor check",
			zap.String("label", label),
			zap.String("target", target),
			zap.Bool("ok", ok))
	}

	// Compiler binary, looked up the way the harness will spawn it.
	midencPath, err := exec.LookPath(cfg.Midenc.Binary)
	report("compiler", cfg.Midenc.Binary, err == nil, firstNonEmpty(midencPath, cfg.Midenc.Binary))

	// Verification tool: reachability is checked against the resolved argv
	// vector; the substitution string is only reported, never re-parsed.
	filecheck, _ := cfg.Substitutions.Lookup(suite.TokenFileCheck)
	var head string
	if argv := suite.FileCheckTool(cfg).Argv; len(argv) > 0 {
		head = argv[0]
	}
	report("filecheck", head, reachable(head), filecheck)

	// Fallback interpreter, needed only when the bundled script is in play.
	interpPath, err := exec.LookPath(cfg.FileCheck.Interpreter)
	report("interpreter", cfg.FileCheck.Interpreter, err == nil, firstNonEmpty(interpPath, cfg.FileCheck.Interpreter))

	// The bin directory prepended to PATH for child processes.
	binDir := strings.SplitN(cfg.Environment["PATH"], string(os.PathListSeparator), 2)[0]
	_, err = os.Stat(binDir)
	report("bin dir", binDir, err == nil, binDir)

	if !healthy {
		fmt.Fprintln(out, "\nsome tools are missing; test runs will fail at spawn time")
	}
	return nil
}

// reachable reports whether name resolves either on PATH or as an existing
// filesystem path.
func reachable(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		_, err := os.Stat(name)
		return err == nil
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
