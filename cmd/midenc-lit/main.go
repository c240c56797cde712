package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	repoRoot   string
	siteConfig string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "midenc-lit",
	Short: "midenc-lit - test-suite configuration for the midenc compiler",
	Long: `midenc-lit builds the configuration consumed by the lit-style test
harness that drives the midenc compiler test suite: registered test-file
suffixes, substitution tokens (%midenc, %filecheck, %test_dir), and the
environment exposed to child processes.

The harness itself is external; this tool resolves and inspects the
configuration it will be handed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo-root", ".", "repository root the suite paths are derived from")
	rootCmd.PersistentFlags().StringVar(&siteConfig, "site-config", "", "optional site-override YAML file")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
