package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"midenc-lit/internal/config"
	"midenc-lit/internal/subst"
	"midenc-lit/internal/suite"
)

// showCmd prints the fully resolved suite configuration.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved suite configuration as YAML",
	Long: `Builds the suite configuration for --repo-root (applying --site-config
overrides when given) and prints the result, including the substitution
table exactly as the harness will receive it.`,
	RunE: runShow,
}

// showOutput is the printable view: the config plus the effective
// substitution table, which is not part of the YAML config itself.
type showOutput struct {
	Config        *config.Config       `yaml:"config"`
	Substitutions []subst.Substitution `yaml:"substitutions"`
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := buildSuite()
	if err != nil {
		return err
	}

	out := showOutput{
		Config:        cfg,
		Substitutions: cfg.Substitutions.Pairs(),
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// buildSuite loads the site overrides and completes the configuration for
// the chosen repository root. Load handles the no-site-config case itself
// so environment overrides apply either way.
func buildSuite() (*config.Config, error) {
	base, err := config.Load(siteConfig)
	if err != nil {
		return nil, err
	}
	logger.Debug("building suite configuration",
		zap.String("repo_root", repoRoot),
		zap.String("site_config", siteConfig))
	return suite.BuildWith(repoRoot, base)
}
