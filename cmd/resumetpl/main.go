// Package main provides the resumetpl CLI: render résumés through template
// descriptors, validate and list templates, and manage the Postgres store.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-resumetpl/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	configPath string
	flags      config.Config
	getenv     func(string) string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{getenv: os.Getenv}

	root := &cobra.Command{
		Use:           "resumetpl",
		Short:         "Compose résumé data through declarative templates",
		Long:          "resumetpl renders résumé data (JSON or YAML) through template descriptors into a styled, slotted document tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML or JSON config file")
	pf.StringVar(&a.flags.TemplatesDir, "templates-dir", "", "Directory of template descriptors")
	pf.StringVar(&a.flags.TemplatesURL, "templates-url", "", "Base URL serving template descriptors")
	pf.StringVar(&a.flags.DatabaseURL, "database-url", "", "Postgres URL of the templates table")
	pf.BoolVar(&a.flags.DisableEmbedded, "no-embedded", false, "Do not fall back to the built-in templates")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newRenderCmd(a),
		newValidateCmd(a),
		newListCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration with precedence flags > env > file > defaults.
func (a *app) setup(stderr io.Writer) error {
	cfg := config.Config{}
	if strings.TrimSpace(a.configPath) != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	cfg, err := cfg.FromEnv(a.getenv)
	if err != nil {
		return err
	}
	cfg = a.flags.MergeWithDefaults(cfg)
	if a.flags.DisableEmbedded {
		cfg.DisableEmbedded = true
	}
	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.NewLogger(stderr)
	return nil
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
