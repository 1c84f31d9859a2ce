// Package cli implements the freezedry command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"freezedry/internal/config"
	"freezedry/transform"
)

const (
	FlagConfig  = "config"
	FlagNoColor = "no-color"
)

// Execute runs the root command and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// app carries what the subcommands share once the configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func New() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "freezedry [sub-command]",
		Short: "Inspect, compare and describe values in their persisted tree form",
		Long: `freezedry turns values into semantic trees of named nodes and back.

The command line shows the tree of a YAML or JSON document, reports the
differences between two documents path by path, and generates the descriptor
registration of Go packages so their values can be restored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString(FlagConfig)
			if err != nil {
				return err
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = cfg.Log.Logger()
			a.logger.Debug("configuration loaded", zap.String("file", path))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(FlagConfig, "", `Path to the configuration file (default "./freezedry.yaml").`)
	cmd.PersistentFlags().Bool(FlagNoColor, false, `Disable colored output.`)

	cmd.AddCommand(newTreeCmd(a))
	cmd.AddCommand(newDiffCmd(a))
	cmd.AddCommand(newGenCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

func (a *app) engine() (*transform.Engine, error) {
	opts, err := a.cfg.EngineOptions()
	if err != nil {
		return nil, err
	}

	return transform.NewEngine(
		transform.WithLogger(a.logger),
		transform.WithOptions(opts...),
	), nil
}

// readDocument decodes a YAML or JSON file into plain maps, slices and
// scalars.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return doc, nil
}

func noColor(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool(FlagNoColor)
	return err == nil && v
}
