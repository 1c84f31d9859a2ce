package cli

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"freezedry/diagnostic"
	"freezedry/internal/analyze"
	"freezedry/internal/gen"
)

const (
	FlagDir    = "dir"
	FlagOutput = "output"
	FlagDryRun = "dry-run"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate descriptor registration for Go packages",
		Long: `Analyze the given packages and write a file per package registering its
persisted structs, interfaces, enums and constructors with a descriptor table.
Persistence tags are checked first; malformed or conflicting tags fail the
generation, unknown tag options are reported as warnings.`,
		Example: `freezedry gen ./store ./warehouse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString(FlagDir)
			if err != nil {
				return err
			}

			output, err := cmd.Flags().GetString(FlagOutput)
			if err != nil {
				return err
			}

			dryRun, err := cmd.Flags().GetBool(FlagDryRun)
			if err != nil {
				return err
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = []string{"./..."}
			}

			graph, err := analyze.NewAnalyzer().WithDir(dir).LoadPackages(patterns...)
			if err != nil {
				return err
			}

			pkgPaths := slices.Sorted(maps.Keys(graph.Packages))

			diags := &diagnostic.Diagnostics{}
			for _, p := range pkgPaths {
				diags.Merge(analyze.Check(graph, p))
			}

			printDiagnostics(cmd.ErrOrStderr(), diags, noColor(cmd))

			if err := diags.Error(); err != nil {
				return fmt.Errorf("checking persistence tags: %w", err)
			}

			genCfg := a.cfg.GeneratorConfig()
			genCfg.OutputDir = output

			files, err := gen.NewGenerator(genCfg).GenerateAll(graph, pkgPaths...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if dryRun {
				for _, f := range files {
					if _, err := fmt.Fprintf(out, "// %s\n%s", filepath.Join(f.Dir, f.Filename), f.Content); err != nil {
						return err
					}
				}

				return nil
			}

			written, err := gen.WriteFiles(files, output)
			if err != nil {
				return err
			}

			for _, path := range written {
				a.logger.Info("descriptor registration written", zap.String("file", path))
				if _, err := fmt.Fprintln(out, path); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().String(FlagDir, "", `Directory the package patterns are resolved in.`)
	cmd.Flags().StringP(FlagOutput, "o", "", `Write every file into this directory instead of next to its package.`)
	cmd.Flags().Bool(FlagDryRun, false, `Print the generated files instead of writing them.`)

	return cmd
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, plain bool) {
	line := func(c *color.Color, d diagnostic.Diagnostic) {
		label := d.Severity.String()
		if !plain {
			label = c.Sprint(label)
		}

		_, _ = fmt.Fprintf(w, "%s: %s\n", label, d)
	}

	for _, d := range diags.Errors {
		line(color.New(color.FgRed, color.Bold), d)
	}

	for _, d := range diags.Warnings {
		line(color.New(color.FgYellow), d)
	}

	for _, d := range diags.Infos {
		line(color.New(color.FgCyan), d)
	}
}
