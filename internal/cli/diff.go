package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"freezedry/diff"
	"freezedry/internal/render"
)

const FlagExitCode = "exit-code"

// ErrDifferent is returned with --exit-code when the documents differ.
var ErrDifferent = errors.New("documents differ")

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <object> <reference>",
		Short: "Report the paths where two documents differ",
		Long: `Encode both documents, flatten their trees into paths and list every path
whose value differs or that exists in one document only. Paths are reported in
the order they first appear, those of the object first.`,
		Example: `freezedry diff new.yaml old.yaml --exit-code`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode, err := cmd.Flags().GetBool(FlagExitCode)
			if err != nil {
				return err
			}

			object, err := readDocument(args[0])
			if err != nil {
				return err
			}

			reference, err := readDocument(args[1])
			if err != nil {
				return err
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}

			calc := diff.NewCalculator(engine, diff.WithKeySeparator(a.cfg.Diff.KeySeparator))

			diffs, err := calc.Calculate(object, reference)
			if err != nil {
				return err
			}

			a.logger.Debug("documents compared",
				zap.String("object", args[0]),
				zap.String("reference", args[1]),
				zap.Int("differences", diffs.Size()))

			out := cmd.OutOrStdout()
			if diffs.Empty() {
				msg := "no differences"
				if !noColor(cmd) {
					msg = color.GreenString(msg)
				}

				_, err := fmt.Fprintln(out, msg)

				return err
			}

			render.Differences(out, diffs, render.Options{NoColor: noColor(cmd)})

			if exitCode {
				return ErrDifferent
			}

			return nil
		},
	}

	cmd.Flags().Bool(FlagExitCode, false, `Fail when the documents differ.`)

	return cmd
}
