package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"freezedry/internal/render"
)

const FlagTypes = "types"

func newTreeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Show the semantic tree of a YAML or JSON document",
		Long: `Encode the document with the configured transform options and print the
resulting tree. Values of interface type carry their runtime type in the node
name, after the generic type separator.`,
		Example: `freezedry tree order.yaml --types`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := cmd.Flags().GetBool(FlagTypes)
			if err != nil {
				return err
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			if doc == nil {
				return errors.New("document is empty")
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}

			tree, diags, err := engine.EncodeWithReport(doc)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", args[0], err)
			}

			for _, w := range diags.Warnings {
				a.logger.Warn(w.Message, zap.String("code", w.Code), zap.String("path", w.Path))
			}

			render.Tree(cmd.OutOrStdout(), tree, render.Options{Types: types, NoColor: noColor(cmd)})

			return nil
		},
	}

	cmd.Flags().Bool(FlagTypes, false, `Show the declared type of compound nodes.`)

	return cmd
}
