package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/document"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var name string
	var force bool

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a document with a camera, a vector and a bitmap layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to replace it)", path)
				}
			}
			if name == "" {
				name = cfg.Document.DefaultName
			}

			doc := document.New(name, ctx.logger(cmd))
			doc.DefaultInitialisation()
			if err := doc.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", path, doc)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Document name")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	return cmd
}
