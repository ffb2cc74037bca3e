package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/export"
	"github.com/ivlev/flipbook/internal/render"
)

func newSheetCommand(ctx *commandContext) *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "sheet <file> <prefix>",
		Short: "Write contact sheets of numbered thumbnails (prefix0.jpg, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := ctx.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			opts := rf.options(cmd, cfg, doc)
			opts.Prefix = args[1]
			opts.Format = export.JPG.Name
			opts.ExportFPS = 0

			paths, err := export.New(doc, render.NewRaster(), ctx.logger(cmd)).ContactSheet(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	rf.register(cmd)
	return cmd
}
