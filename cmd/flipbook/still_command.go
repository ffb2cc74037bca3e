package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/export"
	"github.com/ivlev/flipbook/internal/render"
)

func newStillCommand(ctx *commandContext) *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "still <file> <image>",
		Short: "Write one frame on a white background; the format follows the extension",
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
			opts.ExportFPS = 0
			if err := export.New(doc, render.NewRaster(), ctx.logger(cmd)).Still(opts, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote frame %d to %s\n", opts.FrameStart, args[1])
			return nil
		},
	}

	rf.register(cmd)
	return cmd
}
