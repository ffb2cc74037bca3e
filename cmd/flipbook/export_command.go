package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/export"
	"github.com/ivlev/flipbook/internal/render"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var rf renderFlags
	var format string
	var quality int
	var background bool
	var fps, exportFps int
	var parallel bool
	var workers int

	cmd := &cobra.Command{
		Use:   "export <file> <prefix>",
		Short: "Write frames as numbered images (prefix0001.png, ...)",
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
			flags := cmd.Flags()
			if flags.Changed("format") {
				opts.Format = format
			}
			if flags.Changed("quality") {
				opts.Quality = quality
			}
			if flags.Changed("background") {
				opts.Background = background
			}
			if flags.Changed("fps") {
				opts.FPS = fps
			}
			if flags.Changed("export-fps") {
				opts.ExportFPS = exportFps
			}
			if !flags.Changed("workers") {
				workers = cfg.Export.Workers
			}

			logger := ctx.logger(cmd)
			exp := export.New(doc, render.NewRaster(), logger)
			var sum export.Summary
			if parallel {
				sum, err = exp.RunParallel(cmd.Context(), opts, workers)
			} else {
				sum, err = exp.Run(cmd.Context(), opts, func(ev export.FrameWritten) {
					logger.Debug("frame exported", "frame", ev.Frame, "files", len(ev.Paths), "done", ev.Index+1, "total", ev.Total)
				})
			}
			if err != nil {
				return fmt.Errorf("export: %w (%d files written)", err, sum.Files)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d frames to %d files\n", sum.Frames, sum.Files)
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Image format: png, jpg, bmp or tiff")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPG quality, 1..100")
	cmd.Flags().BoolVar(&background, "background", false, "Paint the white background")
	cmd.Flags().IntVar(&fps, "fps", 0, "Document frame rate")
	cmd.Flags().IntVar(&exportFps, "export-fps", 0, "Output frame rate; 0 writes one file per frame")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Render frames concurrently")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (default: sized from the host)")
	return cmd
}
