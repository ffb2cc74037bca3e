package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/source"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var layerIndex int
	var start int
	var dpi int
	var trim bool
	var trimPadding int

	cmd := &cobra.Command{
		Use:   "import <file> <pdf|image|directory>",
		Short: "Load pictures as bitmap keyframes, one page per frame",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dpi") {
				dpi = cfg.Import.DPI
			}

			src, err := source.Open(args[1])
			if err != nil {
				return err
			}
			defer src.Close()
			if trim {
				opts := source.DefaultTrimOptions()
				if cmd.Flags().Changed("trim-padding") {
					opts.Padding = trimPadding
				}
				src = source.Trimmed(src, opts)
			}

			return ctx.editDocument(cmd, args[0], func(doc *document.Document) error {
				target := layerIndex
				if target < 0 {
					if target = firstLayerOf(doc, layer.Bitmap); target < 0 {
						return errNoBitmapLayer
					}
				}
				n, err := doc.ImportFrames(target, src, start, dpi)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d frames into layer %d starting at frame %d\n", n, target, start)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&layerIndex, "layer", -1, "Bitmap layer index (default: first bitmap layer)")
	cmd.Flags().IntVar(&start, "start", 1, "Frame of the first page")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "PDF rasterisation resolution")
	cmd.Flags().BoolVar(&trim, "trim", false, "Crop empty page margins around the drawing")
	cmd.Flags().IntVar(&trimPadding, "trim-padding", source.DefaultTrimOptions().Padding, "Pixels kept around the drawing when trimming")
	return cmd
}
