package main

import (
	"image"

	"github.com/spf13/cobra"

	"github.com/ivlev/flipbook/internal/config"
	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/export"
	"github.com/ivlev/flipbook/internal/layer"
)

// renderFlags are shared by export, sheet and still. Unset flags fall back
// to the loaded configuration.
type renderFlags struct {
	start, end    int
	width, height int
	layer         int
	noCamera      bool
	antialiasing  bool
	curveOpacity  float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.start, "start", 1, "First frame")
	flags.IntVar(&f.end, "end", 0, "Last frame, inclusive (default: last keyed frame)")
	flags.IntVar(&f.width, "width", 0, "Output width in pixels")
	flags.IntVar(&f.height, "height", 0, "Output height in pixels")
	flags.IntVar(&f.layer, "layer", -1, "Active layer index; a camera layer drives the view (default: first camera)")
	flags.BoolVar(&f.noCamera, "no-camera", false, "Ignore camera layers and export the plain document view")
	flags.BoolVar(&f.antialiasing, "antialiasing", true, "Smooth bitmap scaling and vector edges")
	flags.Float64Var(&f.curveOpacity, "curve-opacity", 1, "Opacity of vector strokes, 0..1")
}

func (f *renderFlags) options(cmd *cobra.Command, cfg *config.Config, doc *document.Document) export.Options {
	opts := export.Options{
		FrameStart:   f.start,
		FrameEnd:     f.end,
		Size:         image.Pt(cfg.Export.Width, cfg.Export.Height),
		Antialiasing: cfg.Export.Antialiasing,
		CurveOpacity: cfg.Export.CurveOpacity,
		Format:       cfg.Export.Format,
		Quality:      cfg.Export.Quality,
		Background:   cfg.Export.Background,
		FPS:          cfg.Export.FPS,
		ExportFPS:    cfg.Export.ExportFPS,
		ActiveLayer:  export.NoLayer,
	}
	if opts.FrameEnd <= 0 {
		opts.FrameEnd = max(lastKeyFrame(doc), opts.FrameStart)
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Size.X = f.width
	}
	if flags.Changed("height") {
		opts.Size.Y = f.height
	}
	if flags.Changed("antialiasing") {
		opts.Antialiasing = f.antialiasing
	}
	if flags.Changed("curve-opacity") {
		opts.CurveOpacity = f.curveOpacity
	}
	switch {
	case f.noCamera:
	case f.layer >= 0:
		opts.ActiveLayer = f.layer
	default:
		if i := firstLayerOf(doc, layer.Camera); i >= 0 {
			opts.ActiveLayer = i
		}
	}
	return opts
}
