package main

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/layer"
)

func parseIndex(arg string, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, arg, err)
	}
	return n, nil
}

// layerAt resolves a layer index argument against doc.
func layerAt(doc *document.Document, arg string) (layer.Layer, int, error) {
	i, err := parseIndex(arg, "layer index")
	if err != nil {
		return nil, 0, err
	}
	l, ok := doc.Layer(i)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %d (document has %d layers)", document.ErrLayerIndex, i, doc.LayerCount())
	}
	return l, i, nil
}

// parseColour accepts #rrggbb or rrggbb.
func parseColour(arg string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(arg), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: expected #rrggbb", arg)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", arg, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func formatColour(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// lastKeyFrame is the highest keyed frame over all layers, or 1 when the
// document has no keys.
func lastKeyFrame(doc *document.Document) int {
	last := 1
	for _, l := range doc.Layers() {
		if keys := l.KeyFrames(); len(keys) > 0 && keys[len(keys)-1] > last {
			last = keys[len(keys)-1]
		}
	}
	return last
}

// firstLayerOf returns the index of the lowest layer of kind, or -1.
func firstLayerOf(doc *document.Document, kind layer.Kind) int {
	for i, l := range doc.Layers() {
		if l.Kind() == kind {
			return i
		}
	}
	return -1
}

var errNoBitmapLayer = errors.New("document has no bitmap layer; pass --layer")
