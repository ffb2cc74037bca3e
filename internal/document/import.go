package document

import (
	"fmt"
	"image"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/source"
)

// ImportFrames renders every page of src at dpi and stores page k as the
// key at startFrame+k of the bitmap layer at layerIndex. Each picture is
// centred on the document origin. It returns the number of keys written.
func (d *Document) ImportFrames(layerIndex int, src source.Source, startFrame, dpi int) (int, error) {
	l, ok := d.Layer(layerIndex)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrLayerIndex, layerIndex)
	}
	bitmap, ok := l.(*layer.BitmapLayer)
	if !ok {
		return 0, fmt.Errorf("%w: layer %d is %s", ErrNotBitmap, l.ID(), l.Kind())
	}

	count := src.PageCount()
	if count == 0 {
		return 0, source.ErrNoPages
	}
	for i := 0; i < count; i++ {
		img, err := src.RenderPage(i, dpi)
		if err != nil {
			return i, fmt.Errorf("render page %d: %w", i, err)
		}
		px := layer.ToRGBA(img)
		origin := image.Pt(-px.Rect.Dx()/2, -px.Rect.Dy()/2)
		bitmap.SetImage(startFrame+i, layer.Image{Origin: origin, Pixels: px})
		d.modified = true
	}
	d.logger.Info("frames imported", "layer", bitmap.ID(), "first", startFrame, "count", count)
	return count, nil
}
