// Package render defines the rendering backend a document composites its
// layers through, and ships a software rasteriser implementing it.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/palette"
)

// Palette resolves the colour indices used by vector strokes.
type Palette interface {
	Colour(i int) palette.Colour
}

// Hints are the quality settings passed with every composite request.
type Hints struct {
	Antialiasing bool
	// CurveOpacity scales the alpha of unfilled vector strokes, 0.0 to 1.0.
	CurveOpacity float64
	Palette      Palette
}

// Backend composites one layer's content at a frame onto dst. The view maps
// document coordinates to dst pixels.
type Backend interface {
	Composite(dst draw.Image, l layer.Layer, frame int, view f64.Aff3, hints Hints) error
}

// Raster draws bitmap and vector layers in software. Sound and camera layers
// have nothing to draw. Raster keeps no state, so one value can serve
// concurrent exports.
type Raster struct{}

func NewRaster() *Raster {
	return &Raster{}
}

func (r *Raster) Composite(dst draw.Image, l layer.Layer, frame int, view f64.Aff3, hints Hints) error {
	switch v := l.(type) {
	case *layer.BitmapLayer:
		img, ok := v.LastImageAt(frame)
		if !ok || img.Pixels == nil {
			return nil
		}
		r.drawBitmap(dst, img, view, hints)
	case *layer.VectorLayer:
		d, ok := v.LastDrawingAt(frame)
		if !ok {
			return nil
		}
		r.drawVector(dst, d, view, hints)
	}
	return nil
}

func (r *Raster) drawBitmap(dst draw.Image, img layer.Image, view f64.Aff3, hints Hints) {
	s2d := Mul(view, Translate(float64(img.Origin.X), float64(img.Origin.Y)))
	var interp draw.Interpolator = draw.NearestNeighbor
	if hints.Antialiasing {
		interp = draw.BiLinear
	}
	interp.Transform(dst, s2d, img.Pixels, img.Pixels.Bounds(), draw.Over, nil)
}

func (r *Raster) drawVector(dst draw.Image, d layer.Drawing, view f64.Aff3, hints Hints) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	scale := LinearScale(view)

	for _, s := range d.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		pts := make([]layer.Point, len(s.Points))
		for i, p := range s.Points {
			x, y := Apply(view, p.X, p.Y)
			x, y = x-float64(b.Min.X), y-float64(b.Min.Y)
			if !hints.Antialiasing {
				x, y = math.Round(x), math.Round(y)
			}
			pts[i] = layer.Point{X: x, Y: y}
		}

		z.Reset(b.Dx(), b.Dy())
		opacity := 1.0
		if s.Filled && len(pts) >= 3 {
			addPolygon(z, pts)
		} else {
			hw := math.Max(s.Width*scale/2, 0.5)
			addPolyline(z, pts, hw)
			opacity = clamp01(hints.CurveOpacity)
		}

		c := colourOf(hints.Palette, s.Colour)
		src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * opacity))})
		z.DrawOp = draw.Over
		z.Draw(dst, b, src, image.Point{})
	}
}

func addPolygon(z *vector.Rasterizer, pts []layer.Point) {
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

// addPolyline outlines each segment as a quad of half-width hw. All quads are
// wound the same way so overlaps at joints accumulate instead of cancelling.
func addPolyline(z *vector.Rasterizer, pts []layer.Point, hw float64) {
	if len(pts) == 1 {
		p := pts[0]
		addPolygon(z, []layer.Point{
			{X: p.X - hw, Y: p.Y - hw}, {X: p.X + hw, Y: p.Y - hw},
			{X: p.X + hw, Y: p.Y + hw}, {X: p.X - hw, Y: p.Y + hw},
		})
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*hw, dx/length*hw
		addPolygon(z, []layer.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
}

func colourOf(p Palette, i int) color.RGBA {
	if p == nil {
		return palette.Sentinel.RGB
	}
	return p.Colour(i).RGB
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FillWhite paints dst opaque white, ignoring any view transform.
func FillWhite(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
}
