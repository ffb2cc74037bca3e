package source

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/flipbook/internal/layer"
)

// TrimOptions control how page margins are detected.
type TrimOptions struct {
	// EdgeThreshold is the Sobel gradient magnitude above which a pixel
	// counts as drawing.
	EdgeThreshold float64
	// Padding is kept around the detected content, in pixels.
	Padding int
}

func DefaultTrimOptions() TrimOptions {
	return TrimOptions{EdgeThreshold: 30, Padding: 8}
}

// Trimmed wraps src so every rendered page is cropped to its drawn content.
// Scanned or exported pages usually carry wide empty margins that would
// otherwise end up in every bitmap key.
func Trimmed(src Source, opts TrimOptions) Source {
	return &trimmedSource{Source: src, opts: opts}
}

type trimmedSource struct {
	Source
	opts TrimOptions
}

func (t *trimmedSource) RenderPage(index int, dpi int) (image.Image, error) {
	img, err := t.Source.RenderPage(index, dpi)
	if err != nil {
		return nil, err
	}
	r := ContentBounds(img, t.opts)
	if r.Empty() || r == img.Bounds() {
		return img, nil
	}
	rgba := layer.ToRGBA(img)
	return rgba.SubImage(r.Sub(img.Bounds().Min)), nil
}

// ContentBounds returns the smallest rectangle holding every edge pixel of
// img, grown by opts.Padding and clipped to the image. A blank page yields
// the empty rectangle.
func ContentBounds(img image.Image, opts TrimOptions) image.Rectangle {
	gray := toGrayscale(img)
	b := gray.Bounds()

	content := image.Rectangle{}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			if sobel(gray, x, y) > opts.EdgeThreshold {
				content = content.Union(image.Rect(x-1, y-1, x+2, y+2))
			}
		}
	}
	if content.Empty() {
		return content
	}
	return content.Inset(-opts.Padding).Intersect(b)
}

// toGrayscale flattens transparency onto white so empty pixels read as paper.
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			paper := 0xffff - a
			c := color.RGBA64{R: uint16(r + paper), G: uint16(g + paper), B: uint16(bl + paper), A: 0xffff}
			gray.Set(x, y, color.GrayModel.Convert(c))
		}
	}
	return gray
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// sobel is the gradient magnitude at (x, y); the caller keeps a one pixel border.
func sobel(gray *image.Gray, x, y int) float64 {
	var sumX, sumY float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
			sumX += pixel * sobelX[ky+1][kx+1]
			sumY += pixel * sobelY[ky+1][kx+1]
		}
	}
	return math.Sqrt(sumX*sumX + sumY*sumY)
}
