package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/render"
)

// Contact sheet layout: 15 thumbnails per page in 3 columns.
const (
	sheetWidth     = 2300
	sheetHeight    = 3400
	sheetPerPage   = 15
	sheetColumns   = 3
	thumbWidth     = 640
	thumbHeight    = 480
	thumbStepX     = 800
	thumbStepY     = 680
	thumbMarginX   = 30
	thumbMarginY   = 50
	sheetQuality   = 60
	labelScale     = 3
	labelMargin    = 5
	sheetExtension = ".jpg"
)

// ContactSheet paints frames FrameStart..FrameEnd as numbered thumbnails on
// white pages and writes each page as prefix + page number + ".jpg". Each
// thumbnail shows the area View maps into Size. It returns the written paths.
func (e *Exporter) ContactSheet(ctx context.Context, opts Options) ([]string, error) {
	if opts.Format == "" {
		opts.Format = JPG.Name
	}
	j, err := e.prepare(opts)
	if err != nil {
		return nil, err
	}
	prefix := TrimExtension(opts.Prefix, JPG)
	paint := document.PaintOptions{CurveOpacity: opts.CurveOpacity, Antialiasing: opts.Antialiasing}
	thumbView := render.Mul(
		render.MapRect(image.Rectangle{Max: opts.Size}, image.Rect(0, 0, thumbWidth, thumbHeight)),
		j.opts.View,
	)

	var paths []string
	for page, first := 0, opts.FrameStart; first <= opts.FrameEnd; page, first = page+1, first+sheetPerPage {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		sheet := image.NewRGBA(image.Rect(0, 0, sheetWidth, sheetHeight))
		render.FillWhite(sheet)

		for slot := 0; slot < sheetPerPage && first+slot <= opts.FrameEnd; slot++ {
			frame := first + slot
			thumb := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
			if err := e.doc.PaintImage(thumb, frame, thumbView, paint, e.backend); err != nil {
				return paths, err
			}
			at := image.Pt((slot%sheetColumns)*thumbStepX+thumbMarginX, (slot/sheetColumns)*thumbStepY+thumbMarginY)
			target := thumb.Bounds().Add(at)
			draw.Draw(sheet, target, thumb, image.Point{}, draw.Over)
			strokeRect(sheet, target, color.Black)
			drawLabel(sheet, at.Add(image.Pt(labelMargin, labelMargin)), strconv.Itoa(frame))
		}

		var buf bytes.Buffer
		if err := Encode(&buf, sheet, JPG, sheetQuality); err != nil {
			return paths, fmt.Errorf("encode sheet %d: %w", page, err)
		}
		path := prefix + strconv.Itoa(page) + sheetExtension
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write sheet %d: %w", page, err)
		}
		paths = append(paths, path)
		e.logger.Debug("contact sheet written", "path", path, "first", first)
	}
	return paths, nil
}

// Still paints FrameStart on white and writes it to path. The format comes
// from the path extension; opts.Format and opts.Prefix are ignored.
func (e *Exporter) Still(opts Options, path string) error {
	format, err := NormalizeFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	opts.Format = format.Name
	opts.FrameEnd = opts.FrameStart
	j, err := e.prepare(opts)
	if err != nil {
		return err
	}
	j.paint.Background = true

	canvas := image.NewRGBA(image.Rectangle{Max: opts.Size})
	if err := e.doc.PaintImage(canvas, opts.FrameStart, j.viewAt(e.doc, opts.FrameStart), j.paint, e.backend); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, canvas, format, opts.Quality); err != nil {
		return fmt.Errorf("encode still: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write still: %w", err)
	}
	return nil
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}

// drawLabel writes text in black with its top-left corner at at, using the
// fixed 7x13 face scaled up so it stays readable on a full-size sheet.
func drawLabel(dst draw.Image, at image.Point, text string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	label := image.NewRGBA(image.Rect(0, 0, w, face.Height))
	d := font.Drawer{
		Dst:  label,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	target := image.Rect(0, 0, w*labelScale, face.Height*labelScale).Add(at)
	draw.NearestNeighbor.Scale(dst, target, label, label.Bounds(), draw.Over, nil)
}
