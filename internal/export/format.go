package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is a canonical output format.
type Format struct {
	Name string
	Ext  string
	// Opaque formats cannot store transparency; exporting to them always
	// paints the white background.
	Opaque bool
}

var (
	PNG  = Format{Name: "PNG", Ext: ".png"}
	JPG  = Format{Name: "JPG", Ext: ".jpg", Opaque: true}
	BMP  = Format{Name: "BMP", Ext: ".bmp"}
	TIFF = Format{Name: "TIFF", Ext: ".tif"}
)

var formatAliases = map[string]Format{
	"png":  PNG,
	"jpg":  JPG,
	"jpeg": JPG,
	"bmp":  BMP,
	"tif":  TIFF,
	"tiff": TIFF,
}

// NormalizeFormat maps a format name or extension, in any case and with or
// without a leading dot, to its canonical form.
func NormalizeFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// TrimExtension drops a trailing extension of format f from prefix, so
// "walk.png" and "walk" both yield the files walk0001.png, walk0002.png, ...
func TrimExtension(prefix string, f Format) string {
	exts := []string{f.Ext}
	if f == JPG {
		exts = append(exts, ".jpeg")
	}
	if f == TIFF {
		exts = append(exts, ".tiff")
	}
	for _, ext := range exts {
		if len(prefix) >= len(ext) && strings.EqualFold(prefix[len(prefix)-len(ext):], ext) {
			return prefix[:len(prefix)-len(ext)]
		}
	}
	return prefix
}

// FileName is prefix, the frame number zero-padded to at least four
// digits, and the format extension.
func FileName(prefix string, number int, f Format) string {
	return fmt.Sprintf("%s%04d%s", prefix, number, f.Ext)
}

// Encode writes img in format f. quality only applies to JPG; values
// outside 1..100 select the encoder default.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPG:
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f.Name)
	}
}
