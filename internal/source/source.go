// Package source reads external pictures that can be imported as bitmap
// keyframes: a directory of images, a single image or the pages of a PDF.
package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrNoPages is returned when a source holds nothing to import.
var ErrNoPages = errors.New("source has no pages")

type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks the source implementation from the path: PDF files go through
// MuPDF, anything else is treated as an image or a directory of images.
func Open(path string) (Source, error) {
	var (
		src Source
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		src, err = NewFitzPDFSource(path)
	} else {
		src, err = NewImageSource(path)
	}
	if err != nil {
		return nil, err
	}
	if src.PageCount() == 0 {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNoPages)
	}
	return src, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage rasterises one page at dpi.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if dpi <= 0 {
		dpi = 72
	}
	return f.doc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
