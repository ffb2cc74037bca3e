// Package palette holds the ordered, named colour table that vector layers
// reference by index.
package palette

import (
	"fmt"
	"image/color"
)

// Colour is one palette entry. Names are user-editable and need not be unique.
type Colour struct {
	RGB  color.RGBA
	Name string
}

// Sentinel is returned for out-of-range lookups.
var Sentinel = Colour{RGB: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Name: "error"}

// Palette is an ordered list of colours. Index is the canonical reference:
// removing an entry shifts every higher index down by one.
type Palette struct {
	entries []Colour
}

// New returns an empty palette.
func New() *Palette {
	return &Palette{}
}

func (p *Palette) Len() int {
	return len(p.entries)
}

// At returns the entry at index i, or Sentinel and false when i is out of range.
func (p *Palette) At(i int) (Colour, bool) {
	if i < 0 || i >= len(p.entries) {
		return Sentinel, false
	}
	return p.entries[i], true
}

// Append adds c at the end and returns its index.
func (p *Palette) Append(c Colour) int {
	c.RGB.A = 255
	p.entries = append(p.entries, c)
	return len(p.entries) - 1
}

// AppendRGB adds an unnamed colour, naming it "Colour <index>".
func (p *Palette) AppendRGB(rgb color.Color) int {
	r, g, b, _ := rgb.RGBA()
	return p.Append(Colour{
		RGB:  color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255},
		Name: fmt.Sprintf("Colour %d", len(p.entries)),
	})
}

// Remove deletes entry i. It reports false for an out-of-range index.
func (p *Palette) Remove(i int) bool {
	if i < 0 || i >= len(p.entries) {
		return false
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	return true
}

// Rename changes the name of entry i in place.
func (p *Palette) Rename(i int, name string) bool {
	if i < 0 || i >= len(p.entries) {
		return false
	}
	p.entries[i].Name = name
	return true
}

// Entries returns a copy of the palette contents in index order.
func (p *Palette) Entries() []Colour {
	out := make([]Colour, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clone returns an independent copy.
func (p *Palette) Clone() *Palette {
	return &Palette{entries: p.Entries()}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Default returns the stock palette new documents start with.
func Default() *Palette {
	p := New()
	for _, c := range []Colour{
		{rgb(0, 0, 0), "Black"},
		{rgb(255, 0, 0), "Red"},
		{rgb(128, 0, 0), "Dark Red"},
		{rgb(255, 128, 0), "Orange"},
		{rgb(128, 64, 0), "Dark Orange"},
		{rgb(255, 255, 0), "Yellow"},
		{rgb(128, 128, 0), "Dark Yellow"},
		{rgb(0, 255, 0), "Green"},
		{rgb(0, 128, 0), "Dark Green"},
		{rgb(0, 255, 255), "Cyan"},
		{rgb(0, 128, 128), "Dark Cyan"},
		{rgb(0, 0, 255), "Blue"},
		{rgb(0, 0, 128), "Dark Blue"},
		{rgb(255, 255, 255), "White"},
		{rgb(220, 220, 229), "Very Light Grey"},
		{rgb(192, 192, 192), "Light Grey"},
		{rgb(160, 160, 164), "Grey"},
		{rgb(128, 128, 128), "Dark Grey"},
		{rgb(255, 227, 187), "Light Skin"},
		{rgb(221, 196, 161), "Light Skin - shade"},
		{rgb(255, 214, 156), "Skin"},
		{rgb(207, 174, 127), "Skin - shade"},
		{rgb(255, 198, 116), "Dark Skin"},
		{rgb(227, 177, 105), "Dark Skin - shade"},
	} {
		p.Append(c)
	}
	return p
}
