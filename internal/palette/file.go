package palette

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/flipbook/internal/tree"
)

const (
	rootName  = "palette"
	entryName = "Colour"
)

type entryBody struct {
	Name  string `yaml:"name"`
	Red   int    `yaml:"red"`
	Green int    `yaml:"green"`
	Blue  int    `yaml:"blue"`
}

// MarshalTree returns the palette as a "palette" root with one "Colour"
// element per entry, in index order.
func (p *Palette) MarshalTree() (*yaml.Node, error) {
	children := make([]*yaml.Node, 0, len(p.entries))
	for _, c := range p.entries {
		body, err := tree.Encode(entryBody{
			Name:  c.Name,
			Red:   int(c.RGB.R),
			Green: int(c.RGB.G),
			Blue:  int(c.RGB.B),
		})
		if err != nil {
			return nil, fmt.Errorf("encode colour %q: %w", c.Name, err)
		}
		children = append(children, tree.NewElement(entryName, body))
	}
	return tree.NewRoot(rootName, children...), nil
}

// UnmarshalTree replaces the palette contents with the entries of doc.
// Elements other than "Colour" are ignored. Channel values are clamped to 0..255.
// On error the palette is left unchanged.
func (p *Palette) UnmarshalTree(doc *yaml.Node) error {
	elements, err := tree.Children(doc, rootName)
	if err != nil {
		return err
	}
	entries := make([]Colour, 0, len(elements))
	for i, el := range elements {
		if el.Name != entryName {
			continue
		}
		var body entryBody
		if err := el.Body.Decode(&body); err != nil {
			return fmt.Errorf("decode colour %d: %w", i, err)
		}
		entries = append(entries, Colour{
			RGB:  color.RGBA{R: channel(body.Red), G: channel(body.Green), B: channel(body.Blue), A: 255},
			Name: body.Name,
		})
	}
	p.entries = entries
	return nil
}

// WriteFile stores the palette at path.
func (p *Palette) WriteFile(path string) error {
	doc, err := p.MarshalTree()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create palette %s: %w", path, err)
	}
	if err := tree.Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile replaces the palette contents with the file at path.
func (p *Palette) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open palette %s: %w", path, err)
	}
	defer f.Close()

	doc, err := tree.Read(f)
	if err != nil {
		return err
	}
	return p.UnmarshalTree(doc)
}

func channel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
