package document

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/palette"
	"github.com/ivlev/flipbook/internal/tree"
)

const (
	rootName    = "object"
	layerName   = "layer"
	paletteFile = "palette.yaml"
)

// MarshalTree encodes the document as an "object" root holding one "layer"
// element per layer, bottom to top.
func (d *Document) MarshalTree() (*yaml.Node, error) {
	children := make([]*yaml.Node, 0, len(d.layers))
	for i, l := range d.layers {
		body, err := l.MarshalNode()
		if err != nil {
			return nil, fmt.Errorf("encode layer %d (%s): %w", i, l.Kind(), err)
		}
		children = append(children, tree.NewElement(layerName, body))
	}
	doc := tree.NewRoot(rootName, children...)
	tree.SetAttr(doc, "name", d.Name)
	return doc, nil
}

// LoadTree appends the layers described by doc. Every "layer" element with a
// known type becomes a new layer with a fresh id; anything else is skipped.
// It reports whether at least one recognised layer was found, which is the
// only signal: an unparseable tree and an empty one look the same.
func (d *Document) LoadTree(doc *yaml.Node) bool {
	elements, err := tree.Children(doc, rootName)
	if err != nil {
		return false
	}
	if name := tree.Attr(doc, "name"); name != "" {
		d.Name = name
	}

	someRelevantData := false
	for _, el := range elements {
		if el.Name != layerName {
			continue
		}
		kind, ok := layer.ParseKind(layer.Discriminator(el.Body))
		if !ok {
			d.logger.Debug("skipping layer of unknown type", "type", layer.Discriminator(el.Body))
			continue
		}
		someRelevantData = true
		l, err := d.AddLayer(kind)
		if err != nil {
			continue
		}
		if err := l.UnmarshalNode(el.Body); err != nil {
			d.logger.Warn("layer content partially loaded", "id", l.ID(), "kind", kind.String(), "error", err)
		}
	}
	d.logger.Debug("load object finished", "layers", len(d.layers))
	return someRelevantData
}

// Write stores the layer stack at path. The file is replaced atomically
// while holding path+".lock". A successful write clears the modified flag.
func (d *Document) Write(path string) error {
	doc, err := d.MarshalTree()
	if err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%s: %w", path, ErrLocked)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tree.Write(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	d.modified = false
	d.logger.Info("document written", "path", path, "layers", len(d.layers))
	return nil
}

// Read appends the layers stored at path. I/O failures and unparseable
// content return an error; ok reports whether any layer element was found.
func (d *Document) Read(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := tree.Read(f)
	if err != nil {
		if errors.Is(err, tree.ErrNoRoot) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return d.LoadTree(doc), nil
}

// DataDir is the directory kept next to a document file for its palette.
func DataDir(path string) string {
	return path + ".data"
}

// SavePalette writes the palette into dir as palette.yaml.
func (d *Document) SavePalette(dir string) error {
	return d.ExportPalette(filepath.Join(dir, paletteFile))
}

// LoadPalette replaces the palette with dir/palette.yaml.
func (d *Document) LoadPalette(dir string) error {
	return d.ImportPalette(filepath.Join(dir, paletteFile))
}

func (d *Document) ExportPalette(path string) error {
	return d.palette.WriteFile(path)
}

func (d *Document) ImportPalette(path string) error {
	if err := d.palette.ReadFile(path); err != nil {
		return err
	}
	d.modified = true
	return nil
}

// Save writes the document to path and its palette to DataDir(path).
func (d *Document) Save(path string) error {
	dir := DataDir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := d.SavePalette(dir); err != nil {
		return err
	}
	return d.Write(path)
}

// Open reads a document saved with Save. A missing palette file falls back
// to the default palette.
func Open(path string, logger *slog.Logger) (*Document, bool, error) {
	d := New("", logger)
	ok, err := d.Read(path)
	if err != nil {
		return nil, false, err
	}
	if err := d.LoadPalette(DataDir(path)); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		d.logger.Debug("no palette next to document, using default", "path", path)
		d.palette = palette.Default()
	}
	d.modified = false
	return d, ok, nil
}
