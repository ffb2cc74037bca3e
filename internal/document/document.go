// Package document implements the animation document: an ordered stack of
// layers in paint order, bottom to top, plus the shared colour palette.
//
// A Document is a single mutable structure without internal locking.
// Callers serialise access; concurrent readers work on a Snapshot.
package document

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/palette"
)

var (
	// ErrMalformed marks a document file that could not be parsed at all.
	ErrMalformed = errors.New("malformed document")
	// ErrLocked is returned when another writer holds the document lock.
	ErrLocked = errors.New("document is locked by another process")
	// ErrNotBitmap is returned when frames are imported into a non-bitmap layer.
	ErrNotBitmap = errors.New("layer is not a bitmap layer")
	// ErrLayerIndex is returned for an index outside the layer stack.
	ErrLayerIndex = errors.New("layer index out of range")
)

// DefaultName is the label of a document created without one.
const DefaultName = "Object"

type Document struct {
	Name string

	id       uuid.UUID
	layers   []layer.Layer
	palette  *palette.Palette
	modified bool
	logger   *slog.Logger
}

// New returns an empty document: no layers and an empty palette.
func New(name string, logger *slog.Logger) *Document {
	if name == "" {
		name = DefaultName
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Document{
		Name:    name,
		id:      id,
		palette: palette.New(),
		logger:  logger.With("document", id.String()),
	}
}

// ID is the identity layers refer back to through Owner.
func (d *Document) ID() uuid.UUID {
	return d.id
}

func (d *Document) Modified() bool {
	return d.modified
}

// MarkModified flags edits made directly on layer content.
func (d *Document) MarkModified() {
	d.modified = true
}

// DefaultInitialisation gives a new document its stock content: a camera, a
// vector and a bitmap layer, in that order, and the default palette.
func (d *Document) DefaultInitialisation() {
	d.AddCameraLayer()
	d.AddVectorLayer()
	d.AddBitmapLayer()
	d.LoadDefaultPalette()
}

// AddLayer creates a layer of kind, stamps it with 1 + MaxID and appends it
// on top of the stack.
func (d *Document) AddLayer(kind layer.Kind) (layer.Layer, error) {
	l, err := layer.New(kind, d.MaxID()+1)
	if err != nil {
		return nil, err
	}
	l.Attach(d.id)
	d.layers = append(d.layers, l)
	d.modified = true
	d.logger.Debug("layer added", "kind", kind.String(), "id", l.ID(), "index", len(d.layers)-1)
	return l, nil
}

func (d *Document) AddBitmapLayer() *layer.BitmapLayer {
	l, _ := d.AddLayer(layer.Bitmap)
	return l.(*layer.BitmapLayer)
}

func (d *Document) AddVectorLayer() *layer.VectorLayer {
	l, _ := d.AddLayer(layer.Vector)
	return l.(*layer.VectorLayer)
}

func (d *Document) AddSoundLayer() *layer.SoundLayer {
	l, _ := d.AddLayer(layer.Sound)
	return l.(*layer.SoundLayer)
}

func (d *Document) AddCameraLayer() *layer.CameraLayer {
	l, _ := d.AddLayer(layer.Camera)
	return l.(*layer.CameraLayer)
}

// MaxID returns the highest live layer id, or 0 for an empty document.
// Only live layers count, so deleting the top ids frees them for reuse.
func (d *Document) MaxID() int {
	result := 0
	for _, l := range d.layers {
		if l.ID() > result {
			result = l.ID()
		}
	}
	return result
}

func (d *Document) LayerCount() int {
	return len(d.layers)
}

// Layer returns the layer at index i. ok is false when i is out of range.
func (d *Document) Layer(i int) (layer.Layer, bool) {
	if i < 0 || i >= len(d.layers) {
		return nil, false
	}
	return d.layers[i], true
}

// Layers returns the stack bottom to top. The slice is a copy; the layers are not.
func (d *Document) Layers() []layer.Layer {
	return slices.Clone(d.layers)
}

// LayerByID resolves a layer id to its current index.
func (d *Document) LayerByID(id int) (layer.Layer, int, bool) {
	for i, l := range d.layers {
		if l.ID() == id {
			return l, i, true
		}
	}
	return nil, -1, false
}

// MoveLayer relocates the layer at i to index j. The layers between the two
// positions shift by one slot; everything else keeps its place.
func (d *Document) MoveLayer(i, j int) {
	if i == j || i < 0 || j < 0 || i >= len(d.layers) || j >= len(d.layers) {
		return
	}
	l := d.layers[i]
	d.layers = slices.Delete(d.layers, i, i+1)
	d.layers = slices.Insert(d.layers, j, l)
	d.modified = true
}

// DeleteLayer detaches the layer at i from the document and drops it.
// Out-of-range indices are ignored.
func (d *Document) DeleteLayer(i int) {
	if i < 0 || i >= len(d.layers) {
		return
	}
	l := d.layers[i]
	l.Detach()
	d.layers = slices.Delete(d.layers, i, i+1)
	d.modified = true
	d.logger.Debug("layer deleted", "id", l.ID(), "index", i)
}

// Colour returns palette entry i, or the white "error" sentinel.
func (d *Document) Colour(i int) palette.Colour {
	c, _ := d.palette.At(i)
	return c
}

func (d *Document) ColourCount() int {
	return d.palette.Len()
}

// Colours returns a copy of the palette in index order.
func (d *Document) Colours() []palette.Colour {
	return d.palette.Entries()
}

// AddColour appends c named "Colour <index>" and returns its index.
func (d *Document) AddColour(c color.Color) int {
	d.modified = true
	return d.palette.AppendRGB(c)
}

// AddColourRef appends a named entry and returns its index.
func (d *Document) AddColourRef(c palette.Colour) int {
	d.modified = true
	return d.palette.Append(c)
}

// RemoveColour deletes palette entry i unless a vector layer still uses it,
// in which case nothing changes and false is returned. On success every
// vector layer shifts its references above i down by one.
func (d *Document) RemoveColour(i int) bool {
	if i < 0 || i >= d.palette.Len() {
		return false
	}
	for _, l := range d.layers {
		if v, ok := l.(*layer.VectorLayer); ok && v.UsesColour(i) {
			d.logger.Debug("colour in use", "index", i, "layer", l.ID())
			return false
		}
	}
	for _, l := range d.layers {
		if v, ok := l.(*layer.VectorLayer); ok {
			v.RemoveColour(i)
		}
	}
	d.palette.Remove(i)
	d.modified = true
	return true
}

// RenameColour renames entry i in place.
func (d *Document) RenameColour(i int, name string) bool {
	if !d.palette.Rename(i, name) {
		return false
	}
	d.modified = true
	return true
}

// LoadDefaultPalette replaces the palette with the stock colours.
func (d *Document) LoadDefaultPalette() {
	d.palette = palette.Default()
	d.modified = true
}

// Snapshot returns a deep copy for read-only use on another goroutine. The
// copy keeps ids and identity; nothing done to it affects d.
func (d *Document) Snapshot() *Document {
	cp := &Document{
		Name:     d.Name,
		id:       d.id,
		palette:  d.palette.Clone(),
		modified: d.modified,
		logger:   d.logger,
		layers:   make([]layer.Layer, len(d.layers)),
	}
	for i, l := range d.layers {
		cp.layers[i] = l.Clone()
	}
	return cp
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%d layers, %d colours)", d.Name, len(d.layers), d.palette.Len())
}
