package document

import (
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/palette"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func layerIDs(d *Document) []int {
	var ids []int
	for _, l := range d.Layers() {
		ids = append(ids, l.ID())
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaultInitialisation(t *testing.T) {
	d := New("", testLogger())
	if d.Name != DefaultName {
		t.Errorf("Expected name %q, got %q", DefaultName, d.Name)
	}
	d.DefaultInitialisation()

	want := []layer.Kind{layer.Camera, layer.Vector, layer.Bitmap}
	if d.LayerCount() != len(want) {
		t.Fatalf("Expected %d layers, got %d", len(want), d.LayerCount())
	}
	for i, k := range want {
		l, _ := d.Layer(i)
		if l.Kind() != k {
			t.Errorf("Layer %d: expected %s, got %s", i, k, l.Kind())
		}
		if l.ID() != i+1 {
			t.Errorf("Layer %d: expected id %d, got %d", i, i+1, l.ID())
		}
		if l.Owner() != d.ID() {
			t.Errorf("Layer %d is not attached to the document", i)
		}
	}
	if d.ColourCount() != 24 {
		t.Errorf("Expected 24 colours, got %d", d.ColourCount())
	}
	if !d.Modified() {
		t.Error("Expected document to be modified after initialisation")
	}
}

func TestLayerIDs(t *testing.T) {
	d := New("ids", testLogger())
	d.AddBitmapLayer()
	d.AddVectorLayer()
	d.AddSoundLayer()

	d.DeleteLayer(1)
	l, _ := d.AddLayer(layer.Camera)
	if l.ID() != 4 {
		t.Errorf("Expected id 4 while id 3 is live, got %d", l.ID())
	}

	seen := map[int]bool{}
	for _, id := range layerIDs(d) {
		if seen[id] {
			t.Fatalf("Duplicate id %d in %v", id, layerIDs(d))
		}
		seen[id] = true
	}

	// Deleting the highest ids lets the next layer reuse them.
	d.DeleteLayer(d.LayerCount() - 1)
	d.DeleteLayer(d.LayerCount() - 1)
	l, _ = d.AddLayer(layer.Vector)
	if l.ID() != 2 {
		t.Errorf("Expected reused id 2, got %d", l.ID())
	}
}

func TestMaxIDEmpty(t *testing.T) {
	if got := New("", testLogger()).MaxID(); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}

func TestMoveLayer(t *testing.T) {
	tests := []struct {
		name string
		i, j int
		want []int
	}{
		{"down", 0, 2, []int{2, 3, 1, 4}},
		{"up", 3, 1, []int{1, 4, 2, 3}},
		{"same", 2, 2, []int{1, 2, 3, 4}},
		{"negative", -1, 2, []int{1, 2, 3, 4}},
		{"past end", 1, 4, []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New("", testLogger())
			for range 4 {
				d.AddVectorLayer()
			}
			d.MoveLayer(tt.i, tt.j)
			if got := layerIDs(d); !equalInts(got, tt.want) {
				t.Errorf("Expected order %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDeleteLayerDetaches(t *testing.T) {
	d := New("", testLogger())
	l := d.AddBitmapLayer()
	d.DeleteLayer(0)
	if l.Owner() != uuid.Nil {
		t.Error("Expected deleted layer to be detached")
	}
	if d.LayerCount() != 0 {
		t.Errorf("Expected no layers, got %d", d.LayerCount())
	}
	d.DeleteLayer(5)
}

func TestLayerByID(t *testing.T) {
	d := New("", testLogger())
	d.AddBitmapLayer()
	v := d.AddVectorLayer()
	l, i, ok := d.LayerByID(v.ID())
	if !ok || i != 1 || l != layer.Layer(v) {
		t.Errorf("Expected vector layer at 1, got %v %d %v", l, i, ok)
	}
	if _, _, ok := d.LayerByID(42); ok {
		t.Error("Expected unknown id to be missing")
	}
}

func TestRemoveColour(t *testing.T) {
	d := New("", testLogger())
	d.LoadDefaultPalette()
	v := d.AddVectorLayer()
	v.SetDrawing(1, layer.Drawing{Strokes: []layer.Stroke{
		{Points: []layer.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, Width: 1, Colour: 3},
		{Points: []layer.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, Width: 1, Colour: 7},
	}})

	if d.RemoveColour(3) {
		t.Fatal("Expected colour 3 to be protected")
	}
	if d.ColourCount() != 24 {
		t.Fatalf("Palette changed on refused removal: %d", d.ColourCount())
	}

	name := d.Colour(6).Name
	if !d.RemoveColour(5) {
		t.Fatal("Expected unused colour 5 to be removed")
	}
	if d.ColourCount() != 23 {
		t.Errorf("Expected 23 colours, got %d", d.ColourCount())
	}
	if d.Colour(5).Name != name {
		t.Errorf("Expected %q to shift to index 5, got %q", name, d.Colour(5).Name)
	}
	drawing, _ := v.DrawingAt(1)
	if drawing.Strokes[0].Colour != 3 || drawing.Strokes[1].Colour != 6 {
		t.Errorf("Expected stroke colours 3 and 6, got %d and %d",
			drawing.Strokes[0].Colour, drawing.Strokes[1].Colour)
	}
	if d.RemoveColour(99) {
		t.Error("Expected out-of-range removal to fail")
	}
}

func TestColourSentinel(t *testing.T) {
	d := New("", testLogger())
	c := d.Colour(0)
	if c != palette.Sentinel {
		t.Errorf("Expected sentinel, got %+v", c)
	}
	i := d.AddColour(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if i != 0 || d.Colour(0).Name != "Colour 0" {
		t.Errorf("Expected \"Colour 0\" at 0, got %q at %d", d.Colour(0).Name, i)
	}
	if !d.RenameColour(0, "Ink") || d.Colour(0).Name != "Ink" {
		t.Errorf("Expected rename to Ink, got %q", d.Colour(0).Name)
	}
}

func TestSnapshotIndependent(t *testing.T) {
	d := New("snap", testLogger())
	d.DefaultInitialisation()
	v := d.Layers()[1].(*layer.VectorLayer)
	v.SetDrawing(1, layer.Drawing{Strokes: []layer.Stroke{{Width: 1}}})

	cp := d.Snapshot()
	d.AddSoundLayer()
	v.SetDrawing(1, layer.Drawing{})
	d.RemoveColour(0)

	if cp.LayerCount() != 3 {
		t.Errorf("Expected snapshot to keep 3 layers, got %d", cp.LayerCount())
	}
	if cp.ColourCount() != 24 {
		t.Errorf("Expected snapshot to keep 24 colours, got %d", cp.ColourCount())
	}
	got, _ := cp.Layers()[1].(*layer.VectorLayer).DrawingAt(1)
	if len(got.Strokes) != 1 {
		t.Errorf("Expected snapshot drawing to keep its stroke, got %d", len(got.Strokes))
	}
	if cp.ID() != d.ID() {
		t.Error("Expected snapshot to keep the document identity")
	}
}
