package layer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/image/math/f64"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"bitmap", Bitmap, true},
		{"Vector", Vector, true},
		{" sound ", Sound, true},
		{"5", Camera, true},
		{"1", Bitmap, true},
		{"3", 0, false},
		{"movie", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseKind(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(Kind(3), 1); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	for _, k := range Kinds {
		l, err := New(k, 7)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", k, err)
		}
		if l.Kind() != k || l.ID() != 7 || !l.Visible() {
			t.Errorf("New(%v): unexpected layer kind=%v id=%d visible=%v", k, l.Kind(), l.ID(), l.Visible())
		}
	}
}

func TestLastImageAt(t *testing.T) {
	l := NewBitmap(1)
	img := Image{Pixels: image.NewRGBA(image.Rect(0, 0, 2, 2))}
	l.SetImage(5, img)
	l.SetImage(10, Image{Origin: image.Pt(3, 4), Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))})

	if _, ok := l.LastImageAt(4); ok {
		t.Error("Expected no image before first key")
	}
	got, ok := l.LastImageAt(9)
	if !ok || got.Pixels != img.Pixels {
		t.Error("Expected key 5 to hold until frame 9")
	}
	got, _ = l.LastImageAt(100)
	if got.Origin != image.Pt(3, 4) {
		t.Errorf("Expected key 10 after last key, got origin %v", got.Origin)
	}
	if got.Bounds() != image.Rect(3, 4, 4, 5) {
		t.Errorf("Unexpected bounds %v", got.Bounds())
	}
	if keys := l.KeyFrames(); len(keys) != 2 || keys[0] != 5 || keys[1] != 10 {
		t.Errorf("Unexpected keys %v", keys)
	}
}

func TestVectorColourUsage(t *testing.T) {
	l := NewVector(1)
	l.SetDrawing(1, Drawing{Strokes: []Stroke{{Colour: 2}, {Colour: 5}}})
	l.SetDrawing(3, Drawing{Strokes: []Stroke{{Colour: 7}}})

	if !l.UsesColour(5) || !l.UsesColour(7) {
		t.Error("Expected colours 5 and 7 to be in use")
	}
	if l.UsesColour(3) {
		t.Error("Colour 3 should be unused")
	}

	l.RemoveColour(3)
	d, _ := l.DrawingAt(1)
	if d.Strokes[0].Colour != 2 || d.Strokes[1].Colour != 4 {
		t.Errorf("Unexpected colours after removal: %+v", d.Strokes)
	}
	d, _ = l.DrawingAt(3)
	if d.Strokes[0].Colour != 6 {
		t.Errorf("Expected 6, got %d", d.Strokes[0].Colour)
	}
}

func TestCameraViewAt(t *testing.T) {
	l := NewCamera(1)
	if l.ViewAt(3) != Identity {
		t.Error("Camera without keys should return identity")
	}

	l.SetView(0, f64.Aff3{1, 0, 0, 0, 1, 0})
	l.SetView(10, f64.Aff3{2, 0, 100, 0, 2, -50})

	tests := []struct {
		frame  int
		wantTx float64
		wantSx float64
	}{
		{-5, 0, 1},
		{0, 0, 1},
		{5, 50, 1.5},
		{10, 100, 2},
		{20, 100, 2},
	}
	for _, tt := range tests {
		m := l.ViewAt(tt.frame)
		if math.Abs(m[2]-tt.wantTx) > 1e-9 || math.Abs(m[0]-tt.wantSx) > 1e-9 {
			t.Errorf("Frame %d: got %v, want tx=%v sx=%v", tt.frame, m, tt.wantTx, tt.wantSx)
		}
	}
}

func TestNodeRoundTrip(t *testing.T) {
	px := image.NewRGBA(image.Rect(0, 0, 3, 2))
	px.Set(1, 1, color.RGBA{R: 200, A: 255})

	bitmap := NewBitmap(4)
	bitmap.SetName("ink")
	bitmap.SetImage(2, Image{Origin: image.Pt(-5, 6), Pixels: px})

	vector := NewVector(5)
	vector.SetVisible(false)
	vector.SetDrawing(1, Drawing{Strokes: []Stroke{{Points: []Point{{0, 0}, {10, 5}}, Width: 2, Colour: 3}}})

	sound := NewSound(6)
	sound.SetClip(12, Clip{Path: "bang.wav", Name: "bang"})

	camera := NewCamera(7)
	camera.ViewRect = image.Rect(0, 0, 320, 240)
	camera.SetView(4, f64.Aff3{1, 0, 5, 0, 1, 6})

	for _, src := range []Layer{bitmap, vector, sound, camera} {
		t.Run(src.Kind().String(), func(t *testing.T) {
			n, err := src.MarshalNode()
			if err != nil {
				t.Fatalf("MarshalNode failed: %v", err)
			}
			if Discriminator(n) != src.Kind().String() {
				t.Errorf("Expected discriminator %q, got %q", src.Kind(), Discriminator(n))
			}

			dst, _ := New(src.Kind(), 99)
			if err := dst.UnmarshalNode(n); err != nil {
				t.Fatalf("UnmarshalNode failed: %v", err)
			}
			if dst.ID() != 99 {
				t.Errorf("Decoding must not change the id, got %d", dst.ID())
			}
			if dst.Name() != src.Name() || dst.Visible() != src.Visible() {
				t.Errorf("Header mismatch: %q/%v vs %q/%v", dst.Name(), dst.Visible(), src.Name(), src.Visible())
			}
			if len(dst.KeyFrames()) != len(src.KeyFrames()) {
				t.Errorf("Expected keys %v, got %v", src.KeyFrames(), dst.KeyFrames())
			}
		})
	}

	n, _ := bitmap.MarshalNode()
	back := NewBitmap(1)
	if err := back.UnmarshalNode(n); err != nil {
		t.Fatalf("UnmarshalNode failed: %v", err)
	}
	img, _ := back.ImageAt(2)
	if img.Origin != image.Pt(-5, 6) {
		t.Errorf("Expected origin (-5,6), got %v", img.Origin)
	}
	if img.Pixels.RGBAAt(1, 1) != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("Pixel mismatch: %v", img.Pixels.RGBAAt(1, 1))
	}

	n, _ = camera.MarshalNode()
	cam := NewCamera(1)
	if err := cam.UnmarshalNode(n); err != nil {
		t.Fatalf("UnmarshalNode failed: %v", err)
	}
	if cam.ViewRect != camera.ViewRect {
		t.Errorf("Expected view rect %v, got %v", camera.ViewRect, cam.ViewRect)
	}
}

func TestBitmapChecksumMismatch(t *testing.T) {
	l := NewBitmap(1)
	l.SetImage(0, Image{Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	n, err := l.MarshalNode()
	if err != nil {
		t.Fatalf("MarshalNode failed: %v", err)
	}

	var body bitmapBody
	if err := n.Decode(&body); err != nil {
		t.Fatal(err)
	}
	body.Frames[0].Checksum = "0"
	if err := n.Encode(body); err != nil {
		t.Fatal(err)
	}

	if err := NewBitmap(2).UnmarshalNode(n); !errors.Is(err, ErrChecksum) {
		t.Errorf("Expected ErrChecksum, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	v := NewVector(3)
	v.Attach(uuid.New())
	v.SetDrawing(0, Drawing{Strokes: []Stroke{{Colour: 1, Points: []Point{{1, 1}}}}})

	c := v.Clone().(*VectorLayer)
	if c.ID() != v.ID() || c.Owner() != v.Owner() {
		t.Error("Clone should keep id and owner")
	}
	c.RemoveColour(0)
	if !v.UsesColour(1) {
		t.Error("Mutating the clone changed the original")
	}
}
