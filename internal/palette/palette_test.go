package palette

import (
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/flipbook/internal/tree"
)

func TestAppendRGBDefaultName(t *testing.T) {
	p := New()
	p.Append(Colour{RGB: color.RGBA{R: 1}, Name: "first"})
	idx := p.AppendRGB(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if idx != 1 {
		t.Fatalf("Expected index 1, got %d", idx)
	}
	c, ok := p.At(1)
	if !ok {
		t.Fatal("Expected entry at 1")
	}
	if c.Name != "Colour 1" {
		t.Errorf("Expected name 'Colour 1', got %q", c.Name)
	}
	if c.RGB != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Unexpected colour %v", c.RGB)
	}
}

func TestAtOutOfRangeReturnsSentinel(t *testing.T) {
	p := Default()
	for _, i := range []int{-1, p.Len(), 1000} {
		c, ok := p.At(i)
		if ok {
			t.Errorf("At(%d): expected ok=false", i)
		}
		if c != Sentinel {
			t.Errorf("At(%d): expected sentinel, got %+v", i, c)
		}
	}
}

func TestRemoveShiftsIndices(t *testing.T) {
	p := Default()
	before := p.Entries()

	if !p.Remove(3) {
		t.Fatal("Remove(3) failed")
	}
	if p.Len() != len(before)-1 {
		t.Fatalf("Expected %d entries, got %d", len(before)-1, p.Len())
	}
	for i := 3; i < p.Len(); i++ {
		got, _ := p.At(i)
		if got != before[i+1] {
			t.Errorf("Index %d: expected %+v, got %+v", i, before[i+1], got)
		}
	}
	if p.Remove(p.Len()) {
		t.Error("Remove out of range should fail")
	}
}

func TestDefaultPalette(t *testing.T) {
	p := Default()
	if p.Len() != 24 {
		t.Fatalf("Expected 24 default colours, got %d", p.Len())
	}
	first, _ := p.At(0)
	if first.Name != "Black" {
		t.Errorf("Expected Black first, got %q", first.Name)
	}
	for i, c := range p.Entries() {
		if c.Name == "" {
			t.Errorf("Entry %d has no name", i)
		}
	}
}

func TestTreeRoundTrip(t *testing.T) {
	p := Default()
	p.Rename(2, "Blood")

	doc, err := p.MarshalTree()
	if err != nil {
		t.Fatalf("MarshalTree failed: %v", err)
	}

	var sb strings.Builder
	if err := tree.Write(&sb, doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(sb.String(), "Colour:") || !strings.Contains(sb.String(), "red:") {
		t.Errorf("Unexpected palette text:\n%s", sb.String())
	}

	parsed, err := tree.Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	got := New()
	if err := got.UnmarshalTree(parsed); err != nil {
		t.Fatalf("UnmarshalTree failed: %v", err)
	}

	want := p.Entries()
	if got.Len() != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), got.Len())
	}
	for i, c := range got.Entries() {
		if c != want[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want[i], c)
		}
	}
}

func TestUnmarshalSkipsForeignElements(t *testing.T) {
	src := `palette:
  - Colour: {name: Ink, red: 1, green: 2, blue: 300}
  - swatch: {name: ignored}
  - Colour: {name: Paper, red: 250, green: 250, blue: 240}
`
	doc, err := tree.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	p := New()
	if err := p.UnmarshalTree(doc); err != nil {
		t.Fatalf("UnmarshalTree failed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", p.Len())
	}
	ink, _ := p.At(0)
	if ink.RGB.B != 255 {
		t.Errorf("Expected blue clamped to 255, got %d", ink.RGB.B)
	}
}

func TestUnmarshalFailureKeepsEntries(t *testing.T) {
	src := `palette:
  - Colour: {name: Ink, red: 1, green: 2, blue: 3}
  - Colour: {name: Broken, red: abc, green: 0, blue: 0}
`
	doc, err := tree.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	p := Default()
	want := p.Entries()
	if err := p.UnmarshalTree(doc); err == nil {
		t.Fatal("Expected decode error for non-numeric channel")
	}
	if p.Len() != len(want) {
		t.Fatalf("Expected %d entries after failed load, got %d", len(want), p.Len())
	}
	for i, c := range want {
		if got, _ := p.At(i); got != c {
			t.Errorf("Entry %d: expected %+v, got %+v", i, c, got)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	p := Default()
	if err := p.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got := New()
	if err := got.ReadFile(path); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got.Len() != p.Len() {
		t.Errorf("Expected %d entries, got %d", p.Len(), got.Len())
	}
}
