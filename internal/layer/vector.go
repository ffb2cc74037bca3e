package layer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Stroke is a polyline in document space. Colour is a palette index.
type Stroke struct {
	Points []Point `yaml:"points,flow"`
	Width  float64 `yaml:"width"`
	Colour int     `yaml:"colour"`
	Filled bool    `yaml:"filled,omitempty"`
}

// Drawing is one vector key.
type Drawing struct {
	Strokes []Stroke `yaml:"strokes"`
}

func (d Drawing) clone() Drawing {
	out := Drawing{Strokes: make([]Stroke, len(d.Strokes))}
	for i, s := range d.Strokes {
		s.Points = append([]Point(nil), s.Points...)
		out.Strokes[i] = s
	}
	return out
}

type VectorLayer struct {
	base
	keys keyframes[Drawing]
}

func NewVector(id int) *VectorLayer {
	return &VectorLayer{base: newBase(Vector, id, "Vector Layer"), keys: newKeyframes[Drawing]()}
}

func (l *VectorLayer) SetDrawing(frame int, d Drawing) { l.keys.set(frame, d) }

func (l *VectorLayer) DrawingAt(frame int) (Drawing, bool) {
	return l.keys.at(frame)
}

// LastDrawingAt returns the drawing shown at frame.
func (l *VectorLayer) LastDrawingAt(frame int) (Drawing, bool) {
	_, d, ok := l.keys.last(frame)
	return d, ok
}

// UsesColour reports whether any stroke of any key references palette index i.
func (l *VectorLayer) UsesColour(i int) bool {
	for _, d := range l.keys.frames {
		for _, s := range d.Strokes {
			if s.Colour == i {
				return true
			}
		}
	}
	return false
}

// RemoveColour follows the removal of palette entry i: references above i
// move down by one. Strokes still pointing at i are left alone.
func (l *VectorLayer) RemoveColour(i int) {
	for _, d := range l.keys.frames {
		for j := range d.Strokes {
			if d.Strokes[j].Colour > i {
				d.Strokes[j].Colour--
			}
		}
	}
}

func (l *VectorLayer) KeyFrames() []int           { return l.keys.sorted() }
func (l *VectorLayer) HasKeyAt(frame int) bool    { return l.keys.has(frame) }
func (l *VectorLayer) RemoveKeyAt(frame int) bool { return l.keys.remove(frame) }

func (l *VectorLayer) Clone() Layer {
	return &VectorLayer{base: l.base, keys: l.keys.clone(Drawing.clone)}
}

type vectorFrame struct {
	Frame   int      `yaml:"frame"`
	Strokes []Stroke `yaml:"strokes"`
}

type vectorBody struct {
	header `yaml:",inline"`
	Frames []vectorFrame `yaml:"frames,omitempty"`
}

func (l *VectorLayer) MarshalNode() (*yaml.Node, error) {
	body := vectorBody{header: l.header()}
	for _, f := range l.keys.sorted() {
		body.Frames = append(body.Frames, vectorFrame{Frame: f, Strokes: l.keys.frames[f].Strokes})
	}
	var n yaml.Node
	if err := n.Encode(body); err != nil {
		return nil, err
	}
	return &n, nil
}

func (l *VectorLayer) UnmarshalNode(n *yaml.Node) error {
	var body vectorBody
	if err := n.Decode(&body); err != nil {
		return fmt.Errorf("decode vector layer: %w", err)
	}
	l.apply(body.header)
	for _, f := range body.Frames {
		l.keys.set(f.Frame, Drawing{Strokes: f.Strokes})
	}
	return nil
}
