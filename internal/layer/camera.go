package layer

import (
	"fmt"
	"image"

	"golang.org/x/image/math/f64"
	"gopkg.in/yaml.v3"
)

// Identity is the transform that leaves coordinates unchanged.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// DefaultViewRect is the area a new camera frames, centred on the origin.
var DefaultViewRect = image.Rect(-400, -300, 400, 300)

// CameraLayer frames the scene. Its keys are view transforms applied before
// the view rectangle is mapped onto the output.
type CameraLayer struct {
	base
	ViewRect image.Rectangle
	keys     keyframes[f64.Aff3]
}

func NewCamera(id int) *CameraLayer {
	return &CameraLayer{
		base:     newBase(Camera, id, "Camera Layer"),
		ViewRect: DefaultViewRect,
		keys:     newKeyframes[f64.Aff3](),
	}
}

func (l *CameraLayer) SetView(frame int, m f64.Aff3) { l.keys.set(frame, m) }

// ViewAt returns the camera transform at frame. Between two keys the matrix
// is interpolated linearly; outside the keyed range the nearest key holds.
// A camera without keys returns Identity.
func (l *CameraLayer) ViewAt(frame int) f64.Aff3 {
	prevFrame, prev, okPrev := l.keys.last(frame)
	nextFrame, next, okNext := l.keys.next(frame)

	switch {
	case !okPrev && !okNext:
		return Identity
	case !okPrev:
		return next
	case !okNext || prevFrame == frame:
		return prev
	}

	t := float64(frame-prevFrame) / float64(nextFrame-prevFrame)
	var out f64.Aff3
	for i := range out {
		out[i] = lerp(prev[i], next[i], t)
	}
	return out
}

// lerp interpolates linearly between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func (l *CameraLayer) KeyFrames() []int           { return l.keys.sorted() }
func (l *CameraLayer) HasKeyAt(frame int) bool    { return l.keys.has(frame) }
func (l *CameraLayer) RemoveKeyAt(frame int) bool { return l.keys.remove(frame) }

func (l *CameraLayer) Clone() Layer {
	return &CameraLayer{
		base:     l.base,
		ViewRect: l.ViewRect,
		keys:     l.keys.clone(func(m f64.Aff3) f64.Aff3 { return m }),
	}
}

// viewRect is the serialized camera ViewRect: top-left corner and size.
type viewRect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type cameraFrame struct {
	Frame  int       `yaml:"frame"`
	Matrix []float64 `yaml:"matrix,flow"`
}

type cameraBody struct {
	header   `yaml:",inline"`
	ViewRect *viewRect     `yaml:"viewRect,omitempty"`
	Frames   []cameraFrame `yaml:"frames,omitempty"`
}

func (l *CameraLayer) MarshalNode() (*yaml.Node, error) {
	r := l.ViewRect
	body := cameraBody{
		header:   l.header(),
		ViewRect: &viewRect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
	}
	for _, f := range l.keys.sorted() {
		m := l.keys.frames[f]
		body.Frames = append(body.Frames, cameraFrame{Frame: f, Matrix: m[:]})
	}
	var n yaml.Node
	if err := n.Encode(body); err != nil {
		return nil, err
	}
	return &n, nil
}

func (l *CameraLayer) UnmarshalNode(n *yaml.Node) error {
	var body cameraBody
	if err := n.Decode(&body); err != nil {
		return fmt.Errorf("decode camera layer: %w", err)
	}
	l.apply(body.header)
	if r := body.ViewRect; r != nil && r.W > 0 && r.H > 0 {
		l.ViewRect = image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	}
	for _, f := range body.Frames {
		if len(f.Matrix) != 6 {
			return fmt.Errorf("camera frame %d: matrix needs 6 values, got %d", f.Frame, len(f.Matrix))
		}
		var m f64.Aff3
		copy(m[:], f.Matrix)
		l.keys.set(f.Frame, m)
	}
	return nil
}
