package layer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/zeebo/xxh3"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"
)

// Image is a bitmap key: pixels placed at Origin in document space.
type Image struct {
	Origin image.Point
	Pixels *image.RGBA
}

// Bounds is the area the image covers in document space.
func (i Image) Bounds() image.Rectangle {
	if i.Pixels == nil {
		return image.Rectangle{Min: i.Origin, Max: i.Origin}
	}
	return image.Rect(0, 0, i.Pixels.Rect.Dx(), i.Pixels.Rect.Dy()).Add(i.Origin)
}

func (i Image) clone() Image {
	if i.Pixels == nil {
		return i
	}
	px := image.NewRGBA(i.Pixels.Rect)
	copy(px.Pix, i.Pixels.Pix)
	return Image{Origin: i.Origin, Pixels: px}
}

// ToRGBA converts any image into a zero-origin *image.RGBA.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == b.Dx()*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// BitmapLayer holds raster keyframes.
type BitmapLayer struct {
	base
	keys keyframes[Image]
}

func NewBitmap(id int) *BitmapLayer {
	return &BitmapLayer{base: newBase(Bitmap, id, "Bitmap Layer"), keys: newKeyframes[Image]()}
}

func (l *BitmapLayer) SetImage(frame int, img Image) { l.keys.set(frame, img) }
func (l *BitmapLayer) ImageAt(frame int) (Image, bool) {
	return l.keys.at(frame)
}

// LastImageAt returns the image shown at frame: the key at or before it.
func (l *BitmapLayer) LastImageAt(frame int) (Image, bool) {
	_, img, ok := l.keys.last(frame)
	return img, ok
}

func (l *BitmapLayer) KeyFrames() []int           { return l.keys.sorted() }
func (l *BitmapLayer) HasKeyAt(frame int) bool    { return l.keys.has(frame) }
func (l *BitmapLayer) RemoveKeyAt(frame int) bool { return l.keys.remove(frame) }

func (l *BitmapLayer) Clone() Layer {
	return &BitmapLayer{base: l.base, keys: l.keys.clone(Image.clone)}
}

type bitmapFrame struct {
	Frame    int    `yaml:"frame"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Checksum string `yaml:"checksum,omitempty"`
	PNG      string `yaml:"png"`
}

type bitmapBody struct {
	header `yaml:",inline"`
	Frames []bitmapFrame `yaml:"frames,omitempty"`
}

func (l *BitmapLayer) MarshalNode() (*yaml.Node, error) {
	body := bitmapBody{header: l.header()}
	for _, f := range l.keys.sorted() {
		img := l.keys.frames[f]
		if img.Pixels == nil {
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img.Pixels); err != nil {
			return nil, fmt.Errorf("encode bitmap frame %d: %w", f, err)
		}
		body.Frames = append(body.Frames, bitmapFrame{
			Frame:    f,
			X:        img.Origin.X,
			Y:        img.Origin.Y,
			Checksum: strconv.FormatUint(xxh3.Hash(buf.Bytes()), 16),
			PNG:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
	}
	var n yaml.Node
	if err := n.Encode(body); err != nil {
		return nil, err
	}
	return &n, nil
}

func (l *BitmapLayer) UnmarshalNode(n *yaml.Node) error {
	var body bitmapBody
	if err := n.Decode(&body); err != nil {
		return fmt.Errorf("decode bitmap layer: %w", err)
	}
	l.apply(body.header)
	for _, f := range body.Frames {
		raw, err := base64.StdEncoding.DecodeString(f.PNG)
		if err != nil {
			return fmt.Errorf("bitmap frame %d: %w", f.Frame, err)
		}
		if f.Checksum != "" && f.Checksum != strconv.FormatUint(xxh3.Hash(raw), 16) {
			return fmt.Errorf("bitmap frame %d: %w", f.Frame, ErrChecksum)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("bitmap frame %d: %w", f.Frame, err)
		}
		l.keys.set(f.Frame, Image{Origin: image.Pt(f.X, f.Y), Pixels: ToRGBA(img)})
	}
	return nil
}
