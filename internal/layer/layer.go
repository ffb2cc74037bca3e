// Package layer implements the four layer variants a document stacks in
// paint order: bitmap, vector, sound and camera.
//
// Every variant stores frame-indexed content in keyframes and knows how to
// encode itself into a tree element. The document never looks inside that
// content beyond "is there a key at frame N".
package layer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Kind is the variant tag of a layer. It is fixed at construction.
type Kind int

// Values match the numbering of the legacy file format.
const (
	Bitmap Kind = 1
	Vector Kind = 2
	Sound  Kind = 4
	Camera Kind = 5
)

var kindNames = map[Kind]string{
	Bitmap: "bitmap",
	Vector: "vector",
	Sound:  "sound",
	Camera: "camera",
}

// Kinds lists every known variant.
var Kinds = []Kind{Bitmap, Vector, Sound, Camera}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a discriminator. Both the name and the legacy number are accepted.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name || s == fmt.Sprint(int(k)) {
			return k, true
		}
	}
	return 0, false
}

var (
	// ErrUnknownKind is returned by New for an unrecognised variant.
	ErrUnknownKind = errors.New("unknown layer kind")
	// ErrChecksum marks a bitmap payload whose checksum does not match.
	ErrChecksum = errors.New("bitmap checksum mismatch")
)

// Layer is the capability set shared by all variants.
type Layer interface {
	ID() int
	Kind() Kind
	Name() string
	SetName(name string)
	Visible() bool
	SetVisible(visible bool)

	// Owner is the identity of the document holding the layer, or uuid.Nil.
	Owner() uuid.UUID
	Attach(owner uuid.UUID)
	Detach()

	// KeyFrames returns the frames carrying content, ascending.
	KeyFrames() []int
	HasKeyAt(frame int) bool
	RemoveKeyAt(frame int) bool

	// Clone returns a deep copy with the same id and owner.
	Clone() Layer

	MarshalNode() (*yaml.Node, error)
	UnmarshalNode(n *yaml.Node) error
}

// New constructs an empty layer of the given kind.
func New(kind Kind, id int) (Layer, error) {
	switch kind {
	case Bitmap:
		return NewBitmap(id), nil
	case Vector:
		return NewVector(id), nil
	case Sound:
		return NewSound(id), nil
	case Camera:
		return NewCamera(id), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

type base struct {
	id      int
	kind    Kind
	name    string
	visible bool
	owner   uuid.UUID
}

func newBase(kind Kind, id int, name string) base {
	return base{id: id, kind: kind, name: name, visible: true}
}

func (b *base) ID() int                { return b.id }
func (b *base) Kind() Kind             { return b.kind }
func (b *base) Name() string           { return b.name }
func (b *base) SetName(name string)    { b.name = name }
func (b *base) Visible() bool          { return b.visible }
func (b *base) SetVisible(v bool)      { b.visible = v }
func (b *base) Owner() uuid.UUID       { return b.owner }
func (b *base) Attach(owner uuid.UUID) { b.owner = owner }
func (b *base) Detach()                { b.owner = uuid.Nil }

// header is the part of every layer element common to all variants.
type header struct {
	Type    string `yaml:"type"`
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Visible *bool  `yaml:"visible,omitempty"`
}

func (b *base) header() header {
	visible := b.visible
	return header{Type: b.kind.String(), ID: b.id, Name: b.name, Visible: &visible}
}

// apply copies the decoded header onto the layer. The stored id is ignored:
// ids belong to the document that loads the layer.
func (b *base) apply(h header) {
	if h.Name != "" {
		b.name = h.Name
	}
	b.visible = h.Visible == nil || *h.Visible
}

// Discriminator extracts the "type" value of a layer element body.
func Discriminator(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "type" {
			return n.Content[i+1].Value
		}
	}
	return ""
}
