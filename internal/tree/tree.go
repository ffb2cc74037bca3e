// Package tree builds and walks the element trees used by the document and
// palette files.
//
// An element is a single-key YAML mapping whose key is the element name and
// whose value is its body. A root holds an ordered sequence of elements:
//
//	object:
//	  - layer:
//	      type: vector
//	  - layer:
//	      type: bitmap
package tree

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrNoRoot is returned when a document has no mapping with the expected root name.
var ErrNoRoot = errors.New("root element not found")

// Element is one named child of a root.
type Element struct {
	Name string
	Body *yaml.Node
}

// NewRoot returns a document node "name: [children...]".
func NewRoot(name string, children ...*yaml.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: children}
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content, scalar(name), seq)
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

// NewElement wraps body into a single-key mapping.
func NewElement(name string, body *yaml.Node) *yaml.Node {
	el := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	el.Content = append(el.Content, scalar(name), body)
	return el
}

// Encode turns v into a node.
func Encode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

// Children returns the elements below the root called name, in document
// order. Items that are not single-key mappings are skipped.
func Children(doc *yaml.Node, name string) ([]Element, error) {
	root := mapping(doc)
	if root == nil {
		return nil, ErrNoRoot
	}
	var seq *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == name {
			seq = root.Content[i+1]
			break
		}
	}
	if seq == nil {
		return nil, ErrNoRoot
	}
	if seq.Kind != yaml.SequenceNode {
		// "object:" with nothing below it parses as a null scalar.
		return nil, nil
	}

	var out []Element
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			continue
		}
		out = append(out, Element{Name: item.Content[0].Value, Body: item.Content[1]})
	}
	return out, nil
}

// Write encodes doc with a two-space indent.
func Write(w io.Writer, doc *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return enc.Close()
}

// Read parses a whole YAML stream into a document node.
func Read(r io.Reader) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRoot
		}
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &doc, nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// SetAttr adds a scalar key next to the root element of doc.
func SetAttr(doc *yaml.Node, key, value string) {
	root := mapping(doc)
	if root == nil {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = scalar(value)
			return
		}
	}
	root.Content = append(root.Content, scalar(key), scalar(value))
}

// Attr returns a scalar key stored next to the root element, or "".
func Attr(doc *yaml.Node, key string) string {
	root := mapping(doc)
	if root == nil {
		return ""
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key && root.Content[i+1].Kind == yaml.ScalarNode {
			return root.Content[i+1].Value
		}
	}
	return ""
}

func mapping(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	return doc
}
