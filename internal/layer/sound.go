package layer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Clip is a sound file that starts playing at its key frame.
type Clip struct {
	Path string `yaml:"path"`
	Name string `yaml:"name,omitempty"`
}

type SoundLayer struct {
	base
	keys keyframes[Clip]
}

func NewSound(id int) *SoundLayer {
	return &SoundLayer{base: newBase(Sound, id, "Sound Layer"), keys: newKeyframes[Clip]()}
}

func (l *SoundLayer) SetClip(frame int, c Clip) { l.keys.set(frame, c) }

// ClipAt returns the clip starting exactly at frame.
func (l *SoundLayer) ClipAt(frame int) (Clip, bool) {
	return l.keys.at(frame)
}

func (l *SoundLayer) KeyFrames() []int           { return l.keys.sorted() }
func (l *SoundLayer) HasKeyAt(frame int) bool    { return l.keys.has(frame) }
func (l *SoundLayer) RemoveKeyAt(frame int) bool { return l.keys.remove(frame) }

func (l *SoundLayer) Clone() Layer {
	return &SoundLayer{base: l.base, keys: l.keys.clone(func(c Clip) Clip { return c })}
}

type soundFrame struct {
	Frame int `yaml:"frame"`
	Clip  `yaml:",inline"`
}

type soundBody struct {
	header `yaml:",inline"`
	Frames []soundFrame `yaml:"frames,omitempty"`
}

func (l *SoundLayer) MarshalNode() (*yaml.Node, error) {
	body := soundBody{header: l.header()}
	for _, f := range l.keys.sorted() {
		body.Frames = append(body.Frames, soundFrame{Frame: f, Clip: l.keys.frames[f]})
	}
	var n yaml.Node
	if err := n.Encode(body); err != nil {
		return nil, err
	}
	return &n, nil
}

func (l *SoundLayer) UnmarshalNode(n *yaml.Node) error {
	var body soundBody
	if err := n.Decode(&body); err != nil {
		return fmt.Errorf("decode sound layer: %w", err)
	}
	l.apply(body.header)
	for _, f := range body.Frames {
		l.keys.set(f.Frame, f.Clip)
	}
	return nil
}
