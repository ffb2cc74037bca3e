package document

import (
	"errors"
	"fmt"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/render"
)

// PaintOptions are the quality settings of a composite pass.
type PaintOptions struct {
	Background   bool
	CurveOpacity float64
	Antialiasing bool
}

// PaintImage composites frame onto dst. When Background is set dst is first
// filled opaque white, ignoring view. Then every visible layer is handed to
// the backend bottom to top.
func (d *Document) PaintImage(dst draw.Image, frame int, view f64.Aff3, opts PaintOptions, backend render.Backend) error {
	if opts.Background {
		render.FillWhite(dst)
	}
	hints := render.Hints{
		Antialiasing: opts.Antialiasing,
		CurveOpacity: opts.CurveOpacity,
		Palette:      d,
	}
	for _, l := range d.layers {
		if !l.Visible() {
			continue
		}
		if err := backend.Composite(dst, l, frame, view, hints); err != nil {
			return fmt.Errorf("composite layer %d at frame %d: %w", l.ID(), frame, err)
		}
	}
	return nil
}

// ImageCheck reports whether no bitmap or vector layer has a key at frame,
// i.e. the frame no longer carries any drawing of its own.
func (d *Document) ImageCheck(frame int) bool {
	for _, l := range d.layers {
		switch l.Kind() {
		case layer.Bitmap, layer.Vector:
			if l.HasKeyAt(frame) {
				return false
			}
		}
	}
	return true
}

// Player is the sound playback collaborator.
type Player interface {
	Play(clip layer.Clip, frame, fps int) error
	Stop() error
}

// PlaySounds starts every clip keyed exactly at frame, on any sound layer.
func (d *Document) PlaySounds(p Player, frame, fps int) error {
	var errs []error
	for _, l := range d.layers {
		s, ok := l.(*layer.SoundLayer)
		if !ok {
			continue
		}
		if clip, ok := s.ClipAt(frame); ok {
			if err := p.Play(clip, frame, fps); err != nil {
				errs = append(errs, fmt.Errorf("play %s: %w", clip.Path, err))
			}
		}
	}
	return errors.Join(errs...)
}

// StopSounds stops playback when the document has any sound layer.
func (d *Document) StopSounds(p Player) error {
	for _, l := range d.layers {
		if l.Kind() == layer.Sound {
			return p.Stop()
		}
	}
	return nil
}
