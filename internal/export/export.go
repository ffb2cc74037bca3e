// Package export writes a document's frames to numbered image files.
//
// A frame range is turned into a plan of source frames, each with the
// output numbers it fills. With a fixed rate every source frame writes one
// file named after its own number. With retiming the frame counts come from
// the retime package and files are numbered 1, 2, 3 and so on.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/image/math/f64"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/flipbook/internal/document"
	"github.com/ivlev/flipbook/internal/layer"
	"github.com/ivlev/flipbook/internal/render"
	"github.com/ivlev/flipbook/internal/retime"
	"github.com/ivlev/flipbook/internal/system"
)

var (
	// ErrSequenceConsumed is yielded when a Sequence is iterated a second time.
	ErrSequenceConsumed = errors.New("frame sequence already consumed")
	// ErrInvalidOptions is returned for an empty range, a range starting
	// before frame 1 or a non-positive size.
	ErrInvalidOptions = errors.New("invalid export options")
)

// NoLayer disables the camera lookup; the caller's View is used.
const NoLayer = -1

// Options describe one export run.
type Options struct {
	FrameStart int
	FrameEnd   int // inclusive

	// View maps document space onto the output when the active layer is not
	// a camera. The zero value means identity.
	View f64.Aff3
	// ActiveLayer is the index of the current layer. When it is a camera its
	// view rectangle and per-frame transform replace View.
	ActiveLayer int

	Size         image.Point
	Prefix       string
	Format       string
	Quality      int
	Background   bool
	Antialiasing bool
	CurveOpacity float64

	// FPS and ExportFPS drive retiming. ExportFPS == 0 exports at the
	// document rate, one file per source frame.
	FPS       int
	ExportFPS int
}

// FrameWritten reports one source frame of a run.
type FrameWritten struct {
	Frame int      // source frame number
	Index int      // position in the range, from 0
	Total int      // source frames in the range
	Paths []string // files written for this frame; empty when retiming dropped it
}

// Summary is the outcome of a completed run.
type Summary struct {
	Frames int
	Files  int
}

type Exporter struct {
	doc     *document.Document
	backend render.Backend
	logger  *slog.Logger
}

func New(doc *document.Document, backend render.Backend, logger *slog.Logger) *Exporter {
	if backend == nil {
		backend = render.NewRaster()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{doc: doc, backend: backend, logger: logger}
}

// job is a validated Options with its frame plan.
type job struct {
	opts    Options
	format  Format
	prefix  string
	paint   document.PaintOptions
	entries []retime.Entry
}

func (e *Exporter) prepare(opts Options) (*job, error) {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		return nil, fmt.Errorf("%w: size %v", ErrInvalidOptions, opts.Size)
	}
	if opts.FrameStart < 1 {
		return nil, fmt.Errorf("%w: first frame %d", ErrInvalidOptions, opts.FrameStart)
	}
	if opts.FrameEnd < opts.FrameStart {
		return nil, fmt.Errorf("%w: frames %d..%d", ErrInvalidOptions, opts.FrameStart, opts.FrameEnd)
	}
	if opts.Format == "" {
		opts.Format = PNG.Name
	}
	format, err := NormalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.View == (f64.Aff3{}) {
		opts.View = layer.Identity
	}

	j := &job{
		opts:   opts,
		format: format,
		prefix: TrimExtension(opts.Prefix, format),
		paint: document.PaintOptions{
			Background:   opts.Background || format.Opaque,
			CurveOpacity: opts.CurveOpacity,
			Antialiasing: opts.Antialiasing,
		},
	}

	count := opts.FrameEnd - opts.FrameStart + 1
	if opts.ExportFPS > 0 {
		if err := retime.Validate(opts.FPS, opts.ExportFPS); err != nil {
			return nil, err
		}
		j.entries = retime.Plan(count, retime.Compute(opts.FPS, opts.ExportFPS))
	} else {
		j.entries = make([]retime.Entry, count)
		for i := range j.entries {
			j.entries[i] = retime.Entry{Source: i, First: opts.FrameStart + i, Count: 1}
		}
	}
	return j, nil
}

// viewAt resolves the transform for frame: the active camera mapped onto
// the output size, or the caller's view.
func (j *job) viewAt(doc *document.Document, frame int) f64.Aff3 {
	if l, ok := doc.Layer(j.opts.ActiveLayer); ok {
		if cam, ok := l.(*layer.CameraLayer); ok {
			target := image.Rectangle{Max: j.opts.Size}
			return render.Mul(render.MapRect(cam.ViewRect, target), cam.ViewAt(frame))
		}
	}
	return j.opts.View
}

// writeEntry paints one source frame, encodes it once and writes it under
// every output number the entry owns. The first failed write aborts; files
// already written are left in place.
func (e *Exporter) writeEntry(doc *document.Document, j *job, entry retime.Entry) ([]string, error) {
	if entry.Count == 0 {
		return nil, nil
	}
	frame := j.opts.FrameStart + entry.Source

	canvas := system.GetImage(j.opts.Size)
	defer system.PutImage(canvas)
	if err := doc.PaintImage(canvas, frame, j.viewAt(doc, frame), j.paint, e.backend); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, canvas, j.format, j.opts.Quality); err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", frame, err)
	}

	paths := make([]string, 0, entry.Count)
	for n := entry.First; n < entry.First+entry.Count; n++ {
		path := FileName(j.prefix, n, j.format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write frame %d: %w", frame, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Sequence is a lazy, finite frame loop. Each step paints and writes one
// source frame. It can be ranged over only once.
type Sequence struct {
	e    *Exporter
	j    *job
	used atomic.Bool
}

// Frames validates opts and returns the sequence for the range. Nothing is
// painted or written until the sequence is iterated.
func (e *Exporter) Frames(opts Options) (*Sequence, error) {
	j, err := e.prepare(opts)
	if err != nil {
		return nil, err
	}
	return &Sequence{e: e, j: j}, nil
}

// Len is the number of source frames in the range.
func (s *Sequence) Len() int {
	return len(s.j.entries)
}

// Outputs is the number of files the sequence writes when run to the end.
func (s *Sequence) Outputs() int {
	return retime.Total(s.j.entries)
}

// All yields one event per source frame. Stopping the range stops the
// export before the next frame. A write error is yielded once and ends the
// sequence.
func (s *Sequence) All() iter.Seq2[FrameWritten, error] {
	return func(yield func(FrameWritten, error) bool) {
		if s.used.Swap(true) {
			yield(FrameWritten{}, ErrSequenceConsumed)
			return
		}
		total := len(s.j.entries)
		for i, entry := range s.j.entries {
			ev := FrameWritten{Frame: s.j.opts.FrameStart + entry.Source, Index: i, Total: total}
			paths, err := s.e.writeEntry(s.e.doc, s.j, entry)
			ev.Paths = paths
			if err != nil {
				yield(ev, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Run drives a sequence to completion on the calling goroutine. ctx is
// checked between frames; progress, when set, sees every event.
func (e *Exporter) Run(ctx context.Context, opts Options, progress func(FrameWritten)) (Summary, error) {
	seq, err := e.Frames(opts)
	if err != nil {
		return Summary{}, err
	}
	e.logger.Info("export started",
		"frames", seq.Len(), "outputs", seq.Outputs(), "format", seq.j.format.Name, "prefix", seq.j.prefix)

	var sum Summary
	for ev, err := range seq.All() {
		sum.Files += len(ev.Paths)
		if err != nil {
			return sum, err
		}
		sum.Frames++
		if progress != nil {
			progress(ev)
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}
	}
	e.logger.Info("export finished", "frames", sum.Frames, "files", sum.Files)
	return sum, nil
}

// RunParallel renders the planned frames of a document snapshot on up to
// workers goroutines. workers <= 0 sizes the pool from the host. The first
// error cancels the frames not yet started.
func (e *Exporter) RunParallel(ctx context.Context, opts Options, workers int) (Summary, error) {
	j, err := e.prepare(opts)
	if err != nil {
		return Summary{}, err
	}
	frameBytes := uint64(opts.Size.X) * uint64(opts.Size.Y) * 4
	workers = system.Probe().MaxWorkers(workers, frameBytes)
	snapshot := e.doc.Snapshot()

	e.logger.Info("parallel export started",
		"frames", len(j.entries), "outputs", retime.Total(j.entries), "workers", workers)

	var frames, files atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, entry := range j.entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, err := e.writeEntry(snapshot, j, entry)
			files.Add(int64(len(paths)))
			if err != nil {
				return err
			}
			frames.Add(1)
			return nil
		})
	}
	err = g.Wait()
	sum := Summary{Frames: int(frames.Load()), Files: int(files.Load())}
	if err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	e.logger.Info("parallel export finished", "frames", sum.Frames, "files", sum.Files)
	return sum, nil
}
