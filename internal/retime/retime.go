// Package retime converts a frame range sampled at one rate into an output
// sequence at another rate.
//
// The conversion works in one-second windows: fps source frames must yield
// exactly exportFps output frames. Each source frame gets frameRepeat
// outputs, and the frameReminder extra outputs of a window are spread with a
// countdown cadence: either every framePutEvery-th frame gets one more, or
// every frameSkipEvery-th frame is the one that does not.
package retime

import (
	"errors"
	"fmt"
)

// ErrInvalidRate is returned for a non-positive frame rate.
var ErrInvalidRate = errors.New("frame rate must be positive")

// Schedule is the per-window distribution derived from two rates.
// At most one of PutEvery and SkipEvery is non-zero.
type Schedule struct {
	FPS       int
	ExportFPS int

	Repeat    int // output frames per source frame
	Reminder  int // extra output frames per window
	PutEvery  int
	SkipEvery int
}

// Validate rejects rates Compute cannot work with.
func Validate(fps, exportFps int) error {
	if fps <= 0 {
		return fmt.Errorf("%w: fps=%d", ErrInvalidRate, fps)
	}
	if exportFps <= 0 {
		return fmt.Errorf("%w: export fps=%d", ErrInvalidRate, exportFps)
	}
	return nil
}

// Compute derives the schedule for converting fps to exportFps. fps must be
// positive; call Validate first.
func Compute(fps, exportFps int) Schedule {
	s := Schedule{
		FPS:       fps,
		ExportFPS: exportFps,
		Repeat:    exportFps / fps,
		Reminder:  exportFps % fps,
	}
	switch {
	case s.Reminder == 0:
		// no extra frames to spread
	case s.Reminder > fps-s.Reminder:
		s.SkipEvery = fps / (fps - s.Reminder)
	default:
		s.PutEvery = fps / s.Reminder
	}
	return s
}

func (s Schedule) String() string {
	return fmt.Sprintf("%d->%d repeat=%d reminder=%d put=%d skip=%d",
		s.FPS, s.ExportFPS, s.Repeat, s.Reminder, s.PutEvery, s.SkipEvery)
}

// Stepper walks a schedule one source frame at a time.
type Stepper struct {
	s Schedule

	reminder  int
	putEvery  int
	skipEvery int

	// position inside the current window
	sourceInWindow int
	outputInWindow int
}

func NewStepper(s Schedule) *Stepper {
	st := &Stepper{s: s}
	st.rearm()
	return st
}

func (st *Stepper) rearm() {
	st.reminder = st.s.Reminder
	st.putEvery = st.s.PutEvery
	st.skipEvery = st.s.SkipEvery
	st.sourceInWindow = 0
	st.outputInWindow = 0
}

// Step returns how many output frames the next source frame produces.
// The result may be zero when the export rate is lower than the source rate.
func (st *Stepper) Step() int {
	delta := 0
	if st.s.PutEvery != 0 {
		st.putEvery--
		if st.putEvery == 0 {
			delta = 1
			st.putEvery = st.s.PutEvery
		}
	} else if st.s.SkipEvery != 0 {
		st.skipEvery--
		if st.skipEvery == 0 {
			st.skipEvery = st.s.SkipEvery
		} else {
			delta = 1
		}
	}

	// The integer cadence can fall short of the reminder (e.g. 11->7). Once
	// the extras still owed match the frames left in the window, every
	// remaining frame takes one.
	framesLeft := st.s.FPS - st.sourceInWindow
	if st.reminder > 0 && st.reminder >= framesLeft {
		delta = 1
	}

	if st.reminder == 0 {
		delta = 0
	} else {
		st.reminder -= delta
	}

	n := st.s.Repeat + delta
	if room := st.s.ExportFPS - st.outputInWindow; n > room {
		n = room
	}
	if n < 0 {
		n = 0
	}

	st.outputInWindow += n
	st.sourceInWindow++
	if st.sourceInWindow == st.s.FPS {
		st.rearm()
	}
	return n
}

// Entry is one source frame of a plan and the output numbers it owns.
type Entry struct {
	Source int // offset from the first source frame
	First  int // first output number, counting from 1
	Count  int
}

// Plan precomputes the outputs of count source frames. Entries with a zero
// count are kept so callers see every source frame.
func Plan(count int, s Schedule) []Entry {
	st := NewStepper(s)
	out := make([]Entry, 0, count)
	next := 1
	for i := 0; i < count; i++ {
		n := st.Step()
		out = append(out, Entry{Source: i, First: next, Count: n})
		next += n
	}
	return out
}

// Total is the number of output frames a plan writes.
func Total(plan []Entry) int {
	n := 0
	for _, e := range plan {
		n += e.Count
	}
	return n
}
