// Package macro records and replays keyboard macros.
//
// Emacs keeps one "last keyboard macro": C-x ( starts recording, C-x )
// stops, and C-x e replays it. Keys are recorded before dispatch, so the
// key that stops recording is trimmed by the caller through Stop(n).
package macro

import (
	"errors"

	"github.com/dshills/qemacs/internal/input/key"
)

// Errors returned by the recorder.
var (
	ErrRecording    = errors.New("already defining keyboard macro")
	ErrNotRecording = errors.New("not defining keyboard macro")
	ErrEmpty        = errors.New("no keyboard macro defined")
	ErrPlaying      = errors.New("keyboard macro is executing")
)

// Recorder holds the macro being defined and the last completed one.
type Recorder struct {
	recording bool
	playing   bool
	events    key.Sequence
	last      key.Sequence
}

// NewRecorder creates an idle recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Start begins a new definition.
func (r *Recorder) Start() error {
	if r.recording {
		return ErrRecording
	}
	if r.playing {
		return ErrPlaying
	}
	r.recording = true
	r.events = nil
	return nil
}

// Stop ends the definition, dropping the trailing n events (the keys that
// invoked Stop). An empty definition leaves the previous macro in place.
func (r *Recorder) Stop(trim int) (key.Sequence, error) {
	if !r.recording {
		return nil, ErrNotRecording
	}
	r.recording = false
	n := max(len(r.events)-trim, 0)
	if n > 0 {
		r.last = append(key.Sequence(nil), r.events[:n]...)
	}
	r.events = nil
	return r.last, nil
}

// Cancel abandons the definition.
func (r *Recorder) Cancel() {
	r.recording = false
	r.events = nil
}

// Recording reports whether a definition is in progress.
func (r *Recorder) Recording() bool { return r.recording }

// Playing reports whether Play is running.
func (r *Recorder) Playing() bool { return r.playing }

// Record appends e while defining. Replayed keys are not recorded.
func (r *Recorder) Record(e key.Event) {
	if r.recording && !r.playing {
		r.events = append(r.events, e)
	}
}

// Last returns a copy of the last macro.
func (r *Recorder) Last() key.Sequence {
	return append(key.Sequence(nil), r.last...)
}

// SetLast replaces the last macro.
func (r *Recorder) SetLast(seq key.Sequence) {
	r.last = append(key.Sequence(nil), seq...)
}

// Play feeds the last macro to handle count times. handle returns false to
// stop playback early, as when a command fails.
func (r *Recorder) Play(count int, handle func(key.Event) bool) error {
	if len(r.last) == 0 {
		return ErrEmpty
	}
	if r.playing {
		return ErrPlaying
	}
	if r.recording {
		return ErrRecording
	}
	count = max(count, 1)
	r.playing = true
	defer func() { r.playing = false }()

	events := r.Last()
	for i := 0; i < count; i++ {
		for _, e := range events {
			if !handle(e) {
				return nil
			}
		}
	}
	return nil
}
