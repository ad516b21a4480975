// Package sequence holds the light table: an ordered list of keyframes that
// ends in a sentinel.
//
// A Table is validated once when it is built and is never mutated afterwards.
package sequence

import (
	"errors"
	"fmt"
	"time"

	"libdb.so/rgbwave/led"
)

// Keyframe is one entry of a light table.
type Keyframe struct {
	// Fade is the number of ticks spent moving from the previous color to
	// Color. Zero jumps straight to Color.
	Fade int
	// Hold is the number of ticks Color is kept after the fade.
	Hold int
	// Color is the target intensity of each channel.
	Color led.RGBColor
}

// Ticks returns the number of ticks the keyframe occupies.
func (k Keyframe) Ticks() int { return k.Fade + k.Hold }

// String formats the keyframe for logging.
func (k Keyframe) String() string {
	return fmt.Sprintf("fade=%d hold=%d color=%s", k.Fade, k.Hold, k.Color)
}

// IsSentinel reports whether k marks the end of a table.
func IsSentinel(k Keyframe) bool {
	return k.Fade == 0 && k.Hold == 0
}

var (
	// ErrEmpty is returned for tables without any playable keyframe.
	ErrEmpty = errors.New("table has no keyframes before the sentinel")
	// ErrNoSentinel is returned when the last keyframe is not a sentinel.
	ErrNoSentinel = errors.New("table does not end with a sentinel")
	// ErrEarlySentinel is returned when a keyframe other than the last one has
	// zero fade and zero hold.
	ErrEarlySentinel = errors.New("sentinel before the end of the table")
	// ErrNegativeDuration is returned for keyframes with a negative fade or
	// hold.
	ErrNegativeDuration = errors.New("negative duration")
)

// ValidationError reports the keyframe that made a table invalid.
type ValidationError struct {
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("keyframe %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Table is a validated, read-only light table.
type Table struct {
	frames []Keyframe
}

// New validates frames and builds a table from them. The last frame must be
// the only sentinel.
func New(frames ...Keyframe) (*Table, error) {
	if len(frames) == 0 {
		return nil, &ValidationError{Index: 0, Err: ErrNoSentinel}
	}

	last := len(frames) - 1
	for i, f := range frames {
		if f.Fade < 0 || f.Hold < 0 {
			return nil, &ValidationError{Index: i, Err: ErrNegativeDuration}
		}
		if IsSentinel(f) && i != last {
			return nil, &ValidationError{Index: i, Err: ErrEarlySentinel}
		}
	}

	if !IsSentinel(frames[last]) {
		return nil, &ValidationError{Index: last, Err: ErrNoSentinel}
	}
	if last == 0 {
		return nil, &ValidationError{Index: 0, Err: ErrEmpty}
	}

	t := &Table{frames: make([]Keyframe, len(frames))}
	copy(t.frames, frames)
	return t, nil
}

// MustNew is like New but panics on an invalid table. It is meant for tables
// compiled into the program.
func MustNew(frames ...Keyframe) *Table {
	t, err := New(frames...)
	if err != nil {
		panic("sequence: " + err.Error())
	}
	return t
}

// Len returns the number of keyframes before the sentinel.
func (t *Table) Len() int { return len(t.frames) - 1 }

// Get returns the keyframe at index i. Index Len() is the sentinel; anything
// past it panics.
func (t *Table) Get(i int) Keyframe {
	if i < 0 || i >= len(t.frames) {
		panic(fmt.Sprintf("sequence: index %d out of range [0, %d]", i, t.Len()))
	}
	return t.frames[i]
}

// Frames returns a copy of the playable keyframes, without the sentinel.
func (t *Table) Frames() []Keyframe {
	frames := make([]Keyframe, t.Len())
	copy(frames, t.frames)
	return frames
}

// FadeTicks returns the sum of all fade durations.
func (t *Table) FadeTicks() int {
	var n int
	for _, f := range t.frames {
		n += f.Fade
	}
	return n
}

// HoldTicks returns the sum of all hold durations.
func (t *Table) HoldTicks() int {
	var n int
	for _, f := range t.frames {
		n += f.Hold
	}
	return n
}

// TotalTicks returns the number of ticks one pass over the table takes.
func (t *Table) TotalTicks() int { return t.FadeTicks() + t.HoldTicks() }

// Duration returns how long one pass takes with the given tick length.
func (t *Table) Duration(tick time.Duration) time.Duration {
	return time.Duration(t.TotalTicks()) * tick
}
