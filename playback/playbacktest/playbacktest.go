// Package playbacktest provides a recording sink and delayer for testing code
// that drives a playback.Player.
package playbacktest

import (
	"sync"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
)

// Frame is one presented update.
type Frame struct {
	// Tick is the number of ticks waited before the frame was presented.
	Tick  int
	Color led.RGBColor
}

// Call is one SetChannelIntensity call.
type Call struct {
	Channel led.Channel
	Value   uint8
}

// Recorder records channel calls, presented frames and waited ticks. It never
// sleeps.
type Recorder struct {
	mu     sync.Mutex
	color  led.RGBColor
	calls  []Call
	frames []Frame
	waits  []int
	ticks  int
}

var (
	_ playback.Sink      = (*Recorder)(nil)
	_ playback.Presenter = (*Recorder)(nil)
	_ playback.Delayer   = (*Recorder)(nil)
)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetChannelIntensity(ch led.Channel, v uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.color[ch] = v
	r.calls = append(r.calls, Call{Channel: ch, Value: v})
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, Frame{Tick: r.ticks, Color: r.color})
}

func (r *Recorder) WaitTicks(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.waits = append(r.waits, n)
	r.ticks += n
}

// Color returns the last color set on the recorder.
func (r *Recorder) Color() led.RGBColor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.color
}

// Calls returns a copy of all channel calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Frames returns a copy of all presented frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Waits returns the argument of every WaitTicks call.
func (r *Recorder) Waits() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.waits...)
}

// Ticks returns the total number of ticks waited.
func (r *Recorder) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.color = led.RGBColor{}
	r.calls = nil
	r.frames = nil
	r.waits = nil
	r.ticks = 0
}
