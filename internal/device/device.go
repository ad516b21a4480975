// Package device implements the outputs a light table can be played on.
//
// Every device is a playback.Sink with Setup and Teardown methods. Output
// failures are logged and counted; they never reach the playback engine.
package device

import (
	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
)

// Invert wraps a sink so that every intensity is mirrored around 255, which
// is what a common anode LED needs. Present calls are forwarded.
func Invert(sink playback.Sink) playback.Sink {
	return invertedSink{sink}
}

type invertedSink struct {
	playback.Sink
}

var _ playback.Presenter = invertedSink{}

func (s invertedSink) SetChannelIntensity(ch led.Channel, v uint8) {
	s.Sink.SetChannelIntensity(ch, 255-v)
}

func (s invertedSink) Present() {
	if p, ok := s.Sink.(playback.Presenter); ok {
		p.Present()
	}
}

// frame tracks the color being built from channel updates and the last color
// that was actually output.
type frame struct {
	color led.RGBColor
	sent  led.RGBColor
	dirty bool
}

func (f *frame) set(ch led.Channel, v uint8) {
	f.color[ch] = v
}

// pending reports whether color differs from what was last output.
func (f *frame) pending() bool {
	return f.dirty || f.color != f.sent
}

func (f *frame) markSent() {
	f.sent = f.color
	f.dirty = false
}

// invalidate forces the next frame out even if it is unchanged.
func (f *frame) invalidate() {
	f.dirty = true
}
