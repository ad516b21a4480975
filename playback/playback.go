// Package playback plays a light table on a tri-colour LED.
//
// The engine is fully sequential: every update of the output is followed by
// a blocking wait of one tick, and a table pass ends when the sentinel is
// reached. It uses integer arithmetic only so it runs unchanged on
// microcontrollers.
package playback

import (
	"context"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/sequence"
)

// Sink receives channel intensities. It must accept one full update per tick.
type Sink interface {
	// SetChannelIntensity sets the output level of a single channel.
	SetChannelIntensity(ch led.Channel, v uint8)
}

// Presenter is optionally implemented by sinks that output whole frames. The
// player calls Present once after all three channels of an update are set.
type Presenter interface {
	Present()
}

// Delayer blocks for a number of fixed-length ticks.
type Delayer interface {
	WaitTicks(n int)
}

// Hooks are optional callbacks into the caller. Nil hooks are skipped.
type Hooks struct {
	// OnKeyframe is called before keyframe index starts playing.
	OnKeyframe func(index int, kf sequence.Keyframe)
	// OnPass is called when the sentinel is reached, with the number of ticks
	// the pass waited for.
	OnPass func(ticks int)
}

// Cursor is the position of a player within its table.
type Cursor struct {
	// Index is the keyframe that plays next.
	Index int
	// Previous is the color reached by the last keyframe, black at the start of
	// a pass.
	Previous led.RGBColor
}

// Player plays a table on a sink.
type Player struct {
	table *sequence.Table
	sink  Sink
	delay Delayer
	hooks Hooks

	cursor Cursor
	ticks  int
}

// NewPlayer creates a player. The table, sink and delayer are owned by the
// player for the duration of every call.
func NewPlayer(table *sequence.Table, sink Sink, delay Delayer, hooks Hooks) *Player {
	return &Player{
		table: table,
		sink:  sink,
		delay: delay,
		hooks: hooks,
	}
}

// Cursor returns the current cursor.
func (p *Player) Cursor() Cursor { return p.cursor }

// Table returns the table being played.
func (p *Player) Table() *sequence.Table { return p.table }

// RunPass plays every keyframe of the table from index 0 until the sentinel,
// then resets the cursor. The context is checked before each keyframe; a
// keyframe that has started always plays to the end.
func (p *Player) RunPass(ctx context.Context) error {
	p.cursor = Cursor{}
	p.ticks = 0

	for {
		kf := p.table.Get(p.cursor.Index)
		if sequence.IsSentinel(kf) {
			break
		}

		if err := ctx.Err(); err != nil {
			p.cursor = Cursor{}
			return err
		}

		if p.hooks.OnKeyframe != nil {
			p.hooks.OnKeyframe(p.cursor.Index, kf)
		}

		p.cursor.Previous = p.PlayKeyframe(p.cursor.Previous, kf)
		p.cursor.Index++
	}

	if p.hooks.OnPass != nil {
		p.hooks.OnPass(p.ticks)
	}

	p.cursor = Cursor{}
	return nil
}

// PlayKeyframe fades from prev to the keyframe color over kf.Fade ticks, holds
// it for kf.Hold ticks and returns the color it ended on.
func (p *Player) PlayKeyframe(prev led.RGBColor, kf sequence.Keyframe) led.RGBColor {
	if kf.Fade > 0 {
		var ramps [3]ramp
		for _, ch := range led.Channels {
			ramps[ch] = newRamp(prev.Get(ch), kf.Color.Get(ch), kf.Fade)
		}

		for tick := 1; tick <= kf.Fade; tick++ {
			var frame led.RGBColor
			for _, ch := range led.Channels {
				frame[ch] = ramps[ch].step(tick)
			}
			p.emit(frame)
			p.wait(1)
		}
	}

	// Land on the exact target: the ramps stop short of it when the fade is
	// not a multiple of the step interval.
	p.emit(kf.Color)

	if kf.Hold > 0 {
		p.wait(kf.Hold)
	}

	return kf.Color
}

func (p *Player) emit(c led.RGBColor) {
	for _, ch := range led.Channels {
		p.sink.SetChannelIntensity(ch, c.Get(ch))
	}
	if presenter, ok := p.sink.(Presenter); ok {
		presenter.Present()
	}
}

func (p *Player) wait(n int) {
	p.delay.WaitTicks(n)
	p.ticks += n
}
