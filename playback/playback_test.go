package playback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
	"libdb.so/rgbwave/playback/playbacktest"
	"libdb.so/rgbwave/sequence"
)

func newPlayer(table *sequence.Table) (*playback.Player, *playbacktest.Recorder) {
	rec := playbacktest.NewRecorder()
	return playback.NewPlayer(table, rec, rec, playback.Hooks{}), rec
}

func TestStepInterval(t *testing.T) {
	tests := []struct {
		fade, delta, want int
	}{
		{fade: 500, delta: 255, want: 2},
		{fade: 500, delta: -255, want: 2},
		{fade: 7000, delta: -255, want: 28},
		{fade: 7000, delta: 155, want: 46},
		{fade: 2500, delta: 64, want: 40},
		{fade: 500, delta: 1, want: 501},
		{fade: 0, delta: 12, want: 1},
		{fade: 1000, delta: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, playback.StepInterval(tt.fade, tt.delta), "fade=%d delta=%d", tt.fade, tt.delta)
		assert.Equal(t, tt.want, playback.StepInterval(tt.fade, tt.delta), "repeat fade=%d delta=%d", tt.fade, tt.delta)
	}
}

func TestPlayKeyframeBlink(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	got := p.PlayKeyframe(led.Black, sequence.Keyframe{Fade: 0, Hold: 500, Color: led.Black})
	assert.Equal(t, led.Black, got)

	assert.Equal(t, []playbacktest.Frame{{Tick: 0, Color: led.Black}}, rec.Frames())
	assert.Equal(t, []int{500}, rec.Waits())
	assert.Len(t, rec.Calls(), 3)
}

func TestPlayKeyframeBlinkToColor(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	target := led.RGB(96, 0, 0)
	got := p.PlayKeyframe(led.RGB(64, 0, 0), sequence.Keyframe{Fade: 0, Hold: 1000, Color: target})
	assert.Equal(t, target, got)
	assert.Equal(t, []playbacktest.Frame{{Tick: 0, Color: target}}, rec.Frames())
	assert.Equal(t, 1000, rec.Ticks())
}

func TestPlayKeyframeFadeUp(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	got := p.PlayKeyframe(led.Black, sequence.Keyframe{Fade: 500, Hold: 500, Color: led.RGB(255, 0, 0)})
	assert.Equal(t, led.RGB(255, 0, 0), got)

	frames := rec.Frames()
	require.Len(t, frames, 501)

	for i, f := range frames[:500] {
		tick := i + 1
		assert.Equal(t, i, f.Tick)
		assert.Equal(t, uint8(tick/2), f.Color.R(), "tick %d", tick)
		assert.Zero(t, f.Color.G(), "tick %d", tick)
		assert.Zero(t, f.Color.B(), "tick %d", tick)
	}

	last := frames[500]
	assert.Equal(t, 500, last.Tick)
	assert.Equal(t, led.RGB(255, 0, 0), last.Color)
	assert.Equal(t, 1000, rec.Ticks())
	assert.Equal(t, 500, rec.Waits()[len(rec.Waits())-1])
}

func TestPlayKeyframeFadeDown(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	p.PlayKeyframe(led.RGB(255, 0, 0), sequence.Keyframe{Fade: 7000, Hold: 0, Color: led.Black})

	frames := rec.Frames()
	require.Len(t, frames, 7001)

	// 7000/255 truncates to 27, so red drops once every 28 ticks.
	assert.Equal(t, uint8(255), frames[26].Color.R())
	assert.Equal(t, uint8(254), frames[27].Color.R())
	assert.Equal(t, uint8(5), frames[6999].Color.R())
	assert.Equal(t, led.Black, frames[7000].Color)
	assert.Equal(t, 7000, rec.Ticks())
}

func TestPlayKeyframeUnchangedChannels(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	prev := led.RGB(155, 255, 0)
	p.PlayKeyframe(prev, sequence.Keyframe{Fade: 2500, Hold: 2500, Color: led.RGB(155, 0, 255)})

	for _, f := range rec.Frames() {
		assert.Equal(t, uint8(155), f.Color.R())
	}
}

func TestPlayKeyframeSlowChannel(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	// The interval is longer than the fade, so the ramp never steps and the
	// final update lands on the target.
	p.PlayKeyframe(led.Black, sequence.Keyframe{Fade: 500, Hold: 0, Color: led.RGB(0, 0, 1)})

	frames := rec.Frames()
	require.Len(t, frames, 501)
	for _, f := range frames[:500] {
		assert.Equal(t, led.Black, f.Color)
	}
	assert.Equal(t, led.RGB(0, 0, 1), frames[500].Color)
}

func TestPlayKeyframeCallOrder(t *testing.T) {
	p, rec := newPlayer(sequence.Reference)

	p.PlayKeyframe(led.Black, sequence.Keyframe{Fade: 2, Color: led.RGB(4, 5, 6)})

	calls := rec.Calls()
	require.Len(t, calls, 9)
	for i, c := range calls {
		assert.Equal(t, led.Channels[i%3], c.Channel)
	}
	assert.Equal(t, []playbacktest.Call{
		{Channel: led.Red, Value: 4},
		{Channel: led.Green, Value: 5},
		{Channel: led.Blue, Value: 6},
	}, calls[6:])
}

func TestRunPassReference(t *testing.T) {
	table := sequence.Reference
	p, rec := newPlayer(table)

	var (
		indexes   []int
		passTicks int
	)
	p = playback.NewPlayer(table, rec, rec, playback.Hooks{
		OnKeyframe: func(index int, kf sequence.Keyframe) {
			indexes = append(indexes, index)
			assert.Equal(t, table.Get(index), kf)
		},
		OnPass: func(ticks int) { passTicks = ticks },
	})

	require.NoError(t, p.RunPass(context.Background()))

	assert.Len(t, indexes, table.Len())
	assert.Equal(t, table.TotalTicks(), passTicks)
	assert.Equal(t, table.TotalTicks(), rec.Ticks())
	assert.Len(t, rec.Frames(), table.FadeTicks()+table.Len())
	assert.Equal(t, playback.Cursor{}, p.Cursor())

	// The engine never moves a channel by more than one unit per tick during a
	// fade, and never past its target.
	frames := rec.Frames()
	var (
		at   int
		prev led.RGBColor
	)
	for i := 0; i < table.Len(); i++ {
		kf := table.Get(i)
		for tick := 0; tick < kf.Fade; tick++ {
			c := frames[at].Color
			for _, ch := range led.Channels {
				from, to, v := int(prev.Get(ch)), int(kf.Color.Get(ch)), int(c.Get(ch))
				lo, hi := min(from, to), max(from, to)
				assert.True(t, v >= lo && v <= hi, "keyframe %d tick %d channel %s: %d outside [%d, %d]", i, tick, ch, v, lo, hi)
			}
			at++
		}
		assert.Equal(t, kf.Color, frames[at].Color, "keyframe %d final", i)
		prev = kf.Color
		at++
	}
	assert.Equal(t, len(frames), at)
}

func TestRunPassRestartsFromBlack(t *testing.T) {
	table := sequence.MustNew(
		sequence.Keyframe{Fade: 4, Hold: 1, Color: led.RGB(4, 4, 4)},
		sequence.Keyframe{},
	)
	p, rec := newPlayer(table)

	require.NoError(t, p.RunPass(context.Background()))
	first := rec.Frames()
	rec.Reset()

	require.NoError(t, p.RunPass(context.Background()))
	assert.Equal(t, first, rec.Frames())
	require.Len(t, first, 5)
	assert.Equal(t, led.Black, first[0].Color)
	assert.Equal(t, led.RGB(1, 1, 1), first[1].Color)
}

func TestRunPassSentinelOnly(t *testing.T) {
	table := sequence.MustNew(
		sequence.Keyframe{Hold: 3, Color: led.RGB(1, 2, 3)},
		sequence.Keyframe{Color: led.RGB(200, 200, 200)},
	)
	p, rec := newPlayer(table)

	require.NoError(t, p.RunPass(context.Background()))

	// The sentinel's color is never output.
	assert.Equal(t, []playbacktest.Frame{{Tick: 0, Color: led.RGB(1, 2, 3)}}, rec.Frames())
	assert.Equal(t, 3, rec.Ticks())
}

func TestRunPassCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := playbacktest.NewRecorder()
	var played []int
	p := playback.NewPlayer(sequence.Reference, rec, rec, playback.Hooks{
		OnKeyframe: func(index int, _ sequence.Keyframe) {
			played = append(played, index)
			if index == 2 {
				cancel()
			}
		},
		OnPass: func(int) { t.Error("pass should not complete") },
	})

	err := p.RunPass(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2}, played)
	assert.Equal(t, sequence.Reference.Get(2).Color, rec.Color())
	assert.Equal(t, playback.Cursor{}, p.Cursor())
}

type channelSink struct {
	values [3]uint8
	calls  int
}

func (s *channelSink) SetChannelIntensity(ch led.Channel, v uint8) {
	s.values[ch] = v
	s.calls++
}

type tickCounter int

func (c *tickCounter) WaitTicks(n int) { *c += tickCounter(n) }

func TestPlayerWithoutPresenter(t *testing.T) {
	sink := &channelSink{}
	var ticks tickCounter

	p := playback.NewPlayer(sequence.Reference, sink, &ticks, playback.Hooks{})
	got := p.PlayKeyframe(led.Black, sequence.Keyframe{Fade: 10, Hold: 5, Color: led.RGB(10, 20, 30)})

	assert.Equal(t, led.RGB(10, 20, 30), got)
	assert.Equal(t, [3]uint8{10, 20, 30}, sink.values)
	assert.Equal(t, 33, sink.calls)
	assert.Equal(t, tickCounter(15), ticks)
}
