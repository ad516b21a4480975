// Package clock implements the tick delay used by the playback engine.
package clock

import (
	"sync/atomic"
	"time"

	"libdb.so/rgbwave/playback"
)

const (
	// MeasuredTick is the tick length measured on the reference ATtiny25
	// hardware. It is the default.
	MeasuredTick = 550 * time.Microsecond
	// NominalTick is the tick length the reference delay loop was calculated
	// for. The hardware runs slower than this; the light table timings were
	// written against it.
	NominalTick = 400 * time.Microsecond
)

// MaxLag is how far a Sleeper may fall behind its schedule before it gives up
// catching up and restarts from the current time.
const MaxLag = 50 * time.Millisecond

// Sleeper waits in real time. Deadlines accumulate across calls so that the
// coarse granularity of the OS scheduler does not add up over a fade.
type Sleeper struct {
	Tick time.Duration

	now   func() time.Time
	sleep func(time.Duration)
	next  time.Time
}

var _ playback.Delayer = (*Sleeper)(nil)

// NewSleeper creates a sleeper with the given tick length.
func NewSleeper(tick time.Duration) *Sleeper {
	return &Sleeper{
		Tick:  tick,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// WaitTicks blocks until n more ticks have passed on the schedule.
func (s *Sleeper) WaitTicks(n int) {
	if n <= 0 {
		return
	}

	now := s.now()
	if s.next.IsZero() || now.Sub(s.next) > MaxLag {
		s.next = now
	}

	s.next = s.next.Add(time.Duration(n) * s.Tick)
	if d := s.next.Sub(now); d > 0 {
		s.sleep(d)
	}
}

// Virtual counts ticks without waiting. It is safe to read from other
// goroutines while a player runs.
type Virtual struct {
	Tick  time.Duration
	ticks atomic.Int64
}

var _ playback.Delayer = (*Virtual)(nil)

// NewVirtual creates a virtual clock with the given tick length.
func NewVirtual(tick time.Duration) *Virtual {
	return &Virtual{Tick: tick}
}

// WaitTicks adds n ticks to the counter.
func (v *Virtual) WaitTicks(n int) {
	if n > 0 {
		v.ticks.Add(int64(n))
	}
}

// Ticks returns the number of ticks waited so far.
func (v *Virtual) Ticks() int64 { return v.ticks.Load() }

// Elapsed returns the simulated time waited so far.
func (v *Virtual) Elapsed() time.Duration {
	return time.Duration(v.ticks.Load()) * v.Tick
}
