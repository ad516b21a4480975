package playback

// StepInterval returns the number of ticks between two 1-unit adjustments of
// a channel that has to move by delta within fade ticks. It is zero when the
// channel does not move.
//
// The quotient is truncated toward zero and then biased by one, so a channel
// always takes fewer than |delta| steps within the fade and never overshoots
// its target.
func StepInterval(fade, delta int) int {
	if delta == 0 {
		return 0
	}
	interval := fade / delta
	if interval < 0 {
		interval = -interval
	}
	return interval + 1
}

// ramp is the interpolation state of one channel during one fade.
type ramp struct {
	value    int
	interval int
	next     int
	dir      int
}

func newRamp(from, to uint8, fade int) ramp {
	delta := int(to) - int(from)
	r := ramp{
		value:    int(from),
		interval: StepInterval(fade, delta),
		dir:      1,
	}
	if delta < 0 {
		r.dir = -1
	}
	r.next = r.interval
	return r
}

// step advances the ramp to the given tick and returns the channel value.
func (r *ramp) step(tick int) uint8 {
	if r.interval != 0 && tick == r.next {
		r.value += r.dir
		r.next += r.interval
	}
	return uint8(r.value)
}
