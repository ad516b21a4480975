package device

import (
	"log/slog"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"libdb.so/rgbwave/led"
)

// DefaultPWMFrequency is the PWM rate of the reference hardware: an 8 MHz
// clock through a 256 prescaler and an 8-bit counter.
const DefaultPWMFrequency = 122 * physic.Hertz

// PWM drives a tri-colour LED from three PWM capable GPIO pins.
type PWM struct {
	pins   [3]gpio.PinIO
	freq   physic.Frequency
	logger *slog.Logger

	levels   [3]uint8
	known    [3]bool
	failures int
}

// NewPWM creates a PWM device. pins is indexed by led.Channel.
func NewPWM(pins [3]gpio.PinIO, freq physic.Frequency, logger *slog.Logger) *PWM {
	if freq == 0 {
		freq = DefaultPWMFrequency
	}
	return &PWM{
		pins:   pins,
		freq:   freq,
		logger: logger,
	}
}

// Duty converts an intensity to a PWM duty cycle.
func Duty(v uint8) gpio.Duty {
	return gpio.Duty(int64(v) * int64(gpio.DutyMax) / 255)
}

// Setup starts PWM on every pin with the LED off.
func (p *PWM) Setup() error {
	for _, ch := range led.Channels {
		pin := p.pins[ch]
		if err := pin.PWM(0, p.freq); err != nil {
			return errors.Wrapf(err, "failed to start PWM on %s pin %s", ch, pin)
		}
		p.levels[ch] = 0
		p.known[ch] = true
	}

	p.logger.Info(
		"PWM started",
		"red", p.pins[led.Red],
		"green", p.pins[led.Green],
		"blue", p.pins[led.Blue],
		"frequency", p.freq)
	return nil
}

// SetChannelIntensity updates the duty cycle of one pin if it changed.
func (p *PWM) SetChannelIntensity(ch led.Channel, v uint8) {
	if p.known[ch] && p.levels[ch] == v {
		return
	}

	if err := p.pins[ch].PWM(Duty(v), p.freq); err != nil {
		p.known[ch] = false
		p.failures++
		p.logger.Warn(
			"failed to set duty cycle",
			"channel", ch,
			"pin", p.pins[ch],
			"failures", p.failures,
			"error", err)
		return
	}

	p.levels[ch] = v
	p.known[ch] = true
}

// Failures returns the number of duty cycle updates that failed.
func (p *PWM) Failures() int { return p.failures }

// Teardown stops PWM and leaves every pin as an input with its pull-up
// enabled, which draws the least current.
func (p *PWM) Teardown() error {
	var first error
	for _, ch := range led.Channels {
		pin := p.pins[ch]
		p.known[ch] = false

		if err := pin.PWM(0, p.freq); err != nil && first == nil {
			first = errors.Wrapf(err, "failed to turn off %s pin %s", ch, pin)
		}
		if err := pin.Halt(); err != nil && first == nil {
			first = errors.Wrapf(err, "failed to halt %s pin %s", ch, pin)
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil && first == nil {
			first = errors.Wrapf(err, "failed to release %s pin %s", ch, pin)
		}
	}
	return first
}
