// Package xiao drives the on-board RGB LED of the Seeed XIAO RP2040.
package xiao

import (
	"machine"
	"time"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/playback"
)

// https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/
const (
	RedPin   = machine.GPIO17
	GreenPin = machine.GPIO16
	BluePin  = machine.GPIO25
)

// PWMFrequency matches the PWM rate of the ATtiny25 board the light table was
// written for.
const PWMFrequency = 122

// pwmGroup is the part of a machine PWM slice that RGBLED uses.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	SetInverting(channel uint8, inverting bool)
	Top() uint32
}

type pwmOutput struct {
	pin     machine.Pin
	group   pwmGroup
	channel uint8
}

// RGBLED is a playback.Sink for the on-board LED. The LED is common anode, so
// channels are inverted by the PWM hardware and intensities are plain
// brightness values.
type RGBLED struct {
	outputs [3]pwmOutput
}

var _ playback.Sink = (*RGBLED)(nil)

// NewRGBLED configures the PWM slices behind the LED pins and turns the LED
// off.
func NewRGBLED() (*RGBLED, error) {
	l := &RGBLED{
		outputs: [3]pwmOutput{
			led.Red:   {pin: RedPin, group: machine.PWM0},   // slice 0 B
			led.Green: {pin: GreenPin, group: machine.PWM0}, // slice 0 A
			led.Blue:  {pin: BluePin, group: machine.PWM4},  // slice 4 B
		},
	}

	config := machine.PWMConfig{Period: uint64(time.Second) / PWMFrequency}

	for i := range l.outputs {
		o := &l.outputs[i]

		if err := o.group.Configure(config); err != nil {
			return nil, err
		}

		ch, err := o.group.Channel(o.pin)
		if err != nil {
			return nil, err
		}

		o.channel = ch
		o.group.SetInverting(ch, true)
		o.group.Set(ch, 0)
	}

	return l, nil
}

// SetChannelIntensity implements playback.Sink.
func (l *RGBLED) SetChannelIntensity(ch led.Channel, v uint8) {
	o := &l.outputs[ch]
	o.group.Set(o.channel, uint32(v)*o.group.Top()/255)
}

// SetColor sets all three channels at once.
func (l *RGBLED) SetColor(c led.RGBColor) {
	for _, ch := range led.Channels {
		l.SetChannelIntensity(ch, c.Get(ch))
	}
}

// Off turns the LED off and leaves the pins as pulled-up inputs, which keeps
// the common anode LED dark without PWM running.
func (l *RGBLED) Off() {
	for _, o := range l.outputs {
		o.group.Set(o.channel, 0)
		o.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
}
