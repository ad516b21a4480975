package main

import (
	"fmt"
	"machine"

	"libdb.so/rgbwave/led"
	"libdb.so/rgbwave/ledserial"
	"libdb.so/rgbwave/xiao"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	rgb    *xiao.RGBLED

	numLEDs uint16
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, rgb *xiao.RGBLED) *Device {
	return &Device{
		serial: WrapSerial(serial),
		rgb:    rgb,
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	turnOnStatusLED(0, 16, 0)

	p, err := ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs: d.numLEDs,
	})

	turnOffStatusLED()
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = p.NumLEDs
		d.rgb.SetColor(led.Black)
		d.log(fmt.Sprintf("initialized with %d LEDs, driving the first", p.NumLEDs))

	case ledserial.ClearPacket:
		d.rgb.SetColor(led.Black)

	case ledserial.SetPacket:
		if d.numLEDs == 0 {
			return fmt.Errorf("set packet before initialize")
		}
		d.rgb.SetColor(p.Color(0))

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}
